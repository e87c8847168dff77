package vector

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/stylemate/stylekit/core"
)

// PackEmbedding 把向量编码为小端 float32 字节串，用于 SQLite BLOB / Redis 存储。
// 以 float32 精度入库可把体积减半，打分阶段仍以 float64 计算。
func PackEmbedding(v []float64) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(f)))
	}
	return buf
}

// UnpackEmbedding 把小端 float32 字节串还原为向量。
// 字节长度不是 4 的倍数说明存储内容损坏，返回 INVALID_INPUT 错误。
func UnpackEmbedding(b []byte) ([]float64, error) {
	if len(b)%4 != 0 {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
			fmt.Sprintf("vector: embedding blob length %d is not a multiple of 4", len(b)))
	}
	v := make([]float64, len(b)/4)
	for i := range v {
		v[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return v, nil
}
