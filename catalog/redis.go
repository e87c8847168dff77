package catalog

import (
	"context"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/vector"
)

const (
	// DefaultProductsKey 是商品 Hash 的默认键：field=行号，value=商品 JSON。
	DefaultProductsKey = "catalog:products"
	// DefaultVectorsKey 是向量 Hash 的默认键：field=行号，value=float32 小端 BLOB。
	DefaultVectorsKey = "catalog:embeddings"
)

// RedisLoader 从两个 Hash 一次拉取全量目录与向量。
//
// Hash field 必须是 0..N-1 的稠密行号；缺行、越界或两个 Hash 行数不一致
// 都视为数据源损坏，快照构造失败。
type RedisLoader struct {
	store       core.KeyValueStore
	productsKey string
	vectorsKey  string
}

func NewRedisLoader(store core.KeyValueStore, productsKey, vectorsKey string) *RedisLoader {
	if productsKey == "" {
		productsKey = DefaultProductsKey
	}
	if vectorsKey == "" {
		vectorsKey = DefaultVectorsKey
	}
	return &RedisLoader{store: store, productsKey: productsKey, vectorsKey: vectorsKey}
}

func (l *RedisLoader) Name() string { return "catalog.redis" }

func (l *RedisLoader) Load(ctx context.Context) (*vector.Snapshot, error) {
	rawProducts, err := l.store.HGetAll(ctx, l.productsKey)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog: hgetall %s", l.productsKey), err)
	}
	rawVectors, err := l.store.HGetAll(ctx, l.vectorsKey)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog: hgetall %s", l.vectorsKey), err)
	}

	products := make([]*core.Product, len(rawProducts))
	for field, raw := range rawProducts {
		idx, err := fieldIndex(field, len(products))
		if err != nil {
			return nil, err
		}
		var r fileProduct
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog: decode product field %s", field), err)
		}
		products[idx] = buildProduct(idx, r)
	}
	for i, p := range products {
		if p == nil {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
				fmt.Sprintf("catalog: product hash missing row %d", i))
		}
	}

	vectors := make([][]float64, len(rawVectors))
	for field, raw := range rawVectors {
		idx, err := fieldIndex(field, len(vectors))
		if err != nil {
			return nil, err
		}
		v, err := vector.UnpackEmbedding(raw)
		if err != nil {
			return nil, err
		}
		vectors[idx] = v
	}
	for i, v := range vectors {
		if v == nil {
			return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
				fmt.Sprintf("catalog: embedding hash missing row %d", i))
		}
	}

	return vector.NewSnapshot(products, vectors)
}

func fieldIndex(field string, n int) (int, error) {
	idx, err := strconv.Atoi(field)
	if err != nil || idx < 0 || idx >= n {
		return 0, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: hash field %q is not a dense row index", field))
	}
	return idx, nil
}

var _ vector.Loader = (*RedisLoader)(nil)
