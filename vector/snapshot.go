// Package vector 提供位置索引的内存向量快照与混合打分。
//
// 快照在加载时完成三件事：目录/向量长度校验（不一致即整体不可用）、
// 行向量 L2 归一化（零范数以 epsilon 兜底）、目录均价预计算。
// 加载完成后快照不可变，支持无锁并发读；整体替换经由 Handle 原子完成。
package vector

import (
	"fmt"
	"math"

	"github.com/stylemate/stylekit/core"
)

// normEpsilon 是零范数行的兜底除数，避免除零。
const normEpsilon = 1e-8

// Snapshot 是不可变的向量快照：归一化矩阵 (N, D) + 价格数组 + 商品表。
type Snapshot struct {
	products  []*core.Product
	vectors   [][]float64
	prices    []float64
	dim       int
	meanPrice float64
}

// NewSnapshot 构建快照。
//
// products 与 vectors 必须等长且按 Position 同序；任何一行维度不一致、
// 或长度不匹配，都返回 UNAVAILABLE 错误（数据源配置问题，fail-closed）。
// 输入向量不会被修改，归一化发生在内部副本上。
func NewSnapshot(products []*core.Product, vectors [][]float64) (*Snapshot, error) {
	if len(products) != len(vectors) {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			fmt.Sprintf("vector: catalog/embedding length mismatch: products=%d embeddings=%d", len(products), len(vectors)))
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}

	normalized := make([][]float64, len(vectors))
	for i, row := range vectors {
		if len(row) != dim {
			return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
				fmt.Sprintf("vector: row %d has dim %d, want %d", i, len(row), dim))
		}
		normalized[i] = Normalize(row)
	}

	prices := make([]float64, len(products))
	total := 0.0
	for i, p := range products {
		prices[i] = float64(p.Price)
		total += prices[i]
	}
	mean := 0.0
	if len(prices) > 0 {
		mean = total / float64(len(prices))
	}

	return &Snapshot{
		products:  products,
		vectors:   normalized,
		prices:    prices,
		dim:       dim,
		meanPrice: mean,
	}, nil
}

// Normalize 返回 v 的单位向量副本；零范数向量按 epsilon 缩放而不是报错。
func Normalize(v []float64) []float64 {
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = normEpsilon
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func (s *Snapshot) Name() string { return "vector.snapshot" }

// Available 判断快照可用性：构造成功且非空即可用。
func (s *Snapshot) Available() bool {
	return s != nil && len(s.products) > 0
}

func (s *Snapshot) Size() int {
	if s == nil {
		return 0
	}
	return len(s.products)
}

func (s *Snapshot) Dim() int {
	if s == nil {
		return 0
	}
	return s.dim
}

func (s *Snapshot) VectorAt(pos int) []float64 { return s.vectors[pos] }

func (s *Snapshot) PriceAt(pos int) float64 { return s.prices[pos] }

func (s *Snapshot) ProductAt(pos int) *core.Product { return s.products[pos] }

func (s *Snapshot) Products() []*core.Product {
	if s == nil {
		return nil
	}
	return s.products
}

// MeanPrice 返回目录均价（构造时预计算）。
// 外部向量查询没有种子价格锚点时，以目录均价作为中性先验。
func (s *Snapshot) MeanPrice() float64 {
	if s == nil {
		return 0
	}
	return s.meanPrice
}

var _ core.VectorStore = (*Snapshot)(nil)
