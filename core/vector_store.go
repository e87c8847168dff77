package core

import "context"

// VectorStore 是位置索引向量库的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（vector / catalog）实现
//   - 遵循依赖倒置原则：召回层只依赖此接口，对后端存储无感知
//   - 向量行与目录行按 Position 严格 1:1 对齐，行向量已做 L2 归一化
//
// 可用性语义：
//   - Available() == false 表示快照未加载或目录/向量长度不一致，
//     调用方必须降级到下一数据源或以 UNAVAILABLE 拒绝请求，
//     绝不允许部分使用（fail-closed）
//
// 实现：
//   - vector.Snapshot（内存快照）
//   - vector.Handle（可原子重载的快照持有者）
type VectorStore interface {
	// Name 返回数据源名称（用于日志与降级链路观测）
	Name() string

	// Available 判断快照是否可用（N > 0 且目录/向量长度一致）
	Available() bool

	// Size 返回行数 N
	Size() int

	// Dim 返回向量维度 D
	Dim() int

	// VectorAt 返回位置 pos 的单位向量（调用方不得修改）
	VectorAt(pos int) []float64

	// PriceAt 返回位置 pos 的价格
	PriceAt(pos int) float64

	// ProductAt 返回位置 pos 的商品
	ProductAt(pos int) *Product

	// Products 返回全部商品（与向量矩阵同序，调用方不得修改）
	Products() []*Product
}

// Reloader 是支持整体重载的数据源扩展接口。
// Reload 必须原子替换快照：重载失败时保留旧快照继续服务。
type Reloader interface {
	Reload(ctx context.Context) error
}
