package core

import "context"

// Embedder 是文本嵌入服务的领域接口。
//
// 典型用途：把自由文本（如检索词、单品描述）转成查询向量，
// 再走 QueryVector 形态的向量检索。实现方保证返回向量维度稳定。
type Embedder interface {
	// Name 返回服务名称
	Name() string

	// Embed 将文本编码为稠密向量
	Embed(ctx context.Context, text string) ([]float64, error)

	// Health 探测服务可用性
	Health(ctx context.Context) error
}
