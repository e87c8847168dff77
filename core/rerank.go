package core

import "context"

// RerankAnalysis 是传给重排网关的轻量上下文：目标类目加参照单品的
// 标签摘要（品牌、性别、标题词等）。只传摘要不传原文，控制请求体积。
type RerankAnalysis struct {
	Categories []Category `json:"categories"`
	Tags       []string   `json:"tags"`
}

// Reranker 是外部重排网关的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（service）实现
//   - 网关只产出"每类目的有序 id 列表"；按 id 重建顺序、补齐缺位、
//     失败回退这些合并策略全部留在本地（rerank 包）
//
// 失败语义：
//   - 网关错误、空结果、部分结果都不是请求级错误，调用方按相似度
//     原序回退；重排失败绝不导致请求失败
type Reranker interface {
	// Name 返回网关名称
	Name() string

	// Available 判断网关是否已配置可用
	Available() bool

	// Rerank 对每个类目的候选集重排，返回 类目 → 有序 id 列表。
	// 返回的 map 可缺类目、列表可不满 topK；nil 表示整体失败。
	Rerank(ctx context.Context, analysis *RerankAnalysis, candidates map[Category][]*Item, topK int) (map[Category][]string, error)
}
