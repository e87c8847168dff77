package rerank

import (
	"github.com/stylemate/stylekit/core"
)

// 外部重排网关的合并策略。
//
// 网关（core.Reranker 的实现，如 service.LLMReranker）只产出每个
// 类目的有序 id 列表；把这份顺序落回本地候选、丢弃未知 id、补齐
// 缺位、失败回退，全部发生在这里。网关失败绝不上抛为请求错误。

// RerankID 返回候选在重排对话中的 id：优先商品 ID，缺失时退化为身份键。
func RerankID(it *core.Item) string {
	if it == nil || it.Product == nil {
		return ""
	}
	if it.Product.ID != "" {
		return it.Product.ID
	}
	return it.Key()
}

// MergeRanked 按网关给出的 id 顺序重建候选列表。
//
// ranked 中的 id 依序查本地映射，未知 id 丢弃、重复 id 只取首个；
// 之后按原序补齐未被点名的候选，直到 topK。ranked 为空时退化为
// 原序截断——这正是回退路径：网关没说话，就按相似度原序给。
func MergeRanked(ranked []string, pool []*core.Item, topK int) []*core.Item {
	if topK <= 0 || len(pool) == 0 {
		return nil
	}
	if topK > len(pool) {
		topK = len(pool)
	}
	if len(ranked) == 0 {
		return pool[:topK]
	}

	index := make(map[string]*core.Item, len(pool))
	for _, it := range pool {
		id := RerankID(it)
		if id == "" {
			continue
		}
		if _, ok := index[id]; !ok {
			index[id] = it
		}
	}

	used := make(map[string]bool, topK)
	out := make([]*core.Item, 0, topK)

	for _, id := range ranked {
		if len(out) == topK {
			return out
		}
		it, ok := index[id]
		if !ok || used[id] {
			continue
		}
		used[id] = true
		out = append(out, it)
	}

	for _, it := range pool {
		if len(out) == topK {
			break
		}
		id := RerankID(it)
		if id == "" || used[id] {
			continue
		}
		used[id] = true
		out = append(out, it)
	}

	return out
}

// AnalysisFromContext 从请求上下文构建网关的轻量分析摘要：
// 目标类目加参照单品的品牌/类目/标签词（去重，上限 24 个）。
func AnalysisFromContext(rctx *core.RecommendContext, cats []core.Category) *core.RerankAnalysis {
	const maxTags = 24

	analysis := &core.RerankAnalysis{Categories: cats}
	if rctx == nil {
		return analysis
	}

	seen := make(map[string]bool)
	add := func(s string) {
		if len(analysis.Tags) >= maxTags || s == "" || seen[s] {
			return
		}
		seen[s] = true
		analysis.Tags = append(analysis.Tags, s)
	}

	for _, item := range rctx.Items {
		add(item.Brand)
		add(item.Category)
		add(item.Gender)
		for _, t := range item.Tags {
			add(t)
		}
	}
	return analysis
}
