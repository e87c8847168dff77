// Package rerank 提供重排节点：类目配额分配、多样性挑选、
// 外部重排网关的合并策略、Top-N 截断。
package rerank

import (
	"context"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
)

// DiversifyPick 从已排序候选中挑出至多 k 个结果。
//
// 两遍挑选：
//  1. 按分散签名（品牌|标题核心|URL 根）每个签名至多取一个，按输入序；
//  2. 不足 k 时按输入序补位，跳过已选身份键。
//
// 同一身份键的候选永远只出现一次，返回条数恰为
// min(k, 候选中不同身份键的数量)——池子撑得起多少就给多少，不凑错款。
func DiversifyPick(items []*core.Item, k int) []*core.Item {
	if k <= 0 || len(items) == 0 {
		return nil
	}

	seenSig := make(map[string]bool, k)
	seenKey := make(map[string]bool, k)
	out := make([]*core.Item, 0, k)

	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		key := it.Key()
		if seenKey[key] {
			continue
		}
		sig := it.Signature()
		if seenSig[sig] {
			continue
		}
		seenSig[sig] = true
		seenKey[key] = true
		out = append(out, it)
		if len(out) == k {
			return out
		}
	}

	for _, it := range items {
		if len(out) == k {
			break
		}
		if it == nil || it.Product == nil {
			continue
		}
		key := it.Key()
		if seenKey[key] {
			continue
		}
		seenKey[key] = true
		out = append(out, it)
	}

	return out
}

// DedupByKey 按身份键去重，保留先出现者，顺序不变。
func DedupByKey(items []*core.Item) []*core.Item {
	seen := make(map[string]bool, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		key := it.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// Diversity 是多样性截断节点：对已排序候选做 DiversifyPick。
// K <= 0 时不限量，仅做签名优先的身份去重（全量过一遍两段挑选）。
type Diversity struct {
	K int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	k := n.K
	if k <= 0 && rctx != nil {
		k = rctx.FinalK
	}
	if k <= 0 {
		k = len(items)
	}
	return DiversifyPick(items, k), nil
}

var _ pipeline.Node = (*Diversity)(nil)
