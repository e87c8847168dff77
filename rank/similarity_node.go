// Package rank 提供排序节点：对召回候选重新打分并按分数降序排列。
package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/utils"
	"github.com/stylemate/stylekit/vector"
)

// SimilarityNode 是混合相似度重打分节点。
//
// Fanout 合并多个召回源后各源的分数不可比（向量召回是混合分、
// 关键词召回是文本分、目录兜底是 0 分），本节点对所有落在目录内
// （Position 合法）的候选按当前请求的查询向量统一重算混合分，
// 目录外候选保留原分，最后整体按分数降序稳定排序。
type SimilarityNode struct {
	// Stores 向量库供应链，按优先级排列（与召回源共用同一条链）
	Stores []core.VectorStore
}

func (n *SimilarityNode) Name() string        { return "rank.similarity" }
func (n *SimilarityNode) Kind() pipeline.Kind { return pipeline.KindRank }

// pick 返回第一个可用的向量库；Handle 类实现固定为当前快照。
func (n *SimilarityNode) pick() core.VectorStore {
	for _, vs := range n.Stores {
		if vs == nil {
			continue
		}
		if s, ok := vs.(vector.Snapshotter); ok {
			cur := s.Current()
			if cur.Available() {
				return cur
			}
			continue
		}
		if vs.Available() {
			return vs
		}
	}
	return nil
}

func (n *SimilarityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	vs := n.pick()
	if vs == nil || rctx == nil || (!rctx.HasSeeds() && !rctx.HasVector()) {
		// 没有可比对的查询就不重打分，保持召回序
		return items, nil
	}

	size := vs.Size()
	var query []float64
	var anchor float64
	if rctx.HasSeeds() {
		for _, pos := range rctx.SeedPositions {
			if pos < 0 || pos >= size {
				return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
					fmt.Sprintf("rank: seed position %d out of range [0, %d)", pos, size))
			}
		}
		query = vector.QueryFromSeeds(vs, rctx.SeedPositions)
		anchor = vector.AnchorFromSeeds(vs, rctx.SeedPositions)
	} else {
		if len(rctx.QueryVector) != vs.Dim() {
			return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
				fmt.Sprintf("rank: query vector dim %d, store dim %d", len(rctx.QueryVector), vs.Dim()))
		}
		query = vector.Normalize(rctx.QueryVector)
		anchor = vector.CatalogAnchor(vs)
	}

	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		pos := it.Product.Position
		if pos < 0 || pos >= size {
			continue
		}
		cos := vector.Dot(query, vs.VectorAt(pos))
		price := vector.PriceScore(vs.PriceAt(pos), anchor, rctx.Scoring.Alpha)
		it.Score = rctx.Scoring.SimWeight*cos + rctx.Scoring.PriceWeight*price
		it.PutLabel("rank_model", utils.Label{Value: n.Name(), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

var _ pipeline.Node = (*SimilarityNode)(nil)
