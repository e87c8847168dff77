package recall

import (
	"context"
	"fmt"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/utils"
	"github.com/stylemate/stylekit/vector"
)

// Embedding 是向量近邻召回源：种子位置或外部向量 → 混合打分 → Top-K。
//
// Stores 是按优先级排列的向量库供应链（如 DB 快照在前、文件快照在后），
// 每次召回用 Available 检查选第一个可用的，存储后端对打分逻辑透明。
// 全部不可用时返回 UNAVAILABLE，由上层决定降级路径，这里不做兜底。
type Embedding struct {
	// Stores 向量库供应链，按优先级排列
	Stores []core.VectorStore

	// TopK 请求未指定时的默认召回条数
	TopK int
}

func (r *Embedding) Name() string        { return "recall.embedding" }
func (r *Embedding) Kind() pipeline.Kind { return pipeline.KindRecall }

// Available 报告供应链中是否存在可用的向量库。
func (r *Embedding) Available() bool {
	return r.pick() != nil
}

// pick 返回第一个可用的向量库；Handle 类的实现升级为请求期间固定的快照。
func (r *Embedding) pick() core.VectorStore {
	for _, vs := range r.Stores {
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

// Process 实现管线节点接口。
func (r *Embedding) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
//
// 校验是硬失败：种子位置越界、外部向量维度不符、两者皆缺，都拒绝整个
// 请求而不是静默裁剪。种子永远不会出现在结果里。
func (r *Embedding) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	vs := r.pick()
	if vs == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			"recall: no vector store available")
	}

	if rctx == nil || (!rctx.HasSeeds() && !rctx.HasVector()) {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: seed positions or query vector required")
	}

	n := vs.Size()
	banned := make(map[int]bool, len(rctx.SeedPositions))

	var query []float64
	var anchor float64
	if rctx.HasSeeds() {
		for _, pos := range rctx.SeedPositions {
			if pos < 0 || pos >= n {
				return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
					fmt.Sprintf("recall: seed position %d out of range [0, %d)", pos, n))
			}
			banned[pos] = true
		}
		query = vector.QueryFromSeeds(vs, rctx.SeedPositions)
		anchor = vector.AnchorFromSeeds(vs, rctx.SeedPositions)
	} else {
		if len(rctx.QueryVector) != vs.Dim() {
			return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
				fmt.Sprintf("recall: query vector dim %d, store dim %d", len(rctx.QueryVector), vs.Dim()))
		}
		query = vector.Normalize(rctx.QueryVector)
		// 外部向量没有种子价格，目录均价充当中性先验锚点。
		anchor = vector.CatalogAnchor(vs)
	}

	// 类目掩码是召回期硬过滤：掩码外的行与种子一样不可选。
	if len(rctx.CategoryMask) > 0 {
		mask := make(map[core.Category]bool, len(rctx.CategoryMask))
		for _, c := range rctx.CategoryMask {
			mask[c] = true
		}
		for i := 0; i < n; i++ {
			if !mask[vs.ProductAt(i).Category] {
				banned[i] = true
			}
		}
	}

	scores := vector.BlendScores(vs, query, anchor, rctx.Scoring)

	k := rctx.TopK
	if k <= 0 {
		k = r.TopK
	}
	if k <= 0 {
		k = 10
	}

	idxs := vector.TopK(scores, k, banned)
	items := make([]*core.Item, 0, len(idxs))
	for _, i := range idxs {
		it := core.NewItem(vs.ProductAt(i))
		it.Score = scores[i]
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		items = append(items, it)
	}
	return items, nil
}

var _ Source = (*Embedding)(nil)
