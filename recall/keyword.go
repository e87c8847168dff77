package recall

import (
	"context"

	"github.com/stylemate/stylekit/catalog"
	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/conv"
	"github.com/stylemate/stylekit/pkg/utils"
)

// Keyword 是关键词检索召回源，包装目录服务的文本打分。
// 关键词取自 rctx.Params["keywords"]，类目限定沿用 rctx.TargetCategories。
// 没有关键词时返回空结果而不是报错，方便与其他源并联 fan-out。
type Keyword struct {
	Service *catalog.Service

	// Limit 单次召回上限，<=0 时取 rctx.TopK
	Limit int
}

func (r *Keyword) Name() string        { return "recall.keyword" }
func (r *Keyword) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现管线节点接口。
func (r *Keyword) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Keyword) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Service == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			"recall: catalog service not configured")
	}
	if rctx == nil {
		return nil, nil
	}

	keywords := conv.ConfigGetStringSlice(rctx.Params, "keywords")
	if len(keywords) == 0 {
		return nil, nil
	}

	limit := r.Limit
	if limit <= 0 {
		limit = rctx.TopK
	}

	items := r.Service.Search(catalog.SearchQuery{
		Keywords:   keywords,
		Categories: rctx.TargetCategories,
		Limit:      limit,
	})
	for _, it := range items {
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
	}
	return items, nil
}

var _ Source = (*Keyword)(nil)
