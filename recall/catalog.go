package recall

import (
	"context"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/utils"
)

// Catalog 是目录兜底召回源：向量库与外部服务都不可用时，
// 以 0 分返回全目录，让后续的类目配额与多样性挑选仍有料可用。
// 0 分表示"无相似度信号"，排序时自然沉底。
type Catalog struct {
	Source core.CatalogSource
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Available 报告目录是否非空。
func (r *Catalog) Available() bool {
	return r.Source != nil && len(r.Source.GetAll()) > 0
}

// Process 实现管线节点接口。
func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Catalog) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Source == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			"recall: catalog source not configured")
	}

	products := r.Source.GetAll()
	items := make([]*core.Item, 0, len(products))
	for _, p := range products {
		it := core.NewItem(p)
		it.Score = 0.0
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		items = append(items, it)
	}
	return items, nil
}

var _ Source = (*Catalog)(nil)
