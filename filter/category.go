package filter

import (
	"context"

	"github.com/stylemate/stylekit/core"
)

// CategoryFilter 是类目门控过滤器：只保留允许类目中的商品。
//
// Allowed 为空时退化为请求级门控，取 rctx.TargetCategories；
// 两者都为空时不过滤（门控缺省全放行，召回侧自有类目掩码）。
type CategoryFilter struct {
	// Allowed 允许的类目闭集（已归一化）
	Allowed []core.Category
}

func (f *CategoryFilter) Name() string {
	return "filter.category"
}

func (f *CategoryFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}

	allowed := f.Allowed
	if len(allowed) == 0 && rctx != nil {
		allowed = rctx.TargetCategories
	}
	if len(allowed) == 0 {
		return false, nil
	}

	for _, c := range allowed {
		if item.Product.Category == c {
			return false, nil
		}
	}
	return true, nil
}

var _ Filter = (*CategoryFilter)(nil)
