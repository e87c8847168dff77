package filter

import (
	"context"

	"github.com/stylemate/stylekit/core"
)

// PriceFilter 是价格窗过滤器，剔除价格落在窗外的商品。
// Min/Max <= 0 时对应边界不设限。
type PriceFilter struct {
	Min int
	Max int
}

func (f *PriceFilter) Name() string {
	return "filter.price"
}

func (f *PriceFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}

	price := item.Product.Price
	if f.Min > 0 && price < f.Min {
		return true, nil
	}
	if f.Max > 0 && price > f.Max {
		return true, nil
	}
	return false, nil
}

var _ Filter = (*PriceFilter)(nil)
