package filter

import (
	"context"
	"strings"

	"github.com/stylemate/stylekit/core"
)

// TagFilter 是标签剔除过滤器：商品标签命中任一排除词即被过滤。
// 比较按小写进行，构造时预先归一化排除词表。
type TagFilter struct {
	exclude map[string]bool
}

// NewTagFilter 创建标签剔除过滤器。
func NewTagFilter(excludeTags []string) *TagFilter {
	exclude := make(map[string]bool, len(excludeTags))
	for _, t := range excludeTags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			exclude[t] = true
		}
	}
	return &TagFilter{exclude: exclude}
}

func (f *TagFilter) Name() string {
	return "filter.tags"
}

func (f *TagFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}
	if len(f.exclude) == 0 {
		return false, nil
	}

	for _, t := range item.Product.Tags {
		if f.exclude[strings.ToLower(t)] {
			return true, nil
		}
	}
	return false, nil
}

var _ Filter = (*TagFilter)(nil)
