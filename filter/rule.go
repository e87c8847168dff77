package filter

import (
	"context"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pkg/dsl"
)

// RuleFilter 是 CEL 规则过滤器：表达式求值为 true 的商品被剔除。
//
// 表达式语法见 pkg/dsl，可访问 item / product / label / rctx，例如：
//
//	product.price > 100000 && product.category == "accessories"
//	label.recall_source == "recall.catalog" && item.score == 0.0
//
// 表达式编译失败是配置错误，构造时即返回；求值错误按不过滤处理。
type RuleFilter struct {
	expr string
	prog *dsl.Program
}

// NewRuleFilter 创建规则过滤器，表达式在此处一次编译。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	prog, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.WrapDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput,
			"filter: compile rule expression", err)
	}
	return &RuleFilter{expr: expr, prog: prog}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}
	if f.prog == nil {
		return false, nil
	}

	hit, err := f.prog.Evaluate(item, rctx)
	if err != nil {
		return false, err
	}
	return hit, nil
}

var _ Filter = (*RuleFilter)(nil)
