// Package dsl 提供基于 CEL (Common Expression Language) 的规则求值。
// 过滤规则、标签策略都经由这里统一编译与执行。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/stylemate/stylekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("product", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译完成的布尔表达式，可对任意 item/rctx 重复求值。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.score > 0.7 / product.price <= 50000
//   - 字符串：product.category == "outer" / product.brand != ""
//   - 逻辑：label.recall_source == "recall.catalog" && item.score == 0.0
//   - 包含："베이직" in product.tags / product.title.contains("jacket")
//
// 注意：CEL 访问不存在的 key 会报错，存在性判断用 label.key != null。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。空表达式合法，求值恒为 true。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{}, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Evaluate 对单个候选执行表达式，返回布尔结果。
func (p *Program) Evaluate(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p == nil || p.prg == nil {
		return true, nil
	}

	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q is not boolean", p.expr)
	}
	return b, nil
}

// buildInput 把候选与请求上下文拍平为 CEL 输入。
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	// label.recall_source 直接取 value，来源放在 item.labels 下
	labels := make(map[string]any)
	labelAccessor := make(map[string]any)
	if item != nil {
		for k, v := range item.Labels {
			labels[k] = map[string]any{
				"value":  v.Value,
				"source": v.Source,
			}
			labelAccessor[k] = v.Value
		}
	}

	itemMap := map[string]any{}
	productMap := map[string]any{}
	if item != nil {
		itemMap = map[string]any{
			"score":    item.Score,
			"features": item.Features,
			"meta":     item.Meta,
			"labels":   labels,
		}
		if p := item.Product; p != nil {
			productMap = map[string]any{
				"position": p.Position,
				"id":       p.ID,
				"title":    p.Title,
				"brand":    p.Brand,
				"category": string(p.Category),
				"gender":   string(p.Gender),
				"price":    p.Price,
				"tags":     p.Tags,
			}
		}
	}

	rctxMap := map[string]any{}
	if rctx != nil {
		rctxMap = map[string]any{
			"user_id": rctx.UserID,
			"scene":   rctx.Scene,
			"top_k":   rctx.TopK,
			"final_k": rctx.FinalK,
			"params":  rctx.Params,
		}
	}

	return map[string]any{
		"item":    itemMap,
		"product": productMap,
		"label":   labelAccessor,
		"rctx":    rctxMap,
	}
}
