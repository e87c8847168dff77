// Package pipeline 提供推荐链路的编排框架：把召回、过滤、排序、
// 重排、后处理拆成可组合的 Node 链，支持 YAML/JSON 配置驱动构建。
package pipeline

import (
	"context"

	"github.com/stylemate/stylekit/core"
)

// Pipeline 是推荐链路的核心抽象：把推荐逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
