// Package recall 提供候选召回源。
//
// 召回源的职责是产出"带分候选池"：向量近邻（Embedding）、外部召回服务
// （Remote）、关键词检索（Keyword）、目录兜底（Catalog）。各源都实现
// Source 接口，可单独使用、在 Fanout 中并发合并，或作为管线节点编排。
package recall

import (
	"context"

	"github.com/stylemate/stylekit/core"
)

// Source 表示一个可复用的召回源。
// 可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
