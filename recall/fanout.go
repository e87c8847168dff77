package recall

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/utils"
)

// Fanout 是并发执行多个召回源并合并结果的管线节点。
// 支持超时、并发上限与合并策略。单个源失败只损失该源的候选，
// 不中断其他源（召回是尽力而为，硬校验在引擎入口做）。
type Fanout struct {
	Sources       []Source
	Dedup         bool          // 按身份键去重
	Timeout       time.Duration // 单个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string        // 合并策略：first / union / priority（优先级按 Sources 顺序）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		buckets = make([][]*core.Item, len(n.Sources))
	)
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		i, s := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 失败源只损失自己的候选
				return nil
			}
			for _, it := range items {
				it.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(i), Source: "recall"})
			}

			mu.Lock()
			buckets[i] = items
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 按源顺序拼接，保证合并结果与并发调度顺序无关。
	var all []*core.Item
	for _, bucket := range buckets {
		all = append(all, bucket...)
	}

	switch n.MergeStrategy {
	case "union":
		return all, nil
	default: // "first" 或默认：按身份键保留先出现的
		return n.mergeFirst(all), nil
	}
}

// mergeFirst 按身份键去重，保留第一个出现的；后续重复项的标签并入保留项。
// Sources 顺序即优先级，先出现者优先。
func (n *Fanout) mergeFirst(all []*core.Item) []*core.Item {
	if !n.Dedup {
		return all
	}
	seen := make(map[string]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		key := it.Key()
		if old, ok := seen[key]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[key] = it
		out = append(out, it)
	}
	return out
}
