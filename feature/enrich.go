package feature

import (
	"context"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/utils"
)

// EnrichNode 是特征注入节点：为每个候选补齐本地商品特征，
// 并从 Provider（如 Feast）并入行为统计特征。
//
// 本地特征：
//   - price / price_log：价格与 log1p 价格
//   - tag_count：标签数
//   - score：当前链路分数（供下游规则引用）
//
// Provider 特征按商品 id 批量取数，取数失败只损失远端特征，
// 不中断请求；popularity 同时落到 label，供重排摘要使用。
type EnrichNode struct {
	// Provider 远端特征提供方（可选）
	Provider Provider

	// Prefix 注入特征的 key 前缀，默认空（按原名注入）
	Prefix string

	Logger zerolog.Logger
}

func (n *EnrichNode) Name() string {
	return "feature.enrich"
}

func (n *EnrichNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *EnrichNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		if it.Features == nil {
			it.Features = make(map[string]float64)
		}
		price := float64(it.Product.Price)
		it.Features[n.Prefix+"price"] = price
		it.Features[n.Prefix+"price_log"] = math.Log1p(price)
		it.Features[n.Prefix+"tag_count"] = float64(len(it.Product.Tags))
		it.Features[n.Prefix+"score"] = it.Score
	}

	n.mergeProviderFeatures(ctx, items)
	return items, nil
}

// mergeProviderFeatures 批量取远端特征并入候选。失败降级为只有本地特征。
func (n *EnrichNode) mergeProviderFeatures(ctx context.Context, items []*core.Item) {
	if n.Provider == nil {
		return
	}

	ids := make([]string, 0, len(items))
	byID := make(map[string][]*core.Item, len(items))
	for _, it := range items {
		if it == nil || it.Product == nil || it.Product.ID == "" {
			continue
		}
		id := it.Product.ID
		if _, ok := byID[id]; !ok {
			ids = append(ids, id)
		}
		byID[id] = append(byID[id], it)
	}
	if len(ids) == 0 {
		return
	}

	features, err := n.Provider.ProductFeatures(ctx, ids)
	if err != nil {
		n.Logger.Warn().Err(err).Str("provider", n.Provider.Name()).Msg("product feature fetch failed")
		return
	}

	for id, values := range features {
		for _, it := range byID[id] {
			for name, v := range values {
				it.Features[n.Prefix+name] = v
			}
			if pop, ok := values["popularity"]; ok {
				it.PutLabel("popularity", utils.Label{
					Value:  strconv.FormatFloat(pop, 'f', 4, 64),
					Source: n.Provider.Name(),
				})
			}
		}
	}
}

var _ pipeline.Node = (*EnrichNode)(nil)
