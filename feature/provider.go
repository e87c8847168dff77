// Package feature 提供候选特征注入：本地商品特征（价格带、标签数）
// 加上来自 Feature Store 的行为统计特征（热度、点击率）。
package feature

import (
	"context"
	"strings"

	"github.com/stylemate/stylekit/feast"
)

// Provider 是商品特征提供方的抽象：按商品 id 批量取特征。
// 返回 map 的一级 key 为商品 id，二级 key 为特征名。
type Provider interface {
	Name() string
	ProductFeatures(ctx context.Context, ids []string) (map[string]map[string]float64, error)
}

// FeastProvider 经由 Feast 在线存储取商品统计特征。
//
// Features 用 Feast 的 "view:feature" 全名（如 "product_stats:popularity"），
// 注入候选时剥掉视图前缀，只留特征名。
type FeastProvider struct {
	Client feast.Client

	// Features 特征全名列表，默认 product_stats 的 popularity/ctr
	Features []string

	// EntityKey 实体键名，默认 "product_id"
	EntityKey string
}

func (p *FeastProvider) Name() string { return "feature.feast" }

func (p *FeastProvider) features() []string {
	if len(p.Features) > 0 {
		return p.Features
	}
	return []string{"product_stats:popularity", "product_stats:ctr"}
}

func (p *FeastProvider) entityKey() string {
	if p.EntityKey != "" {
		return p.EntityKey
	}
	return "product_id"
}

// ProductFeatures 实现 Provider。
func (p *FeastProvider) ProductFeatures(ctx context.Context, ids []string) (map[string]map[string]float64, error) {
	if p.Client == nil || len(ids) == 0 {
		return nil, nil
	}

	rows := make([]map[string]any, len(ids))
	for i, id := range ids {
		rows[i] = map[string]any{p.entityKey(): id}
	}

	resp, err := p.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   p.features(),
		EntityRows: rows,
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]float64, len(ids))
	for i, fv := range resp.FeatureVectors {
		if i >= len(ids) {
			break
		}
		values := make(map[string]float64, len(fv.Values))
		for name, raw := range fv.Values {
			f, ok := raw.(float64)
			if !ok {
				continue
			}
			// "product_stats:popularity" → "popularity"
			if idx := strings.LastIndexByte(name, ':'); idx >= 0 {
				name = name[idx+1:]
			}
			values[name] = f
		}
		out[ids[i]] = values
	}
	return out, nil
}

var _ Provider = (*FeastProvider)(nil)
