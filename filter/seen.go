package filter

import (
	"context"

	json "github.com/goccy/go-json"

	"github.com/stylemate/stylekit/core"
)

// SeenFilter 是已看/已购名单过滤器：按身份键剔除用户已经见过的商品。
//
// 名单两处取数：内存 Keys（进程内静态名单）与 Store（远端名单，
// key 为 KeyPrefix + UserID，值是身份键的 JSON 数组）。Store 读取
// 失败按名单为空处理，名单服务故障不应打掉整个推荐请求。
type SeenFilter struct {
	// Keys 内存名单（身份键或商品 ID）
	Keys []string

	// Store 远端名单存储（可选）
	Store core.Store

	// KeyPrefix 远端名单 key 前缀，如 "seen:"
	KeyPrefix string
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}

	key := item.Key()
	id := item.Product.ID

	for _, k := range f.Keys {
		if k == key || (id != "" && k == id) {
			return true, nil
		}
	}

	if f.Store != nil && rctx != nil && rctx.UserID != "" {
		for _, k := range f.lookup(ctx, f.KeyPrefix+rctx.UserID) {
			if k == key || (id != "" && k == id) {
				return true, nil
			}
		}
	}

	return false, nil
}

// lookup 读取远端名单；key 不存在或解析失败都视为空名单。
func (f *SeenFilter) lookup(ctx context.Context, key string) []string {
	raw, err := f.Store.Get(ctx, key)
	if err != nil {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil
	}
	return keys
}

var _ Filter = (*SeenFilter)(nil)
