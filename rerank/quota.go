package rerank

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/utils"
	"github.com/stylemate/stylekit/recall"
)

// CategoryQuota 是类目配额分配节点：保证每个目标类目各得 FinalK 个结果，
// 类目之间互不挤占。
//
// 每个类目独立走一条补位链：
//  1. 从召回池里筛出本类目候选（按身份键去重）；
//  2. 不足 FinalK 时放量回捞：以 max(TopK*BoostMultiplier, BoostFloor)
//     重新召回，并入新出现的本类目候选；
//  3. 仍不足时从原始目录回填（无相似度信号，0 分沉底）；
//  4. 可选调用重排网关重排本类目候选（失败静默回退相似度原序）；
//  5. 经 DiversifyPick 截断到 FinalK。
//
// 跨类目全局去重：一个商品被某类目选中后，其身份键对后续类目不可见；
// 因扣除产生的缺口由该类目池内剩余候选自然补位（池子按 PoolCap 放量
// 构建，正是为这一步留的余量）。类目内工作并发执行，全局去重按
// TargetCategories 的顺序串行，保证结果可复现。
//
// 某类目在所有补位后仍为空时输出空列表，不以他类商品凑数。
type CategoryQuota struct {
	// Retriever 放量回捞源（通常与主召回共用一个 recall.Embedding）
	Retriever recall.Source

	// Catalog 原始目录，最后一级回填
	Catalog core.CatalogSource

	// Reranker 外部重排网关（可选）
	Reranker core.Reranker

	// BoostMultiplier 放量回捞的 TopK 倍数，<=0 取 5
	BoostMultiplier int

	// BoostFloor 放量回捞的最小条数，<=0 取 200
	BoostFloor int

	// PoolCap 类目池容量相对 FinalK 的倍数，<=0 取 3
	PoolCap int

	// RerankCandidateCap 送审候选相对 FinalK 的倍数，<=0 取 10
	RerankCandidateCap int

	// RerankCandidateFloor 送审候选的最小条数，<=0 取 20
	RerankCandidateFloor int

	// MaxConcurrent 类目并发上限，<=0 时按类目数全并发
	MaxConcurrent int

	Logger zerolog.Logger
}

func (n *CategoryQuota) Name() string        { return "rerank.quota" }
func (n *CategoryQuota) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *CategoryQuota) boostMultiplier() int {
	if n.BoostMultiplier > 0 {
		return n.BoostMultiplier
	}
	return 5
}

func (n *CategoryQuota) boostFloor() int {
	if n.BoostFloor > 0 {
		return n.BoostFloor
	}
	return 200
}

func (n *CategoryQuota) poolCap(finalK int) int {
	mult := n.PoolCap
	if mult <= 0 {
		mult = 3
	}
	return finalK * mult
}

func (n *CategoryQuota) rerankCap(finalK int) int {
	mult := n.RerankCandidateCap
	if mult <= 0 {
		mult = 10
	}
	floor := n.RerankCandidateFloor
	if floor <= 0 {
		floor = 20
	}
	return max(finalK*mult, floor)
}

func (n *CategoryQuota) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	finalK := 3
	if rctx != nil && rctx.FinalK > 0 {
		finalK = rctx.FinalK
	}

	var cats []core.Category
	if rctx != nil {
		cats = rctx.TargetCategories
	}

	// 无目标类目时整池当一个桶：多样性截断即最终结果
	if len(cats) == 0 {
		return DiversifyPick(items, finalK), nil
	}

	pools := make([][]*core.Item, len(cats))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}
	for i, cat := range cats {
		i, cat := i, cat
		eg.Go(func() error {
			pool := n.buildPool(egCtx, rctx, cat, finalK, items)
			mu.Lock()
			pools[i] = pool
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	n.applyRerank(ctx, rctx, cats, pools, finalK)

	// 全局去重 + 截断：先选类目拿走的身份键对后续类目不可见
	chosen := make(map[string]bool)
	var out []*core.Item
	for i, cat := range cats {
		avail := make([]*core.Item, 0, len(pools[i]))
		for _, it := range pools[i] {
			if !chosen[it.Key()] {
				avail = append(avail, it)
			}
		}
		picked := DiversifyPick(avail, finalK)
		for _, it := range picked {
			chosen[it.Key()] = true
			it.PutLabel("quota_category", utils.Label{Value: string(cat), Source: "rerank"})
		}
		out = append(out, picked...)
	}
	return out, nil
}

// buildPool 构建单个类目的候选池：筛选 → 放量回捞 → 目录回填，
// 全程按身份键去重，容量不超过 poolCap。
func (n *CategoryQuota) buildPool(
	ctx context.Context,
	rctx *core.RecommendContext,
	cat core.Category,
	finalK int,
	items []*core.Item,
) []*core.Item {
	limit := n.poolCap(finalK)
	seen := make(map[string]bool, limit)
	pool := make([]*core.Item, 0, limit)

	appendItem := func(it *core.Item) bool {
		if len(pool) >= limit {
			return false
		}
		if it == nil || it.Product == nil || it.Product.Category != cat {
			return true
		}
		key := it.Key()
		if seen[key] {
			return true
		}
		seen[key] = true
		pool = append(pool, it)
		return true
	}

	for _, it := range items {
		if !appendItem(it) {
			break
		}
	}

	if len(pool) < finalK && n.Retriever != nil && rctx != nil {
		boostK := max(rctx.TopK*n.boostMultiplier(), n.boostFloor())
		brctx := *rctx
		brctx.TopK = boostK
		boosted, err := n.Retriever.Recall(ctx, &brctx)
		if err != nil {
			// 回捞失败只损失放量，不影响本类目已有候选
			n.Logger.Warn().Err(err).Str("category", string(cat)).Msg("quota boost recall failed")
		} else {
			for _, it := range boosted {
				if !appendItem(it) {
					break
				}
			}
		}
	}

	if len(pool) < finalK && n.Catalog != nil {
		// 种子本身不参与回填
		seeds := make(map[int]bool)
		if rctx != nil {
			for _, pos := range rctx.SeedPositions {
				seeds[pos] = true
			}
		}
		for _, p := range n.Catalog.GetAll() {
			if len(pool) >= limit {
				break
			}
			if p == nil || seeds[p.Position] {
				continue
			}
			it := core.NewItem(p)
			it.Score = 0.0
			it.PutLabel("recall_source", utils.Label{Value: "quota.backfill", Source: "rerank"})
			if !appendItem(it) {
				break
			}
		}
	}

	return pool
}

// applyRerank 在截断前调用重排网关重排各类目候选。网关错误、
// 空结果、缺类目都按相似度原序回退，从不失败整个请求。
func (n *CategoryQuota) applyRerank(
	ctx context.Context,
	rctx *core.RecommendContext,
	cats []core.Category,
	pools [][]*core.Item,
	finalK int,
) {
	if rctx == nil || !rctx.UseRerank || n.Reranker == nil || !n.Reranker.Available() {
		return
	}

	digestCap := n.rerankCap(finalK)
	candidates := make(map[core.Category][]*core.Item, len(cats))
	for i, cat := range cats {
		pool := pools[i]
		if len(pool) > digestCap {
			pool = pool[:digestCap]
		}
		candidates[cat] = pool
	}

	ranked, err := n.Reranker.Rerank(ctx, AnalysisFromContext(rctx, cats), candidates, finalK)
	if err != nil {
		n.Logger.Warn().Err(err).Msg("rerank gateway failed, falling back to similarity order")
		return
	}
	if len(ranked) == 0 {
		return
	}

	for i, cat := range cats {
		ids := ranked[cat]
		if len(ids) == 0 {
			continue
		}
		pools[i] = MergeRanked(ids, pools[i], len(pools[i]))
	}
}

var _ pipeline.Node = (*CategoryQuota)(nil)
