package stylekit

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stylemate/stylekit/catalog"
	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/recall"
	"github.com/stylemate/stylekit/rerank"
	"github.com/stylemate/stylekit/vector"
)

// Engine 是推荐引擎门面：显式注入向量库供应链、目录与重排网关，
// 对外暴露请求级操作。不持有任何进程级单例，多实例可并存。
type Engine struct {
	stores    []core.VectorStore
	catalog   core.CatalogSource
	service   *catalog.Service
	reranker  core.Reranker
	retriever *recall.Embedding
	quota     *rerank.CategoryQuota

	scoring core.ScoreParams
	topK    int
	finalK  int

	logger zerolog.Logger
}

// QuotaParams 是类目配额分配的调优参数，零值取各自默认。
type QuotaParams struct {
	BoostMultiplier      int
	BoostFloor           int
	PoolCap              int
	RerankCandidateCap   int
	RerankCandidateFloor int
	MaxConcurrent        int
}

// Option 引擎配置选项
type Option func(*Engine)

// WithLogger 设置日志器
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With().Str("component", "engine").Logger()
	}
}

// WithReranker 设置外部重排网关
func WithReranker(r core.Reranker) Option {
	return func(e *Engine) { e.reranker = r }
}

// WithScoring 设置默认打分参数
func WithScoring(p core.ScoreParams) Option {
	return func(e *Engine) { e.scoring = p }
}

// WithDefaults 设置默认召回/最终条数
func WithDefaults(topK, finalK int) Option {
	return func(e *Engine) {
		if topK > 0 {
			e.topK = topK
		}
		if finalK > 0 {
			e.finalK = finalK
		}
	}
}

// WithQuota 设置配额分配参数
func WithQuota(p QuotaParams) Option {
	return func(e *Engine) {
		e.quota.BoostMultiplier = p.BoostMultiplier
		e.quota.BoostFloor = p.BoostFloor
		e.quota.PoolCap = p.PoolCap
		e.quota.RerankCandidateCap = p.RerankCandidateCap
		e.quota.RerankCandidateFloor = p.RerankCandidateFloor
		e.quota.MaxConcurrent = p.MaxConcurrent
	}
}

// New 创建引擎。
//
// stores 是按优先级排列的向量库供应链（如 SQLite 快照在前、文件快照
// 在后），cat 是只读目录源。目录与向量库通常共享同一份快照
// （catalog.NewStoreSource 包装首个向量库即可）。
func New(stores []core.VectorStore, cat core.CatalogSource, opts ...Option) *Engine {
	e := &Engine{
		stores:  stores,
		catalog: cat,
		scoring: core.DefaultScoreParams(),
		topK:    5,
		finalK:  3,
		logger:  zerolog.Nop(),
	}
	e.retriever = &recall.Embedding{Stores: stores, TopK: e.topK}
	e.quota = &rerank.CategoryQuota{
		Retriever: e.retriever,
		Catalog:   cat,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.retriever.TopK = e.topK
	e.quota.Reranker = e.reranker
	e.quota.Logger = e.logger
	e.service = catalog.NewService(cat, catalog.WithServiceLogger(e.logger))
	return e
}

// Catalog 返回目录服务（统计、关键词检索、相似款查找）。
func (e *Engine) Catalog() *catalog.Service { return e.service }

// Search 目录关键词检索。
func (e *Engine) Search(q catalog.SearchQuery) []*core.Item { return e.service.Search(q) }

// Stats 返回目录统计。
func (e *Engine) Stats() *core.CatalogStats { return e.catalog.Stats() }

// pick 返回供应链中第一个可用的向量库（请求期间固定快照）。
func (e *Engine) pick() core.VectorStore {
	for _, vs := range e.stores {
		if vs == nil {
			continue
		}
		if s, ok := vs.(vector.Snapshotter); ok {
			cur := s.Current()
			if cur.Available() {
				return cur
			}
			continue
		}
		if vs.Available() {
			return vs
		}
	}
	return nil
}

// PositionsQuery 是位置查询请求。
type PositionsQuery struct {
	// Positions 0-based 种子位置，必填且全部落在 [0, N)
	Positions []int

	// TopK 召回池大小，<=0 取引擎默认
	TopK int

	// FinalK 每类目最终条数，<=0 取引擎默认
	FinalK int

	// Alpha / SimWeight / PriceWeight 打分参数覆盖（nil 取引擎默认）
	Alpha       *float64
	SimWeight   *float64
	PriceWeight *float64

	// Categories 目标类目（原词，内部归一化）；为空时由种子类目推断
	Categories []string

	// Items 参照单品元信息，用于类目推断与重排上下文
	Items []core.SeedItem

	// UseRerank 启用外部重排网关（失败静默回退）
	UseRerank bool

	UserID string
}

// PositionsResult 是位置查询结果。
type PositionsResult struct {
	// Items 最终结果，按目标类目顺序分段拼接，段内按分数降序
	Items []*core.Item

	// Categories 解析后的目标类目（配额顺序）
	Categories []core.Category

	// Debug 请求级调试信息
	Debug DebugInfo
}

// DebugInfo 记录配额分配前后的候选规模，用于问题定位。
type DebugInfo struct {
	PoolSize      int                       `json:"poolSize"`
	InitialCounts map[core.Category]int     `json:"initialCounts"`
	FinalCounts   map[core.Category]int     `json:"finalCounts"`
}

// RecommendByPositions 按种子位置推荐：召回 → 类目配额分配。
//
// 种子位置越界、种子为空是输入错误，整个请求被拒绝；向量库全部
// 不可用返回 UNAVAILABLE（fail-closed，不出部分结果）。
func (e *Engine) RecommendByPositions(ctx context.Context, q PositionsQuery) (*PositionsResult, error) {
	if len(q.Positions) == 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"engine: seed positions required")
	}

	vs := e.pick()
	if vs == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			"engine: no vector store available")
	}
	for _, pos := range q.Positions {
		if pos < 0 || pos >= vs.Size() {
			return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
				fmt.Sprintf("engine: seed position %d out of range [0, %d)", pos, vs.Size()))
		}
	}

	scoring := e.scoring
	if q.Alpha != nil {
		scoring.Alpha = *q.Alpha
	}
	if q.SimWeight != nil {
		scoring.SimWeight = *q.SimWeight
	}
	if q.PriceWeight != nil {
		scoring.PriceWeight = *q.PriceWeight
	}

	topK := q.TopK
	if topK <= 0 {
		topK = e.topK
	}
	finalK := q.FinalK
	if finalK <= 0 {
		finalK = e.finalK
	}

	cats := e.resolveCategories(q, vs)

	rctx := &core.RecommendContext{
		UserID:           q.UserID,
		SeedPositions:    q.Positions,
		TargetCategories: cats,
		Items:            q.Items,
		Scoring:          scoring,
		TopK:             topK,
		FinalK:           finalK,
		UseRerank:        q.UseRerank,
	}

	pool, err := e.retriever.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}

	initial := countByCategory(pool, cats)

	items, err := e.quota.Process(ctx, rctx, pool)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Int("pool", len(pool)).
		Int("final", len(items)).
		Int("seeds", len(q.Positions)).
		Msg("positions recommendation served")

	return &PositionsResult{
		Items:      items,
		Categories: cats,
		Debug: DebugInfo{
			PoolSize:      len(pool),
			InitialCounts: initial,
			FinalCounts:   countByCategory(items, cats),
		},
	}, nil
}

// resolveCategories 解析目标类目：请求给了就归一化用之；否则按
// 种子多数类目推断（多数类目排首位），参照单品的类目并入尾部。
func (e *Engine) resolveCategories(q PositionsQuery, vs core.VectorStore) []core.Category {
	if len(q.Categories) > 0 {
		out := make([]core.Category, 0, len(q.Categories))
		seen := make(map[core.Category]bool, len(q.Categories))
		for _, raw := range q.Categories {
			c := core.NormalizeCategory(raw)
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
		return out
	}

	var seedCats []core.Category
	for _, pos := range q.Positions {
		if p := vs.ProductAt(pos); p != nil {
			seedCats = append(seedCats, p.Category)
		}
	}
	for _, item := range q.Items {
		if item.Category != "" {
			seedCats = append(seedCats, core.NormalizeCategory(item.Category))
		}
	}
	return core.MajorityFirst(seedCats)
}

// VectorQuery 是外部向量查询请求。
type VectorQuery struct {
	// Vector 查询向量，维度必须等于快照维度
	Vector []float64

	// Category 结果类目限定（原词，内部归一化；空则不限定）
	Category string

	// TopK 返回条数，<=0 取引擎默认
	TopK int

	// Alpha / SimWeight / PriceWeight 打分参数覆盖（nil 取引擎默认）
	Alpha       *float64
	SimWeight   *float64
	PriceWeight *float64
}

// RecommendByVector 按外部向量推荐：打分排序后直接返回，不走配额分配。
// 没有种子价格锚点，价格项以目录均价为中性先验。
func (e *Engine) RecommendByVector(ctx context.Context, q VectorQuery) ([]*core.Item, error) {
	if len(q.Vector) == 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"engine: query vector required")
	}

	scoring := e.scoring
	if q.Alpha != nil {
		scoring.Alpha = *q.Alpha
	}
	if q.SimWeight != nil {
		scoring.SimWeight = *q.SimWeight
	}
	if q.PriceWeight != nil {
		scoring.PriceWeight = *q.PriceWeight
	}

	topK := q.TopK
	if topK <= 0 {
		topK = e.topK
	}

	rctx := &core.RecommendContext{
		QueryVector: q.Vector,
		Scoring:     scoring,
		TopK:        topK,
	}
	if q.Category != "" {
		rctx.CategoryMask = []core.Category{core.NormalizeCategory(q.Category)}
	}

	return e.retriever.Recall(ctx, rctx)
}

// Reload 重载所有支持重载的向量库。逐个执行，失败的保留旧快照；
// 返回所有失败的合并错误，部分成功不回滚。
func (e *Engine) Reload(ctx context.Context) error {
	var errs []error
	for _, vs := range e.stores {
		r, ok := vs.(core.Reloader)
		if !ok {
			continue
		}
		if err := r.Reload(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", vs.Name(), err))
		}
	}
	if len(errs) > 0 {
		return core.WrapDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			"engine: reload", errors.Join(errs...))
	}
	e.logger.Info().Int("stores", len(e.stores)).Msg("vector stores reloaded")
	return nil
}

func countByCategory(items []*core.Item, cats []core.Category) map[core.Category]int {
	counts := make(map[core.Category]int, len(cats))
	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		counts[it.Product.Category]++
	}
	return counts
}
