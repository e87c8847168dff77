package core

import "github.com/stylemate/stylekit/pkg/utils"

// ScoreParams 是混合打分参数：余弦相似度与价格距离的加权。
//
// 约定：SimWeight 与 PriceWeight 各自落在 [0,1]，但不要求二者之和为 1；
// Alpha >= 0，Alpha == 0 时价格完全中立（价格分恒为 1）。
type ScoreParams struct {
	Alpha       float64 // 价格距离衰减率
	SimWeight   float64 // 相似度权重 w1
	PriceWeight float64 // 价格权重 w2
}

// DefaultScoreParams 返回线上默认参数。
func DefaultScoreParams() ScoreParams {
	return ScoreParams{Alpha: 0.38, SimWeight: 0.97, PriceWeight: 0.03}
}

// SeedItem 是调用方随请求附带的参照单品元信息（如用户衣橱里的单品）。
// 用于目标类目推断与重排上下文构建，不参与向量计算。
type SeedItem struct {
	Title       string
	Description string
	Brand       string
	Category    string
	Gender      string
	Tags        []string
}

// RecommendContext 承载一次请求的查询与参数，贯穿整个 Pipeline 透传。
//
// 查询形态二选一：
//   - SeedPositions：按目录位置做相似检索（取种子向量均值）
//   - QueryVector：外部向量直查（如图像嵌入）
type RecommendContext struct {
	UserID string
	Scene  string

	// SeedPositions 是 0-based 种子位置，全部必须落在 [0, N)。
	SeedPositions []int

	// QueryVector 是外部查询向量，维度必须等于快照维度。
	QueryVector []float64

	// TargetCategories 是结果的目标类目（已归一化），为空时由种子多数类目推断。
	TargetCategories []Category

	// CategoryMask 是检索阶段的硬过滤：只允许这些类目的行参与选取。
	// 用于单类目向量查询；与 TargetCategories（配额分配）语义不同。
	CategoryMask []Category

	// Items 是参照单品元信息，用于类目推断与重排上下文。
	Items []SeedItem

	Scoring ScoreParams
	TopK    int
	FinalK  int

	// UseRerank 为真时在配额分配阶段调用外部重排网关（失败时静默回退）。
	UseRerank bool

	// Labels 是请求级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（query、device_type、realtime_ 前缀实时特征等）。
	Params map[string]any
}

// NewRecommendContext 创建一个带默认打分参数的请求上下文，
// 其余字段由调用方按查询形态填充。
func NewRecommendContext() *RecommendContext {
	return &RecommendContext{
		Scoring: DefaultScoreParams(),
	}
}

// HasSeeds 判断是否为位置查询。
func (rctx *RecommendContext) HasSeeds() bool {
	return len(rctx.SeedPositions) > 0
}

// HasVector 判断是否为外部向量查询。
func (rctx *RecommendContext) HasVector() bool {
	return len(rctx.QueryVector) > 0
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
