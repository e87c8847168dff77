package catalog

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stylemate/stylekit/core"
)

// Service 在目录源之上提供统计、关键词检索与相似款查找。
//
// 检索是纯文本打分：整词命中计 ExactWeight，整词未中但任一空白分词
// 命中计 PartialWeight，超过阈值的按分数降序稳定排序。向量召回之外的
// 轻量补充路径，也是外部风格分析结果落到目录的入口。
type Service struct {
	source core.CatalogSource
	logger zerolog.Logger

	// MaxPerCategory 相似款查找每类目的默认条数
	MaxPerCategory int

	// ScoreThreshold 检索的默认分数阈值（严格大于才保留）
	ScoreThreshold float64

	// ExactWeight 整个关键词作为子串命中时的加分
	ExactWeight float64

	// PartialWeight 关键词分词命中时的加分
	PartialWeight float64
}

// ServiceOption 目录服务配置选项
type ServiceOption func(*Service)

// WithMaxPerCategory 设置相似款查找的每类目默认条数
func WithMaxPerCategory(n int) ServiceOption {
	return func(s *Service) { s.MaxPerCategory = n }
}

// WithScoreThreshold 设置检索分数阈值
func WithScoreThreshold(t float64) ServiceOption {
	return func(s *Service) { s.ScoreThreshold = t }
}

// WithWeights 设置整词/分词命中权重
func WithWeights(exact, partial float64) ServiceOption {
	return func(s *Service) {
		s.ExactWeight = exact
		s.PartialWeight = partial
	}
}

// WithServiceLogger 设置日志器
func WithServiceLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger.With().Str("component", "catalog.service").Logger()
	}
}

// NewService 创建目录服务。
func NewService(source core.CatalogSource, opts ...ServiceOption) *Service {
	s := &Service{
		source:         source,
		logger:         zerolog.Nop(),
		MaxPerCategory: 3,
		ScoreThreshold: 0,
		ExactWeight:    1.0,
		PartialWeight:  0.5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Name() string { return "catalog.service/" + s.source.Name() }

// GetAll 返回全量商品。
func (s *Service) GetAll() []*core.Product { return s.source.GetAll() }

// Stats 返回目录统计。
func (s *Service) Stats() *core.CatalogStats { return s.source.Stats() }

// scoreProduct 对单个商品计算关键词得分。命中文本是小写的标题加标签。
func (s *Service) scoreProduct(p *core.Product, keywords []string) float64 {
	itemText := strings.ToLower(p.Title + " " + strings.Join(p.Tags, " "))
	score := 0.0
	for _, kw := range keywords {
		if strings.Contains(itemText, kw) {
			score += s.ExactWeight
			continue
		}
		for _, tok := range strings.Fields(kw) {
			if strings.Contains(itemText, tok) {
				score += s.PartialWeight
				break
			}
		}
	}
	return score
}

// SearchQuery 是关键词检索参数。零值字段取服务默认。
type SearchQuery struct {
	Keywords   []string
	Categories []core.Category // 为空时取闭集五类
	Limit      int             // <=0 时取 10
	Threshold  float64         // 0 时取服务默认阈值
	Pool       []*core.Product // 为空时检索全目录
}

// Search 关键词检索，按分数降序稳定排序（同分保持目录序）。
func (s *Service) Search(q SearchQuery) []*core.Item {
	keywords := make([]string, 0, len(q.Keywords))
	for _, kw := range q.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	categories := q.Categories
	if len(categories) == 0 {
		categories = core.KnownCategories()
	}
	allowed := make(map[core.Category]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	threshold := q.Threshold
	if threshold == 0 {
		threshold = s.ScoreThreshold
	}

	pool := q.Pool
	if pool == nil {
		pool = s.source.GetAll()
	}

	var results []*core.Item
	for _, p := range pool {
		if !allowed[p.Category] {
			continue
		}
		score := s.scoreProduct(p, keywords)
		if score > threshold {
			item := core.NewItem(p)
			item.Score = score
			results = append(results, item)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// StyleAnalysis 是外部视觉/文本分析产出的关键词集合，字段全部可选。
type StyleAnalysis struct {
	Tags          []string `json:"tags"`
	Captions      []string `json:"captions"`
	Top           []string `json:"top"`
	Pants         []string `json:"pants"`
	Shoes         []string `json:"shoes"`
	OverallStyle  []string `json:"overall_style"`
	DetectedStyle []string `json:"detected_style"`
	Colors        []string `json:"colors"`
	Categories    []string `json:"categories"`
}

// Keywords 按固定字段序拍平全部关键词。
func (a StyleAnalysis) Keywords() []string {
	var out []string
	for _, group := range [][]string{
		a.Tags, a.Captions, a.Top, a.Pants, a.Shoes,
		a.OverallStyle, a.DetectedStyle, a.Colors, a.Categories,
	} {
		out = append(out, group...)
	}
	return out
}

// SimilarQuery 是相似款查找参数。
type SimilarQuery struct {
	Analysis       StyleAnalysis
	MaxPerCategory int             // <=0 时取服务默认
	MinPrice       int             // <=0 视为无下限
	MaxPrice       int             // <=0 视为无上限
	ExcludeTags    []string        // 命中任一标签（小写比较）即剔除
	Pool           []*core.Product // 为空时检索全目录
}

// FindSimilar 按类目查找与分析关键词相似的商品。
//
// 每个类目先放量检索（默认条数的三倍）再过价格窗与标签剔除，
// 最后截断，避免过滤把候选清空。
func (s *Service) FindSimilar(q SimilarQuery) map[core.Category][]*core.Item {
	keywords := q.Analysis.Keywords()
	s.logger.Debug().Strs("keywords", keywords).Msg("find similar keywords")

	maxPer := q.MaxPerCategory
	if maxPer <= 0 {
		maxPer = s.MaxPerCategory
	}

	exclude := make(map[string]bool, len(q.ExcludeTags))
	for _, t := range q.ExcludeTags {
		exclude[strings.ToLower(t)] = true
	}

	out := make(map[core.Category][]*core.Item, len(core.KnownCategories()))
	for _, cat := range core.KnownCategories() {
		items := s.Search(SearchQuery{
			Keywords:   keywords,
			Categories: []core.Category{cat},
			Limit:      maxPer * 3,
			Pool:       q.Pool,
		})

		kept := items[:0]
		for _, it := range items {
			price := it.Product.Price
			if q.MinPrice > 0 && price < q.MinPrice {
				continue
			}
			if q.MaxPrice > 0 && price > q.MaxPrice {
				continue
			}
			if len(exclude) > 0 && hasAnyTag(it.Product.Tags, exclude) {
				continue
			}
			kept = append(kept, it)
		}
		if len(kept) > maxPer {
			kept = kept[:maxPer]
		}
		out[cat] = kept
	}
	return out
}

func hasAnyTag(tags []string, exclude map[string]bool) bool {
	for _, t := range tags {
		if exclude[strings.ToLower(t)] {
			return true
		}
	}
	return false
}
