// Package builders 注册内置 Node 的配置构建器。
// import _ "github.com/stylemate/stylekit/config/builders" 触发注册。
package builders

import (
	"fmt"
	"time"

	"github.com/stylemate/stylekit/config"
	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/feature"
	"github.com/stylemate/stylekit/filter"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/conv"
	"github.com/stylemate/stylekit/recall"
	"github.com/stylemate/stylekit/rerank"
)

func init() {
	config.Register("recall.remote", BuildRemoteNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("recall.embedding", BuildEmbeddingNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.quota", BuildQuotaNode)
	config.Register("feature.enrich", BuildFeatureEnrichNode)
}

func BuildRemoteNode(cfg map[string]any) (pipeline.Node, error) {
	baseURL := conv.ConfigGet(cfg, "base_url", "")
	if baseURL == "" {
		return nil, fmt.Errorf("base_url not found")
	}
	timeout := time.Duration(conv.ConfigGetInt64(cfg, "timeout", 10)) * time.Second
	return recall.NewRemote(baseURL, timeout), nil
}

func BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "remote":
			baseURL := conv.ConfigGet(sourceMap, "base_url", "")
			if baseURL == "" {
				return nil, fmt.Errorf("remote source: base_url not found")
			}
			timeout := time.Duration(conv.ConfigGetInt64(sourceMap, "timeout", 10)) * time.Second
			sources = append(sources, recall.NewRemote(baseURL, timeout))
		case "embedding", "catalog", "keyword":
			// 需要注入向量库/目录实例，无法从纯配置构建
			return nil, fmt.Errorf("source type %q requires injected stores, construct in code", sourceType)
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	fanout.MergeStrategy = conv.ConfigGet(cfg, "merge_strategy", "")
	return fanout, nil
}

func BuildEmbeddingNode(cfg map[string]any) (pipeline.Node, error) {
	return nil, fmt.Errorf("recall.embedding requires injected vector stores, construct in code (supported: %v)", config.SupportedTypes())
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "category":
			raw := conv.ConfigGetStringSlice(filterMap, "allowed")
			allowed := make([]core.Category, 0, len(raw))
			for _, c := range raw {
				allowed = append(allowed, core.NormalizeCategory(c))
			}
			filters = append(filters, &filter.CategoryFilter{Allowed: allowed})

		case "price":
			filters = append(filters, &filter.PriceFilter{
				Min: conv.ConfigGetInt(filterMap, "min", 0),
				Max: conv.ConfigGetInt(filterMap, "max", 0),
			})

		case "tags":
			filters = append(filters, filter.NewTagFilter(conv.ConfigGetStringSlice(filterMap, "exclude")))

		case "seen":
			filters = append(filters, &filter.SeenFilter{
				Keys:      conv.ConfigGetStringSlice(filterMap, "keys"),
				KeyPrefix: conv.ConfigGet(filterMap, "key_prefix", ""),
			})

		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			rule, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("rule filter: %w", err)
			}
			filters = append(filters, rule)

		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{K: conv.ConfigGetInt(cfg, "k", 0)}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func BuildQuotaNode(cfg map[string]any) (pipeline.Node, error) {
	// 回捞源/目录/网关需要注入，纯配置只能调参数
	return &rerank.CategoryQuota{
		BoostMultiplier:      conv.ConfigGetInt(cfg, "boost_multiplier", 0),
		BoostFloor:           conv.ConfigGetInt(cfg, "boost_floor", 0),
		PoolCap:              conv.ConfigGetInt(cfg, "pool_cap", 0),
		RerankCandidateCap:   conv.ConfigGetInt(cfg, "rerank_candidate_cap", 0),
		RerankCandidateFloor: conv.ConfigGetInt(cfg, "rerank_candidate_floor", 0),
		MaxConcurrent:        conv.ConfigGetInt(cfg, "max_concurrent", 0),
	}, nil
}

func BuildFeatureEnrichNode(cfg map[string]any) (pipeline.Node, error) {
	return &feature.EnrichNode{
		Prefix: conv.ConfigGet(cfg, "prefix", ""),
	}, nil
}
