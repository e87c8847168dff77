package core

import "math"

// CatalogSource 是商品目录的只读领域接口。
//
// 目录在进程启动时整体加载，请求期间只读；补位回填、类目推断、
// 关键词检索都经由它取数。实现方保证返回的切片不被修改。
type CatalogSource interface {
	// Name 返回目录源名称
	Name() string

	// GetAll 返回全部商品（按 Position 升序）
	GetAll() []*Product

	// Stats 返回目录统计
	Stats() *CatalogStats
}

// PriceRange 是目录价格区间统计。
type PriceRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Average int `json:"average"`
}

// CatalogStats 是目录概览统计。
// Categories 的 key 用商品上的原始类目值，未归一化的词也会如实出现，
// 便于观测数据源里尚未收敛的类目。
type CatalogStats struct {
	TotalProducts int            `json:"totalProducts"`
	Categories    map[string]int `json:"categories"`
	PriceRange    PriceRange     `json:"priceRange"`
}

// ComputeCatalogStats 对商品列表做统计。空目录返回零值区间。
func ComputeCatalogStats(products []*Product) *CatalogStats {
	stats := &CatalogStats{
		TotalProducts: len(products),
		Categories:    make(map[string]int),
	}
	if len(products) == 0 {
		return stats
	}

	minPrice := math.MaxInt
	maxPrice := 0
	total := 0
	for _, p := range products {
		cat := string(p.Category)
		if cat == "" {
			cat = string(CategoryUnknown)
		}
		stats.Categories[cat]++

		total += p.Price
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}

	stats.PriceRange = PriceRange{
		Min:     minPrice,
		Max:     maxPrice,
		Average: int(math.Round(float64(total) / float64(len(products)))),
	}
	return stats
}
