// Package catalog 提供商品目录的加载与查询服务。
//
// 加载器负责把不同数据源（JSON 文件、SQLite、Redis Hash）的商品与向量
// 读入内存并在边界处归一化类目/性别/价格；Service 在加载结果之上提供
// 统计、关键词检索与相似款查找。
package catalog

import (
	"github.com/stylemate/stylekit/core"
)

// StaticSource 是内存目录源，持有加载完成后的只读商品表。
type StaticSource struct {
	name     string
	products []*core.Product
	stats    *core.CatalogStats
}

// NewStaticSource 以商品列表构造目录源，统计在构造时一次算好。
func NewStaticSource(name string, products []*core.Product) *StaticSource {
	return &StaticSource{
		name:     name,
		products: products,
		stats:    core.ComputeCatalogStats(products),
	}
}

func (s *StaticSource) Name() string { return "catalog.static/" + s.name }

func (s *StaticSource) GetAll() []*core.Product { return s.products }

func (s *StaticSource) Stats() *core.CatalogStats { return s.stats }

// StoreSource 把向量库快照当作目录源复用，商品表即快照的商品表。
// 统计按当前快照现算，以便热重载后保持一致。
type StoreSource struct {
	vs core.VectorStore
}

func NewStoreSource(vs core.VectorStore) *StoreSource { return &StoreSource{vs: vs} }

func (s *StoreSource) Name() string { return "catalog.store/" + s.vs.Name() }

func (s *StoreSource) GetAll() []*core.Product { return s.vs.Products() }

func (s *StoreSource) Stats() *core.CatalogStats {
	return core.ComputeCatalogStats(s.vs.Products())
}

var (
	_ core.CatalogSource = (*StaticSource)(nil)
	_ core.CatalogSource = (*StoreSource)(nil)
)
