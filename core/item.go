package core

import (
	"strconv"

	"github.com/stylemate/stylekit/pkg/utils"
)

// Product 是不可变的目录条目。
//
// Position 是目录表与向量矩阵共享的 0-based 行号，也是系统的主连接键：
// 目录第 i 行的向量就是矩阵第 i 行。快照加载时校验两者长度一致，
// 不一致的快照整体不可用（fail-closed），不允许部分使用。
//
// 除 Position / Category / Price 外的字段均可为空：异构数据源
// （内部库表、外部目录、仅含向量的远端结果）不保证填充所有字段。
type Product struct {
	Position   int      `json:"pos"` // 目录内无此商品时为 -1（如远端召回结果）
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Brand      string   `json:"brandName,omitempty"`
	Category   Category `json:"category"`
	Gender     Gender   `json:"gender,omitempty"`
	Price      int      `json:"price"`
	Tags       []string `json:"tags"`
	ImageURL   string   `json:"imageUrl,omitempty"`
	ProductURL string   `json:"productUrl,omitempty"`
}

// NewProduct 以行号构造目录商品，ID 默认取行号字符串。
func NewProduct(position int) *Product {
	return &Product{
		Position: position,
		ID:       strconv.Itoa(position),
		Category: CategoryUnknown,
		Gender:   GenderUnknown,
	}
}

// Item 是推荐链路中的统一承载结构：商品、分数、特征、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策，按请求现算、从不持久化。
type Item struct {
	Product  *Product
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(p *Product) *Item {
	return &Item{
		Product:  p,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// Key 返回商品的去重身份键，商品缺失时返回空串。
func (it *Item) Key() string {
	if it == nil || it.Product == nil {
		return ""
	}
	return it.Product.Key()
}

// Signature 返回商品的分散签名，商品缺失时返回空串。
func (it *Item) Signature() string {
	if it == nil || it.Product == nil {
		return ""
	}
	return it.Product.Signature()
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
