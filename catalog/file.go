package catalog

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pkg/conv"
	"github.com/stylemate/stylekit/vector"
)

// fileProduct 是目录文件里的原始行。price 可能是数字也可能是带货币符号的
// 字符串，tags 之外的字段都允许缺省，解码后在边界统一归一化。
type fileProduct struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Brand      string   `json:"brandName"`
	Category   string   `json:"category"`
	Gender     string   `json:"gender"`
	Price      any      `json:"price"`
	Tags       []string `json:"tags"`
	ImageURL   string   `json:"imageUrl"`
	ProductURL string   `json:"productUrl"`
}

func priceOf(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return core.ParsePrice(x)
	default:
		if f, ok := conv.ToFloat64(v); ok {
			return int(f)
		}
		return 0
	}
}

// LoadProducts 读取商品 JSON 文件并在边界归一化。
//
// 全栈以行号为身份：无论文件里写了什么 id，都被行号覆盖，
// 保证目录、向量矩阵、请求里的 position 指向同一行。
func LoadProducts(path string) ([]*core.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog: read %s", path), err)
	}

	var rows []fileProduct
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: decode %s", path), err)
	}

	products := make([]*core.Product, len(rows))
	for i, r := range rows {
		products[i] = buildProduct(i, r)
	}
	return products, nil
}

// buildProduct 把原始行归一化成目录商品，身份固定为行号。
func buildProduct(i int, r fileProduct) *core.Product {
	p := core.NewProduct(i)
	p.Title = r.Title
	p.Brand = r.Brand
	p.Category = core.NormalizeCategory(r.Category)
	p.Gender = core.NormalizeGender(r.Gender)
	p.Price = priceOf(r.Price)
	p.Tags = r.Tags
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.ImageURL = r.ImageURL
	p.ProductURL = r.ProductURL
	return p
}

// LoadVectors 读取向量 JSON 文件（数组的数组）。行维度校验交给快照构造。
func LoadVectors(path string) ([][]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			fmt.Sprintf("catalog: read %s", path), err)
	}
	var rows [][]float64
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, core.WrapDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: decode %s", path), err)
	}
	return rows, nil
}

// FileLoader 从一对 JSON 文件（商品表 + 向量矩阵）构建快照。
type FileLoader struct {
	ProductsPath string
	VectorsPath  string
}

func NewFileLoader(productsPath, vectorsPath string) *FileLoader {
	return &FileLoader{ProductsPath: productsPath, VectorsPath: vectorsPath}
}

func (l *FileLoader) Name() string { return "catalog.file" }

func (l *FileLoader) Load(ctx context.Context) (*vector.Snapshot, error) {
	products, err := LoadProducts(l.ProductsPath)
	if err != nil {
		return nil, err
	}
	vectors, err := LoadVectors(l.VectorsPath)
	if err != nil {
		return nil, err
	}
	return vector.NewSnapshot(products, vectors)
}

var _ vector.Loader = (*FileLoader)(nil)
