package catalog

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/vector"
)

// SQLiteLoader 从遗留库表构建快照。
//
// 两张表按 pos 升序对齐：products 持有商品字段（历史列名），embeddings
// 的 value 列既可能是 float32 小端 BLOB 也可能是 JSON 数组文本，逐行
// 自动识别。行数不一致时快照构造失败，数据源整体不可用。
type SQLiteLoader struct {
	DSN string
}

func NewSQLiteLoader(dsn string) *SQLiteLoader { return &SQLiteLoader{DSN: dsn} }

func (l *SQLiteLoader) Name() string { return "catalog.sqlite" }

func (l *SQLiteLoader) Load(ctx context.Context) (*vector.Snapshot, error) {
	db, err := sql.Open("sqlite", l.DSN)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			"catalog: open sqlite", err)
	}
	defer db.Close()

	products, err := l.loadProducts(ctx, db)
	if err != nil {
		return nil, err
	}
	vectors, err := l.loadEmbeddings(ctx, db)
	if err != nil {
		return nil, err
	}
	return vector.NewSnapshot(products, vectors)
}

func (l *SQLiteLoader) loadProducts(ctx context.Context, db *sql.DB) ([]*core.Product, error) {
	const query = `
		SELECT pos,
		       "Product_U",
		       "Product_img_U",
		       "Product_N",
		       "Product_Desc",
		       "Product_P",
		       "Category",
		       "Product_B",
		       "Product_G",
		       "Image_P"
		FROM products
		ORDER BY pos ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			"catalog: query products", err)
	}
	defer rows.Close()

	var products []*core.Product
	for rows.Next() {
		var (
			pos                                  int
			productURL, imageURL, title, desc    sql.NullString
			price, category, brand, gender, imgP sql.NullString
		)
		if err := rows.Scan(&pos, &productURL, &imageURL, &title, &desc, &price, &category, &brand, &gender, &imgP); err != nil {
			return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError,
				"catalog: scan product row", err)
		}

		p := core.NewProduct(pos)
		p.Title = title.String
		if p.Title == "" {
			p.Title = desc.String
		}
		p.Brand = brand.String
		p.Category = core.SlotCategory(category.String)
		p.Gender = core.NormalizeGender(gender.String)
		p.Price = core.ParsePrice(price.String)
		p.ProductURL = productURL.String
		p.ImageURL = imageURL.String
		if p.ImageURL == "" {
			p.ImageURL = imgP.String
		}

		// 历史惯例：品牌与原始性别串一并入 tags，供关键词检索命中。
		p.Tags = []string{}
		if p.Brand != "" {
			p.Tags = append(p.Tags, p.Brand)
		}
		if gender.String != "" {
			p.Tags = append(p.Tags, gender.String)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			"catalog: iterate products", err)
	}
	return products, nil
}

func (l *SQLiteLoader) loadEmbeddings(ctx context.Context, db *sql.DB) ([][]float64, error) {
	rows, err := db.QueryContext(ctx, `SELECT pos, "value" FROM embeddings ORDER BY pos ASC`)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			"catalog: query embeddings", err)
	}
	defer rows.Close()

	var out [][]float64
	for rows.Next() {
		var (
			pos int
			raw []byte
		)
		if err := rows.Scan(&pos, &raw); err != nil {
			return nil, core.WrapDomainError(core.ModuleVector, core.ErrorCodeInternalError,
				"catalog: scan embedding row", err)
		}
		v, err := decodeEmbedding(raw)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog: embedding at pos %d", pos), err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			"catalog: iterate embeddings", err)
	}
	return out, nil
}

// decodeEmbedding 识别两种历史存储格式：JSON 数组文本与 float32 小端 BLOB。
func decodeEmbedding(raw []byte) ([]float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var v []float64
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return vector.UnpackEmbedding(raw)
}

var _ vector.Loader = (*SQLiteLoader)(nil)
