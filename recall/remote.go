package recall

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/pipeline"
	"github.com/stylemate/stylekit/pkg/utils"
)

// Remote 是外部推荐服务的 HTTP 召回源。
//
// 服务契约：
//
//	GET /health
//	GET /recommend?query_positions=1&query_positions=3&top_k=5&alpha=0.38&w1=0.97&w2=0.03
//
// 响应是行数组，沿用遗留列名：
//
//	[{"pos": 7, "Product_U": "...", "Product_Desc": "...", "Product_P": 59000, "Category": "man_top", "score": 0.91}]
//
// 仅支持种子位置查询；外部向量没有跨进程传输契约。
type Remote struct {
	// BaseURL 服务根地址，例如 "http://localhost:8081"
	BaseURL string

	// Timeout 请求超时时间
	Timeout time.Duration

	// Client HTTP 客户端（可选，默认按 Timeout 构建）
	Client *http.Client
}

// NewRemote 创建外部召回源。
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (r *Remote) Name() string        { return "recall.remote" }
func (r *Remote) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Remote) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return &http.Client{Timeout: r.Timeout}
}

// Available 探活：BaseURL 已配置且 /health 返回 2xx。
func (r *Remote) Available(ctx context.Context) bool {
	if r.BaseURL == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := r.client().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// remoteRow 是外部服务的行结构（遗留列名）。
type remoteRow struct {
	Pos      *int    `json:"pos"`
	URL      string  `json:"Product_U"`
	Desc     string  `json:"Product_Desc"`
	Price    any     `json:"Product_P"`
	Category string  `json:"Category"`
	Score    float64 `json:"score"`
}

// Process 实现管线节点接口。
func (r *Remote) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Remote) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.BaseURL == "" {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			"recall: remote base url not configured")
	}
	if rctx == nil || !rctx.HasSeeds() {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: remote recall requires seed positions")
	}

	params := url.Values{}
	for _, pos := range rctx.SeedPositions {
		params.Add("query_positions", strconv.Itoa(pos))
	}
	params.Set("top_k", strconv.Itoa(rctx.TopK))
	params.Set("alpha", strconv.FormatFloat(rctx.Scoring.Alpha, 'f', -1, 64))
	params.Set("w1", strconv.FormatFloat(rctx.Scoring.SimWeight, 'f', -1, 64))
	params.Set("w2", strconv.FormatFloat(rctx.Scoring.PriceWeight, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.BaseURL+"/recommend?"+params.Encode(), nil)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleRecall, core.ErrorCodeInternalError,
			"recall: build remote request", err)
	}

	resp, err := r.client().Do(req)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			"recall: remote call failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			fmt.Sprintf("recall: remote status %d: %s", resp.StatusCode, string(body)))
	}

	var rows []remoteRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, core.WrapDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: decode remote response", err)
	}

	items := make([]*core.Item, 0, len(rows))
	for _, row := range rows {
		p := remoteProduct(row)
		it := core.NewItem(p)
		it.Score = row.Score
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		items = append(items, it)
	}
	return items, nil
}

// remoteProduct 把外部行映射为目录商品。
// pos 缺失时置 -1（目录外条目），类目缺省按遗留惯例补 top。
func remoteProduct(row remoteRow) *core.Product {
	p := &core.Product{Position: -1, Tags: []string{}}
	if row.Pos != nil {
		p.Position = *row.Pos
		p.ID = strconv.Itoa(*row.Pos)
	}
	p.Title = row.Desc
	p.Price = remotePrice(row.Price)
	cat := row.Category
	if cat == "" {
		cat = "top"
	}
	p.Category = core.NormalizeCategory(cat)
	p.Gender = core.GenderUnknown
	p.ProductURL = row.URL
	return p
}

func remotePrice(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return core.ParsePrice(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

var _ Source = (*Remote)(nil)
