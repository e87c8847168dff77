package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/stylemate/stylekit/core"
)

// HTTPEmbedder 是文本嵌入服务的 HTTP 客户端。
//
// 服务契约：
//
//	POST /embed  {"text": "..."}  →  {"embedding": [0.1, ...]}
//	GET  /health
//
// 典型用途：把检索词或单品描述转成查询向量，再走向量召回。
type HTTPEmbedder struct {
	// BaseURL 服务根地址，例如 "http://localhost:8090"
	BaseURL string

	// Timeout 超时时间
	Timeout time.Duration

	httpClient *http.Client
}

// EmbedderOption 嵌入客户端配置选项
type EmbedderOption func(*HTTPEmbedder)

// WithEmbedderTimeout 设置超时时间
func WithEmbedderTimeout(timeout time.Duration) EmbedderOption {
	return func(c *HTTPEmbedder) {
		c.Timeout = timeout
	}
}

// NewHTTPEmbedder 创建文本嵌入客户端。
func NewHTTPEmbedder(baseURL string, opts ...EmbedderOption) *HTTPEmbedder {
	c := &HTTPEmbedder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = &http.Client{Timeout: c.Timeout}
	return c
}

func (c *HTTPEmbedder) Name() string { return "service.embedder" }

// Embed 将文本编码为稠密向量。
func (c *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if c.BaseURL == "" {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: embedder base url not configured")
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError,
			"service: marshal embed request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError,
			"service: build embed request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: embed call failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			fmt.Sprintf("service: embed status %d: %s", resp.StatusCode, string(b)))
	}

	var result struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: decode embed response", err)
	}
	if len(result.Embedding) == 0 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: embedder returned empty vector")
	}
	return result.Embedding, nil
}

// Health 探测服务可用性。
func (c *HTTPEmbedder) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError,
			"service: build health request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: embedder health check failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			fmt.Sprintf("service: embedder health status %d", resp.StatusCode))
	}
	return nil
}

var _ core.Embedder = (*HTTPEmbedder)(nil)
