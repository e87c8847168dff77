// Package service 提供外部服务客户端：LLM 重排网关与文本嵌入服务。
// 客户端只做传输与编解码，合并/回退策略留在 rerank 包。
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

// LLMReranker 是 OpenAI 兼容 chat-completions 接口的重排网关客户端。
//
// 每个类目送审一份有界候选摘要（id、标题、价格、类目、标签），
// 模型返回 类目 → 有序 id 列表 的 JSON 对象。网关的一切失败
// （网络、状态码、JSON 不可解析）都以 UNAVAILABLE 错误上抛，
// 由 rerank.CategoryQuota 静默回退，绝不失败整个请求。
type LLMReranker struct {
	// Endpoint chat-completions 端点，例如 "https://api.openai.com/v1/chat/completions"
	Endpoint string

	// Model 模型名称
	Model string

	// APIKey Bearer 认证密钥（可选，本地部署通常不需要）
	APIKey string

	// Timeout 超时时间
	Timeout time.Duration

	// Temperature 采样温度，重排要求稳定输出，默认 0
	Temperature float64

	httpClient *http.Client
}

// LLMOption LLM 重排客户端配置选项
type LLMOption func(*LLMReranker)

// WithLLMAPIKey 设置 Bearer 认证密钥
func WithLLMAPIKey(key string) LLMOption {
	return func(c *LLMReranker) {
		c.APIKey = key
	}
}

// WithLLMTimeout 设置超时时间
func WithLLMTimeout(timeout time.Duration) LLMOption {
	return func(c *LLMReranker) {
		c.Timeout = timeout
	}
}

// WithLLMTemperature 设置采样温度
func WithLLMTemperature(t float64) LLMOption {
	return func(c *LLMReranker) {
		c.Temperature = t
	}
}

// NewLLMReranker 创建 LLM 重排网关客户端。
func NewLLMReranker(endpoint, model string, opts ...LLMOption) *LLMReranker {
	c := &LLMReranker{
		Endpoint: endpoint,
		Model:    model,
		Timeout:  20 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = &http.Client{Timeout: c.Timeout}
	return c
}

func (c *LLMReranker) Name() string { return "service.llm/" + c.Model }

// Available 判断网关是否已配置。
func (c *LLMReranker) Available() bool {
	return c != nil && c.Endpoint != "" && c.Model != ""
}

// rerankDigest 是送审的候选摘要行。
type rerankDigest struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    int      `json:"price"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const rerankSystemPrompt = "You are a fashion stylist ranking product candidates for an outfit. " +
	"Given the style context and per-category candidate lists, return ONLY a JSON object " +
	"mapping each category to an array of candidate ids ordered from best to worst match. " +
	"Use only ids present in the input. No explanations, no markdown."

// Rerank 实现 core.Reranker。
func (c *LLMReranker) Rerank(
	ctx context.Context,
	analysis *core.RerankAnalysis,
	candidates map[core.Category][]*core.Item,
	topK int,
) (map[core.Category][]string, error) {
	if !c.Available() {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: llm reranker not configured")
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	payload := struct {
		Context    *core.RerankAnalysis      `json:"context,omitempty"`
		TopK       int                       `json:"topK"`
		Candidates map[string][]rerankDigest `json:"candidates"`
	}{
		Context:    analysis,
		TopK:       topK,
		Candidates: make(map[string][]rerankDigest, len(candidates)),
	}
	for cat, items := range candidates {
		rows := make([]rerankDigest, 0, len(items))
		for _, it := range items {
			if it == nil || it.Product == nil {
				continue
			}
			id := it.Product.ID
			if id == "" {
				id = it.Key()
			}
			rows = append(rows, rerankDigest{
				ID:       id,
				Title:    it.Product.Title,
				Price:    it.Product.Price,
				Category: string(it.Product.Category),
				Tags:     it.Product.Tags,
			})
		}
		payload.Candidates[string(cat)] = rows
	}

	userPrompt, err := json.Marshal(payload)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError,
			"service: marshal rerank payload", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: rerankSystemPrompt},
			{Role: "user", Content: string(userPrompt)},
		},
		Temperature: c.Temperature,
	})
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError,
			"service: marshal chat request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError,
			"service: build chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: llm call failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			fmt.Sprintf("service: llm status %d: %s", resp.StatusCode, string(b)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: decode chat response", err)
	}
	if len(chat.Choices) == 0 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: llm returned no choices")
	}

	ranking, err := parseRanking(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			"service: parse llm ranking", err)
	}

	out := make(map[core.Category][]string, len(ranking))
	for cat, ids := range ranking {
		out[core.Category(cat)] = ids
	}
	return out, nil
}

// parseRanking 解析模型输出。模型偶尔会包一层 markdown 代码栅栏，
// 先剥掉再按 JSON 对象解析。
func parseRanking(content string) (map[string][]string, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var ranking map[string][]string
	if err := json.Unmarshal([]byte(content), &ranking); err != nil {
		return nil, err
	}
	return ranking, nil
}

var _ core.Reranker = (*LLMReranker)(nil)
