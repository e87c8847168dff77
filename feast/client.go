// Package feast 提供 Feast Feature Store 的在线特征客户端。
//
// 商品的行为统计特征（点击率、近期曝光、热度分）由离线链路物化到
// Feast 在线存储，推荐链路经由这里按 position/id 实时取数，
// 供 feature.EnrichNode 注入候选特征。
package feast

import (
	"context"
	"time"
)

// Client 是 Feast 在线特征客户端的领域接口。
//
// 设计原则（DDD）：
//   - 领域层：Client 接口保持稳定
//   - 基础设施层：GrpcClient（官方 SDK）实现此接口
//   - 高内聚低耦合：通过接口抽象，可以替换实现
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时预测）
	//
	// 参数：
	//   - features: 特征名称列表，例如 ["product_stats:ctr", "product_stats:popularity"]
	//   - entityRows: 实体行，例如 [{"product_id": "1001"}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["product_stats:ctr", "product_stats:popularity"]
	Features []string

	// EntityRows 实体行，例如 [{"product_id": "1001"}, {"product_id": "1002"}]
	EntityRows []map[string]any

	// Project 项目名称（可选，为空时取客户端默认）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]any

	// EntityRow 对应的实体行
	EntityRow map[string]any
}

// ClientOption Feast 客户端配置选项
type ClientOption func(*ClientConfig)

// ClientConfig Feast 客户端配置
type ClientConfig struct {
	// Endpoint 服务端点
	Endpoint string

	// Project 项目名称
	Project string

	// Timeout 超时时间
	Timeout time.Duration

	// Auth 认证信息
	Auth *AuthConfig
}

// AuthConfig 认证配置
type AuthConfig struct {
	// Type 认证类型：static（gRPC 静态 Token）
	Type string

	// Token 静态 Token
	Token string
}

// WithTimeout 配置选项：设置超时时间
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithAuth 配置选项：设置认证信息
func WithAuth(auth *AuthConfig) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = auth
	}
}
