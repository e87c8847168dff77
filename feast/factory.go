package feast

import (
	"strconv"
	"strings"
)

// NewClient 统一的客户端创建函数。
//
// 参数：
//   - endpoint: 服务端点，"localhost:6565" 或 "grpc://localhost:6565"
//   - project: 项目名称
//
// 示例：
//
//	client, err := feast.NewClient("localhost:6565", "stylemate")
func NewClient(endpoint, project string, opts ...ClientOption) (Client, error) {
	host, port := parseEndpoint(endpoint)
	return NewGrpcClient(host, port, project, opts...)
}

// parseEndpoint 解析端点地址，返回 host 和 port。
// 没有端口时 port 返回 0，由客户端取默认值。
func parseEndpoint(endpoint string) (string, int) {
	endpoint = strings.TrimPrefix(endpoint, "grpc://")

	parts := strings.Split(endpoint, ":")
	if len(parts) == 2 {
		port, err := strconv.Atoi(parts[1])
		if err == nil {
			return parts[0], port
		}
	}
	return endpoint, 0
}
