// Package store 提供键值存储实现。
//
// 接口定义在 core 包（core.Store / core.KeyValueStore），此包只有实现：
//   - MemoryStore：进程内存储，开发与测试用
//   - RedisStore：生产环境存储，目录 Hash 加载、重排摘要缓存、已购位置集都走它
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store
