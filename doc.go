// Package stylekit 是嵌入式时尚商品推荐引擎。
//
// 核心链路：种子位置（或外部向量）→ 聚合查询向量 → 余弦相似度与
// 价格距离的混合打分 → Top-K 召回 → 类目配额分配（放量回捞、目录
// 回填、可选 LLM 重排）→ 身份去重与签名分散挑选。
//
// 分层：
//   - core：领域模型与接口（Product/Item、类目归一化、身份键、错误）
//   - vector：向量快照、混合打分、部分选择、热重载句柄
//   - catalog：SQLite/JSON/Redis 加载器与目录服务
//   - recall / filter / rank / rerank / feature：管线节点
//   - service / feast：外部服务客户端（LLM 重排、文本嵌入、在线特征）
//   - pipeline / config：编排框架与配置驱动构建
//
// 最小用法：
//
//	handle := vector.NewHandle(catalog.NewSQLiteLoader("catalog.db"), logger)
//	if err := handle.Load(ctx); err != nil { ... }
//	engine := stylekit.New(
//	    []core.VectorStore{handle},
//	    catalog.NewStoreSource(handle),
//	    stylekit.WithLogger(logger),
//	)
//	result, err := engine.RecommendByPositions(ctx, stylekit.PositionsQuery{
//	    Positions: []int{12, 48},
//	    FinalK:    3,
//	})
package stylekit
