package vector

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/stylemate/stylekit/core"
)

// Loader 一次性产出完整快照。不同数据源（SQLite、JSON 文件、Redis）各自实现。
type Loader interface {
	Name() string
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshotter 提供请求期间不变的一致视图。
// 召回入口应升级到该接口并固定一份快照，避免重载换代导致位置错位。
type Snapshotter interface {
	Current() core.VectorStore
}

// Handle 是可热重载的向量库句柄：读路径走原子指针上的不可变快照，
// 重载在旁路构建新快照后整体替换，失败时保留旧快照继续服务。
type Handle struct {
	loader Loader
	snap   atomic.Pointer[Snapshot]
	logger zerolog.Logger
}

// NewHandle 创建空句柄。首次 Load 成功之前 Available 为 false。
func NewHandle(loader Loader, logger zerolog.Logger) *Handle {
	return &Handle{
		loader: loader,
		logger: logger.With().Str("component", "vector.handle").Str("loader", loader.Name()).Logger(),
	}
}

// Load 执行首次加载。失败时句柄保持不可用并返回错误。
func (h *Handle) Load(ctx context.Context) error {
	start := time.Now()
	snap, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("vector snapshot load failed")
		return err
	}
	h.snap.Store(snap)
	h.logger.Info().
		Int("size", snap.Size()).
		Int("dim", snap.Dim()).
		Dur("elapsed", time.Since(start)).
		Msg("vector snapshot loaded")
	return nil
}

// Reload 重新加载快照。新快照构建失败时不触碰现有快照，在线请求不受影响。
func (h *Handle) Reload(ctx context.Context) error {
	start := time.Now()
	snap, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("vector snapshot reload failed, keeping previous snapshot")
		return err
	}
	old := h.snap.Swap(snap)
	oldSize := 0
	if old != nil {
		oldSize = old.Size()
	}
	h.logger.Info().
		Int("size", snap.Size()).
		Int("previous_size", oldSize).
		Dur("elapsed", time.Since(start)).
		Msg("vector snapshot reloaded")
	return nil
}

// Current 返回当前快照。快照为 nil 时各读方法按空库表现。
func (h *Handle) Current() core.VectorStore { return h.snap.Load() }

func (h *Handle) Name() string { return "vector.handle/" + h.loader.Name() }

func (h *Handle) Available() bool { return h.snap.Load().Available() }

func (h *Handle) Size() int { return h.snap.Load().Size() }

func (h *Handle) Dim() int { return h.snap.Load().Dim() }

func (h *Handle) VectorAt(pos int) []float64 { return h.snap.Load().VectorAt(pos) }

func (h *Handle) PriceAt(pos int) float64 { return h.snap.Load().PriceAt(pos) }

func (h *Handle) ProductAt(pos int) *core.Product { return h.snap.Load().ProductAt(pos) }

func (h *Handle) Products() []*core.Product { return h.snap.Load().Products() }

// MeanPrice 透传当前快照的目录均价。
func (h *Handle) MeanPrice() float64 { return h.snap.Load().MeanPrice() }

var (
	_ core.VectorStore = (*Handle)(nil)
	_ core.Reloader    = (*Handle)(nil)
	_ MeanPricer       = (*Handle)(nil)
	_ Snapshotter      = (*Handle)(nil)
)
