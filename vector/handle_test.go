package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stylemate/stylekit/core"
)

type stubLoader struct {
	snaps []*Snapshot
	errs  []error
	calls int
}

func (l *stubLoader) Name() string { return "stub" }

func (l *stubLoader) Load(ctx context.Context) (*Snapshot, error) {
	i := l.calls
	l.calls++
	if i < len(l.errs) && l.errs[i] != nil {
		return nil, l.errs[i]
	}
	return l.snaps[i], nil
}

func mustSnapshot(t *testing.T, prices []int, vectors [][]float64) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(testProducts(prices...), vectors)
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	return snap
}

func TestHandleLoadAndReload(t *testing.T) {
	first := mustSnapshot(t, []int{100}, [][]float64{{1, 0}})
	second := mustSnapshot(t, []int{100, 200}, [][]float64{{1, 0}, {0, 1}})

	h := NewHandle(&stubLoader{snaps: []*Snapshot{first, second}}, zerolog.Nop())
	if h.Available() {
		t.Error("Available() = true before first Load")
	}

	if err := h.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !h.Available() || h.Size() != 1 {
		t.Fatalf("after Load: available=%v size=%d, want true/1", h.Available(), h.Size())
	}

	if err := h.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if h.Size() != 2 {
		t.Errorf("after Reload: size = %d, want 2", h.Size())
	}
}

func TestHandleReloadFailureKeepsSnapshot(t *testing.T) {
	first := mustSnapshot(t, []int{100, 200}, [][]float64{{1, 0}, {0, 1}})
	loadErr := errors.New("source gone")

	h := NewHandle(&stubLoader{snaps: []*Snapshot{first, nil}, errs: []error{nil, loadErr}}, zerolog.Nop())
	if err := h.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := h.Reload(context.Background()); !errors.Is(err, loadErr) {
		t.Fatalf("Reload() error = %v, want %v", err, loadErr)
	}
	if !h.Available() || h.Size() != 2 {
		t.Errorf("failed reload must keep previous snapshot: available=%v size=%d", h.Available(), h.Size())
	}
}

func TestHandleCurrentPinsGeneration(t *testing.T) {
	first := mustSnapshot(t, []int{100}, [][]float64{{1, 0}})
	second := mustSnapshot(t, []int{100, 200, 300}, [][]float64{{1, 0}, {0, 1}, {1, 1}})

	h := NewHandle(&stubLoader{snaps: []*Snapshot{first, second}}, zerolog.Nop())
	if err := h.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pinned := h.Current()
	if err := h.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if pinned.Size() != 1 {
		t.Errorf("pinned view size = %d, want 1 (pre-reload)", pinned.Size())
	}
	if h.Size() != 3 {
		t.Errorf("handle size = %d, want 3 (post-reload)", h.Size())
	}
}

func TestHandleImplementsStoreContracts(t *testing.T) {
	var vs core.VectorStore = &Handle{}
	if vs.Available() {
		t.Error("zero handle Available() = true, want false")
	}
	var _ core.Reloader = &Handle{}
}
