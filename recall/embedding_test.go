package recall

import (
	"context"
	"testing"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/vector"
)

// demoSnapshot 构造五件商品的快照：类目 [top, top, pants, shoes, outer]。
// 行向量让位置 1 与位置 0 完全同向，2/3/4 依次远离。
func demoSnapshot(t *testing.T) *vector.Snapshot {
	t.Helper()
	cats := []core.Category{
		core.CategoryTop, core.CategoryTop, core.CategoryPants,
		core.CategoryShoes, core.CategoryOuter,
	}
	products := make([]*core.Product, len(cats))
	for i, c := range cats {
		p := core.NewProduct(i)
		p.Title = "item-" + p.ID
		p.Category = c
		p.Price = 10000 * (i + 1)
		products[i] = p
	}
	vectors := [][]float64{
		{1, 0},
		{1, 0},
		{0.8, 0.6},
		{0, 1},
		{-1, 0},
	}
	snap, err := vector.NewSnapshot(products, vectors)
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	return snap
}

func cosineOnlyContext() *core.RecommendContext {
	rctx := core.NewRecommendContext()
	rctx.Scoring = core.ScoreParams{Alpha: 0, SimWeight: 1, PriceWeight: 0}
	return rctx
}

func TestEmbeddingRecallBySeeds(t *testing.T) {
	r := &Embedding{Stores: []core.VectorStore{demoSnapshot(t)}}

	rctx := cosineOnlyContext()
	rctx.SeedPositions = []int{0}
	rctx.TopK = 4

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}

	// Seeds never surface.
	for _, it := range items {
		if it.Product.Position == 0 {
			t.Error("seed position 0 appeared in results")
		}
	}
	// Scores are descending.
	for i := 1; i < len(items); i++ {
		if items[i-1].Score < items[i].Score {
			t.Errorf("scores not descending at %d: %v < %v", i, items[i-1].Score, items[i].Score)
		}
	}
	// Identical vector ranks first with cosine 1.
	if items[0].Product.Position != 1 || items[0].Score != 1.0 {
		t.Errorf("top item = pos %d score %v, want pos 1 score 1.0", items[0].Product.Position, items[0].Score)
	}
}

func TestEmbeddingRecallTopKExceedsCatalog(t *testing.T) {
	r := &Embedding{Stores: []core.VectorStore{demoSnapshot(t)}}

	rctx := cosineOnlyContext()
	rctx.SeedPositions = []int{0, 1}
	rctx.TopK = 100

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	// Every non-seed row, never padded with seeds.
	if len(items) != 3 {
		t.Errorf("len(items) = %d, want 3 non-seed rows", len(items))
	}
}

func TestEmbeddingRecallValidation(t *testing.T) {
	r := &Embedding{Stores: []core.VectorStore{demoSnapshot(t)}}

	tests := []struct {
		name  string
		setup func(*core.RecommendContext)
	}{
		{
			name:  "seed position out of range",
			setup: func(rctx *core.RecommendContext) { rctx.SeedPositions = []int{0, 5} },
		},
		{
			name:  "negative seed position",
			setup: func(rctx *core.RecommendContext) { rctx.SeedPositions = []int{-1} },
		},
		{
			name:  "neither seeds nor vector",
			setup: func(rctx *core.RecommendContext) {},
		},
		{
			name:  "query vector dim mismatch",
			setup: func(rctx *core.RecommendContext) { rctx.QueryVector = []float64{1, 0, 0} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := cosineOnlyContext()
			rctx.TopK = 3
			tt.setup(rctx)

			_, err := r.Recall(context.Background(), rctx)
			if err == nil {
				t.Fatal("Recall() error = nil, want invalid input")
			}
			if !core.IsInvalidInput(err) {
				t.Errorf("IsInvalidInput(err) = false; err = %v", err)
			}
		})
	}
}

func TestEmbeddingRecallByVectorWithMask(t *testing.T) {
	r := &Embedding{Stores: []core.VectorStore{demoSnapshot(t)}}

	rctx := cosineOnlyContext()
	rctx.QueryVector = []float64{1, 0}
	rctx.CategoryMask = []core.Category{core.CategoryTop}
	rctx.TopK = 10

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2 top-category rows", len(items))
	}
	for _, it := range items {
		if it.Product.Category != core.CategoryTop {
			t.Errorf("masked-out category surfaced: %s", it.Product.Category)
		}
	}
}

func TestEmbeddingProviderChain(t *testing.T) {
	empty, err := vector.NewSnapshot(nil, nil)
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	full := demoSnapshot(t)
	r := &Embedding{Stores: []core.VectorStore{empty, full}}

	if !r.Available() {
		t.Fatal("Available() = false with one live store")
	}

	rctx := cosineOnlyContext()
	rctx.SeedPositions = []int{0}
	rctx.TopK = 2
	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len(items) = %d, want 2 from fallback store", len(items))
	}
}

func TestEmbeddingNoStoreAvailable(t *testing.T) {
	empty, err := vector.NewSnapshot(nil, nil)
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	r := &Embedding{Stores: []core.VectorStore{empty}}

	if r.Available() {
		t.Error("Available() = true with only an empty store")
	}

	rctx := cosineOnlyContext()
	rctx.SeedPositions = []int{0}
	_, err = r.Recall(context.Background(), rctx)
	if !core.IsUnavailable(err) {
		t.Errorf("Recall() err = %v, want unavailable", err)
	}
}
