package filter

import (
	"context"
	"testing"

	"github.com/stylemate/stylekit/core"
	"github.com/stylemate/stylekit/store"
)

func testItem(id string, cat core.Category, price int, tags ...string) *core.Item {
	return core.NewItem(&core.Product{
		Position: -1,
		ID:       id,
		Title:    "item " + id,
		Category: cat,
		Price:    price,
		Tags:     tags,
	})
}

func TestCategoryFilter(t *testing.T) {
	f := &CategoryFilter{Allowed: []core.Category{core.CategoryTop}}

	tests := []struct {
		name string
		item *core.Item
		want bool
	}{
		{name: "allowed category passes", item: testItem("a", core.CategoryTop, 100), want: false},
		{name: "other category filtered", item: testItem("b", core.CategoryShoes, 100), want: true},
		{name: "nil product filtered", item: &core.Item{}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), nil, tt.item)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryFilterFallsBackToContext(t *testing.T) {
	f := &CategoryFilter{}
	rctx := core.NewRecommendContext()
	rctx.TargetCategories = []core.Category{core.CategoryPants}

	if got, _ := f.ShouldFilter(context.Background(), rctx, testItem("a", core.CategoryPants, 100)); got {
		t.Error("target category should pass")
	}
	if got, _ := f.ShouldFilter(context.Background(), rctx, testItem("b", core.CategoryTop, 100)); !got {
		t.Error("non-target category should be filtered")
	}

	// 两边都没有类目约束时全放行。
	if got, _ := f.ShouldFilter(context.Background(), core.NewRecommendContext(), testItem("c", core.CategoryTop, 100)); got {
		t.Error("no constraint should pass everything")
	}
}

func TestPriceFilter(t *testing.T) {
	f := &PriceFilter{Min: 100, Max: 1000}

	tests := []struct {
		price int
		want  bool
	}{
		{price: 100, want: false},
		{price: 1000, want: false},
		{price: 99, want: true},
		{price: 1001, want: true},
	}
	for _, tt := range tests {
		got, _ := f.ShouldFilter(context.Background(), nil, testItem("x", core.CategoryTop, tt.price))
		if got != tt.want {
			t.Errorf("price %d: ShouldFilter() = %v, want %v", tt.price, got, tt.want)
		}
	}

	// Max <= 0 表示上界不设限。
	open := &PriceFilter{Min: 100}
	if got, _ := open.ShouldFilter(context.Background(), nil, testItem("x", core.CategoryTop, 999999)); got {
		t.Error("unbounded max should pass high prices")
	}
}

func TestTagFilter(t *testing.T) {
	f := NewTagFilter([]string{"Clearance", " sample "})

	if got, _ := f.ShouldFilter(context.Background(), nil, testItem("a", core.CategoryTop, 100, "CLEARANCE")); !got {
		t.Error("tag match is case-insensitive")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, testItem("b", core.CategoryTop, 100, "sample")); !got {
		t.Error("trimmed exclude word should match")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, testItem("c", core.CategoryTop, 100, "wool")); got {
		t.Error("unrelated tag should pass")
	}
}

func TestSeenFilterMemoryKeys(t *testing.T) {
	it := testItem("p-1", core.CategoryTop, 100)
	f := &SeenFilter{Keys: []string{"p-1"}}

	if got, _ := f.ShouldFilter(context.Background(), nil, it); !got {
		t.Error("plain product id in list should filter")
	}

	byKey := &SeenFilter{Keys: []string{it.Key()}}
	if got, _ := byKey.ShouldFilter(context.Background(), nil, it); !got {
		t.Error("identity key in list should filter")
	}
}

func TestSeenFilterStore(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	if err := mem.Set(context.Background(), "seen:u1", []byte(`["p-1","id:p-2"]`), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	f := &SeenFilter{Store: mem, KeyPrefix: "seen:"}
	rctx := core.NewRecommendContext()
	rctx.UserID = "u1"

	if got, _ := f.ShouldFilter(context.Background(), rctx, testItem("p-1", core.CategoryTop, 100)); !got {
		t.Error("stored product id should filter")
	}
	if got, _ := f.ShouldFilter(context.Background(), rctx, testItem("p-2", core.CategoryTop, 100)); !got {
		t.Error("stored identity key should filter")
	}
	if got, _ := f.ShouldFilter(context.Background(), rctx, testItem("p-3", core.CategoryTop, 100)); got {
		t.Error("unseen product should pass")
	}

	// 名单 key 不存在按空名单处理。
	other := core.NewRecommendContext()
	other.UserID = "nobody"
	if got, _ := f.ShouldFilter(context.Background(), other, testItem("p-1", core.CategoryTop, 100)); got {
		t.Error("missing list should pass everything")
	}
}

func TestRuleFilter(t *testing.T) {
	f, err := NewRuleFilter(`product.price > 500 && product.category == "top"`)
	if err != nil {
		t.Fatalf("NewRuleFilter() error = %v", err)
	}

	if got, _ := f.ShouldFilter(context.Background(), nil, testItem("a", core.CategoryTop, 900)); !got {
		t.Error("matching rule should filter")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, testItem("b", core.CategoryTop, 100)); got {
		t.Error("non-matching rule should pass")
	}
}

func TestRuleFilterCompileError(t *testing.T) {
	if _, err := NewRuleFilter("product.price >"); err == nil {
		t.Fatal("invalid expression should fail at construction")
	} else if !core.IsInvalidInput(err) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestFilterNodeComposesAndLabels(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		&PriceFilter{Min: 100},
		NewTagFilter([]string{"sample"}),
	}}

	cheap := testItem("cheap", core.CategoryTop, 10)
	sampled := testItem("sampled", core.CategoryTop, 500, "sample")
	kept := testItem("kept", core.CategoryTop, 500)

	out, err := node.Process(context.Background(), core.NewRecommendContext(),
		[]*core.Item{cheap, sampled, kept})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].Product.ID != "kept" {
		t.Fatalf("got %d items, want only 'kept'", len(out))
	}

	if lbl, ok := cheap.GetLabel("filtered"); !ok || lbl.Source != "filter.price" {
		t.Errorf("cheap filtered label = %v, want source filter.price", lbl)
	}
	if lbl, ok := sampled.GetLabel("filtered"); !ok || lbl.Source != "filter.tags" {
		t.Errorf("sampled filtered label = %v, want source filter.tags", lbl)
	}
}
