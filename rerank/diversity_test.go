package rerank

import (
	"context"
	"testing"

	"github.com/stylemate/stylekit/core"
)

// mkItem 构造一个带 id/品牌/标题的候选。
func mkItem(id, brand, title string, price int) *core.Item {
	it := core.NewItem(&core.Product{
		Position: -1,
		ID:       id,
		Brand:    brand,
		Title:    title,
		Category: core.CategoryTop,
		Price:    price,
	})
	return it
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Product.ID)
	}
	return out
}

func TestDiversifyPickPrefersDistinctSignatures(t *testing.T) {
	// a1/a2 同品牌同标题核心（同签名），b/c 各自独立。
	items := []*core.Item{
		mkItem("a1", "acme", "Wool Coat", 100),
		mkItem("a2", "acme", "Wool Coat Black", 110),
		mkItem("b", "other", "Denim Jacket", 120),
		mkItem("c", "third", "Knit Sweater", 130),
	}

	got := ids(DiversifyPick(items, 3))
	want := []string{"a1", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pick[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDiversifyPickFillsFromDuplicateSignatures(t *testing.T) {
	// 独立签名只有 2 个，但 k=3：第二遍按身份键补 a2。
	items := []*core.Item{
		mkItem("a1", "acme", "Wool Coat", 100),
		mkItem("a2", "acme", "Wool Coat Navy", 110),
		mkItem("b", "other", "Denim Jacket", 120),
	}

	got := ids(DiversifyPick(items, 3))
	want := []string{"a1", "b", "a2"}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (%v)", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pick[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDiversifyPickCappedByDistinctKeys(t *testing.T) {
	// 同一身份键重复出现，条数上限是不同身份键的数量。
	items := []*core.Item{
		mkItem("a", "acme", "Wool Coat", 100),
		mkItem("a", "acme", "Wool Coat", 100),
		mkItem("b", "other", "Denim Jacket", 120),
	}

	got := DiversifyPick(items, 5)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(got), ids(got))
	}
}

func TestDiversifyPickEmptyAndZeroK(t *testing.T) {
	if got := DiversifyPick(nil, 3); got != nil {
		t.Errorf("DiversifyPick(nil) = %v, want nil", got)
	}
	if got := DiversifyPick([]*core.Item{mkItem("a", "", "x", 1)}, 0); got != nil {
		t.Errorf("DiversifyPick(k=0) = %v, want nil", got)
	}
}

func TestDedupByKeyKeepsFirst(t *testing.T) {
	first := mkItem("a", "acme", "Wool Coat", 100)
	first.Score = 0.9
	dup := mkItem("a", "acme", "Wool Coat", 100)
	dup.Score = 0.1

	out := DedupByKey([]*core.Item{first, dup, mkItem("b", "other", "Jacket", 50)})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Score != 0.9 {
		t.Errorf("kept score = %v, want first occurrence 0.9", out[0].Score)
	}
}

func TestDiversityNodeUsesFinalK(t *testing.T) {
	node := &Diversity{}
	rctx := core.NewRecommendContext()
	rctx.FinalK = 2

	items := []*core.Item{
		mkItem("a", "acme", "Wool Coat", 100),
		mkItem("b", "other", "Denim Jacket", 120),
		mkItem("c", "third", "Knit Sweater", 130),
	}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("len = %d, want rctx.FinalK = 2", len(out))
	}
}
