package vector

import (
	"math"
	"testing"

	"github.com/stylemate/stylekit/core"
)

func testProducts(prices ...int) []*core.Product {
	products := make([]*core.Product, len(prices))
	for i, p := range prices {
		prod := core.NewProduct(i)
		prod.Price = p
		products[i] = prod
	}
	return products
}

func TestNewSnapshotNormalizesRows(t *testing.T) {
	products := testProducts(100, 200)
	vectors := [][]float64{
		{3, 4},
		{0, 2},
	}

	snap, err := NewSnapshot(products, vectors)
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}

	for i := 0; i < snap.Size(); i++ {
		row := snap.VectorAt(i)
		norm := 0.0
		for _, x := range row {
			norm += x * x
		}
		if math.Abs(math.Sqrt(norm)-1.0) > 1e-12 {
			t.Errorf("row %d norm = %v, want 1.0", i, math.Sqrt(norm))
		}
	}

	// Input rows must not be mutated in place.
	if vectors[0][0] != 3 || vectors[0][1] != 4 {
		t.Errorf("input vector mutated: %v", vectors[0])
	}
}

func TestNewSnapshotZeroNormRow(t *testing.T) {
	snap, err := NewSnapshot(testProducts(100), [][]float64{{0, 0, 0}})
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	row := snap.VectorAt(0)
	for i, x := range row {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("row[%d] = %v after zero-norm guard, want finite", i, x)
		}
	}
}

func TestNewSnapshotLengthMismatch(t *testing.T) {
	_, err := NewSnapshot(testProducts(100, 200, 300), [][]float64{{1, 0}, {0, 1}})
	if err == nil {
		t.Fatal("NewSnapshot() error = nil, want length mismatch error")
	}
	if !core.IsUnavailable(err) {
		t.Errorf("IsUnavailable(err) = false, want true; err = %v", err)
	}
}

func TestNewSnapshotRaggedRows(t *testing.T) {
	_, err := NewSnapshot(testProducts(100, 200), [][]float64{{1, 0, 0}, {0, 1}})
	if err == nil {
		t.Fatal("NewSnapshot() error = nil, want dim mismatch error")
	}
	if !core.IsUnavailable(err) {
		t.Errorf("IsUnavailable(err) = false, want true; err = %v", err)
	}
}

func TestSnapshotAvailability(t *testing.T) {
	var nilSnap *Snapshot
	if nilSnap.Available() {
		t.Error("nil snapshot Available() = true, want false")
	}
	if nilSnap.Size() != 0 || nilSnap.Dim() != 0 {
		t.Error("nil snapshot should report zero size and dim")
	}

	empty, err := NewSnapshot(nil, nil)
	if err != nil {
		t.Fatalf("NewSnapshot(nil, nil) error = %v", err)
	}
	if empty.Available() {
		t.Error("empty snapshot Available() = true, want false")
	}

	full, err := NewSnapshot(testProducts(100), [][]float64{{1, 0}})
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	if !full.Available() {
		t.Error("non-empty snapshot Available() = false, want true")
	}
}

func TestSnapshotMeanPrice(t *testing.T) {
	snap, err := NewSnapshot(testProducts(100, 200, 600), [][]float64{{1, 0}, {0, 1}, {1, 1}})
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	if got := snap.MeanPrice(); got != 300 {
		t.Errorf("MeanPrice() = %v, want 300", got)
	}
}
