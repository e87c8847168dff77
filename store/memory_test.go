package store

import (
	"context"
	"testing"

	"github.com/stylemate/stylekit/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) err = %v, want ErrStoreNotFound", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v; want v, nil", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after delete err = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.HSet(ctx, "h", "0", []byte("a")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	if err := ms.HSet(ctx, "h", "1", []byte("b")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}

	all, err := ms.HGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("HGetAll() error = %v", err)
	}
	if len(all) != 2 || string(all["0"]) != "a" || string(all["1"]) != "b" {
		t.Errorf("HGetAll() = %v, want both fields", all)
	}

	if _, err := ms.HGet(ctx, "h", "9"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet(missing field) err = %v, want ErrStoreNotFound", err)
	}

	empty, err := ms.HGetAll(ctx, "absent")
	if err != nil || len(empty) != 0 {
		t.Errorf("HGetAll(absent) = %v, %v; want empty map, nil", empty, err)
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	for member, score := range map[string]float64{"a": 1.0, "b": 3.0, "c": 2.0} {
		if err := ms.ZAdd(ctx, "z", score, member); err != nil {
			t.Fatalf("ZAdd() error = %v", err)
		}
	}

	got, err := ms.ZRange(ctx, "z", 0, -1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	want := []string{"b", "c", "a"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("ZRange() = %v, want %v (score desc)", got, want)
	}

	top, err := ms.ZRange(ctx, "z", 0, 0)
	if err != nil || len(top) != 1 || top[0] != "b" {
		t.Errorf("ZRange(0,0) = %v, %v; want [b]", top, err)
	}

	if score, err := ms.ZScore(ctx, "z", "c"); err != nil || score != 2.0 {
		t.Errorf("ZScore(c) = %v, %v; want 2.0", score, err)
	}
	if _, err := ms.ZScore(ctx, "z", "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("ZScore(missing) err = %v, want ErrStoreNotFound", err)
	}
}
