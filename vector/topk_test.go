package vector

import (
	"math"
	"reflect"
	"testing"
)

func TestTopK(t *testing.T) {
	negInf := math.Inf(-1)

	tests := []struct {
		name   string
		scores []float64
		k      int
		banned map[int]bool
		want   []int
	}{
		{
			name:   "plain descending selection",
			scores: []float64{0.1, 0.9, 0.5, 0.7},
			k:      2,
			want:   []int{1, 3},
		},
		{
			name:   "k equals n yields full ranking",
			scores: []float64{0.1, 0.9, 0.5},
			k:      3,
			want:   []int{1, 2, 0},
		},
		{
			name:   "k larger than n clamps",
			scores: []float64{0.2, 0.8},
			k:      10,
			want:   []int{1, 0},
		},
		{
			name:   "ties broken by lower position",
			scores: []float64{0.5, 0.5, 0.5, 0.9},
			k:      3,
			want:   []int{3, 0, 1},
		},
		{
			name:   "banned positions never surface",
			scores: []float64{0.9, 0.8, 0.7, 0.6},
			k:      3,
			banned: map[int]bool{0: true, 2: true},
			want:   []int{1, 3},
		},
		{
			name:   "neg inf rows are skipped",
			scores: []float64{negInf, 0.3, negInf, 0.1},
			k:      4,
			want:   []int{1, 3},
		},
		{
			name:   "all rows excluded yields empty",
			scores: []float64{negInf, negInf},
			k:      2,
			want:   nil,
		},
		{
			name:   "zero k yields empty",
			scores: []float64{0.5, 0.6},
			k:      0,
			want:   nil,
		},
		{
			name:   "empty scores",
			scores: nil,
			k:      3,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopK(tt.scores, tt.k, tt.banned)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopK() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopKDeterministic(t *testing.T) {
	scores := []float64{0.4, 0.4, 0.4, 0.4, 0.4}
	first := TopK(scores, 3, nil)
	for i := 0; i < 10; i++ {
		if got := TopK(scores, 3, nil); !reflect.DeepEqual(got, first) {
			t.Fatalf("TopK() not deterministic: %v vs %v", got, first)
		}
	}
	if !reflect.DeepEqual(first, []int{0, 1, 2}) {
		t.Errorf("all-equal scores should pick lowest positions, got %v", first)
	}
}
