package vector

import (
	"container/heap"
	"math"
)

type scoredIdx struct {
	idx   int
	score float64
}

// worse 判断 a 是否排在 b 之后：得分低者在后，得分相同取位置大者在后。
// 该平局规则保证同分时低位置稳定胜出，选择结果可复现。
func worse(a, b scoredIdx) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.idx > b.idx
}

// bottomHeap 是容量为 k 的小顶堆，堆顶是当前保留集中最差的候选。
type bottomHeap []scoredIdx

func (h bottomHeap) Len() int           { return len(h) }
func (h bottomHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h bottomHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *bottomHeap) Push(x any) { *h = append(*h, x.(scoredIdx)) }

func (h *bottomHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopK 从得分数组中选出前 k 个位置，按得分降序返回，同分按位置升序。
//
// banned 中的位置与得分为 -Inf 的位置永远不会出现在结果里，
// 即使候选不足 k 个也不以它们凑数。k 超过可选数量时返回全部可选位置。
// k < N 时堆做部分选择，无需对全量排序。
func TopK(scores []float64, k int, banned map[int]bool) []int {
	n := len(scores)
	if k > n {
		k = n
	}
	if k <= 0 || n == 0 {
		return nil
	}

	h := make(bottomHeap, 0, k)
	for i, s := range scores {
		if banned[i] || math.IsInf(s, -1) {
			continue
		}
		c := scoredIdx{idx: i, score: s}
		if len(h) < k {
			heap.Push(&h, c)
			continue
		}
		if worse(h[0], c) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	out := make([]int, len(h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(scoredIdx).idx
	}
	return out
}
