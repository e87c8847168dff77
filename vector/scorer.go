package vector

import (
	"math"

	"github.com/stylemate/stylekit/core"
)

// MeanPricer 是快照的可选升级接口：实现方可直接给出预计算的目录均价。
type MeanPricer interface {
	MeanPrice() float64
}

// Dot 计算两个等长向量的点积。行向量与查询向量都为单位范数时即余弦相似度。
func Dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// QueryFromSeeds 取种子行向量的均值并重新归一化，作为聚合查询向量。
// 均值向量可能退化为零范数（反向种子相互抵消），归一化沿用加载时的 epsilon 兜底。
func QueryFromSeeds(vs core.VectorStore, positions []int) []float64 {
	mean := make([]float64, vs.Dim())
	if len(positions) == 0 {
		return mean
	}
	for _, pos := range positions {
		row := vs.VectorAt(pos)
		for i, x := range row {
			mean[i] += x
		}
	}
	n := float64(len(positions))
	for i := range mean {
		mean[i] /= n
	}
	return Normalize(mean)
}

// AnchorFromSeeds 返回种子价格的算术平均，作为价格锚点。
func AnchorFromSeeds(vs core.VectorStore, positions []int) float64 {
	if len(positions) == 0 {
		return CatalogAnchor(vs)
	}
	total := 0.0
	for _, pos := range positions {
		total += vs.PriceAt(pos)
	}
	return total / float64(len(positions))
}

// CatalogAnchor 返回全目录均价。
// 外部向量查询没有种子价格时以此作为中性先验锚点。
func CatalogAnchor(vs core.VectorStore) float64 {
	if mp, ok := vs.(MeanPricer); ok {
		return mp.MeanPrice()
	}
	n := vs.Size()
	if n == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += vs.PriceAt(i)
	}
	return total / float64(n)
}

// PriceScore 计算价格接近度：exp(-alpha * |log1p(price) - log1p(anchor)|)。
//
// 对数差使得"1 万元 vs 2 万元"与"1 千元 vs 2 千元"的惩罚相同，
// 符合价格带的比例感知。值域 (0, 1]，当且仅当 alpha 为 0 或
// price 等于 anchor 时取 1。
func PriceScore(price, anchor, alpha float64) float64 {
	diff := math.Abs(math.Log1p(price) - math.Log1p(anchor))
	return math.Exp(-alpha * diff)
}

// BlendScores 对快照中每一行计算混合得分：
//
//	score[i] = SimWeight*cos(query, row[i]) + PriceWeight*PriceScore(price[i], anchor)
//
// query 必须已归一化（QueryFromSeeds / Normalize 的输出满足该约束）。
// 返回与快照等长的得分数组，行序即位置序。
func BlendScores(vs core.VectorStore, query []float64, anchor float64, p core.ScoreParams) []float64 {
	n := vs.Size()
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		cos := Dot(query, vs.VectorAt(i))
		scores[i] = p.SimWeight*cos + p.PriceWeight*PriceScore(vs.PriceAt(i), anchor, p.Alpha)
	}
	return scores
}
