package similarity

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CalculateNCC 计算亮度的归一化互相关, 映射到 [0, 1]
// 任一图像方差为 0 (纯色) 时返回 0
func CalculateNCC(a, b *PixelBuffer) float64 {
	score, _ := ncc(a, b)
	return score
}

// ncc 返回分数以及该分数是否有意义 (ok=false 表示纯色图像无相关性可言)
func ncc(a, b *PixelBuffer) (float64, bool) {
	if !a.SameSize(b) {
		return 0, true
	}

	la := a.Luminance()
	lb := b.Luminance()
	if isFlat(la) || isFlat(lb) {
		return 0, false
	}

	// 去均值
	floats.AddConst(-stat.Mean(la, nil), la)
	floats.AddConst(-stat.Mean(lb, nil), lb)

	varA := floats.Dot(la, la)
	varB := floats.Dot(lb, lb)
	if varA == 0 || varB == 0 {
		return 0, false
	}

	r := floats.Dot(la, lb) / math.Sqrt(varA*varB)
	return clamp01((r + 1) / 2), true
}

// isFlat 所有亮度值完全相同
func isFlat(lum []float64) bool {
	return len(lum) == 0 || floats.Max(lum) == floats.Min(lum)
}
