package similarity

// HistogramBins 每个颜色通道的直方图分箱数
const HistogramBins = 256

// CalculateHistogramSimilarity 计算 RGB 颜色分布的直方图交集, 返回 [0, 1]
// 每个通道单独归一化为概率分布, 结果为三通道交集的平均值; Alpha 不参与
func CalculateHistogramSimilarity(a, b *PixelBuffer) float64 {
	if !a.SameSize(b) {
		return 0
	}

	ha := colorHistogram(a)
	hb := colorHistogram(b)

	var sum float64
	for c := 0; c < 3; c++ {
		for i := 0; i < HistogramBins; i++ {
			x, y := ha[c][i], hb[c][i]
			if x < y {
				sum += x
			} else {
				sum += y
			}
		}
	}
	return clamp01(sum / 3)
}

// colorHistogram 计算归一化的三通道直方图
func colorHistogram(b *PixelBuffer) [3][HistogramBins]float64 {
	var hist [3][HistogramBins]float64
	for p := 0; p < len(b.Data); p += Channels {
		hist[0][b.Data[p]]++
		hist[1][b.Data[p+1]]++
		hist[2][b.Data[p+2]]++
	}

	total := float64(b.PixelCount())
	for c := range hist {
		for i := range hist[c] {
			hist[c][i] /= total
		}
	}
	return hist
}
