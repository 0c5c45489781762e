package similarity

import "math"

// Sobel 卷积核
var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// edgeEpsilon 低于该幅值视为无边缘, 吸收浮点累加误差
const edgeEpsilon = 1e-9

// maxSobelMagnitude 8 位亮度下 Sobel 梯度幅值的上限, 用于归一化
var maxSobelMagnitude = math.Sqrt(2) * 4 * 255

// CalculateEdgeSimilarity 比较两张图像的 Sobel 边缘图, 返回 [0, 1]
// 相似度为逐像素幅值的加权 Jaccard: Σmin / Σmax
// 尺寸不一致, 或两张图都没有边缘 (纯色) 时返回 0
func CalculateEdgeSimilarity(a, b *PixelBuffer) float64 {
	score, _ := edgeSimilarity(a, b)
	return score
}

// edgeSimilarity 返回分数以及该分数是否有意义 (ok=false 表示两张图都没有边缘)
func edgeSimilarity(a, b *PixelBuffer) (float64, bool) {
	if !a.SameSize(b) {
		return 0, true
	}

	ea := EdgeMap(a)
	eb := EdgeMap(b)

	var inter, union float64
	for i := range ea {
		x, y := ea[i], eb[i]
		if x < y {
			inter += x
			union += y
		} else {
			inter += y
			union += x
		}
	}

	if union < edgeEpsilon {
		return 0, false
	}
	return clamp01(inter / union), true
}

// EdgeMap 计算归一化到 [0, 1] 的 Sobel 梯度幅值图, 行优先
// 边界像素缺少完整邻域, 幅值为 0; 小于 3x3 的图像全部为 0
func EdgeMap(b *PixelBuffer) []float64 {
	if !b.Valid() {
		return nil
	}

	w, h := b.Width, b.Height
	lum := b.Luminance()
	out := make([]float64, w*h)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				row := (y + ky) * w
				for kx := -1; kx <= 1; kx++ {
					v := lum[row+x+kx]
					gx += sobelX[ky+1][kx+1] * v
					gy += sobelY[ky+1][kx+1] * v
				}
			}
			mag := math.Hypot(gx, gy) / maxSobelMagnitude
			if mag < edgeEpsilon {
				continue
			}
			out[y*w+x] = math.Min(mag, 1)
		}
	}
	return out
}
