package similarity

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SSIMBlockSize SSIM 分块边长
// 图像边缘不足一块的部分按实际大小单独成块
const SSIMBlockSize = 8

// SSIM 稳定常数 (Wang et al.), L 为 8 位动态范围
const (
	ssimK1 = 0.01
	ssimK2 = 0.03
	ssimL  = 255.0
	ssimC1 = (ssimK1 * ssimL) * (ssimK1 * ssimL)
	ssimC2 = (ssimK2 * ssimL) * (ssimK2 * ssimL)
)

// CalculateSSIM 计算分块结构相似度, 返回 [0, 1]
// 尺寸不一致返回 0
func CalculateSSIM(a, b *PixelBuffer) float64 {
	if !a.SameSize(b) {
		return 0
	}

	la := a.Luminance()
	lb := b.Luminance()
	w, h := a.Width, a.Height

	blockA := make([]float64, 0, SSIMBlockSize*SSIMBlockSize)
	blockB := make([]float64, 0, SSIMBlockSize*SSIMBlockSize)

	var sum float64
	var count int
	for by := 0; by < h; by += SSIMBlockSize {
		for bx := 0; bx < w; bx += SSIMBlockSize {
			blockA = blockA[:0]
			blockB = blockB[:0]
			for y := by; y < by+SSIMBlockSize && y < h; y++ {
				row := y * w
				for x := bx; x < bx+SSIMBlockSize && x < w; x++ {
					blockA = append(blockA, la[row+x])
					blockB = append(blockB, lb[row+x])
				}
			}
			sum += blockSSIM(blockA, blockB)
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return clamp01(sum / float64(count))
}

// blockSSIM 单块 SSIM, 使用总体方差/协方差
// 会就地修改传入切片
func blockSSIM(a, b []float64) float64 {
	n := float64(len(a))
	muA := stat.Mean(a, nil)
	muB := stat.Mean(b, nil)

	floats.AddConst(-muA, a)
	floats.AddConst(-muB, b)

	varA := floats.Dot(a, a) / n
	varB := floats.Dot(b, b) / n
	cov := floats.Dot(a, b) / n

	num := (2*muA*muB + ssimC1) * (2*cov + ssimC2)
	den := (muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2)
	return num / den
}
