package cv

import (
	"gocv.io/x/gocv"

	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// CalCcoeffConfidence 使用 TM_CCOEFF_NORMED 计算两张同尺寸图像的灰度置信度
// 用于与 similarity.CalculateNCC 交叉校验; 尺寸不一致返回 0
func CalCcoeffConfidence(a, b *similarity.PixelBuffer) float64 {
	if !a.SameSize(b) {
		return 0
	}

	grayA, err := bufferToGray(a)
	if err != nil {
		return 0
	}
	defer grayA.Close()

	grayB, err := bufferToGray(b)
	if err != nil {
		return 0
	}
	defer grayB.Close()

	return matchConfidence(grayA, grayB)
}

// CalRGBConfidence 计算 RGB 三通道置信度
// 对两张同大小彩图计算相似度，返回最小通道的置信度
func CalRGBConfidence(a, b *similarity.PixelBuffer) float64 {
	if !a.SameSize(b) {
		return 0
	}

	srcMat, err := BufferToMat(a)
	if err != nil {
		return 0
	}
	defer srcMat.Close()

	searchMat, err := BufferToMat(b)
	if err != nil {
		return 0
	}
	defer searchMat.Close()

	srcChannels := gocv.Split(srcMat)
	searchChannels := gocv.Split(searchMat)
	defer func() {
		for _, ch := range srcChannels {
			ch.Close()
		}
		for _, ch := range searchChannels {
			ch.Close()
		}
	}()

	minConfidence := 1.0
	for i := 0; i < len(srcChannels) && i < len(searchChannels); i++ {
		confidence := matchConfidence(srcChannels[i], searchChannels[i])
		if confidence < minConfidence {
			minConfidence = confidence
		}
	}
	return minConfidence
}

// matchConfidence 单通道 TM_CCOEFF_NORMED 最大值, 裁剪到 [0, 1]
// 纯色输入时 OpenCV 可能返回 NaN, 视为 0
func matchConfidence(src, search gocv.Mat) float64 {
	result := gocv.NewMat()
	defer result.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, search, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, _ := gocv.MinMaxLoc(result)
	v := float64(maxVal)
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
