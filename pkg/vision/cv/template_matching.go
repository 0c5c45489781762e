package cv

import (
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/zoeyai/itemscan/pkg/vision/raster"
	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

const (
	// MaxResultCount 最大匹配结果数量
	MaxResultCount = 10
)

// TemplateMatching 模板定位器
// 先用 OpenCV 模板匹配找到候选位置, verify 为 true 时再用相似度引擎复核候选区域
type TemplateMatching struct {
	imSearch  *similarity.PixelBuffer
	imSource  *similarity.PixelBuffer
	threshold float64
	verify    bool
}

// NewTemplateMatching 创建模板定位器
func NewTemplateMatching(search, source *similarity.PixelBuffer, threshold float64, verify bool) *TemplateMatching {
	return &TemplateMatching{
		imSearch:  search,
		imSource:  source,
		threshold: threshold,
		verify:    verify,
	}
}

// FindBestResult 查找最佳匹配结果, 低于阈值时返回 nil
func (t *TemplateMatching) FindBestResult() (*MatchResult, error) {
	startTime := time.Now()

	if err := checkSourceLargerThanSearch(t.imSource, t.imSearch); err != nil {
		return nil, err
	}

	result, err := t.getTemplateResultMatrix()
	if err != nil {
		return nil, err
	}
	defer result.Close()

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)

	h, w := t.imSearch.Height, t.imSearch.Width
	confidence, scores := t.getConfidence(maxLoc, maxVal, w, h)
	middlePoint, rectangle := getTargetRectangle(maxLoc, w, h)

	if confidence < t.threshold {
		return nil, nil
	}
	return &MatchResult{
		Result:     middlePoint,
		Rectangle:  rectangle,
		Confidence: confidence,
		Scores:     scores,
		Time:       float64(time.Since(startTime).Milliseconds()),
	}, nil
}

// FindAllResults 查找所有高于阈值的匹配结果, 最多 MaxResultCount 个
func (t *TemplateMatching) FindAllResults() ([]*MatchResult, error) {
	startTime := time.Now()

	if err := checkSourceLargerThanSearch(t.imSource, t.imSearch); err != nil {
		return nil, err
	}

	result, err := t.getTemplateResultMatrix()
	if err != nil {
		return nil, err
	}
	defer result.Close()

	h, w := t.imSearch.Height, t.imSearch.Width
	var results []*MatchResult

	for len(results) < MaxResultCount {
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)

		// OpenCV 分数已低于阈值时提前结束, 避免逐个复核
		if float64(maxVal) < t.threshold {
			break
		}

		confidence, scores := t.getConfidence(maxLoc, maxVal, w, h)
		if confidence >= t.threshold {
			middlePoint, rectangle := getTargetRectangle(maxLoc, w, h)
			results = append(results, &MatchResult{
				Result:     middlePoint,
				Rectangle:  rectangle,
				Confidence: confidence,
				Scores:     scores,
				Time:       float64(time.Since(startTime).Milliseconds()),
			})
		}

		// 屏蔽已匹配区域
		gocv.Rectangle(&result,
			image.Rect(maxLoc.X-w/2, maxLoc.Y-h/2, maxLoc.X+w/2, maxLoc.Y+h/2),
			color.RGBA{0, 0, 0, 255}, -1)
	}

	return results, nil
}

// getTemplateResultMatrix 计算灰度模板匹配结果矩阵
func (t *TemplateMatching) getTemplateResultMatrix() (gocv.Mat, error) {
	srcGray, err := bufferToGray(t.imSource)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer srcGray.Close()

	searchGray, err := bufferToGray(t.imSearch)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer searchGray.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	result := gocv.NewMat()
	gocv.MatchTemplate(srcGray, searchGray, &result, gocv.TmCcoeffNormed, mask)
	return result, nil
}

// getConfidence 计算置信度
// verify 模式下对候选区域运行相似度引擎, 使用融合分数作为置信度
func (t *TemplateMatching) getConfidence(maxLoc image.Point, maxVal float32, w, h int) (float64, *similarity.Result) {
	if !t.verify {
		return float64(maxVal), nil
	}

	crop := raster.Crop(t.imSource, image.Rect(maxLoc.X, maxLoc.Y, maxLoc.X+w, maxLoc.Y+h))
	scores := similarity.Compare(crop, t.imSearch)
	return scores.Combined, &scores
}

// getTargetRectangle 计算目标区域
func getTargetRectangle(leftTopPos image.Point, w, h int) (Point, Rectangle) {
	xMin, yMin := leftTopPos.X, leftTopPos.Y

	middlePoint := Point{X: xMin + w/2, Y: yMin + h/2}

	// 四个角点: 左上 -> 左下 -> 右下 -> 右上
	rectangle := Rectangle{
		TopLeft:     Point{X: xMin, Y: yMin},
		BottomLeft:  Point{X: xMin, Y: yMin + h},
		BottomRight: Point{X: xMin + w, Y: yMin + h},
		TopRight:    Point{X: xMin + w, Y: yMin},
	}

	return middlePoint, rectangle
}

// checkSourceLargerThanSearch 检查源图像是否大于搜索图像
func checkSourceLargerThanSearch(source, search *similarity.PixelBuffer) error {
	if !source.Valid() || !search.Valid() {
		return similarity.ErrInvalidDimensions
	}
	if source.Height < search.Height || source.Width < search.Width {
		return &ImageSizeError{
			SourceSize: [2]int{source.Width, source.Height},
			SearchSize: [2]int{search.Width, search.Height},
		}
	}
	return nil
}
