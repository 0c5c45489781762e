// Package vision 提供图像比较与定位的便捷函数
//
// 主要功能:
//   - 图像比较: NCC、SSIM、颜色直方图、边缘四种方法融合打分
//   - 图像定位: OpenCV 模板匹配找到候选位置, 相似度引擎复核
//
// 基本用法:
//
//	// 比较两张图像
//	result, err := vision.Compare("slot.png", "item.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("置信度: %.2f\n", result.Combined)
//
//	// 在截图中定位物品
//	pos, err := vision.FindLocation("screen.png", "item.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("找到位置: (%d, %d)\n", pos.X, pos.Y)
package vision

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/zoeyai/itemscan/pkg/vision/cv"
	"github.com/zoeyai/itemscan/pkg/vision/raster"
	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// 超时常量
const (
	DefaultTimeout = 10 * time.Second
	// DefaultPollInterval MatchLoop 两次截图之间的间隔
	DefaultPollInterval = 200 * time.Millisecond
)

// ErrTimeout MatchLoop 超时
var ErrTimeout = errors.New("查找超时")

// ============ 比较 ============

// Compare 比较两张图像
// 两张图像先缩放到相同的样本尺寸, 再按配置预处理
func Compare(a, b ImageInput, opts ...Option) (*similarity.Result, error) {
	cfg := buildConfig(opts)

	bufA, err := LoadImage(a)
	if err != nil {
		return nil, err
	}
	bufB, err := LoadImage(b)
	if err != nil {
		return nil, err
	}

	sampleA, sampleB := cfg.sample(bufA), cfg.sample(bufB)
	if sampleA == nil || sampleB == nil {
		return nil, fmt.Errorf("生成比较样本失败")
	}

	result := similarity.CompareWeighted(sampleA, sampleB, cfg.weights)
	return &result, nil
}

// sample 缩放并按配置预处理
func (c *matchConfig) sample(buf *similarity.PixelBuffer) *similarity.PixelBuffer {
	s := raster.Sample(buf, c.sampleSize)
	if s != nil && c.preprocess {
		s = similarity.NormalizeColors(similarity.EnhanceContrast(s, c.contrastFactor))
	}
	return s
}

// ============ 定位 ============

// FindLocation 在源图像中查找模板位置, 未找到时返回 nil
func FindLocation(screen, template ImageInput, opts ...Option) (*Point, error) {
	result, err := FindBestResult(screen, template, opts...)
	if err != nil || result == nil {
		return nil, err
	}
	return &result.Result, nil
}

// FindBestResult 在源图像中查找最佳匹配结果
func FindBestResult(screen, template ImageInput, opts ...Option) (*MatchResult, error) {
	tm, err := newTemplateMatching(screen, template, buildConfig(opts))
	if err != nil {
		return nil, err
	}

	r, err := tm.FindBestResult()
	if err != nil {
		return nil, err
	}
	return convertCVMatchResult(r), nil
}

// FindAllLocations 在源图像中查找所有模板位置
func FindAllLocations(screen, template ImageInput, opts ...Option) ([]*MatchResult, error) {
	tm, err := newTemplateMatching(screen, template, buildConfig(opts))
	if err != nil {
		return nil, err
	}

	cvResults, err := tm.FindAllResults()
	if err != nil {
		return nil, err
	}

	results := make([]*MatchResult, len(cvResults))
	for i, r := range cvResults {
		results[i] = convertCVMatchResult(r)
	}
	return results, nil
}

// MatchLoop 循环截图匹配直到找到或超时
func MatchLoop(screenshotFn func() (*similarity.PixelBuffer, error), template ImageInput, opts ...Option) (*Point, error) {
	cfg := buildConfig(opts)

	tpl, err := LoadImage(template)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(cfg.timeout)
	for {
		screen, err := screenshotFn()
		if err != nil {
			return nil, err
		}

		r, err := cv.NewTemplateMatching(tpl, screen, cfg.threshold, cfg.verify).FindBestResult()
		if err != nil {
			return nil, err
		}
		if r != nil {
			return &Point{X: r.Result.X, Y: r.Result.Y}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}
		time.Sleep(DefaultPollInterval)
	}
}

func newTemplateMatching(screen, template ImageInput, cfg *matchConfig) (*cv.TemplateMatching, error) {
	src, err := LoadImage(screen)
	if err != nil {
		return nil, err
	}
	tpl, err := LoadImage(template)
	if err != nil {
		return nil, err
	}
	return cv.NewTemplateMatching(tpl, src, cfg.threshold, cfg.verify), nil
}

// convertCVMatchResult 转换 cv.MatchResult 到 vision.MatchResult
func convertCVMatchResult(r *cv.MatchResult) *MatchResult {
	if r == nil {
		return nil
	}
	return &MatchResult{
		Result: Point{X: r.Result.X, Y: r.Result.Y},
		Rectangle: Rectangle{
			TopLeft:     Point{X: r.Rectangle.TopLeft.X, Y: r.Rectangle.TopLeft.Y},
			BottomLeft:  Point{X: r.Rectangle.BottomLeft.X, Y: r.Rectangle.BottomLeft.Y},
			BottomRight: Point{X: r.Rectangle.BottomRight.X, Y: r.Rectangle.BottomRight.Y},
			TopRight:    Point{X: r.Rectangle.TopRight.X, Y: r.Rectangle.TopRight.Y},
		},
		Confidence: r.Confidence,
		Scores:     r.Scores,
		Time:       r.Time,
	}
}

// ============ 工具函数 ============

// LoadImage 加载图像 (支持多种输入类型)
func LoadImage(input ImageInput) (*similarity.PixelBuffer, error) {
	switch v := input.(type) {
	case string:
		return raster.Load(v)
	case *similarity.PixelBuffer:
		if !v.Valid() {
			return nil, similarity.ErrInvalidLength
		}
		return v, nil
	case image.Image:
		if buf := raster.FromImage(v); buf != nil {
			return buf, nil
		}
		return nil, similarity.ErrInvalidDimensions
	default:
		return nil, fmt.Errorf("不支持的图像输入类型: %T", input)
	}
}
