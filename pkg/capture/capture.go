// Package capture 提供屏幕截图功能, 输出相似度引擎可直接使用的像素缓冲区
package capture

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/itemscan/internal/logger"
	"github.com/zoeyai/itemscan/pkg/grid"
	"github.com/zoeyai/itemscan/pkg/vision/raster"
	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// CaptureScreen 截取全屏
func CaptureScreen() (*similarity.PixelBuffer, error) {
	img, err := robotgo.CaptureImg()
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}

	buf := raster.FromImage(img)
	if buf == nil {
		return nil, fmt.Errorf("截屏失败: 图像为空")
	}
	logger.Debug("截屏完成: %dx%d", buf.Width, buf.Height)
	return buf, nil
}

// CaptureRegion 截取屏幕区域
func CaptureRegion(r grid.Region) (*similarity.PixelBuffer, error) {
	if r.Empty() {
		return nil, fmt.Errorf("截取区域无效: %+v", r)
	}

	img, err := robotgo.CaptureImg(r.X, r.Y, r.Width, r.Height)
	if err != nil {
		return nil, fmt.Errorf("截取区域失败: %w", err)
	}

	buf := raster.FromImage(img)
	if buf == nil {
		return nil, fmt.Errorf("截取区域失败: 图像为空")
	}
	return buf, nil
}

// ScreenSize 获取主屏幕尺寸
func ScreenSize() (width, height int) {
	return robotgo.GetScreenSize()
}

// GetDisplayCount 获取显示器数量
func GetDisplayCount() int {
	return robotgo.DisplaysNum()
}
