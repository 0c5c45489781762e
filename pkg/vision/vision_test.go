package vision

import (
	"errors"
	"image"
	"image/color"
	"os"
	"testing"
	"time"

	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version 不应为空")
	}
	t.Logf("Version: %s", Version)
}

func TestPoint(t *testing.T) {
	p := NewPoint(10, 20)

	if p.X != 10 || p.Y != 20 {
		t.Errorf("Point 创建错误: got (%d, %d), want (10, 20)", p.X, p.Y)
	}
}

func TestRectangle(t *testing.T) {
	r := NewRectangle(10, 20, 100, 50)

	// 检查四个角点
	if r.TopLeft.X != 10 || r.TopLeft.Y != 20 {
		t.Errorf("TopLeft 错误: got (%d, %d)", r.TopLeft.X, r.TopLeft.Y)
	}
	if r.BottomRight.X != 110 || r.BottomRight.Y != 70 {
		t.Errorf("BottomRight 错误: got (%d, %d)", r.BottomRight.X, r.BottomRight.Y)
	}

	// 检查中心点
	center := r.Center()
	if center.X != 60 || center.Y != 45 {
		t.Errorf("Center 错误: got (%d, %d), want (60, 45)", center.X, center.Y)
	}

	// 检查宽高
	if r.Width() != 100 || r.Height() != 50 {
		t.Errorf("宽高错误: got %dx%d, want 100x50", r.Width(), r.Height())
	}
}

func TestTargetPos(t *testing.T) {
	result := &MatchResult{Result: Point{X: 5, Y: 5}, Rectangle: NewRectangle(0, 0, 10, 10)}

	tests := []struct {
		pos  TargetPos
		want Point
	}{
		{TargetPosMid, Point{X: 5, Y: 5}},
		{TargetPosTopLeft, Point{X: 0, Y: 0}},
		{TargetPosTopRight, Point{X: 10, Y: 0}},
		{TargetPosBottomLeft, Point{X: 0, Y: 10}},
		{TargetPosBottomRight, Point{X: 10, Y: 10}},
	}
	for _, tt := range tests {
		if got := tt.pos.GetPosition(result); got != tt.want {
			t.Errorf("GetPosition(%d) = %+v, want %+v", tt.pos, got, tt.want)
		}
	}
	if got := TargetPosMid.GetPosition(nil); got != (Point{}) {
		t.Errorf("nil 结果应返回零值, got %+v", got)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions

	if opts.Threshold != 0.75 {
		t.Errorf("Threshold 错误: got %.2f, want 0.75", opts.Threshold)
	}
	if opts.SampleSize != 64 {
		t.Errorf("SampleSize 错误: got %d, want 64", opts.SampleSize)
	}
	if opts.Weights != similarity.DefaultWeights {
		t.Errorf("Weights 错误: got %+v", opts.Weights)
	}

	t.Logf("DefaultOptions: %+v", opts)
}

func TestOptions(t *testing.T) {
	// 保存原始配置
	original := *GetOptions()
	defer SetOptions(original)

	newOpts := DefaultOptions
	newOpts.Threshold = 0.9
	SetOptions(newOpts)

	if GetOptions().Threshold != 0.9 {
		t.Errorf("SetOptions 失败: Threshold got %.2f, want 0.9", GetOptions().Threshold)
	}

	// 重置配置
	ResetOptions()
	if GetOptions().Threshold != 0.75 {
		t.Errorf("ResetOptions 失败: Threshold got %.2f, want 0.75", GetOptions().Threshold)
	}
}

func TestMatchConfig(t *testing.T) {
	cfg := defaultMatchConfig()

	if cfg.threshold != 0.75 {
		t.Errorf("默认阈值错误: got %.2f", cfg.threshold)
	}
	if cfg.timeout != 10*time.Second {
		t.Errorf("默认超时错误: got %s", cfg.timeout)
	}

	// 测试 Option 函数
	WithThreshold(0.9)(cfg)
	WithTimeout(2 * time.Second)(cfg)
	WithVerify(false)(cfg)
	WithSampleSize(32)(cfg)
	WithPreprocess(false)(cfg)
	if cfg.threshold != 0.9 || cfg.timeout != 2*time.Second || cfg.verify || cfg.sampleSize != 32 || cfg.preprocess {
		t.Errorf("Option 未生效: %+v", cfg)
	}
}

// checkerImage 生成棋盘格图像
func checkerImage(size, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, color.RGBA{200, 40, 40, 255})
			} else {
				img.Set(x, y, color.RGBA{20, 20, 20, 255})
			}
		}
	}
	return img
}

func TestCompare(t *testing.T) {
	img := checkerImage(64, 8)

	result, err := Compare(img, img)
	if err != nil {
		t.Fatalf("Compare 失败: %v", err)
	}
	if result.Combined != similarity.MaxConfidence {
		t.Errorf("相同图像置信度应为 %v, got %v", similarity.MaxConfidence, result.Combined)
	}

	// 尺寸不同的图像会被缩放到相同样本尺寸
	result, err = Compare(img, checkerImage(128, 16))
	if err != nil {
		t.Fatalf("Compare 失败: %v", err)
	}
	if result.Combined <= 0 {
		t.Errorf("缩放后的同一图案应有正的置信度, got %v", result.Combined)
	}
	t.Logf("缩放比较: %+v", result)

	if _, err := Compare(42, img); err == nil {
		t.Error("不支持的输入类型应返回错误")
	}
	if _, err := Compare("not_exist.png", img); err == nil {
		t.Error("不存在的文件应返回错误")
	}
}

func TestLoadImage(t *testing.T) {
	buf, err := LoadImage(checkerImage(16, 4))
	if err != nil {
		t.Fatalf("LoadImage 失败: %v", err)
	}
	if buf.Width != 16 || buf.Height != 16 {
		t.Errorf("尺寸错误: %dx%d", buf.Width, buf.Height)
	}

	if got, err := LoadImage(buf); err != nil || got != buf {
		t.Errorf("PixelBuffer 应原样返回, err=%v", err)
	}
	if _, err := LoadImage(&similarity.PixelBuffer{Width: 1, Height: 1}); !errors.Is(err, similarity.ErrInvalidLength) {
		t.Errorf("无效缓冲区应返回 ErrInvalidLength, got %v", err)
	}
}

func TestFindLocation(t *testing.T) {
	screenPath := "../../testdata/images/screen.png"
	templatePath := "../../testdata/images/template.png"

	if _, err := os.Stat(screenPath); os.IsNotExist(err) {
		t.Skipf("测试图像不存在: %s", screenPath)
	}
	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		t.Skipf("测试图像不存在: %s", templatePath)
	}

	pos, err := FindLocation(screenPath, templatePath)
	if err != nil {
		t.Fatalf("FindLocation 失败: %v", err)
	}
	if pos == nil {
		t.Log("未找到模板")
		return
	}
	t.Logf("找到位置: (%d, %d)", pos.X, pos.Y)
}
