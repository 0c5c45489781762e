package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// checkerImage 生成棋盘格测试图
func checkerImage(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{20, 40, 60, 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.RGBA{220, 200, 180, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFromImageAndBack(t *testing.T) {
	src := checkerImage(10, 6, 2)
	buf := FromImage(src)
	if buf == nil || !buf.Valid() {
		t.Fatal("FromImage 返回的缓冲区无效")
	}
	if buf.Width != 10 || buf.Height != 6 {
		t.Errorf("尺寸错误: got %dx%d, want 10x6", buf.Width, buf.Height)
	}

	p := (1*10 + 3) * similarity.Channels
	want := src.RGBAAt(3, 1)
	if buf.Data[p] != want.R || buf.Data[p+1] != want.G || buf.Data[p+2] != want.B || buf.Data[p+3] != want.A {
		t.Errorf("像素 (3,1) 错误: got %v, want %v", buf.Data[p:p+4], want)
	}

	back := ToImage(buf)
	if !bytes.Equal(back.Pix, buf.Data) {
		t.Error("ToImage 应保留像素数据")
	}
}

func TestFromImageSubImage(t *testing.T) {
	src := checkerImage(10, 10, 1)
	sub := src.SubImage(image.Rect(2, 3, 6, 8))

	buf := FromImage(sub)
	if buf.Width != 4 || buf.Height != 5 {
		t.Fatalf("子图尺寸错误: got %dx%d", buf.Width, buf.Height)
	}
	want := src.RGBAAt(2, 3)
	if buf.Data[0] != want.R {
		t.Errorf("子图左上角像素错误: got %d, want %d", buf.Data[0], want.R)
	}
}

func TestDecodeAndLoad(t *testing.T) {
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, checkerImage(8, 8, 2)); err != nil {
		t.Fatalf("PNG 编码失败: %v", err)
	}

	buf, err := Decode(bytes.NewReader(encoded.Bytes()))
	if err != nil {
		t.Fatalf("Decode 失败: %v", err)
	}
	if buf.Width != 8 || buf.Height != 8 {
		t.Errorf("尺寸错误: %dx%d", buf.Width, buf.Height)
	}

	path := filepath.Join(t.TempDir(), "tpl.png")
	if err := os.WriteFile(path, encoded.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if !bytes.Equal(loaded.Data, buf.Data) {
		t.Error("Load 与 Decode 结果不一致")
	}

	if _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("非法数据应返回错误")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("不存在的文件应返回错误")
	}
}

func TestResize(t *testing.T) {
	buf := FromImage(checkerImage(32, 16, 4))

	out := Resize(buf, 8, 8)
	if out == nil || !out.Valid() || out.Width != 8 || out.Height != 8 {
		t.Fatalf("Resize 结果错误: %+v", out)
	}

	same := Resize(buf, 32, 16)
	if !bytes.Equal(same.Data, buf.Data) {
		t.Error("同尺寸缩放应返回相同数据")
	}
	if &same.Data[0] == &buf.Data[0] {
		t.Error("同尺寸缩放应返回副本")
	}

	if Resize(buf, 0, 4) != nil {
		t.Error("非法目标尺寸应返回 nil")
	}

	s := Sample(buf, 0)
	if s.Width != DefaultSampleSize || s.Height != DefaultSampleSize {
		t.Errorf("Sample 默认尺寸错误: %dx%d", s.Width, s.Height)
	}
}

func TestCrop(t *testing.T) {
	src := checkerImage(10, 10, 1)
	buf := FromImage(src)

	tests := []struct {
		name  string
		rect  image.Rectangle
		wantW int
		wantH int
		isNil bool
	}{
		{"内部区域", image.Rect(2, 2, 5, 6), 3, 4, false},
		{"超出右下边界", image.Rect(8, 8, 20, 20), 2, 2, false},
		{"负坐标", image.Rect(-5, -5, 3, 3), 3, 3, false},
		{"完全在外部", image.Rect(20, 20, 30, 30), 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Crop(buf, tt.rect)
			if tt.isNil {
				if got != nil {
					t.Errorf("Crop() 应返回 nil, got %dx%d", got.Width, got.Height)
				}
				return
			}
			if got == nil || got.Width != tt.wantW || got.Height != tt.wantH {
				t.Fatalf("Crop() 尺寸错误: got %+v", got)
			}
			origin := tt.rect.Intersect(image.Rect(0, 0, 10, 10)).Min
			want := src.RGBAAt(origin.X, origin.Y)
			if got.Data[0] != want.R {
				t.Errorf("Crop() 左上角像素错误: got %d, want %d", got.Data[0], want.R)
			}
		})
	}
}

func TestSampledSelfSimilarity(t *testing.T) {
	buf := FromImage(checkerImage(48, 48, 6))
	a := Sample(buf, 32)
	b := Sample(buf.Clone(), 32)

	if got := similarity.CalculateCombinedSimilarity(a, b); got <= 0.9 {
		t.Errorf("同一图像缩放后融合分数应 > 0.9, got %.4f", got)
	}
}
