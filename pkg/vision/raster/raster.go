// Package raster 负责 image.Image 与 similarity.PixelBuffer 之间的转换、解码和缩放
package raster

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG 解码
	_ "image/png"  // PNG 解码
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP 解码 (模板图)

	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// DefaultSampleSize 比较前统一缩放到的边长 (与模板图尺寸一致)
const DefaultSampleSize = 64

// FromImage 将任意 image.Image 转换为非预乘 RGBA 像素缓冲区
func FromImage(img image.Image) *similarity.PixelBuffer {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*similarity.Channels {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	// 紧凑存储时直接复制像素
	data := make([]byte, b.Dx()*b.Dy()*similarity.Channels)
	copy(data, nrgba.Pix)
	return &similarity.PixelBuffer{Width: b.Dx(), Height: b.Dy(), Data: data}
}

// ToImage 将像素缓冲区转换为 *image.NRGBA (复制数据)
func ToImage(buf *similarity.PixelBuffer) *image.NRGBA {
	if !buf.Valid() {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	copy(img.Pix, buf.Data)
	return img
}

// Decode 解码 PNG/JPEG/WebP 数据
func Decode(r io.Reader) (*similarity.PixelBuffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("图像解码失败: %w", err)
	}
	buf := FromImage(img)
	if buf == nil {
		return nil, fmt.Errorf("图像为空")
	}
	return buf, nil
}

// Load 从文件加载图像
func Load(path string) (*similarity.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开图像: %w", err)
	}
	defer f.Close()

	buf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Resize 使用 Catmull-Rom 插值缩放到指定尺寸
func Resize(buf *similarity.PixelBuffer, width, height int) *similarity.PixelBuffer {
	if !buf.Valid() || width <= 0 || height <= 0 {
		return nil
	}
	if buf.Width == width && buf.Height == height {
		return buf.Clone()
	}

	src := ToImage(buf)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return &similarity.PixelBuffer{Width: width, Height: height, Data: dst.Pix}
}

// Sample 缩放为 size x size 的比较样本; size <= 0 时使用 DefaultSampleSize
func Sample(buf *similarity.PixelBuffer, size int) *similarity.PixelBuffer {
	if size <= 0 {
		size = DefaultSampleSize
	}
	return Resize(buf, size, size)
}

// Crop 裁剪矩形区域, 超出边界的部分会被截断
// 裁剪结果为空时返回 nil
func Crop(buf *similarity.PixelBuffer, rect image.Rectangle) *similarity.PixelBuffer {
	if !buf.Valid() {
		return nil
	}
	rect = rect.Intersect(image.Rect(0, 0, buf.Width, buf.Height))
	if rect.Empty() {
		return nil
	}

	w, h := rect.Dx(), rect.Dy()
	data := make([]byte, w*h*similarity.Channels)
	rowBytes := w * similarity.Channels
	for y := 0; y < h; y++ {
		src := ((rect.Min.Y+y)*buf.Width + rect.Min.X) * similarity.Channels
		copy(data[y*rowBytes:(y+1)*rowBytes], buf.Data[src:src+rowBytes])
	}
	return &similarity.PixelBuffer{Width: w, Height: h, Data: data}
}
