package similarity

import (
	"errors"
	"fmt"
)

// Channels 每个像素的通道数 (RGBA)
const Channels = 4

var (
	// ErrInvalidDimensions 宽高不为正
	ErrInvalidDimensions = errors.New("无效的图像尺寸")
	// ErrInvalidLength 数据长度与 width*height*4 不一致
	ErrInvalidLength = errors.New("像素数据长度不匹配")
)

// PixelBuffer RGBA 像素缓冲区
// Data 按 R,G,B,A 交错排列, 长度为 Width*Height*4
type PixelBuffer struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"-"`
}

// NewPixelBuffer 创建全零像素缓冲区
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height*Channels),
	}, nil
}

// FromRGBA 使用已有的 RGBA 数据创建像素缓冲区 (不复制)
func FromRGBA(width, height int, data []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(data) != width*height*Channels {
		return nil, fmt.Errorf("%w: 期望 %d, 实际 %d", ErrInvalidLength, width*height*Channels, len(data))
	}
	return &PixelBuffer{Width: width, Height: height, Data: data}, nil
}

// Valid 检查缓冲区是否满足长度不变量
func (b *PixelBuffer) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 && len(b.Data) == b.Width*b.Height*Channels
}

// SameSize 两个缓冲区是否都有效且尺寸一致
func (b *PixelBuffer) SameSize(o *PixelBuffer) bool {
	return b.Valid() && o.Valid() && b.Width == o.Width && b.Height == o.Height
}

// PixelCount 像素数量
func (b *PixelBuffer) PixelCount() int {
	if b == nil {
		return 0
	}
	return b.Width * b.Height
}

// Clone 深拷贝
func (b *PixelBuffer) Clone() *PixelBuffer {
	if b == nil {
		return nil
	}
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Data: data}
}

// Luminance 返回每个像素的亮度 (BT.601), 按行优先排列
func (b *PixelBuffer) Luminance() []float64 {
	if !b.Valid() {
		return nil
	}
	lum := make([]float64, b.Width*b.Height)
	for i := range lum {
		p := i * Channels
		lum[i] = 0.299*float64(b.Data[p]) + 0.587*float64(b.Data[p+1]) + 0.114*float64(b.Data[p+2])
	}
	return lum
}

// Fill 用单一颜色填充 (测试和占位图使用)
func (b *PixelBuffer) Fill(r, g, bl, a uint8) {
	if !b.Valid() {
		return
	}
	for p := 0; p < len(b.Data); p += Channels {
		b.Data[p] = r
		b.Data[p+1] = g
		b.Data[p+2] = bl
		b.Data[p+3] = a
	}
}

// clampByte 四舍五入并裁剪到 [0, 255]
func clampByte(v float64) byte {
	switch {
	case v != v: // NaN
		return 0
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v + 0.5)
}

// clamp01 裁剪到 [0, 1], NaN 视为 0
func clamp01(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
