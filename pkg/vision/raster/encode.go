package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// DefaultJPEGQuality JPEG 默认质量
const DefaultJPEGQuality = 80

// Encode 将缓冲区编码为 png 或 jpeg, 格式为空时使用 png
// quality 只对 JPEG 有效, 超出 1-100 时使用 DefaultJPEGQuality
func Encode(w io.Writer, buf *similarity.PixelBuffer, format string, quality int) error {
	if !buf.Valid() {
		return fmt.Errorf("图像为空")
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	img := ToImage(buf)
	switch strings.ToLower(format) {
	case "", "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("PNG 编码失败: %w", err)
		}
	case "jpeg", "jpg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("JPEG 编码失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的图像格式: %s", format)
	}
	return nil
}

// Save 按扩展名保存为 png 或 jpeg
func Save(path string, buf *similarity.PixelBuffer) error {
	var out bytes.Buffer
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := Encode(&out, buf, format, DefaultJPEGQuality); err != nil {
		return err
	}
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("写入图像失败: %w", err)
	}
	return nil
}

// ToBase64 编码为 data URL
func ToBase64(buf *similarity.PixelBuffer, format string, quality int) (string, error) {
	var out bytes.Buffer
	if err := Encode(&out, buf, format, quality); err != nil {
		return "", err
	}

	mimeType := "image/png"
	if f := strings.ToLower(format); f == "jpeg" || f == "jpg" {
		mimeType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(out.Bytes())), nil
}
