package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// ReadImage 使用 OpenCV 读取图像文件为像素缓冲区
func ReadImage(filename string) (*similarity.PixelBuffer, error) {
	mat := gocv.IMRead(filename, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("无法读取图像: %s", filename)
	}
	return MatToBuffer(mat)
}

// DecodeImage 使用 OpenCV 解码内存中的图像数据
func DecodeImage(data []byte) (*similarity.PixelBuffer, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("图像解码失败: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("图像解码失败: 数据为空")
	}
	return MatToBuffer(mat)
}

// MatToBuffer 将 8 位 Gray/BGR/BGRA Mat 转换为 RGBA 像素缓冲区
func MatToBuffer(mat gocv.Mat) (*similarity.PixelBuffer, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("Mat 为空")
	}

	var code gocv.ColorConversionCode
	switch mat.Type() {
	case gocv.MatTypeCV8UC1:
		code = gocv.ColorGrayToRGBA
	case gocv.MatTypeCV8UC3:
		code = gocv.ColorBGRToRGBA
	case gocv.MatTypeCV8UC4:
		code = gocv.ColorBGRAToRGBA
	default:
		return nil, fmt.Errorf("不支持的 Mat 类型: %v", mat.Type())
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(mat, &rgba, code)

	return similarity.FromRGBA(rgba.Cols(), rgba.Rows(), rgba.ToBytes())
}

// BufferToMat 将像素缓冲区转换为 BGR Mat, 调用方负责 Close
func BufferToMat(buf *similarity.PixelBuffer) (gocv.Mat, error) {
	if !buf.Valid() {
		return gocv.Mat{}, fmt.Errorf("无效的像素缓冲区")
	}

	rgba, err := gocv.NewMatFromBytes(buf.Height, buf.Width, gocv.MatTypeCV8UC4, buf.Data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("创建 Mat 失败: %w", err)
	}
	defer rgba.Close()

	dst := gocv.NewMat()
	gocv.CvtColor(rgba, &dst, gocv.ColorRGBAToBGR)
	return dst, nil
}

// ToGray 转换为灰度图
func ToGray(src gocv.Mat) gocv.Mat {
	if src.Channels() == 1 {
		return src.Clone()
	}
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}

// bufferToGray 像素缓冲区转灰度 Mat
func bufferToGray(buf *similarity.PixelBuffer) (gocv.Mat, error) {
	bgr, err := BufferToMat(buf)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer bgr.Close()
	return ToGray(bgr), nil
}

// ResizeBuffer 使用 OpenCV 线性插值缩放像素缓冲区
func ResizeBuffer(buf *similarity.PixelBuffer, width, height int) (*similarity.PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", similarity.ErrInvalidDimensions, width, height)
	}

	src, err := BufferToMat(buf)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationLinear)

	return MatToBuffer(dst)
}

// ImageSizeError 图像尺寸错误
type ImageSizeError struct {
	SourceSize [2]int
	SearchSize [2]int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("搜索图像尺寸 %dx%d 大于源图像 %dx%d",
		e.SearchSize[0], e.SearchSize[1], e.SourceSize[0], e.SourceSize[1])
}
