// Package cv 提供基于 OpenCV (gocv) 的图像互操作和模板定位
//
// 主要功能:
//   - gocv.Mat 与 similarity.PixelBuffer 互相转换
//   - TM_CCOEFF_NORMED 置信度, 用于交叉校验纯 Go 相似度引擎
//   - 在截图中定位模板, 并用相似度引擎复核匹配区域
//
// 基本用法:
//
//	screen, _ := cv.ReadImage("screen.png")
//	tpl, _ := cv.ReadImage("item.png")
//
//	matcher := cv.NewTemplateMatching(tpl, screen, 0.8, true)
//	result, err := matcher.FindBestResult()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result != nil {
//	    fmt.Printf("找到位置: (%d, %d) 置信度 %.2f\n", result.Result.X, result.Result.Y, result.Confidence)
//	}
package cv
