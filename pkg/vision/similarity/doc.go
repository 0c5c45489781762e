// Package similarity 提供像素级图像相似度计算
//
// 支持以下比较方法:
//   - 归一化互相关 (NCC)
//   - 结构相似度 (SSIM, 8x8 分块)
//   - 直方图交集 (Histogram Intersection)
//   - 边缘图比较 (Sobel)
//
// 以及预处理流程 (对比度增强 + 颜色归一化) 和多方法融合打分。
//
// 所有函数都是纯函数, 不修改输入, 可并发调用。
// 尺寸不一致或退化输入 (纯色图、无边缘) 返回确定的 0, 不会 panic, 也不会返回 NaN。
//
// 基本用法:
//
//	a, _ := similarity.FromRGBA(64, 64, screenData)
//	b, _ := similarity.FromRGBA(64, 64, templateData)
//
//	score := similarity.CalculateCombinedSimilarity(similarity.PreprocessImage(a), b)
//	fmt.Printf("置信度: %.3f\n", score)
//
//	// 获取各方法的中间分数
//	r := similarity.Compare(a, b)
//	fmt.Printf("ncc=%.2f ssim=%.2f hist=%.2f edge=%.2f\n", r.NCC, r.SSIM, r.Histogram, r.Edge)
package similarity
