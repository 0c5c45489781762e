package similarity

// DefaultContrastFactor 默认对比度增强系数
const DefaultContrastFactor = 1.2

// contrastPivot 对比度调整的中点
const contrastPivot = 128.0

// EnhanceContrast 以 128 为中点调整对比度, 返回新缓冲区
// factor > 1 增强, factor < 1 减弱; factor <= 0 时使用 DefaultContrastFactor
// Alpha 通道保持不变
func EnhanceContrast(b *PixelBuffer, factor float64) *PixelBuffer {
	if !b.Valid() {
		return nil
	}
	if !(factor > 0) {
		factor = DefaultContrastFactor
	}

	out := b.Clone()
	for p := 0; p < len(out.Data); p += Channels {
		for c := 0; c < 3; c++ {
			v := float64(b.Data[p+c])
			out.Data[p+c] = clampByte(contrastPivot + (v-contrastPivot)*factor)
		}
	}
	return out
}

// NormalizeColors 将 RGB 全局动态范围线性拉伸到 [0, 255]
// 纯色图像 (max == min) 直接返回副本
func NormalizeColors(b *PixelBuffer) *PixelBuffer {
	if !b.Valid() {
		return nil
	}

	lo, hi := byte(255), byte(0)
	for p := 0; p < len(b.Data); p += Channels {
		for c := 0; c < 3; c++ {
			v := b.Data[p+c]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	out := b.Clone()
	if hi == lo {
		return out
	}

	scale := 255.0 / float64(hi-lo)
	for p := 0; p < len(out.Data); p += Channels {
		for c := 0; c < 3; c++ {
			out.Data[p+c] = clampByte(float64(b.Data[p+c]-lo) * scale)
		}
	}
	return out
}

// PreprocessImage 截图预处理: 先增强对比度, 再归一化颜色
func PreprocessImage(b *PixelBuffer) *PixelBuffer {
	return NormalizeColors(EnhanceContrast(b, DefaultContrastFactor))
}
