package similarity

import "math"

// Method 相似度方法
type Method string

const (
	MethodNCC       Method = "ncc"
	MethodSSIM      Method = "ssim"
	MethodHistogram Method = "histogram"
	MethodEdge      Method = "edge"
)

// 融合参数
const (
	// MaxConfidence 融合分数上限, 永远不会输出 1.0
	MaxConfidence = 0.99
	// AgreementSpread 各方法分数极差不超过该值时视为一致
	AgreementSpread = 0.15
	// AgreementBonus 一致时的乘性奖励
	AgreementBonus = 0.05
	// DisagreementSpread 各方法分数极差不低于该值时视为冲突
	DisagreementSpread = 0.5
	// DisagreementPenalty 冲突时的乘性惩罚
	DisagreementPenalty = 0.10
)

// Weights 各方法在融合中的权重, 总和应为 1
type Weights struct {
	NCC       float64 `json:"ncc"`
	SSIM      float64 `json:"ssim"`
	Histogram float64 `json:"histogram"`
	Edge      float64 `json:"edge"`
}

// DefaultWeights 默认权重: 结构信号 (SSIM, NCC) 为主, 直方图和边缘为辅
var DefaultWeights = Weights{
	NCC:       0.30,
	SSIM:      0.35,
	Histogram: 0.15,
	Edge:      0.20,
}

// Sum 权重总和
func (w Weights) Sum() float64 {
	return w.NCC + w.SSIM + w.Histogram + w.Edge
}

// Result 一次比较的完整结果
type Result struct {
	NCC       float64 `json:"ncc"`
	SSIM      float64 `json:"ssim"`
	Histogram float64 `json:"histogram"`
	Edge      float64 `json:"edge"`
	// Combined 融合后的置信度 [0, 0.99]
	Combined float64 `json:"combined"`
	// Degenerate 没有有效信号的方法 (纯色图的 NCC, 无边缘的 Edge), 不参与融合
	Degenerate []Method `json:"degenerate,omitempty"`
}

// Compare 使用 DefaultWeights 运行全部四种方法并融合
func Compare(a, b *PixelBuffer) Result {
	return CompareWeighted(a, b, DefaultWeights)
}

// CompareWeighted 使用指定权重运行全部四种方法并融合
func CompareWeighted(a, b *PixelBuffer, w Weights) Result {
	if !a.SameSize(b) {
		return Result{}
	}

	r := Result{
		SSIM:      CalculateSSIM(a, b),
		Histogram: CalculateHistogramSimilarity(a, b),
	}

	var ok bool
	if r.NCC, ok = ncc(a, b); !ok {
		r.Degenerate = append(r.Degenerate, MethodNCC)
	}
	if r.Edge, ok = edgeSimilarity(a, b); !ok {
		r.Degenerate = append(r.Degenerate, MethodEdge)
	}

	r.Combined = CombineScores(r, w)
	return r
}

// CombineScores 融合各方法分数
//
// 1. 排除 Degenerate 中的方法, 剩余权重重新归一化
// 2. 计算加权和
// 3. 有效分数极差 <= AgreementSpread 时乘以 (1 + AgreementBonus),
//    极差 >= DisagreementSpread 时乘以 (1 - DisagreementPenalty)
// 4. 裁剪到 [0, MaxConfidence]
func CombineScores(r Result, w Weights) float64 {
	skip := make(map[Method]bool, len(r.Degenerate))
	for _, m := range r.Degenerate {
		skip[m] = true
	}

	parts := []struct {
		method Method
		score  float64
		weight float64
	}{
		{MethodNCC, r.NCC, w.NCC},
		{MethodSSIM, r.SSIM, w.SSIM},
		{MethodHistogram, r.Histogram, w.Histogram},
		{MethodEdge, r.Edge, w.Edge},
	}

	var sum, total float64
	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, p := range parts {
		if skip[p.method] || !(p.weight > 0) {
			continue
		}
		s := clamp01(p.score)
		sum += s * p.weight
		total += p.weight
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
		n++
	}
	if total == 0 {
		return 0
	}

	combined := sum / total
	if n >= 2 {
		switch spread := hi - lo; {
		case spread <= AgreementSpread:
			combined *= 1 + AgreementBonus
		case spread >= DisagreementSpread:
			combined *= 1 - DisagreementPenalty
		}
	}

	if combined != combined || combined < 0 {
		return 0
	}
	return math.Min(combined, MaxConfidence)
}

// CalculateCombinedSimilarity 融合四种方法的置信度, 返回 [0, 0.99]
func CalculateCombinedSimilarity(a, b *PixelBuffer) float64 {
	return Compare(a, b).Combined
}

// CalculateEnhancedSimilarity CalculateCombinedSimilarity 的别名
func CalculateEnhancedSimilarity(a, b *PixelBuffer) float64 {
	return CalculateCombinedSimilarity(a, b)
}
