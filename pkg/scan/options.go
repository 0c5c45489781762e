package scan

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/zoeyai/itemscan/pkg/grid"
	"github.com/zoeyai/itemscan/pkg/vision/raster"
	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// DefaultThreshold 默认匹配阈值
const DefaultThreshold = 0.75

// Option 扫描器配置选项函数类型
type Option func(*scanConfig)

// scanConfig 扫描器配置
type scanConfig struct {
	threshold      float64
	sampleSize     int
	preprocess     bool
	contrastFactor float64
	workers        int
	layout         grid.Layout
	weights        similarity.Weights
}

// defaultScanConfig 默认扫描器配置
func defaultScanConfig() *scanConfig {
	return &scanConfig{
		threshold:      DefaultThreshold,
		sampleSize:     raster.DefaultSampleSize,
		preprocess:     true,
		contrastFactor: similarity.DefaultContrastFactor,
		workers:        DefaultWorkers(),
		layout:         grid.DefaultLayout,
		weights:        similarity.DefaultWeights,
	}
}

// WithThreshold 设置匹配阈值
func WithThreshold(threshold float64) Option {
	return func(c *scanConfig) {
		c.threshold = threshold
	}
}

// WithSampleSize 设置比较样本边长
func WithSampleSize(size int) Option {
	return func(c *scanConfig) {
		if size > 0 {
			c.sampleSize = size
		}
	}
}

// WithPreprocess 是否对格子和模板做对比度增强与颜色归一化
func WithPreprocess(enabled bool) Option {
	return func(c *scanConfig) {
		c.preprocess = enabled
	}
}

// WithContrastFactor 设置预处理的对比度系数
func WithContrastFactor(factor float64) Option {
	return func(c *scanConfig) {
		c.contrastFactor = factor
	}
}

// WithWorkers 设置并发比较的协程数, <= 0 时使用 DefaultWorkers
func WithWorkers(n int) Option {
	return func(c *scanConfig) {
		if n <= 0 {
			n = DefaultWorkers()
		}
		c.workers = n
	}
}

// WithLayout 设置物品栏布局
func WithLayout(layout grid.Layout) Option {
	return func(c *scanConfig) {
		c.layout = layout
	}
}

// WithWeights 设置融合权重
func WithWeights(w similarity.Weights) Option {
	return func(c *scanConfig) {
		c.weights = w
	}
}

// DefaultWorkers 物理核心数, 获取失败时退回逻辑核心数
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
