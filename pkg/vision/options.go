package vision

import (
	"time"

	"github.com/zoeyai/itemscan/pkg/vision/raster"
	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// Options 全局配置选项
type Options struct {
	// 匹配配置
	Threshold   float64       // 匹配阈值，默认 0.75
	FindTimeout time.Duration // MatchLoop 超时时间，默认 10s
	Verify      bool          // 定位后是否用相似度引擎复核

	// 比较配置
	SampleSize     int                // 比较样本边长，默认 64
	Preprocess     bool               // 是否预处理截图
	ContrastFactor float64            // 对比度增强系数
	Weights        similarity.Weights // 融合权重
}

// DefaultOptions 默认配置
var DefaultOptions = Options{
	Threshold:   0.75,
	FindTimeout: 10 * time.Second,
	Verify:      true,

	SampleSize:     raster.DefaultSampleSize,
	Preprocess:     true,
	ContrastFactor: similarity.DefaultContrastFactor,
	Weights:        similarity.DefaultWeights,
}

// globalOptions 全局配置实例
var globalOptions = DefaultOptions

// GetOptions 获取当前全局配置
func GetOptions() *Options {
	return &globalOptions
}

// SetOptions 设置全局配置
func SetOptions(opts Options) {
	globalOptions = opts
}

// ResetOptions 重置为默认配置
func ResetOptions() {
	globalOptions = DefaultOptions
}

// Option 配置选项函数类型
type Option func(*matchConfig)

// matchConfig 单次调用的临时配置
type matchConfig struct {
	threshold      float64
	timeout        time.Duration
	verify         bool
	sampleSize     int
	preprocess     bool
	contrastFactor float64
	weights        similarity.Weights
}

// defaultMatchConfig 由全局配置生成
func defaultMatchConfig() *matchConfig {
	return &matchConfig{
		threshold:      globalOptions.Threshold,
		timeout:        globalOptions.FindTimeout,
		verify:         globalOptions.Verify,
		sampleSize:     globalOptions.SampleSize,
		preprocess:     globalOptions.Preprocess,
		contrastFactor: globalOptions.ContrastFactor,
		weights:        globalOptions.Weights,
	}
}

func buildConfig(opts []Option) *matchConfig {
	cfg := defaultMatchConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithThreshold 设置匹配阈值
func WithThreshold(threshold float64) Option {
	return func(c *matchConfig) {
		c.threshold = threshold
	}
}

// WithTimeout 设置超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *matchConfig) {
		c.timeout = timeout
	}
}

// WithVerify 设置是否复核定位结果
func WithVerify(verify bool) Option {
	return func(c *matchConfig) {
		c.verify = verify
	}
}

// WithSampleSize 设置比较样本边长
func WithSampleSize(size int) Option {
	return func(c *matchConfig) {
		c.sampleSize = size
	}
}

// WithPreprocess 设置是否预处理
func WithPreprocess(enabled bool) Option {
	return func(c *matchConfig) {
		c.preprocess = enabled
	}
}

// WithWeights 设置融合权重
func WithWeights(w similarity.Weights) Option {
	return func(c *matchConfig) {
		c.weights = w
	}
}
