// Package config 管理扫描配置的加载与持久化
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/zoeyai/itemscan/pkg/grid"
	"github.com/zoeyai/itemscan/pkg/vision/raster"
	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("无效的配置")

// ScanConfig 扫描配置
type ScanConfig struct {
	// Threshold 接受匹配的最低融合置信度 (0, 1]
	Threshold float64 `json:"threshold"`
	// SampleSize 比较前统一缩放的边长
	SampleSize int `json:"sample_size"`
	// Preprocess 是否对截图格子做对比度增强和颜色归一化
	Preprocess bool `json:"preprocess"`
	// ContrastFactor 对比度增强系数
	ContrastFactor float64 `json:"contrast_factor"`
	// Workers 并发比较的协程数, 0 表示按物理核心数
	Workers int `json:"workers"`
	// Layout 物品栏布局
	Layout grid.Layout `json:"layout"`
	// Weights 融合权重
	Weights similarity.Weights `json:"weights"`
	// LogLevel 日志级别
	LogLevel string `json:"log_level"`
	// LogFile 日志文件路径, 为空表示不写文件
	LogFile string `json:"log_file,omitempty"`
}

// DefaultScanConfig 默认扫描配置
func DefaultScanConfig() *ScanConfig {
	return &ScanConfig{
		Threshold:      0.75,
		SampleSize:     raster.DefaultSampleSize,
		Preprocess:     true,
		ContrastFactor: similarity.DefaultContrastFactor,
		Workers:        0,
		Layout:         grid.DefaultLayout,
		Weights:        similarity.DefaultWeights,
		LogLevel:       "INFO",
	}
}

// Validate 校验配置
func (c *ScanConfig) Validate() error {
	switch {
	case !(c.Threshold > 0 && c.Threshold <= 1):
		return fmt.Errorf("%w: threshold 必须在 (0, 1] 内, 实际为 %v", ErrInvalidConfig, c.Threshold)
	case c.SampleSize < 8:
		return fmt.Errorf("%w: sample_size 不能小于 8, 实际为 %d", ErrInvalidConfig, c.SampleSize)
	case !(c.ContrastFactor > 0):
		return fmt.Errorf("%w: contrast_factor 必须大于 0", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers 不能为负数", ErrInvalidConfig)
	case !c.Layout.Valid():
		return fmt.Errorf("%w: layout 参数无效: %+v", ErrInvalidConfig, c.Layout)
	case math.Abs(c.Weights.Sum()-1) > 1e-6:
		return fmt.Errorf("%w: 权重总和必须为 1, 实际为 %v", ErrInvalidConfig, c.Weights.Sum())
	}
	return nil
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器, 配置位于 ~/.itemscan/config.json
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".itemscan"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// NewManagerWithFile 使用指定配置文件创建配置管理器
func NewManagerWithFile(configFile string) *Manager {
	return &Manager{
		configDir:  filepath.Dir(configFile),
		configFile: configFile,
	}
}

// ensureDir 确保配置目录存在
func (m *Manager) ensureDir() error {
	return os.MkdirAll(m.configDir, 0755)
}

// Load 加载配置
// 文件不存在时返回默认配置; 文件中缺失的字段保持默认值
func (m *Manager) Load() (*ScanConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return DefaultScanConfig(), nil
	}

	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return DefaultScanConfig(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultScanConfig()
	if err := sonic.Unmarshal(data, config); err != nil {
		return DefaultScanConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}
	if err := config.Validate(); err != nil {
		return DefaultScanConfig(), err
	}

	return config, nil
}

// Save 保存配置
func (m *Manager) Save(config *ScanConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureDir(); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := sonic.ConfigStd.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}

// Load 使用默认管理器加载配置
func Load() (*ScanConfig, error) {
	return defaultManager.Load()
}

// Save 使用默认管理器保存配置
func Save(config *ScanConfig) error {
	return defaultManager.Save(config)
}

// Clear 使用默认管理器清除配置
func Clear() error {
	return defaultManager.Clear()
}
