// Package scan 识别截图物品栏中每个格子的物品
//
// 基本用法:
//
//	scanner := scan.NewScanner(templates, scan.WithThreshold(0.8))
//	detections, err := scanner.Scan(ctx, screen)
//	for _, d := range detections {
//	    fmt.Printf("格子 %d: %s (%.2f)\n", d.Slot, d.Name, d.Confidence)
//	}
package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoeyai/itemscan/internal/logger"
	"github.com/zoeyai/itemscan/pkg/grid"
	"github.com/zoeyai/itemscan/pkg/vision/raster"
	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

var (
	// ErrNoTemplates 扫描器没有可用模板
	ErrNoTemplates = errors.New("没有可用的模板")
	// ErrInvalidScreen 截图缓冲区无效
	ErrInvalidScreen = errors.New("无效的截图")
)

// Template 物品模板
type Template struct {
	ID    string
	Name  string
	Image *similarity.PixelBuffer
}

// Detection 一个格子的识别结果
type Detection struct {
	// Slot 格子序号 (行优先, 从 0 开始)
	Slot int `json:"slot"`
	// Region 格子在截图中的区域
	Region grid.Region `json:"region"`
	// TemplateID 匹配到的模板 ID
	TemplateID string `json:"template_id"`
	// Name 匹配到的模板名称
	Name string `json:"name"`
	// Confidence 融合置信度
	Confidence float64 `json:"confidence"`
	// Scores 各方法分数
	Scores similarity.Result `json:"scores"`
}

type preparedTemplate struct {
	Template
	sample *similarity.PixelBuffer
}

// Scanner 物品栏扫描器, 创建后可并发使用
type Scanner struct {
	cfg       *scanConfig
	templates []preparedTemplate
}

// NewScanner 创建扫描器, 模板只在创建时缩放和预处理一次
// 图像无效的模板会被跳过
func NewScanner(templates []Template, opts ...Option) *Scanner {
	cfg := defaultScanConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Scanner{cfg: cfg}
	for _, t := range templates {
		sample := s.prepare(t.Image)
		if sample == nil {
			logger.Warn("跳过无效模板: %s", t.ID)
			continue
		}
		s.templates = append(s.templates, preparedTemplate{Template: t, sample: sample})
	}
	return s
}

// TemplateCount 可用模板数量
func (s *Scanner) TemplateCount() int {
	return len(s.templates)
}

// Threshold 匹配阈值
func (s *Scanner) Threshold() float64 {
	return s.cfg.threshold
}

// prepare 缩放为比较样本并按配置预处理
func (s *Scanner) prepare(buf *similarity.PixelBuffer) *similarity.PixelBuffer {
	sample := raster.Sample(buf, s.cfg.sampleSize)
	if sample == nil {
		return nil
	}
	if s.cfg.preprocess {
		sample = similarity.NormalizeColors(similarity.EnhanceContrast(sample, s.cfg.contrastFactor))
	}
	return sample
}

// Scan 识别截图中每个格子的物品
// 每个格子保留置信度最高且不低于阈值的模板, 没有匹配的格子不出现在结果中
func (s *Scanner) Scan(ctx context.Context, screen *similarity.PixelBuffer) ([]Detection, error) {
	if len(s.templates) == 0 {
		return nil, ErrNoTemplates
	}
	if !screen.Valid() {
		return nil, ErrInvalidScreen
	}

	start := time.Now()
	regions := grid.DetectGridPositions(screen.Width, screen.Height, s.cfg.layout)
	samples := make([]*similarity.PixelBuffer, len(regions))
	for i, r := range regions {
		samples[i] = s.prepare(raster.Crop(screen, r.Rect()))
	}

	scores, err := s.compareAll(ctx, samples)
	if err != nil {
		logger.LogEvent("scan", false, time.Since(start), err.Error())
		return nil, err
	}

	detections := make([]Detection, 0, len(regions))
	for i, r := range regions {
		d, ok := s.best(scores[i])
		if !ok {
			continue
		}
		d.Slot = i
		d.Region = r
		detections = append(detections, d)
	}

	logger.LogEvent("scan", true, time.Since(start),
		fmt.Sprintf("%d 个格子, %d 个匹配", len(regions), len(detections)))
	return detections, nil
}

// MatchBest 识别单个区域, 没有达到阈值的模板时返回 nil
func (s *Scanner) MatchBest(ctx context.Context, region *similarity.PixelBuffer) (*Detection, error) {
	if len(s.templates) == 0 {
		return nil, ErrNoTemplates
	}
	if !region.Valid() {
		return nil, ErrInvalidScreen
	}

	scores, err := s.compareAll(ctx, []*similarity.PixelBuffer{s.prepare(region)})
	if err != nil {
		return nil, err
	}

	d, ok := s.best(scores[0])
	if !ok {
		return nil, nil
	}
	d.Region = grid.Region{Width: region.Width, Height: region.Height}
	return &d, nil
}

// compareAll 在工作池中比较每个样本与每个模板
// 结果按 [样本][模板] 排列, 无效样本对应 nil
func (s *Scanner) compareAll(ctx context.Context, samples []*similarity.PixelBuffer) ([][]similarity.Result, error) {
	scores := make([][]similarity.Result, len(samples))

	pool := NewWorkerPool(s.cfg.workers)
	pool.Start()

submit:
	for i, sample := range samples {
		if sample == nil {
			continue
		}
		scores[i] = make([]similarity.Result, len(s.templates))
		for j := range s.templates {
			if ctx.Err() != nil {
				break submit
			}
			row, tpl := scores[i], s.templates[j].sample
			pool.Submit(func() {
				if ctx.Err() != nil {
					return
				}
				row[j] = similarity.CompareWeighted(sample, tpl, s.cfg.weights)
			})
		}
	}
	pool.Stop()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// best 选出置信度最高的模板, 相同时取先注册的模板
func (s *Scanner) best(row []similarity.Result) (Detection, bool) {
	bestIdx := -1
	for j, r := range row {
		if r.Combined < s.cfg.threshold {
			continue
		}
		if bestIdx < 0 || r.Combined > row[bestIdx].Combined {
			bestIdx = j
		}
	}
	if bestIdx < 0 {
		return Detection{}, false
	}

	t := s.templates[bestIdx]
	return Detection{
		TemplateID: t.ID,
		Name:       t.Name,
		Confidence: row[bestIdx].Combined,
		Scores:     row[bestIdx],
	}, true
}
