package scan

import (
	"sync"

	"github.com/corona10/goimagehash"

	"github.com/zoeyai/itemscan/internal/logger"
	"github.com/zoeyai/itemscan/pkg/vision/raster"
	"github.com/zoeyai/itemscan/pkg/vision/similarity"
)

// MaxHashDistance 差异哈希的汉明距离不超过该值时视为同一画面
const MaxHashDistance = 5

// FrameGate 跳过与上一帧几乎相同的截图
type FrameGate struct {
	mu       sync.Mutex
	lastHash *goimagehash.ImageHash
	maxDist  int
}

// NewFrameGate 创建帧门, maxDist < 0 时使用 MaxHashDistance
func NewFrameGate(maxDist int) *FrameGate {
	if maxDist < 0 {
		maxDist = MaxHashDistance
	}
	return &FrameGate{maxDist: maxDist}
}

// Changed 画面与上一次记录的帧相比是否发生变化
// 无法计算哈希时总是返回 true; 只有变化的帧会成为新的比较基准
func (g *FrameGate) Changed(buf *similarity.PixelBuffer) bool {
	if !buf.Valid() {
		return true
	}

	hash, err := goimagehash.DifferenceHash(raster.ToImage(buf))
	if err != nil {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lastHash == nil {
		g.lastHash = hash
		return true
	}

	dist, err := g.lastHash.Distance(hash)
	if err != nil {
		g.lastHash = hash
		return true
	}

	if dist <= g.maxDist {
		logger.Debug("画面未变化, 跳过扫描 (距离 %d)", dist)
		return false
	}

	g.lastHash = hash
	return true
}

// Reset 清除记录的帧
func (g *FrameGate) Reset() {
	g.mu.Lock()
	g.lastHash = nil
	g.mu.Unlock()
}
