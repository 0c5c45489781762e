package grid

import "math"

// ReferenceHeight 布局参数所基于的屏幕高度 (1920x1080)
const ReferenceHeight = 1080

// Layout 物品栏布局, 尺寸以 1080p 为基准
type Layout struct {
	Rows         int `json:"rows"`
	Cols         int `json:"cols"`
	SlotSize     int `json:"slot_size"`     // 格子边长
	Gap          int `json:"gap"`           // 格子间距
	BottomMargin int `json:"bottom_margin"` // 最后一行距屏幕底部的距离
}

// DefaultLayout 游戏底部物品栏: 1 行 12 格, 水平居中
var DefaultLayout = Layout{
	Rows:         1,
	Cols:         12,
	SlotSize:     64,
	Gap:          8,
	BottomMargin: 40,
}

// Valid 布局参数是否可用
func (l Layout) Valid() bool {
	return l.Rows > 0 && l.Cols > 0 && l.SlotSize > 0 && l.Gap >= 0 && l.BottomMargin >= 0
}

// Bounds 指定分辨率下整个物品栏的区域 (未裁剪)
func (l Layout) Bounds(width, height int) Region {
	scale := float64(height) / ReferenceHeight
	slot := scaled(l.SlotSize, scale)
	gap := scaled(l.Gap, scale)

	w := l.Cols*slot + (l.Cols-1)*gap
	h := l.Rows*slot + (l.Rows-1)*gap
	return Region{
		X:      (width - w) / 2,
		Y:      height - scaled(l.BottomMargin, scale) - h,
		Width:  w,
		Height: h,
	}
}

// DetectGridPositions 计算指定分辨率下所有格子的区域, 按行优先排列
// 分辨率或布局非法时返回 nil; 格子会被裁剪到屏幕内, 完全在屏幕外的格子被丢弃
func DetectGridPositions(width, height int, layout Layout) []Region {
	if width <= 0 || height <= 0 || !layout.Valid() {
		return nil
	}

	scale := float64(height) / ReferenceHeight
	slot := scaled(layout.SlotSize, scale)
	gap := scaled(layout.Gap, scale)
	origin := layout.Bounds(width, height)
	screen := Region{Width: width, Height: height}

	regions := make([]Region, 0, layout.Rows*layout.Cols)
	for row := 0; row < layout.Rows; row++ {
		for col := 0; col < layout.Cols; col++ {
			cell := Region{
				X:      origin.X + col*(slot+gap),
				Y:      origin.Y + row*(slot+gap),
				Width:  slot,
				Height: slot,
			}
			if clipped := intersect(cell, screen); !clipped.Empty() {
				regions = append(regions, clipped)
			}
		}
	}
	return regions
}

// scaled 按比例缩放像素值, 至少为 1 (原值为 0 时保持 0)
func scaled(v int, scale float64) int {
	if v == 0 {
		return 0
	}
	return max(1, int(math.Round(float64(v)*scale)))
}

// intersect 求两个区域的交集
func intersect(a, b Region) Region {
	r := a.Rect().Intersect(b.Rect())
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
