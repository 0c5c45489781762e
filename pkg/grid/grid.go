// Package grid 提供网格计算和物品栏格子区域检测
package grid

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Region 表示矩形区域
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect 转换为 image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Center 区域中心点
func (r Region) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty 宽或高不为正
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// GridPosition 网格位置
type GridPosition struct {
	Rows int `json:"rows"` // 总行数
	Cols int `json:"cols"` // 总列数
	Row  int `json:"row"`  // 目标行 (1-based)
	Col  int `json:"col"`  // 目标列 (1-based)
}

// ParseGridPosition 解析网格位置字符串
// 格式: rows.cols.row.col (如 "2.2.1.1" 表示 2x2 网格的第1行第1列)
func ParseGridPosition(s string) (*GridPosition, error) {
	if s == "" {
		return nil, fmt.Errorf("网格位置字符串为空")
	}

	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("无效的网格位置格式: %s (期望格式: rows.cols.row.col)", s)
	}

	names := [4]string{"行数", "列数", "目标行", "目标列"}
	var vals [4]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("无效的%s: %s", names[i], part)
		}
		vals[i] = v
	}
	rows, cols, row, col := vals[0], vals[1], vals[2], vals[3]

	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("行数和列数必须大于 0: rows=%d, cols=%d", rows, cols)
	}
	if row < 1 || col < 1 {
		return nil, fmt.Errorf("目标行和目标列必须大于 0: row=%d, col=%d", row, col)
	}
	if row > rows || col > cols {
		return nil, fmt.Errorf("目标位置超出范围: row=%d > rows=%d 或 col=%d > cols=%d", row, rows, col, cols)
	}

	return &GridPosition{Rows: rows, Cols: cols, Row: row, Col: col}, nil
}

// FormatGridPosition 格式化网格位置为字符串
func FormatGridPosition(rows, cols, row, col int) string {
	return fmt.Sprintf("%d.%d.%d.%d", rows, cols, row, col)
}

// CalculateGridCenter 计算网格单元格的中心点坐标
func CalculateGridCenter(rect Region, grid *GridPosition) Point {
	if grid == nil {
		return rect.Center()
	}

	cellWidth := float64(rect.Width) / float64(grid.Cols)
	cellHeight := float64(rect.Height) / float64(grid.Rows)

	x := float64(rect.X) + (float64(grid.Col)-0.5)*cellWidth
	y := float64(rect.Y) + (float64(grid.Row)-0.5)*cellHeight

	return Point{X: int(x), Y: int(y)}
}

// CalculateGridCenterFromString 从字符串解析并计算网格中心点
func CalculateGridCenterFromString(rect Region, gridStr string) (Point, error) {
	if gridStr == "" {
		return rect.Center(), nil
	}

	grid, err := ParseGridPosition(gridStr)
	if err != nil {
		return Point{}, err
	}

	return CalculateGridCenter(rect, grid), nil
}

// GetGridCellRect 获取网格中指定格子的矩形区域
func GetGridCellRect(rect Region, rows, cols, row, col int) Region {
	cellWidth := float64(rect.Width) / float64(cols)
	cellHeight := float64(rect.Height) / float64(rows)

	return Region{
		X:      int(float64(rect.X) + float64(col-1)*cellWidth),
		Y:      int(float64(rect.Y) + float64(row-1)*cellHeight),
		Width:  int(cellWidth),
		Height: int(cellHeight),
	}
}
