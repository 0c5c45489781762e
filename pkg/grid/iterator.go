package grid

// GridIterator 网格迭代器，用于遍历网格中的所有格子
type GridIterator struct {
	rect    Region
	rows    int
	cols    int
	current int
}

// NewGridIterator 创建网格迭代器
func NewGridIterator(rect Region, rows, cols int) *GridIterator {
	return &GridIterator{
		rect: rect,
		rows: rows,
		cols: cols,
	}
}

// Next 获取下一个格子的中心点，如果遍历完毕返回 nil
func (g *GridIterator) Next() *Point {
	grid := g.advance()
	if grid == nil {
		return nil
	}
	pos := CalculateGridCenter(g.rect, grid)
	return &pos
}

// NextCell 获取下一个格子的矩形区域，如果遍历完毕返回 nil
func (g *GridIterator) NextCell() *Region {
	grid := g.advance()
	if grid == nil {
		return nil
	}
	cell := GetGridCellRect(g.rect, grid.Rows, grid.Cols, grid.Row, grid.Col)
	return &cell
}

// advance 前进到下一个格子
func (g *GridIterator) advance() *GridPosition {
	if g.current >= g.Count() {
		return nil
	}

	row := g.current/g.cols + 1
	col := g.current%g.cols + 1
	g.current++

	return &GridPosition{Rows: g.rows, Cols: g.cols, Row: row, Col: col}
}

// Reset 重置迭代器
func (g *GridIterator) Reset() {
	g.current = 0
}

// Count 返回总格子数
func (g *GridIterator) Count() int {
	if g.rows <= 0 || g.cols <= 0 {
		return 0
	}
	return g.rows * g.cols
}
