package grid

import (
	"testing"
)

func TestParseGridPosition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *GridPosition
		wantErr bool
	}{
		{
			name:  "valid 2x2 grid position 1,1",
			input: "2.2.1.1",
			want:  &GridPosition{Rows: 2, Cols: 2, Row: 1, Col: 1},
		},
		{
			name:  "valid 2x2 grid position 2,2",
			input: "2.2.2.2",
			want:  &GridPosition{Rows: 2, Cols: 2, Row: 2, Col: 2},
		},
		{
			name:  "valid 3x3 grid position 2,2",
			input: "3.3.2.2",
			want:  &GridPosition{Rows: 3, Cols: 3, Row: 2, Col: 2},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "invalid format - too few parts",
			input:   "2.2.1",
			wantErr: true,
		},
		{
			name:    "invalid - row > rows",
			input:   "2.2.3.1",
			wantErr: true,
		},
		{
			name:    "invalid - row < 1",
			input:   "2.2.0.1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGridPosition(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseGridPosition() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if got.Rows != tt.want.Rows || got.Cols != tt.want.Cols ||
					got.Row != tt.want.Row || got.Col != tt.want.Col {
					t.Errorf("ParseGridPosition() = %+v, want %+v", got, tt.want)
				}
			}
		})
	}
}

func TestFormatGridPosition(t *testing.T) {
	result := FormatGridPosition(2, 2, 1, 1)
	if result != "2.2.1.1" {
		t.Errorf("FormatGridPosition() = %v, want %v", result, "2.2.1.1")
	}
}

func TestCalculateGridCenter(t *testing.T) {
	rect := Region{X: 100, Y: 100, Width: 200, Height: 200}

	tests := []struct {
		name string
		grid *GridPosition
		want Point
	}{
		{
			name: "2x2 grid - top left (1,1)",
			grid: &GridPosition{Rows: 2, Cols: 2, Row: 1, Col: 1},
			want: Point{X: 150, Y: 150},
		},
		{
			name: "2x2 grid - top right (1,2)",
			grid: &GridPosition{Rows: 2, Cols: 2, Row: 1, Col: 2},
			want: Point{X: 250, Y: 150},
		},
		{
			name: "nil grid - center of rect",
			grid: nil,
			want: Point{X: 200, Y: 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateGridCenter(rect, tt.grid)
			if got.X != tt.want.X || got.Y != tt.want.Y {
				t.Errorf("CalculateGridCenter() = (%d, %d), want (%d, %d)",
					got.X, got.Y, tt.want.X, tt.want.Y)
			}
		})
	}
}

func TestCalculateGridCenterFromString(t *testing.T) {
	rect := Region{X: 100, Y: 100, Width: 200, Height: 200}

	pos, err := CalculateGridCenterFromString(rect, "2.2.1.1")
	if err != nil {
		t.Errorf("CalculateGridCenterFromString() error = %v", err)
	}
	if pos.X != 150 || pos.Y != 150 {
		t.Errorf("CalculateGridCenterFromString() = (%d, %d), want (150, 150)", pos.X, pos.Y)
	}

	pos, err = CalculateGridCenterFromString(rect, "")
	if err != nil {
		t.Errorf("CalculateGridCenterFromString(\"\") error = %v", err)
	}
	if pos.X != 200 || pos.Y != 200 {
		t.Errorf("CalculateGridCenterFromString(\"\") = (%d, %d), want (200, 200)", pos.X, pos.Y)
	}

	_, err = CalculateGridCenterFromString(rect, "invalid")
	if err == nil {
		t.Error("CalculateGridCenterFromString(invalid) should return error")
	}
}

func TestGetGridCellRect(t *testing.T) {
	rect := Region{X: 100, Y: 100, Width: 200, Height: 200}

	cell := GetGridCellRect(rect, 2, 2, 1, 1)
	if cell.X != 100 || cell.Y != 100 || cell.Width != 100 || cell.Height != 100 {
		t.Errorf("GetGridCellRect(2,2,1,1) = %+v, want {100,100,100,100}", cell)
	}

	cell = GetGridCellRect(rect, 2, 2, 2, 2)
	if cell.X != 200 || cell.Y != 200 || cell.Width != 100 || cell.Height != 100 {
		t.Errorf("GetGridCellRect(2,2,2,2) = %+v, want {200,200,100,100}", cell)
	}
}

func TestGridIterator(t *testing.T) {
	rect := Region{X: 0, Y: 0, Width: 200, Height: 200}
	iter := NewGridIterator(rect, 2, 2)

	if iter.Count() != 4 {
		t.Errorf("GridIterator.Count() = %d, want 4", iter.Count())
	}

	var positions []Point
	for {
		pos := iter.Next()
		if pos == nil {
			break
		}
		positions = append(positions, *pos)
	}

	if len(positions) != 4 {
		t.Errorf("GridIterator returned %d positions, want 4", len(positions))
	}

	expected := []Point{
		{X: 50, Y: 50},
		{X: 150, Y: 50},
		{X: 50, Y: 150},
		{X: 150, Y: 150},
	}

	for i, pos := range positions {
		if pos.X != expected[i].X || pos.Y != expected[i].Y {
			t.Errorf("Position %d: got (%d, %d), want (%d, %d)",
				i, pos.X, pos.Y, expected[i].X, expected[i].Y)
		}
	}

	iter.Reset()
	pos := iter.Next()
	if pos == nil || pos.X != 50 || pos.Y != 50 {
		t.Error("GridIterator.Reset() did not reset correctly")
	}
}

func BenchmarkParseGridPosition(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ParseGridPosition("3.3.2.2")
	}
}

func BenchmarkCalculateGridCenter(b *testing.B) {
	rect := Region{X: 100, Y: 100, Width: 200, Height: 200}
	grid := &GridPosition{Rows: 3, Cols: 3, Row: 2, Col: 2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CalculateGridCenter(rect, grid)
	}
}

func TestGridIteratorNextCell(t *testing.T) {
	iter := NewGridIterator(Region{X: 10, Y: 20, Width: 90, Height: 30}, 1, 3)

	var cells []Region
	for cell := iter.NextCell(); cell != nil; cell = iter.NextCell() {
		cells = append(cells, *cell)
	}

	want := []Region{
		{X: 10, Y: 20, Width: 30, Height: 30},
		{X: 40, Y: 20, Width: 30, Height: 30},
		{X: 70, Y: 20, Width: 30, Height: 30},
	}
	if len(cells) != len(want) {
		t.Fatalf("NextCell 返回 %d 个格子, want %d", len(cells), len(want))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("格子 %d: got %+v, want %+v", i, cells[i], want[i])
		}
	}

	if NewGridIterator(Region{Width: 10, Height: 10}, 0, 3).Count() != 0 {
		t.Error("行数为 0 时 Count 应为 0")
	}
}

func TestDetectGridPositions(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		height    int
		wantCount int
		wantFirst Region
		wantLast  Region
	}{
		{
			name:      "1080p",
			width:     1920,
			height:    1080,
			wantCount: 12,
			wantFirst: Region{X: 532, Y: 976, Width: 64, Height: 64},
			wantLast:  Region{X: 532 + 11*72, Y: 976, Width: 64, Height: 64},
		},
		{
			name:      "4K",
			width:     3840,
			height:    2160,
			wantCount: 12,
			wantFirst: Region{X: 1064, Y: 1952, Width: 128, Height: 128},
			wantLast:  Region{X: 1064 + 11*144, Y: 1952, Width: 128, Height: 128},
		},
		{
			name:      "720p",
			width:     1280,
			height:    720,
			wantCount: 12,
			wantFirst: Region{X: 354, Y: 650, Width: 43, Height: 43},
			wantLast:  Region{X: 354 + 11*48, Y: 650, Width: 43, Height: 43},
		},
		{
			name:      "窄屏裁剪",
			width:     400,
			height:    1080,
			wantCount: 6,
			wantFirst: Region{X: 0, Y: 976, Width: 52, Height: 64},
			wantLast:  Region{X: 348, Y: 976, Width: 52, Height: 64},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectGridPositions(tt.width, tt.height, DefaultLayout)
			if len(got) != tt.wantCount {
				t.Fatalf("DetectGridPositions() 返回 %d 个格子, want %d", len(got), tt.wantCount)
			}
			if got[0] != tt.wantFirst {
				t.Errorf("第一个格子: got %+v, want %+v", got[0], tt.wantFirst)
			}
			if got[len(got)-1] != tt.wantLast {
				t.Errorf("最后一个格子: got %+v, want %+v", got[len(got)-1], tt.wantLast)
			}
		})
	}
}

func TestDetectGridPositionsInvalid(t *testing.T) {
	if got := DetectGridPositions(0, 1080, DefaultLayout); got != nil {
		t.Errorf("宽度为 0 应返回 nil, got %v", got)
	}
	if got := DetectGridPositions(1920, -1, DefaultLayout); got != nil {
		t.Errorf("高度为负应返回 nil, got %v", got)
	}
	if got := DetectGridPositions(1920, 1080, Layout{}); got != nil {
		t.Errorf("空布局应返回 nil, got %v", got)
	}
}

func TestDetectGridPositionsMultiRow(t *testing.T) {
	layout := Layout{Rows: 2, Cols: 3, SlotSize: 100, Gap: 10, BottomMargin: 0}
	got := DetectGridPositions(1920, 1080, layout)
	if len(got) != 6 {
		t.Fatalf("2x3 布局应返回 6 个格子, got %d", len(got))
	}

	// 行优先: 第 4 个格子为第 2 行第 1 列
	if got[3].X != got[0].X || got[3].Y != got[0].Y+110 {
		t.Errorf("行优先顺序错误: got[0]=%+v got[3]=%+v", got[0], got[3])
	}
	if got[5].Y+got[5].Height != 1080 {
		t.Errorf("最后一行应贴近屏幕底部, got %+v", got[5])
	}
}

func BenchmarkDetectGridPositions(b *testing.B) {
	for i := 0; i < b.N; i++ {
		DetectGridPositions(2560, 1440, DefaultLayout)
	}
}
