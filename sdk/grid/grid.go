// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package grid

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/columns/errs"
)

const (
	// FallerLength 為 faller 的格數，也決定盤面上方緩衝列數 (FallerLength-1)。
	FallerLength = 3

	DefaultVisibleRows = 13
	DefaultCols        = 16
)

// Grid 是固定大小的盤面，row-major 平面陣列。
// row 0 是最上方的緩衝列，可見區從 BufferRows() 開始。
type Grid struct {
	cells   []Cell
	rows    int
	cols    int
	visible int
}

// New 建立全空盤面；維度非正數回傳 ErrInvalidGame。
func New(visibleRows, cols int) (*Grid, error) {
	if visibleRows <= 0 || cols <= 0 {
		return nil, errs.InvalidGamef("grid dimensions must be positive: rows=%d cols=%d", visibleRows, cols)
	}
	rows := visibleRows + FallerLength - 1
	return &Grid{
		cells:   make([]Cell, rows*cols),
		rows:    rows,
		cols:    cols,
		visible: visibleRows,
	}, nil
}

// Rows 含緩衝列的總列數。
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) Cols() int { return g.cols }

func (g *Grid) VisibleRows() int { return g.visible }

func (g *Grid) BufferRows() int { return g.rows - g.visible }

// LastRow 是最底列的索引。
func (g *Grid) LastRow() int { return g.rows - 1 }

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) idx(row, col int) int {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("grid: (%d,%d) out of bounds %dx%d", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

// CellAt 越界視為程式錯誤，直接 panic。
func (g *Grid) CellAt(row, col int) Cell {
	return g.cells[g.idx(row, col)]
}

func (g *Grid) SetCell(row, col int, c Cell) {
	g.cells[g.idx(row, col)] = c
}

// Cells 回傳底層平面陣列（不複製），供 ops / calc 以索引直接操作。
func (g *Grid) Cells() []Cell {
	return g.cells
}

// Reset 把所有格子清為 Empty。
func (g *Grid) Reset() {
	clear(g.cells)
}

func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = make([]Cell, len(g.cells))
	copy(c.cells, g.cells)
	return &c
}

// CopyFrom 以 src 覆寫盤面內容，維度必須一致。
func (g *Grid) CopyFrom(src *Grid) {
	if src.rows != g.rows || src.cols != g.cols {
		panic("grid: CopyFrom dimension mismatch")
	}
	copy(g.cells, src.cells)
}

// Count 回傳符合狀態 s 的格子數。
func (g *Grid) Count(s Status) int {
	n := 0
	for _, c := range g.cells {
		if c.Is(s) {
			n++
		}
	}
	return n
}

// TopFrozen 自 from 列往下找該欄第一個 Frozen 格；沒有則回傳 -1。
func (g *Grid) TopFrozen(col, from int) int {
	for r := max(from, 0); r < g.rows; r++ {
		if g.CellAt(r, col).Is(Frozen) {
			return r
		}
	}
	return -1
}

// String 輸出除錯用的文字盤面，緩衝列與可見區之間以分隔線隔開。
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		if r == g.BufferRows() {
			sb.WriteString(strings.Repeat("-", g.cols*3))
			sb.WriteByte('\n')
		}
		for c := 0; c < g.cols; c++ {
			cell := g.CellAt(r, c)
			switch {
			case cell.IsEmpty():
				sb.WriteString(" . ")
			case cell.Status() == Air:
				fmt.Fprintf(&sb, "(%d)", cell.Color())
			case cell.Status() == Matched:
				fmt.Fprintf(&sb, "*%d*", cell.Color())
			default:
				fmt.Fprintf(&sb, "[%d]", cell.Color())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
