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

// Package engine 是遊戲模擬核心：生成、移動旋轉、下落著地凍結、連線標記與消除補位。
//
// Engine 不是 goroutine-safe，呼叫端必須序列化所有呼叫。
package engine

import (
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/calc"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/grid"
	"github.com/zintix-labs/columns/sdk/ops"
)

const DefaultColors = 7

// Config 為建構引擎所需的參數，零值欄位採用預設值。
type Config struct {
	VisibleRows int
	Cols        int
	Colors      int
}

func (c Config) withDefaults() Config {
	if c.VisibleRows == 0 {
		c.VisibleRows = grid.DefaultVisibleRows
	}
	if c.Cols == 0 {
		c.Cols = grid.DefaultCols
	}
	if c.Colors == 0 {
		c.Colors = DefaultColors
	}
	return c
}

// Engine 持有盤面、目前的 faller 與 game over 旗標。
type Engine struct {
	g      *grid.Grid
	core   *core.Core
	colors int

	faller *Faller
	last   *Faller // 最近一次凍結的 faller 位置，供 game over 判定
	over   bool

	matcher *calc.Matcher
	avail   []int
	pinned  ops.Pinned
}

// New 建立空盤面的引擎。c 為生成所用的亂數核心。
func New(cfg Config, c *core.Core) (*Engine, error) {
	cfg = cfg.withDefaults()
	if cfg.Colors <= 0 {
		return nil, errs.InvalidGamef("colors must be positive: %d", cfg.Colors)
	}
	g, err := grid.New(cfg.VisibleRows, cfg.Cols)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.InvalidGamef("nil rng core")
	}
	e := &Engine{
		g:       g,
		core:    c,
		colors:  cfg.Colors,
		matcher: calc.NewMatcher(),
		avail:   make([]int, 0, cfg.Cols),
	}
	e.pinned = e.isFallerCell
	return e, nil
}

// Reset 清空盤面與所有狀態，亂數核心沿用。
func (e *Engine) Reset() {
	e.g.Reset()
	e.faller = nil
	e.last = nil
	e.over = false
}

// Clone 複製盤面與 faller，但不帶亂數核心：
// 複本只能做 Move / Rotate / Advance / ScanAndMark 推演，EnsureFaller 會回傳錯誤。
func (e *Engine) Clone() *Engine {
	cp := &Engine{
		g:       e.g.Clone(),
		colors:  e.colors,
		over:    e.over,
		matcher: calc.NewMatcher(),
		avail:   make([]int, 0, e.g.Cols()),
	}
	if e.faller != nil {
		f := *e.faller
		cp.faller = &f
	}
	if e.last != nil {
		l := *e.last
		cp.last = &l
	}
	cp.pinned = cp.isFallerCell
	return cp
}

// ---- 查詢 ----

// CellAt 以含緩衝列的座標讀取格子，row 0 為最上方緩衝列。
func (e *Engine) CellAt(row, col int) grid.Cell {
	return e.g.CellAt(row, col)
}

// Rows 回傳可見列數。
func (e *Engine) Rows() int { return e.g.VisibleRows() }

func (e *Engine) Cols() int { return e.g.Cols() }

// TotalRows 含緩衝列。
func (e *Engine) TotalRows() int { return e.g.Rows() }

func (e *Engine) BufferRows() int { return e.g.BufferRows() }

func (e *Engine) Colors() int { return e.colors }

// VisibleCellAt 以可見區座標讀取，row 0 為可見區最上列。
func (e *Engine) VisibleCellAt(row, col int) grid.Cell {
	return e.g.CellAt(row+e.g.BufferRows(), col)
}

// Faller 回傳目前 faller 的複本；沒有 faller 時 ok 為 false。
func (e *Engine) Faller() (f Faller, ok bool) {
	if e.faller == nil {
		return Faller{}, false
	}
	return *e.faller, true
}

func (e *Engine) HasFaller() bool { return e.faller != nil }

// IsGameOver 一旦為 true 便不再改變。
func (e *Engine) IsGameOver() bool { return e.over }

// Grid 回傳底層盤面，供測試與推演直接佈置盤面。
// 呼叫端自行維持 faller 與盤面的一致性。
func (e *Engine) Grid() *grid.Grid { return e.g }

// ---- 連線與消除 ----

// ScanAndMark 標記所有三連為 Matched，回傳新標記的格數。
func (e *Engine) ScanAndMark() int {
	return e.matcher.ScanAndMark(e.g)
}

// Resolve 清除所有 Matched 格，再把各欄往下壓實直到穩定；faller 的格子不移動。
// 沒有 Matched 也沒有懸空格時不做任何修改。回傳清除的格數。
func (e *Engine) Resolve() int {
	n := ops.Clear(e.g)
	if !ops.Settled(e.g, e.pinned) {
		ops.Gravity(e.g, e.pinned)
	}
	return n
}

func (e *Engine) isFallerCell(row, col int) bool {
	f := e.faller
	return f != nil && col == f.Col && row >= f.Top && row <= f.Bottom()
}
