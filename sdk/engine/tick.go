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

package engine

import (
	"errors"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/grid"
)

// Event 記錄一次 Advance 中 faller 發生的變化（bitmask）。
type Event uint8

const (
	EvFell Event = 1 << iota
	EvLanded
	EvFroze
)

func (ev Event) Has(x Event) bool { return ev&x != 0 }

// Advance 推進一個 tick：
//
//  1. 下落：faller 最下格的下一格在盤面內且為 Empty 時，整個 faller 下移一列。
//  2. 計算 faller 所在欄的靜止列（只看 Frozen 格，faller 自身不算）。
//  3. Air 且最下格位於靜止列：整個 faller 轉為 Landed。
//  4. 否則 Landed 且仍位於靜止列：整個 faller 轉為 Frozen，faller 消失。
//
// 最後做 game over 判定。沒有 faller 時只做判定。
func (e *Engine) Advance() Event {
	var ev Event
	if f := e.faller; f != nil {
		if below := f.Bottom() + 1; below < e.g.Rows() && e.g.CellAt(below, f.Col).IsEmpty() {
			st := e.fallerStatus()
			e.lift(f)
			f.Top++
			e.place(f, st)
			ev |= EvFell
		}
		if f.Bottom() == e.restingRow(f.Col) {
			switch e.fallerStatus() {
			case grid.Air:
				e.place(f, grid.Landed)
				ev |= EvLanded
			case grid.Landed:
				e.place(f, grid.Frozen)
				e.last = f
				e.faller = nil
				ev |= EvFroze
			}
		}
	}
	e.checkGameOver()
	return ev
}

// restingRow 回傳該欄 faller 可停留的最低列：最上方 Frozen 格的上一列，
// 整欄沒有 Frozen 時為最底列。只掃描 FallerLength-1 以下的列。
func (e *Engine) restingRow(col int) int {
	if r := e.g.TopFrozen(col, grid.FallerLength-1); r >= 0 {
		return r - 1
	}
	return e.g.LastRow()
}

// checkGameOver：faller（或最近凍結的 faller）最下格尚未到底，
// 其正下方為 Frozen，且同欄第二個緩衝列 (row 1) 也是 Frozen。
func (e *Engine) checkGameOver() bool {
	if e.over {
		return true
	}
	f := e.faller
	if f == nil {
		f = e.last
	}
	if f == nil {
		return false
	}
	b := f.Bottom()
	if b >= e.g.LastRow() {
		return false
	}
	if e.g.CellAt(b+1, f.Col).Is(grid.Frozen) && e.g.CellAt(1, f.Col).Is(grid.Frozen) {
		e.over = true
	}
	return e.over
}

// Step 依固定順序執行一個完整 tick：
//
//	Resolve（上一個 tick 的標記）→ EnsureFaller → 指令 → Advance → game over → ScanAndMark
//
// 被拒絕的指令（ErrInvalidMove）只計數、不中斷。生成時沒有可用欄位回傳 ErrGameOver。
// game over 之後呼叫一律回傳 ErrGameOver 且不修改盤面。
func (e *Engine) Step(cmds ...Command) (TickResult, error) {
	var res TickResult
	if e.over {
		res.GameOver = true
		return res, errs.ErrGameOver
	}

	res.Cleared = e.Resolve()

	spawn, err := e.EnsureFaller()
	res.Spawn = spawn
	if err != nil {
		res.GameOver = e.over
		return res, err
	}

	for _, cmd := range cmds {
		if err := e.Apply(cmd); err != nil {
			if !errors.Is(err, errs.ErrInvalidMove) {
				return res, err
			}
			res.Rejected++
			continue
		}
		res.Applied++
	}

	res.Event = e.Advance()
	res.GameOver = e.over
	res.Matched = e.ScanAndMark()
	return res, nil
}
