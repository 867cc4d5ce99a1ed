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
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/grid"
)

// Spawn 為 EnsureFaller 的結果。
type Spawn uint8

const (
	SpawnNone    Spawn = iota // 已有 faller，不動作
	SpawnPlaced               // 放置了新的 faller
	SpawnSkipped              // 三色相同，直接丟棄
)

var spawnNames = [...]string{"none", "placed", "skipped"}

func (s Spawn) String() string {
	if int(s) < len(spawnNames) {
		return spawnNames[s]
	}
	return "unknown"
}

// EnsureFaller 在沒有 faller 時生成一個新的。
//
// 先抽三個顏色，再從頂端三格皆空的欄位中均勻挑一欄。沒有可用欄位時
// 回傳 ErrGameOver 並設定 game over，盤面不變。三色相同時整個方塊被丟棄，
// 本次不生成（SpawnSkipped）。放置時若緩衝區正下方（row 3）已是 Frozen，
// 三格直接以 Landed 放置，否則為 Air。
func (e *Engine) EnsureFaller() (Spawn, error) {
	if e.faller != nil {
		return SpawnNone, nil
	}
	if e.core == nil {
		return SpawnNone, errs.NewFatal("engine: spawn without rng core")
	}

	f := Faller{Top: 0}
	for i := range f.Colors {
		f.Colors[i] = grid.Color(e.core.IntN(e.colors) + 1)
	}

	e.avail = e.availableColumns(e.avail[:0])
	if len(e.avail) == 0 {
		e.over = true
		return SpawnNone, errs.Wrap(errs.ErrGameOver, "no column can fit a new faller")
	}
	f.Col = e.core.Pick(e.avail)

	if f.Uniform() {
		return SpawnSkipped, nil
	}

	st := grid.Air
	if below := grid.FallerLength; e.g.InBounds(below, f.Col) && e.g.CellAt(below, f.Col).Is(grid.Frozen) {
		st = grid.Landed
	}
	e.faller = &f
	e.place(e.faller, st)
	return SpawnPlaced, nil
}

// AvailableColumns 回傳頂端 FallerLength 列皆為 Empty 的欄位。
func (e *Engine) AvailableColumns() []int {
	return e.availableColumns(nil)
}

func (e *Engine) availableColumns(dst []int) []int {
	for c := 0; c < e.g.Cols(); c++ {
		free := true
		for r := 0; r < grid.FallerLength; r++ {
			if !e.g.CellAt(r, c).IsEmpty() {
				free = false
				break
			}
		}
		if free {
			dst = append(dst, c)
		}
	}
	return dst
}
