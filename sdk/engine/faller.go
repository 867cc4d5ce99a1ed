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

import "github.com/zintix-labs/columns/sdk/grid"

// Faller 為目前下落中的三格方塊。Colors[0] 在最上方，
// 佔據的列為 Top、Top+1、Top+2。
type Faller struct {
	Colors [grid.FallerLength]grid.Color
	Top    int
	Col    int
}

func (f Faller) Bottom() int {
	return f.Top + grid.FallerLength - 1
}

func (f Faller) Rows() [grid.FallerLength]int {
	var rows [grid.FallerLength]int
	for i := range rows {
		rows[i] = f.Top + i
	}
	return rows
}

// Uniform 回傳三色是否完全相同。
func (f Faller) Uniform() bool {
	for _, c := range f.Colors[1:] {
		if c != f.Colors[0] {
			return false
		}
	}
	return true
}

// rotated 回傳旋轉後的顏色：新上 = 舊下，新中 = 舊上，新下 = 舊中。
func (f Faller) rotated() [grid.FallerLength]grid.Color {
	n := grid.FallerLength
	var out [grid.FallerLength]grid.Color
	for i := range out {
		out[i] = f.Colors[(i+n-1)%n]
	}
	return out
}

// place 把 faller 以狀態 st 寫入盤面。盤面與 faller 顏色只經由這裡同步。
func (e *Engine) place(f *Faller, st grid.Status) {
	for i, c := range f.Colors {
		e.g.SetCell(f.Top+i, f.Col, grid.Occupied(c, st))
	}
}

// lift 把 faller 從盤面上移除。
func (e *Engine) lift(f *Faller) {
	for i := range f.Colors {
		e.g.SetCell(f.Top+i, f.Col, grid.Empty())
	}
}

// fallerStatus 以最下格狀態代表整個 faller（三格狀態總是一致）。
func (e *Engine) fallerStatus() grid.Status {
	return e.g.CellAt(e.faller.Bottom(), e.faller.Col).Status()
}
