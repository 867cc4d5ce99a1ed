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

package ops

import "github.com/zintix-labs/columns/sdk/grid"

// Pinned 回報某格是否不可被重力搬動（例如正在下落的 faller）。
// nil 代表沒有任何固定格。
type Pinned func(row, col int) bool

// GravityStep 自底向上掃一次，把「下方為空、本身非空」的格子往下搬一列。
//
// 同一次掃描中，被搬走後留下的空位會讓上方格子接著下移，
// 因此一個缺口上方的整段堆疊會一起下降一列。pinned 格既不移動也不接收。
// 回傳是否有任何格子移動。
func GravityStep(g *grid.Grid, pinned Pinned) bool {
	rows, cols := g.Rows(), g.Cols()
	cells := g.Cells()
	moved := false
	for r := rows - 2; r >= 0; r-- {
		for c := 0; c < cols; c++ {
			up := r*cols + c
			down := up + cols
			if cells[up].IsEmpty() || !cells[down].IsEmpty() {
				continue
			}
			if pinned != nil && (pinned(r, c) || pinned(r+1, c)) {
				continue
			}
			cells[down] = cells[up]
			cells[up] = grid.Empty()
			moved = true
		}
	}
	return moved
}

// Gravity 反覆執行 GravityStep 直到盤面穩定，回傳有移動的掃描次數。
// 已穩定的盤面回傳 0 且不做任何修改。
func Gravity(g *grid.Grid, pinned Pinned) int {
	steps := 0
	for GravityStep(g, pinned) {
		steps++
	}
	return steps
}

// Settled 回傳盤面是否已無可下移的格子。
func Settled(g *grid.Grid, pinned Pinned) bool {
	rows, cols := g.Rows(), g.Cols()
	cells := g.Cells()
	for r := rows - 2; r >= 0; r-- {
		for c := 0; c < cols; c++ {
			up := r*cols + c
			if cells[up].IsEmpty() || !cells[up+cols].IsEmpty() {
				continue
			}
			if pinned != nil && (pinned(r, c) || pinned(r+1, c)) {
				continue
			}
			return false
		}
	}
	return true
}
