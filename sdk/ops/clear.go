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

// Clear 把所有 Matched 格清為 Empty，回傳清除數量。
//
//   - g: 盤面 (將被原地修改)
func Clear(g *grid.Grid) int {
	cells := g.Cells()
	n := 0
	for i, c := range cells {
		if c.Is(grid.Matched) {
			cells[i] = grid.Empty()
			n++
		}
	}
	return n
}
