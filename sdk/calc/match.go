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

// Package calc 負責盤面上的連線判定。
package calc

import "github.com/zintix-labs/columns/sdk/grid"

// RunLength 是成立消除所需的連續格數。
const RunLength = 3

// axes 以 (dr, dc) 表示掃描方向：→、↓、↘、↙。
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Matcher 掃描盤面並把成立的三連標為 Matched。
//
// 內部緩衝在多次呼叫間重用，盤面大小不變時不再配置記憶體。
// 不可在多個 goroutine 間共用。
type Matcher struct {
	hits []int  // 本輪找到的格子索引（可重複）
	mark []bool // 本輪是否已收錄，避免重複計數
}

func NewMatcher() *Matcher {
	return &Matcher{}
}

func (m *Matcher) resetSizes(n int) {
	if cap(m.mark) < n {
		m.mark = make([]bool, n)
	} else {
		m.mark = m.mark[:n]
		clear(m.mark)
	}
	if cap(m.hits) < n {
		m.hits = make([]int, 0, n)
	}
	m.hits = m.hits[:0]
}

// ScanAndMark 反覆全盤掃描（含緩衝列），直到某一輪沒有新的三連。
//
// 三格必須顏色與狀態都相同，且皆非 Empty、非 Matched。
// 同一輪的三連先全部收集，掃描結束後才一起標記，標記時保留顏色。
// 回傳本次新標記的格數。
func (m *Matcher) ScanAndMark(g *grid.Grid) int {
	total := 0
	for {
		n := m.scan(g)
		if n == 0 {
			return total
		}
		cells := g.Cells()
		for _, idx := range m.hits {
			cells[idx] = cells[idx].WithStatus(grid.Matched)
		}
		total += n
	}
}

// Count 只計算目前可成立的三連格數，不修改盤面。
func (m *Matcher) Count(g *grid.Grid) int {
	return m.scan(g)
}

// scan 收集一輪三連，回傳不重複的格數；結果留在 m.hits。
func (m *Matcher) scan(g *grid.Grid) int {
	rows, cols := g.Rows(), g.Cols()
	cells := g.Cells()
	m.resetSizes(len(cells))

	n := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			head := cells[r*cols+c]
			if head.IsEmpty() || head.Is(grid.Matched) {
				continue
			}
			for _, ax := range axes {
				er := r + ax[0]*(RunLength-1)
				ec := c + ax[1]*(RunLength-1)
				if er < 0 || er >= rows || ec < 0 || ec >= cols {
					continue
				}
				ok := true
				for k := 1; k < RunLength; k++ {
					if !head.SameAs(cells[(r+ax[0]*k)*cols+c+ax[1]*k]) {
						ok = false
						break
					}
				}
				if !ok {
					continue
				}
				for k := 0; k < RunLength; k++ {
					idx := (r+ax[0]*k)*cols + c + ax[1]*k
					if !m.mark[idx] {
						m.mark[idx] = true
						m.hits = append(m.hits, idx)
						n++
					}
				}
			}
		}
	}
	return n
}
