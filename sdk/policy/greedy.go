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

package policy

import (
	"math"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/calc"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/sdk/grid"
	"github.com/zintix-labs/columns/spec"
)

type GreedyParams struct {
	MatchWeight  float64 `yaml:"match_weight"`
	HeightWeight float64 `yaml:"height_weight"`
}

// greedy 在每個新 faller 出現時評估所有可到達的欄位與三種旋轉：
// 在暫存盤面上直接把方塊放到該欄的靜止位置，計算可成立的三連格數，
// 扣掉堆疊高度懲罰後取最高分。之後每個 tick 最多送出一次旋轉與一次移動。
type greedy struct {
	params  GreedyParams
	scratch *grid.Grid
	matcher *calc.Matcher

	planned   bool
	target    int
	rotations int
	cmds      []engine.Command
}

func buildGreedy(_ *core.Core, gs *spec.GameSetting) (Policy, error) {
	p := GreedyParams{MatchWeight: 10, HeightWeight: 1}
	if err := spec.DecodePolicyParams(gs, &p); err != nil {
		return nil, err
	}
	if p.MatchWeight < 0 || p.HeightWeight < 0 {
		return nil, errs.InvalidGamef("greedy: weights must be non-negative: %+v", p)
	}
	return &greedy{
		params:  p,
		matcher: calc.NewMatcher(),
		cmds:    make([]engine.Command, 0, 2),
	}, nil
}

func (g *greedy) Decide(e *engine.Engine) []engine.Command {
	f, ok := e.Faller()
	if !ok {
		g.planned = false
		return nil
	}
	if !g.planned {
		g.plan(e.Grid(), f)
		g.planned = true
	}

	g.cmds = g.cmds[:0]
	if g.rotations > 0 {
		g.cmds = append(g.cmds, engine.CmdRotate)
		g.rotations--
	}
	switch {
	case f.Col < g.target:
		g.cmds = append(g.cmds, engine.CmdRight)
	case f.Col > g.target:
		g.cmds = append(g.cmds, engine.CmdLeft)
	}
	return g.cmds
}

// plan 依距離由近到遠、旋轉次數由少到多評估，同分保留先出現者。
func (g *greedy) plan(base *grid.Grid, f engine.Faller) {
	if g.scratch == nil || g.scratch.Rows() != base.Rows() || g.scratch.Cols() != base.Cols() {
		g.scratch = base.Clone()
	}
	g.target, g.rotations = f.Col, 0
	best := math.Inf(-1)

	try := func(col int) {
		colors := f.Colors
		for k := 0; k < grid.FallerLength; k++ {
			if s := g.evaluate(base, f, col, colors); s > best {
				best, g.target, g.rotations = s, col, k
			}
			colors = rotate(colors)
		}
	}

	try(f.Col)
	left, right := true, true
	for d := 1; left || right; d++ {
		if left = left && reachable(base, f, f.Col-d, d); left {
			try(f.Col - d)
		}
		if right = right && reachable(base, f, f.Col+d, d); right {
			try(f.Col + d)
		}
	}
}

// reachable：第 d 次移動發生時 faller 已下落 d-1 列，目標欄對應的三格必須為空。
func reachable(g *grid.Grid, f engine.Faller, col, d int) bool {
	if col < 0 || col >= g.Cols() {
		return false
	}
	top := f.Top + d - 1
	if top+grid.FallerLength-1 >= g.Rows() {
		return false
	}
	for r := top; r < top+grid.FallerLength; r++ {
		if !g.CellAt(r, col).IsEmpty() {
			return false
		}
	}
	return true
}

func (g *greedy) evaluate(base *grid.Grid, f engine.Faller, col int, colors [grid.FallerLength]grid.Color) float64 {
	s := g.scratch
	s.CopyFrom(base)
	for _, r := range f.Rows() {
		s.SetCell(r, f.Col, grid.Empty())
	}

	rest := s.LastRow()
	for r := 0; r < s.Rows(); r++ {
		if !s.CellAt(r, col).IsEmpty() {
			rest = r - 1
			break
		}
	}
	top := rest - (grid.FallerLength - 1)
	if top < 0 {
		return math.Inf(-1)
	}
	for i, c := range colors {
		s.SetCell(top+i, col, grid.Occupied(c, grid.Frozen))
	}

	score := g.params.MatchWeight * float64(g.matcher.Count(s))
	score -= g.params.HeightWeight * float64(s.Rows()-top)
	if top < s.BufferRows() {
		// 疊進緩衝區幾乎等於結束
		score -= g.params.HeightWeight * float64(s.Rows()*s.Cols())
	}
	return score
}

func rotate(c [grid.FallerLength]grid.Color) [grid.FallerLength]grid.Color {
	n := grid.FallerLength
	var out [grid.FallerLength]grid.Color
	for i := range out {
		out[i] = c[(i+n-1)%n]
	}
	return out
}
