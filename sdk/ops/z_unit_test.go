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

import (
	"testing"

	"github.com/zintix-labs/columns/sdk/grid"
)

func newGrid(t *testing.T, visible, cols int) *grid.Grid {
	t.Helper()
	g, err := grid.New(visible, cols)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return g
}

func TestClear(t *testing.T) {
	g := newGrid(t, 2, 2)
	g.SetCell(0, 0, grid.Occupied(1, grid.Matched))
	g.SetCell(3, 1, grid.Occupied(2, grid.Matched))
	g.SetCell(3, 0, grid.Occupied(2, grid.Frozen))
	if n := Clear(g); n != 2 {
		t.Fatalf("expected 2 cleared, got %d", n)
	}
	if !g.CellAt(0, 0).IsEmpty() || !g.CellAt(3, 1).IsEmpty() || !g.CellAt(3, 0).Is(grid.Frozen) {
		t.Fatalf("unexpected clear result:\n%s", g)
	}
}

func TestGravityStepMovesStackOneRow(t *testing.T) {
	g := newGrid(t, 4, 1) // 6 rows
	g.SetCell(1, 0, grid.Occupied(1, grid.Frozen))
	g.SetCell(2, 0, grid.Occupied(2, grid.Frozen))
	// rows 3..5 empty
	if !GravityStep(g, nil) {
		t.Fatalf("expected movement")
	}
	if !g.CellAt(1, 0).IsEmpty() || g.CellAt(2, 0).Color() != 1 || g.CellAt(3, 0).Color() != 2 {
		t.Fatalf("stack should drop exactly one row:\n%s", g)
	}
}

func TestGravitySettlesAndIsIdempotent(t *testing.T) {
	g := newGrid(t, 4, 2)
	g.SetCell(0, 0, grid.Occupied(1, grid.Frozen))
	g.SetCell(2, 0, grid.Occupied(2, grid.Frozen))
	g.SetCell(1, 1, grid.Occupied(3, grid.Frozen))
	Gravity(g, nil)
	if g.CellAt(5, 0).Color() != 2 || g.CellAt(4, 0).Color() != 1 || g.CellAt(5, 1).Color() != 3 {
		t.Fatalf("not settled:\n%s", g)
	}
	if !Settled(g, nil) {
		t.Fatalf("Settled should report true")
	}
	before := g.Clone()
	if steps := Gravity(g, nil); steps != 0 {
		t.Fatalf("second gravity moved %d steps", steps)
	}
	for i, c := range g.Cells() {
		if c != before.Cells()[i] {
			t.Fatalf("second gravity changed cell %d", i)
		}
	}
}

func TestGravityRespectsPinned(t *testing.T) {
	g := newGrid(t, 4, 1)
	// faller occupies rows 0..2, gap below
	for r := 0; r < 3; r++ {
		g.SetCell(r, 0, grid.Occupied(grid.Color(r+1), grid.Air))
	}
	pinned := func(row, col int) bool { return col == 0 && row <= 2 }
	if Gravity(g, pinned) != 0 {
		t.Fatalf("pinned cells moved:\n%s", g)
	}
	if Settled(g, pinned) != true || Settled(g, nil) != false {
		t.Fatalf("Settled should honour pinned cells")
	}
}
