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
	"errors"
	"strings"
	"testing"

	"github.com/zintix-labs/columns/errs"
)

func TestNewGridDimensions(t *testing.T) {
	g, err := New(DefaultVisibleRows, DefaultCols)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	if g.Rows() != 15 || g.Cols() != 16 || g.VisibleRows() != 13 || g.BufferRows() != 2 {
		t.Fatalf("unexpected dims rows=%d cols=%d visible=%d", g.Rows(), g.Cols(), g.VisibleRows())
	}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if !g.CellAt(r, c).IsEmpty() {
				t.Fatalf("new grid not empty at (%d,%d)", r, c)
			}
		}
	}
}

func TestNewGridRejectsBadDims(t *testing.T) {
	for _, d := range [][2]int{{0, 16}, {13, 0}, {-1, 3}} {
		if _, err := New(d[0], d[1]); !errors.Is(err, errs.ErrInvalidGame) {
			t.Fatalf("dims %v: expected ErrInvalidGame, got %v", d, err)
		}
	}
}

func TestCellAccessors(t *testing.T) {
	e := Empty()
	if !e.IsEmpty() || e.Color() != 0 {
		t.Fatalf("empty cell broken")
	}
	if e.WithStatus(Frozen) != e {
		t.Fatalf("WithStatus on empty must be a no-op")
	}
	c := Occupied(3, Air)
	if c.IsEmpty() || c.Color() != 3 || c.Status() != Air || !c.Status().Active() {
		t.Fatalf("occupied cell broken: %v", c)
	}
	m := c.WithStatus(Matched)
	if m.Color() != 3 || !m.Is(Matched) || m.Status().Active() {
		t.Fatalf("status change lost color: %v", m)
	}
	if c.SameAs(m) || !c.SameAs(Occupied(3, Air)) || e.SameAs(e) {
		t.Fatalf("SameAs mismatch")
	}
}

func TestSetCellAndClone(t *testing.T) {
	g, _ := New(4, 3)
	g.SetCell(5, 2, Occupied(1, Frozen))
	cp := g.Clone()
	g.SetCell(5, 2, Empty())
	if !cp.CellAt(5, 2).Is(Frozen) {
		t.Fatalf("clone shares storage")
	}
	if cp.TopFrozen(2, 0) != 5 || g.TopFrozen(2, 0) != -1 {
		t.Fatalf("TopFrozen mismatch")
	}
	cp.SetCell(1, 2, Occupied(2, Frozen))
	if cp.TopFrozen(2, 0) != 1 || cp.TopFrozen(2, 2) != 5 || cp.TopFrozen(2, 6) != -1 {
		t.Fatalf("TopFrozen should start scanning at from")
	}
	g.CopyFrom(cp)
	if g.Count(Frozen) != 1 {
		t.Fatalf("CopyFrom lost cell")
	}
	g.Reset()
	if g.Count(Frozen) != 0 {
		t.Fatalf("reset left cells")
	}
}

func TestOutOfBoundsPanics(t *testing.T) {
	g, _ := New(4, 3)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	g.CellAt(g.Rows(), 0)
}

func TestStringMarksBuffer(t *testing.T) {
	g, _ := New(2, 2)
	g.SetCell(3, 0, Occupied(4, Matched))
	s := g.String()
	if !strings.Contains(s, "*4*") || !strings.Contains(s, "------") {
		t.Fatalf("unexpected dump:\n%s", s)
	}
}
