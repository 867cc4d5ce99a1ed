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
	"testing"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/grid"
)

// scripted 依序回傳預先排好的 IntN 結果，用來指定生成顏色與欄位。
type scripted struct {
	t    *testing.T
	vals []int
	pos  int
}

func (s *scripted) IntN(n int) int {
	s.t.Helper()
	if s.pos >= len(s.vals) {
		s.t.Fatalf("scripted rng exhausted")
	}
	v := s.vals[s.pos]
	s.pos++
	if v < 0 || v >= n {
		s.t.Fatalf("scripted value %d out of range [0,%d)", v, n)
	}
	return v
}
func (s *scripted) Uint64() uint64            { return uint64(s.IntN(1 << 30)) }
func (s *scripted) Float64() float64          { return 0 }
func (s *scripted) UintN(n uint) uint         { return uint(s.IntN(int(n))) }
func (s *scripted) Snapshot() ([]byte, error) { return nil, nil }
func (s *scripted) Restore([]byte) error      { return nil }

func (s *scripted) push(vals ...int) { s.vals = append(s.vals, vals...) }

func newEngine(t *testing.T, vals ...int) (*Engine, *scripted) {
	t.Helper()
	rng := &scripted{t: t, vals: vals}
	e, err := New(Config{}, core.New(rng))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, rng
}

// spawnAt 以指定顏色 (1-based) 在空盤的 col 生成。
func spawnAt(t *testing.T, e *Engine, rng *scripted, col int, colors ...int) {
	t.Helper()
	for _, c := range colors {
		rng.push(c - 1)
	}
	avail := e.AvailableColumns()
	idx := -1
	for i, c := range avail {
		if c == col {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatalf("column %d not available", col)
	}
	rng.push(idx)
	sp, err := e.EnsureFaller()
	if err != nil || sp != SpawnPlaced {
		t.Fatalf("spawn: %v %v", sp, err)
	}
}

func frozen(c grid.Color) grid.Cell { return grid.Occupied(c, grid.Frozen) }

func statusAt(e *Engine, f Faller) []grid.Status {
	out := make([]grid.Status, 0, 3)
	for _, r := range f.Rows() {
		out = append(out, e.CellAt(r, f.Col).Status())
	}
	return out
}

func sameGrid(a, b *grid.Grid) bool {
	for i, c := range a.Cells() {
		if c != b.Cells()[i] {
			return false
		}
	}
	return true
}

func TestNewRejectsBadConfig(t *testing.T) {
	c := core.New(core.Default().New(1))
	for _, cfg := range []Config{{VisibleRows: -1}, {Cols: -3}, {Colors: -1}} {
		if _, err := New(cfg, c); !errors.Is(err, errs.ErrInvalidGame) {
			t.Fatalf("%+v: expected ErrInvalidGame, got %v", cfg, err)
		}
	}
	if _, err := New(Config{}, nil); !errors.Is(err, errs.ErrInvalidGame) {
		t.Fatalf("nil core should be rejected")
	}
	e, _ := New(Config{}, c)
	if e.Rows() != 13 || e.Cols() != 16 || e.TotalRows() != 15 || e.Colors() != 7 {
		t.Fatalf("unexpected defaults")
	}
}

func TestSpawnPlacesAir(t *testing.T) {
	e, rng := newEngine(t)
	spawnAt(t, e, rng, 5, 1, 1, 2)
	f, ok := e.Faller()
	if !ok || f.Col != 5 || f.Top != 0 {
		t.Fatalf("unexpected faller %+v", f)
	}
	want := [3]grid.Color{1, 1, 2}
	if f.Colors != want {
		t.Fatalf("colors %v", f.Colors)
	}
	for i, r := range f.Rows() {
		c := e.CellAt(r, 5)
		if !c.Is(grid.Air) || c.Color() != want[i] {
			t.Fatalf("row %d: %v", r, c)
		}
	}
	// 已有 faller 時不動作
	if sp, err := e.EnsureFaller(); sp != SpawnNone || err != nil {
		t.Fatalf("second spawn should be a no-op: %v %v", sp, err)
	}
}

func TestSpawnRandomColorsInRange(t *testing.T) {
	e, err := New(Config{}, core.New(core.Default().New(99)))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		before := e.Grid().Clone()
		sp, err := e.EnsureFaller()
		if err != nil {
			t.Fatalf("spawn: %v", err)
		}
		switch sp {
		case SpawnPlaced:
			f, _ := e.Faller()
			if f.Top != 0 || f.Uniform() {
				t.Fatalf("bad faller %+v", f)
			}
			for _, c := range f.Colors {
				if c < 1 || c > 7 {
					t.Fatalf("color out of range: %d", c)
				}
			}
			e.lift(e.faller)
			e.faller = nil
		case SpawnSkipped:
			if e.HasFaller() || !sameGrid(before, e.Grid()) {
				t.Fatalf("skipped spawn must leave grid unchanged")
			}
		default:
			t.Fatalf("unexpected spawn %v", sp)
		}
	}
}

func TestSpawnUniformColorsSkipped(t *testing.T) {
	e, _ := newEngine(t, 3, 3, 3, 7)
	sp, err := e.EnsureFaller()
	if err != nil || sp != SpawnSkipped {
		t.Fatalf("expected skipped spawn, got %v %v", sp, err)
	}
	if e.HasFaller() || e.Grid().Count(grid.Air) != 0 {
		t.Fatalf("skipped spawn left state behind")
	}
}

func TestSpawnExhaustion(t *testing.T) {
	e, _ := newEngine(t, 0, 1, 2)
	for c := 0; c < e.Cols(); c++ {
		e.Grid().SetCell(2, c, frozen(grid.Color(c%7+1)))
	}
	before := e.Grid().Clone()
	sp, err := e.EnsureFaller()
	if !errors.Is(err, errs.ErrGameOver) || sp != SpawnNone {
		t.Fatalf("expected ErrGameOver, got %v %v", sp, err)
	}
	if !sameGrid(before, e.Grid()) || e.HasFaller() {
		t.Fatalf("grid changed on exhausted spawn")
	}
	if !e.IsGameOver() {
		t.Fatalf("game over flag not set")
	}
}

func TestSpawnLandedOverFrozenStack(t *testing.T) {
	e, rng := newEngine(t)
	e.Grid().SetCell(3, 4, frozen(7))
	spawnAt(t, e, rng, 4, 1, 2, 3)
	f, _ := e.Faller()
	for _, st := range statusAt(e, f) {
		if st != grid.Landed {
			t.Fatalf("expected landed spawn, got %v", statusAt(e, f))
		}
	}
}

func TestMoveLeftRightRoundTrip(t *testing.T) {
	e, rng := newEngine(t)
	spawnAt(t, e, rng, 5, 1, 2, 3)
	before := e.Grid().Clone()
	orig, _ := e.Faller()
	if err := e.Move(Left); err != nil {
		t.Fatalf("left: %v", err)
	}
	if err := e.Move(Right); err != nil {
		t.Fatalf("right: %v", err)
	}
	f, _ := e.Faller()
	if f != orig || !sameGrid(before, e.Grid()) {
		t.Fatalf("round trip changed state")
	}
}

func TestMoveRejections(t *testing.T) {
	e, rng := newEngine(t)
	if err := e.Move(Left); !errors.Is(err, errs.ErrInvalidMove) {
		t.Fatalf("move without faller: %v", err)
	}
	if err := e.Rotate(); !errors.Is(err, errs.ErrInvalidMove) {
		t.Fatalf("rotate without faller: %v", err)
	}
	spawnAt(t, e, rng, 0, 1, 2, 3)
	before := e.Grid().Clone()
	if err := e.Move(Left); !errors.Is(err, errs.ErrInvalidMove) {
		t.Fatalf("expected boundary rejection, got %v", err)
	}
	e.Grid().SetCell(2, 1, frozen(4))
	before.SetCell(2, 1, frozen(4))
	if err := e.Move(Right); !errors.Is(err, errs.ErrInvalidMove) {
		t.Fatalf("expected collision rejection, got %v", err)
	}
	if !sameGrid(before, e.Grid()) {
		t.Fatalf("rejected move mutated grid")
	}
	if err := e.Move(Direction(2)); !errors.Is(err, errs.ErrInvalidMove) {
		t.Fatalf("bad direction accepted")
	}
	if err := e.Apply(Command(99)); !errors.Is(err, errs.ErrInvalidMove) {
		t.Fatalf("unknown command accepted")
	}
}

func TestMoveFromLandedBecomesAir(t *testing.T) {
	e, rng := newEngine(t)
	spawnAt(t, e, rng, 5, 1, 2, 3)
	for i := 0; i < 12; i++ {
		e.Advance()
	}
	f, _ := e.Faller()
	if st := statusAt(e, f); st[2] != grid.Landed {
		t.Fatalf("expected landed, got %v", st)
	}
	if err := e.Apply(CmdRight); err != nil {
		t.Fatalf("move: %v", err)
	}
	f, _ = e.Faller()
	for _, st := range statusAt(e, f) {
		if st != grid.Air {
			t.Fatalf("moved faller should be air, got %v", statusAt(e, f))
		}
	}
	// 新欄也在底部：下一個 tick 重新著地，而不是直接凍結
	if ev := e.Advance(); !ev.Has(EvLanded) || ev.Has(EvFroze) {
		t.Fatalf("expected re-landing, got %b", ev)
	}
}

func TestRotateCycle(t *testing.T) {
	e, rng := newEngine(t)
	spawnAt(t, e, rng, 7, 1, 2, 3)
	orig, _ := e.Faller()
	before := e.Grid().Clone()

	if err := e.Apply(CmdRotate); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	f, _ := e.Faller()
	if f.Colors != [3]grid.Color{3, 1, 2} {
		t.Fatalf("rotation permutation wrong: %v", f.Colors)
	}
	for i, r := range f.Rows() {
		if e.CellAt(r, f.Col).Color() != f.Colors[i] {
			t.Fatalf("grid and faller diverged at row %d", r)
		}
	}
	_ = e.Rotate()
	_ = e.Rotate()
	f, _ = e.Faller()
	if f != orig || !sameGrid(before, e.Grid()) {
		t.Fatalf("three rotations should restore state")
	}
}

func TestFallLandFreeze(t *testing.T) {
	e, rng := newEngine(t)
	spawnAt(t, e, rng, 5, 1, 1, 2)
	if err := e.Move(Right); err != nil {
		t.Fatalf("move: %v", err)
	}
	f, _ := e.Faller()
	if f.Col != 6 {
		t.Fatalf("expected col 6, got %d", f.Col)
	}
	for r := 0; r < e.TotalRows(); r++ {
		if !e.CellAt(r, 5).IsEmpty() {
			t.Fatalf("column 5 not empty at row %d", r)
		}
	}

	ticks := 0
	for {
		ev := e.Advance()
		ticks++
		f, _ = e.Faller()
		if ev.Has(EvLanded) {
			break
		}
		if st := statusAt(e, f); st[0] != grid.Air {
			t.Fatalf("tick %d: expected air, got %v", ticks, st)
		}
		if ticks > 20 {
			t.Fatalf("faller never landed")
		}
	}
	if f.Bottom() != e.TotalRows()-1 || ticks != 12 {
		t.Fatalf("landed at %d after %d ticks", f.Bottom(), ticks)
	}
	for _, st := range statusAt(e, f) {
		if st != grid.Landed {
			t.Fatalf("expected whole faller landed")
		}
	}

	ev := e.Advance()
	if !ev.Has(EvFroze) || e.HasFaller() {
		t.Fatalf("expected freeze on next tick")
	}
	for _, r := range f.Rows() {
		if !e.CellAt(r, 6).Is(grid.Frozen) {
			t.Fatalf("row %d not frozen", r)
		}
	}
	if e.IsGameOver() {
		t.Fatalf("unexpected game over")
	}

	// 凍結後可以生成新的 faller
	spawnAt(t, e, rng, 6, 4, 5, 6)
	for i := 0; i < 20 && e.HasFaller(); i++ {
		e.Advance()
	}
	for r := 9; r <= 14; r++ {
		if !e.CellAt(r, 6).Is(grid.Frozen) {
			t.Fatalf("second piece should rest on the first: row %d %v", r, e.CellAt(r, 6))
		}
	}
}

func TestLandedAtSpawnFreezesAndEndsGame(t *testing.T) {
	e, rng := newEngine(t)
	for r := 3; r < e.TotalRows(); r++ {
		e.Grid().SetCell(r, 0, frozen(grid.Color(r%2+1)))
	}
	spawnAt(t, e, rng, 0, 3, 4, 5)
	ev := e.Advance()
	if !ev.Has(EvFroze) {
		t.Fatalf("landed spawn should freeze on first tick, got %b", ev)
	}
	if !e.IsGameOver() {
		t.Fatalf("expected game over:\n%s", e.Grid())
	}
	// 單調：之後任何操作都不會清除旗標
	e.Resolve()
	e.Advance()
	if !e.IsGameOver() {
		t.Fatalf("game over flag cleared")
	}
	if _, err := e.Step(); !errors.Is(err, errs.ErrGameOver) {
		t.Fatalf("step after game over: %v", err)
	}
}

func TestMatchAndResolveScenario(t *testing.T) {
	e, _ := newEngine(t)
	g := e.Grid()
	for c := 3; c <= 5; c++ {
		g.SetCell(14, c, frozen(2))
	}
	g.SetCell(13, 3, frozen(5))
	g.SetCell(12, 4, frozen(6))
	g.SetCell(13, 4, frozen(1))

	if n := e.ScanAndMark(); n != 3 {
		t.Fatalf("expected 3 marked, got %d\n%s", n, g)
	}
	for c := 3; c <= 5; c++ {
		if cell := g.CellAt(14, c); !cell.Is(grid.Matched) || cell.Color() != 2 {
			t.Fatalf("col %d not matched: %v", c, cell)
		}
	}
	if g.Count(grid.Matched) != 3 {
		t.Fatalf("extra matches")
	}

	if n := e.Resolve(); n != 3 {
		t.Fatalf("expected 3 cleared, got %d", n)
	}
	if g.CellAt(14, 3).Color() != 5 || !g.CellAt(13, 3).IsEmpty() {
		t.Fatalf("col 3 not shifted:\n%s", g)
	}
	if g.CellAt(14, 4).Color() != 1 || g.CellAt(13, 4).Color() != 6 || !g.CellAt(12, 4).IsEmpty() {
		t.Fatalf("col 4 not shifted:\n%s", g)
	}
	if !g.CellAt(14, 5).IsEmpty() {
		t.Fatalf("col 5 should be empty")
	}

	before := g.Clone()
	if n := e.Resolve(); n != 0 || !sameGrid(before, g) {
		t.Fatalf("second resolve changed grid")
	}
}

func TestResolveNeverMovesFaller(t *testing.T) {
	e, rng := newEngine(t)
	spawnAt(t, e, rng, 2, 1, 2, 3)
	e.Grid().SetCell(14, 2, grid.Occupied(4, grid.Matched))
	e.Resolve()
	f, _ := e.Faller()
	if f.Top != 0 {
		t.Fatalf("faller moved")
	}
	for i, r := range f.Rows() {
		if c := e.CellAt(r, 2); !c.Is(grid.Air) || c.Color() != f.Colors[i] {
			t.Fatalf("faller cell disturbed at row %d: %v", r, c)
		}
	}
}

func TestStepSequence(t *testing.T) {
	e, rng := newEngine(t)
	// 先在底部放兩格 2，讓 faller 最下格補成三連
	e.Grid().SetCell(14, 0, frozen(2))
	e.Grid().SetCell(14, 1, frozen(2))

	rng.push(0, 3, 1, 2) // colors 1,4,2 ; col index 2
	res, err := e.Step(CmdLeft)
	if err != nil || !res.Spawned() || res.Applied != 1 || res.Rejected != 0 {
		t.Fatalf("first step: %+v %v", res, err)
	}
	f, _ := e.Faller()
	if f.Col != 1 || f.Top != 1 {
		t.Fatalf("unexpected faller after first step %+v", f)
	}
	res, _ = e.Step(CmdLeft, CmdRight)
	if res.Applied != 2 {
		t.Fatalf("expected both moves applied: %+v", res)
	}
	_, _ = e.Step(CmdRight)
	f, _ = e.Faller()
	if f.Col != 2 {
		t.Fatalf("expected col 2, got %d", f.Col)
	}

	var froze bool
	for i := 0; i < 30 && !froze; i++ {
		res, err = e.Step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		froze = res.Froze()
	}
	if !froze || res.Matched != 3 {
		t.Fatalf("expected freeze with 3 matched, got %+v\n%s", res, e.Grid())
	}

	// 下一個 tick 開頭清除標記，上方兩格落下
	rng.push(0, 1, 2, 10)
	res, err = e.Step()
	if err != nil || res.Cleared != 3 {
		t.Fatalf("expected 3 cleared, got %+v %v", res, err)
	}
	if e.CellAt(14, 2).Color() != 4 || e.CellAt(13, 2).Color() != 1 {
		t.Fatalf("column 2 not settled:\n%s", e.Grid())
	}
}

func TestStepCountsRejected(t *testing.T) {
	e, rng := newEngine(t)
	rng.push(0, 1, 2, 0) // col 0
	res, err := e.Step(CmdLeft, CmdLeft, CmdRotate)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if res.Rejected != 2 || res.Applied != 1 {
		t.Fatalf("unexpected counts %+v", res)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	e, rng := newEngine(t)
	spawnAt(t, e, rng, 3, 1, 2, 3)
	cp := e.Clone()
	_ = cp.Move(Right)
	cp.Advance()
	f, _ := e.Faller()
	if f.Col != 3 || f.Top != 0 {
		t.Fatalf("clone mutated original faller")
	}
	if !e.CellAt(0, 4).IsEmpty() {
		t.Fatalf("clone mutated original grid")
	}
	cp.faller = nil
	if _, err := cp.EnsureFaller(); err == nil {
		t.Fatalf("clone must not spawn without rng")
	}
}

func TestParseCommand(t *testing.T) {
	for _, c := range []Command{CmdLeft, CmdRight, CmdRotate} {
		got, err := ParseCommand(c.String())
		if err != nil || got != c {
			t.Fatalf("parse %s: %v %v", c, got, err)
		}
	}
	if _, err := ParseCommand("jump"); err == nil {
		t.Fatalf("expected error")
	}
}

// advanceUntilFrozen 推進到 faller 凍結為止。
func advanceUntilFrozen(t *testing.T, e *Engine) {
	t.Helper()
	for i := 0; i < e.TotalRows()+2; i++ {
		if e.Advance().Has(EvFroze) {
			return
		}
	}
	t.Fatalf("faller never froze:\n%s", e.Grid())
}

func TestLandedFallerKeepsStatusWhenSupportCleared(t *testing.T) {
	e, rng := newEngine(t)
	g := e.Grid()
	for r := 10; r < e.TotalRows(); r++ {
		g.SetCell(r, 0, frozen(grid.Color(r%3+4)))
	}
	spawnAt(t, e, rng, 0, 1, 2, 3)
	for i := 0; i < e.TotalRows(); i++ {
		e.Advance()
		if f, _ := e.Faller(); statusAt(e, f)[0] == grid.Landed {
			break
		}
	}
	f, ok := e.Faller()
	if !ok || f.Bottom() != 9 {
		t.Fatalf("expected landed faller resting on row 10, got %+v ok=%v", f, ok)
	}

	// 清掉底下兩格，faller 懸空兩列
	g.SetCell(10, 0, g.CellAt(10, 0).WithStatus(grid.Matched))
	g.SetCell(11, 0, g.CellAt(11, 0).WithStatus(grid.Matched))
	if n := e.Resolve(); n != 2 {
		t.Fatalf("expected 2 cleared, got %d", n)
	}
	if got, _ := e.Faller(); got != f {
		t.Fatalf("resolve moved the faller: %+v", got)
	}

	ev := e.Advance()
	if !ev.Has(EvFell) || ev.Has(EvLanded) || ev.Has(EvFroze) {
		t.Fatalf("first fall events %b", ev)
	}
	f, _ = e.Faller()
	for i, st := range statusAt(e, f) {
		if st != grid.Landed {
			t.Fatalf("cell %d went back to %s while falling", i, st)
		}
	}

	ev = e.Advance()
	if !ev.Has(EvFell) || !ev.Has(EvFroze) {
		t.Fatalf("landed faller should freeze on arrival, events %b", ev)
	}
	if e.HasFaller() {
		t.Fatalf("faller should be gone after freezing")
	}
	for i, r := range []int{9, 10, 11} {
		if c := g.CellAt(r, 0); !c.Is(grid.Frozen) || c.Color() != grid.Color(i+1) {
			t.Fatalf("row %d: %v\n%s", r, c, g)
		}
	}
	if e.IsGameOver() {
		t.Fatalf("unexpected game over")
	}
}

func TestGameOverWithActiveFaller(t *testing.T) {
	e, rng := newEngine(t)
	g := e.Grid()
	// col 0：緩衝列 row 1 已凍結，row 2..4 留空可讓 faller 滑入
	g.SetCell(1, 0, frozen(9))
	for r := 5; r < e.TotalRows(); r++ {
		g.SetCell(r, 0, frozen(grid.Color(r%3+4)))
	}
	spawnAt(t, e, rng, 1, 1, 2, 3)
	e.Advance()
	e.Advance()
	if f, _ := e.Faller(); f.Top != 2 || e.IsGameOver() {
		t.Fatalf("unexpected state before move: %+v over=%v", f, e.IsGameOver())
	}
	if err := e.Move(Left); err != nil {
		t.Fatalf("move left: %v", err)
	}
	ev := e.Advance()
	if !ev.Has(EvLanded) {
		t.Fatalf("expected landing, events %b", ev)
	}
	if !e.HasFaller() || e.last != nil {
		t.Fatalf("check should have used the active faller")
	}
	if !e.IsGameOver() {
		t.Fatalf("expected game over with active faller:\n%s", g)
	}
	if _, err := e.Step(CmdRight); !errors.Is(err, errs.ErrGameOver) {
		t.Fatalf("step after game over: %v", err)
	}
}

func TestSkippedSpawnUsesLastFrozenPosition(t *testing.T) {
	e, rng := newEngine(t)
	g := e.Grid()
	for r := 12; r < e.TotalRows(); r++ {
		g.SetCell(r, 3, frozen(grid.Color(r-8)))
	}
	spawnAt(t, e, rng, 3, 1, 2, 3)
	advanceUntilFrozen(t, e)
	if e.last == nil || e.last.Top != 9 || e.IsGameOver() {
		t.Fatalf("unexpected last faller %+v over=%v", e.last, e.IsGameOver())
	}

	// 消掉支撐格後凍結的三格整段下移，e.last 仍記著舊位置
	g.SetCell(12, 3, g.CellAt(12, 3).WithStatus(grid.Matched))
	e.Resolve()
	if !g.CellAt(9, 3).IsEmpty() || g.CellAt(10, 3).Color() != 1 || g.CellAt(12, 3).Color() != 3 {
		t.Fatalf("frozen cells did not settle:\n%s", g)
	}

	rng.push(0, 0, 0, 0) // 三色相同
	res, err := e.Step()
	if err != nil || !res.Skipped() || res.GameOver || e.HasFaller() {
		t.Fatalf("skipped spawn tick: %+v %v", res, err)
	}
	if e.IsGameOver() {
		t.Fatalf("stale last position must not end the game:\n%s", g)
	}

	// 所有欄位頂端被擋住：下一次生成結束遊戲，盤面不變
	for c := 0; c < e.Cols(); c++ {
		g.SetCell(0, c, frozen(grid.Color(c%7+1)))
	}
	before := g.Clone()
	rng.push(1, 2, 3)
	if _, err := e.EnsureFaller(); !errors.Is(err, errs.ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if !e.IsGameOver() || !sameGrid(before, g) {
		t.Fatalf("exhaustion should set game over without touching the grid")
	}
}

func TestResolveSettlesOtherColumnsOnFallerRows(t *testing.T) {
	e, rng := newEngine(t)
	spawnAt(t, e, rng, 2, 1, 2, 3)
	g := e.Grid()
	g.SetCell(1, 5, frozen(4)) // 與 faller 同列、不同欄
	g.SetCell(14, 7, grid.Occupied(6, grid.Matched))
	g.SetCell(13, 7, frozen(5))
	if n := e.Resolve(); n != 1 {
		t.Fatalf("expected 1 cleared, got %d", n)
	}
	if !g.CellAt(1, 5).IsEmpty() || g.CellAt(14, 5).Color() != 4 {
		t.Fatalf("cell beside the faller should settle:\n%s", g)
	}
	if g.CellAt(14, 7).Color() != 5 {
		t.Fatalf("cell above cleared match should drop:\n%s", g)
	}
	if f, _ := e.Faller(); f.Top != 0 || f.Col != 2 {
		t.Fatalf("faller moved: %+v", f)
	}
}
