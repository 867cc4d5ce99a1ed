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

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/columns"
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/sdk/grid"
	"github.com/zintix-labs/columns/sdk/policy"
)

// 每格畫成三個字元，例如 (3) [3] *3*
const cellW = 3

var palette = [...]tcell.Color{
	tcell.ColorWhite,
	tcell.ColorRed,
	tcell.ColorGreen,
	tcell.ColorYellow,
	tcell.ColorBlue,
	tcell.ColorFuchsia,
	tcell.ColorAqua,
	tcell.ColorOrange,
	tcell.ColorLime,
	tcell.ColorSilver,
}

type ui struct {
	s      *columns.Session
	auto   policy.Policy
	snd    *sound
	tick   time.Duration
	screen tcell.Screen

	pending []engine.Command // 兩個 tick 之間累積的按鍵，tick 時一次送出
	stats   tally

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type tally struct {
	ticks, cleared, pieces, rejected int
	over                             bool
}

func newUI(s *columns.Session, auto policy.Policy, snd *sound, tick time.Duration) (*ui, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errs.Wrap(err, "create screen failed")
	}
	return &ui{
		s:      s,
		auto:   auto,
		snd:    snd,
		tick:   tick,
		screen: screen,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Run 實作 app.Component：在 Esc/q、game over 或 Shutdown 時返回。
func (u *ui) Run() error {
	defer close(u.done)
	if err := u.screen.Init(); err != nil {
		return errs.Wrap(err, "init screen failed")
	}
	defer u.screen.Fini()
	u.screen.SetStyle(tcell.StyleDefault)
	u.screen.Clear()

	events := make(chan tcell.Event, 64)
	go pump(u.screen.PollEvent, events, u.done)

	ticker := time.NewTicker(u.tick)
	defer ticker.Stop()
	u.draw()
	for {
		select {
		case <-u.stop:
			return nil
		case ev := <-events:
			if quit := u.handle(ev); quit {
				return nil
			}
		case <-ticker.C:
			if err := u.step(); err != nil {
				if errors.Is(err, errs.ErrGameOver) {
					u.stats.over = true
					u.draw()
					u.waitKey(events)
					return nil
				}
				return err
			}
		}
		u.draw()
	}
}

func (u *ui) Shutdown(ctx context.Context) error {
	u.stopOnce.Do(func() { close(u.stop) })
	select {
	case <-u.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pump 把 poll 的事件轉進 out，poll 回傳 nil 或 done 關閉時結束。
func pump(poll func() tcell.Event, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// handle 只把按鍵排進 pending；真正的移動在下一個 tick 才執行。
func (u *ui) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			u.enqueue(engine.CmdLeft)
		case tcell.KeyRight:
			u.enqueue(engine.CmdRight)
		case tcell.KeyUp:
			u.enqueue(engine.CmdRotate)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case 'a', 'h':
				u.enqueue(engine.CmdLeft)
			case 'd', 'l':
				u.enqueue(engine.CmdRight)
			case ' ', 'w', 'k':
				u.enqueue(engine.CmdRotate)
			}
		}
	}
	return false
}

func (u *ui) enqueue(c engine.Command) {
	if u.auto != nil {
		return
	}
	u.pending = append(u.pending, c)
}

func (u *ui) step() error {
	var (
		res engine.TickResult
		err error
	)
	if u.auto != nil {
		res, err = u.s.Play(u.auto)
	} else {
		res, err = u.s.Step(u.pending...)
		u.pending = u.pending[:0]
	}
	u.stats.ticks++
	u.stats.cleared += res.Cleared
	u.stats.rejected += res.Rejected
	if res.Froze() {
		u.stats.pieces++
	}
	if res.Matched > 0 {
		u.snd.Match(res.Matched)
	}
	if err == nil && res.GameOver {
		err = errs.ErrGameOver
	}
	if errors.Is(err, errs.ErrGameOver) {
		u.snd.GameOver()
	}
	return err
}

func (u *ui) waitKey(events <-chan tcell.Event) {
	for {
		select {
		case <-u.stop:
			return
		case ev := <-events:
			if _, ok := ev.(*tcell.EventKey); ok {
				return
			}
		}
	}
}

func (u *ui) draw() {
	u.screen.Clear()
	rows, cols := u.s.Rows(), u.s.Cols()
	x0, y0 := 2, 1

	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for r := 0; r <= rows; r++ {
		u.screen.SetContent(x0-1, y0+r, '|', nil, border)
		u.screen.SetContent(x0+cols*cellW, y0+r, '|', nil, border)
	}
	for c := -1; c <= cols*cellW; c++ {
		u.screen.SetContent(x0+c, y0+rows, '-', nil, border)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u.drawCell(x0+c*cellW, y0+r, u.s.CellAt(r, c))
		}
	}

	info := x0 + cols*cellW + 3
	lines := []string{
		fmt.Sprintf("game   : %s", u.s.Name()),
		fmt.Sprintf("seed   : %d", u.s.Seed()),
		fmt.Sprintf("ticks  : %d", u.stats.ticks),
		fmt.Sprintf("pieces : %d", u.stats.pieces),
		fmt.Sprintf("cleared: %d", u.stats.cleared),
		"",
		"←/→ a/d  move",
		"↑ space  rotate",
		"esc q    quit",
	}
	if u.auto != nil {
		lines = append(lines, "", "[auto]")
	}
	if u.stats.over {
		lines = append(lines, "", "GAME OVER - press any key")
	}
	for i, l := range lines {
		u.print(info, y0+i, l, tcell.StyleDefault)
	}
	u.screen.Show()
}

func (u *ui) drawCell(x, y int, c grid.Cell) {
	if c.IsEmpty() {
		return
	}
	st := tcell.StyleDefault.Foreground(palette[int(c.Color())%len(palette)])
	l, r := '[', ']'
	switch c.Status() {
	case grid.Air:
		l, r = '(', ')'
	case grid.Frozen:
		st = st.Bold(true)
	case grid.Matched:
		l, r = '*', '*'
		st = st.Reverse(true)
	}
	u.screen.SetContent(x, y, l, nil, st)
	u.screen.SetContent(x+1, y, rune('0'+int(c.Color())%10), nil, st)
	u.screen.SetContent(x+2, y, r, nil, st)
}

// print 以 runewidth 計算寬度，箭頭等全形字元不會互相覆蓋。
func (u *ui) print(x, y int, s string, st tcell.Style) {
	for _, ch := range s {
		u.screen.SetContent(x, y, ch, nil, st)
		x += max(runewidth.RuneWidth(ch), 1)
	}
}

func (u *ui) summary() {
	fmt.Printf("game=%s seed=%d ticks=%d pieces=%d cleared=%d rejected=%d game_over=%v\n",
		u.s.Name(), u.s.Seed(), u.stats.ticks, u.stats.pieces, u.stats.cleared, u.stats.rejected, u.stats.over)
}
