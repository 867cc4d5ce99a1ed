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

package columns

import (
	"errors"
	"fmt"

	"github.com/zintix-labs/columns/corefmt"
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/sdk/policy"
)

// MaxTraceTicks 單次軌跡的上限，避免把整個長局塞進一份 JSON。
const MaxTraceTicks = 5000

// Trace 是一局逐 tick 的紀錄，重點在可審計、可重現：
// 以 Before 還原亂數核心後照 Ticks 的指令重跑，必須得到同樣的結果。
type Trace struct {
	Game     string      `json:"game"`
	Seed     int64       `json:"seed"`
	Before   string      `json:"start_b64u"`
	After    string      `json:"after_b64u"`
	GameOver bool        `json:"game_over"`
	Final    string      `json:"final"`
	Ticks    []TickTrace `json:"ticks"`
}

type TickTrace struct {
	Tick     int      `json:"tick"`
	Cmds     []string `json:"cmds,omitempty"`
	Spawn    string   `json:"spawn"`
	Applied  int      `json:"applied"`
	Rejected int      `json:"rejected"`
	Matched  int      `json:"matched"`
	Cleared  int      `json:"cleared"`
	Froze    bool     `json:"froze,omitempty"`
	GameOver bool     `json:"game_over,omitempty"`
}

func newTickTrace(tick int, cmds []engine.Command, r engine.TickResult) TickTrace {
	tt := TickTrace{
		Tick:     tick,
		Spawn:    r.Spawn.String(),
		Applied:  r.Applied,
		Rejected: r.Rejected,
		Matched:  r.Matched,
		Cleared:  r.Cleared,
		Froze:    r.Froze(),
		GameOver: r.GameOver,
	}
	if len(cmds) > 0 {
		tt.Cmds = make([]string, len(cmds))
		for i, c := range cmds {
			tt.Cmds[i] = c.String()
		}
	}
	return tt
}

// Trace 從目前狀態開始以策略遊玩，最多 ticks 個 tick，並記錄每一步。
// 呼叫前通常先 Reset，Replay 才能從空盤面重現。
func (s *Session) Trace(p policy.Policy, ticks int) (*Trace, error) {
	if ticks < 1 || ticks > MaxTraceTicks {
		return nil, errs.NewWarn(fmt.Sprintf("ticks must be between 1 and %d", MaxTraceTicks))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.core.Snapshot()
	if err != nil {
		return nil, errs.Wrap(err, "before snapshot error")
	}
	tr := &Trace{
		Game:   s.name,
		Seed:   s.initseed,
		Before: corefmt.EncodeSnap(before),
		Ticks:  make([]TickTrace, 0, min(ticks, 256)),
	}
	for range ticks {
		if s.eng.IsGameOver() {
			break
		}
		cmds := p.Decide(s.eng)
		res, err := s.step(cmds)
		tr.Ticks = append(tr.Ticks, newTickTrace(s.ticks, cmds, res))
		if err != nil && !errors.Is(err, errs.ErrGameOver) {
			return nil, err
		}
	}
	after, err := s.core.Snapshot()
	if err != nil {
		return nil, errs.Wrap(err, "after snapshot error")
	}
	tr.After = corefmt.EncodeSnap(after)
	tr.GameOver = s.eng.IsGameOver()
	tr.Final = s.eng.Grid().String()
	return tr, nil
}

// Replay 清空盤面、以 tr.Before 還原亂數核心後照軌跡的指令重跑，
// 任何一個 tick 的結果不同都回傳錯誤。結束後 Session 停在重跑完的狀態。
func (s *Session) Replay(tr *Trace) error {
	if tr == nil {
		return errs.NewWarn("nil trace")
	}
	snap, err := corefmt.DecodeSnap(tr.Before)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.core.Restore(snap); err != nil {
		return errs.Wrap(err, "restore trace core failed")
	}
	s.eng.Reset()
	s.ticks = 0

	cmds := make([]engine.Command, 0, 4)
	for i, want := range tr.Ticks {
		cmds = cmds[:0]
		for _, name := range want.Cmds {
			c, err := engine.ParseCommand(name)
			if err != nil {
				return err
			}
			cmds = append(cmds, c)
		}
		res, err := s.step(cmds)
		if err != nil && !errors.Is(err, errs.ErrGameOver) {
			return err
		}
		got := newTickTrace(s.ticks, cmds, res)
		if !sameTick(got, want) {
			return errs.NewWarn(fmt.Sprintf("replay diverged at tick %d: got %+v want %+v", i+1, got, want))
		}
	}
	if tr.Final != "" && s.eng.Grid().String() != tr.Final {
		return errs.NewWarn("replay diverged: final board differs")
	}
	return nil
}

func sameTick(a, b TickTrace) bool {
	if len(a.Cmds) != len(b.Cmds) {
		return false
	}
	for i := range a.Cmds {
		if a.Cmds[i] != b.Cmds[i] {
			return false
		}
	}
	return a.Tick == b.Tick && a.Spawn == b.Spawn &&
		a.Applied == b.Applied && a.Rejected == b.Rejected &&
		a.Matched == b.Matched && a.Cleared == b.Cleared &&
		a.Froze == b.Froze && a.GameOver == b.GameOver
}
