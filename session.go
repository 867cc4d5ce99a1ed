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
	"context"
	"log/slog"
	"sync"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/logger"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/sdk/grid"
	"github.com/zintix-labs/columns/sdk/policy"
	"github.com/zintix-labs/columns/spec"
)

// Session 封裝一局遊戲：引擎、生成用的亂數核心與 logger。
//
// 所有公開方法都持有同一把鎖，終端前端的輸入 goroutine 與 tick 迴圈可以同時呼叫。
// 模擬器則是一個 worker 一個 Session，不共用。
type Session struct {
	name     string
	gs       *spec.GameSetting
	cf       core.PRNGFactory
	core     *core.Core
	eng      *engine.Engine
	base     *slog.Logger
	log      *slog.Logger
	mu       sync.Mutex
	initseed int64 // 出生 seed；任意時間點的重現請用 SnapshotCore / RestoreCore
	ticks    int
}

func newSessionWithSeed(gs *spec.GameSetting, cf core.PRNGFactory, seed int64, lg *slog.Logger) (*Session, error) {
	if lg == nil {
		lg = logger.Discard()
	}
	c := core.New(cf.New(seed))
	eng, err := engine.New(gs.EngineConfig(), c)
	if err != nil {
		return nil, err
	}
	return &Session{
		name:     gs.GameName,
		gs:       gs,
		cf:       cf,
		core:     c,
		eng:      eng,
		base:     lg,
		log:      logger.ForGame(lg, gs.GameName, seed),
		initseed: seed,
	}, nil
}

// Step 執行一個 tick。被拒絕的指令只計數；ErrGameOver 代表這局已結束。
func (s *Session) Step(cmds ...engine.Command) (engine.TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step(cmds)
}

// Play 讓策略讀取盤面決定指令後執行一個 tick，整段在同一把鎖內。
func (s *Session) Play(p policy.Policy) (engine.TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng.IsGameOver() {
		return engine.TickResult{GameOver: true}, errs.ErrGameOver
	}
	return s.step(p.Decide(s.eng))
}

func (s *Session) step(cmds []engine.Command) (engine.TickResult, error) {
	if s.eng.IsGameOver() {
		return engine.TickResult{GameOver: true}, errs.ErrGameOver
	}
	res, err := s.eng.Step(cmds...)
	s.ticks++
	s.logTick(res, err)
	return res, err
}

func (s *Session) logTick(res engine.TickResult, err error) {
	if !s.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	t := s.ticks
	if res.Cleared > 0 {
		s.log.Debug("resolve", "tick", t, "cleared", res.Cleared)
	}
	switch res.Spawn {
	case engine.SpawnPlaced:
		if f, ok := s.eng.Faller(); ok {
			s.log.Debug("spawn", "tick", t, "col", f.Col, "colors", f.Colors)
		}
	case engine.SpawnSkipped:
		s.log.Debug("skipped spawn", "tick", t)
	}
	if res.Rejected > 0 {
		s.log.Debug("rejected", "tick", t, "n", res.Rejected)
	}
	if res.Froze() {
		s.log.Debug("freeze", "tick", t)
	}
	if res.Matched > 0 {
		s.log.Debug("mark", "tick", t, "cells", res.Matched)
	}
	if res.GameOver {
		s.log.Debug("game over", "tick", t, "err", err)
	}
}

// Reset 清空盤面開新局，亂數串流接續。
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.Reset()
	s.ticks = 0
}

// reseed 換一條亂數串流並清空盤面，供模擬器重用同一個 Session。
func (s *Session) reseed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.core.PRNG = s.cf.New(seed)
	s.initseed = seed
	s.log = logger.ForGame(s.base, s.name, seed)
	s.eng.Reset()
	s.ticks = 0
}

// SnapshotCore 取得生成用亂數核心的狀態。
func (s *Session) SnapshotCore() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Snapshot()
}

func (s *Session) RestoreCore(src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Restore(src)
}

// ---- 查詢 ----

func (s *Session) Name() string { return s.name }

func (s *Session) Seed() int64 { return s.initseed }

// Setting 回傳設定複本。
func (s *Session) Setting() *spec.GameSetting { return s.gs.Clone() }

func (s *Session) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// CellAt 以可見區座標讀取，row 0 為可見區最上列。
func (s *Session) CellAt(row, col int) grid.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.VisibleCellAt(row, col)
}

// Rows 回傳可見列數。
func (s *Session) Rows() int { return s.eng.Rows() }

func (s *Session) Cols() int { return s.eng.Cols() }

func (s *Session) IsGameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.IsGameOver()
}

func (s *Session) Faller() (engine.Faller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Faller()
}

// View 在鎖內讀取引擎；fn 不可保留 e，也不可修改盤面。
func (s *Session) View(fn func(e *engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

// String 回傳含緩衝列的盤面文字。
func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Grid().String()
}
