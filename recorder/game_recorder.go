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

// Package recorder 逐 tick 累計單一 worker 的對局結果，最後合併成 stats.StatReport。
package recorder

import (
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/spec"
	"github.com/zintix-labs/columns/stats"
)

// GameRecorder 遊戲紀錄員
//
// 每個 worker 持有一個，不可跨 goroutine 共用；結束後以 MergeGameRecorder 合併。
type GameRecorder struct {
	GameName string
	Policy   spec.PolicyKey
	MaxTicks int
	Basic    *BasicRecord
	Dist     *DistRecord
	cur      gameRecord
}

// BasicRecord 基本計數
type BasicRecord struct {
	Games     int
	GameOvers int
	Capped    int
	Ticks     int
	Spawns    int
	Skipped   int
	Frozen    int
	Matched   int
	Cleared   int
	Applied   int
	Rejected  int
}

// DistRecord 每局樣本
type DistRecord struct {
	Ticks   []float64
	Cleared []float64
}

// 進行中的一局
type gameRecord struct {
	ticks   int
	cleared int
}

func NewGameRecorder(name string, policy spec.PolicyKey, maxTicks int) (*GameRecorder, error) {
	if maxTicks <= 0 {
		return nil, errs.Fatalf("max ticks must be positive, got: %d", maxTicks)
	}
	return &GameRecorder{
		GameName: name,
		Policy:   policy,
		MaxTicks: maxTicks,
		Basic:    new(BasicRecord),
		Dist:     new(DistRecord),
	}, nil
}

// Record 以單次 TickResult 更新計數。
func (g *GameRecorder) Record(tr engine.TickResult) {
	b := g.Basic
	b.Ticks++
	g.cur.ticks++
	if tr.Spawned() {
		b.Spawns++
	}
	if tr.Skipped() {
		b.Skipped++
	}
	if tr.Froze() {
		b.Frozen++
	}
	b.Matched += tr.Matched
	b.Cleared += tr.Cleared
	g.cur.cleared += tr.Cleared
	b.Applied += tr.Applied
	b.Rejected += tr.Rejected
}

// EndGame 結束目前這局；over 為 false 代表達到 MaxTicks 被截斷。
func (g *GameRecorder) EndGame(over bool) {
	g.Basic.Games++
	if over {
		g.Basic.GameOvers++
	} else {
		g.Basic.Capped++
	}
	g.Dist.Ticks = append(g.Dist.Ticks, float64(g.cur.ticks))
	g.Dist.Cleared = append(g.Dist.Cleared, float64(g.cur.cleared))
	g.cur = gameRecord{}
}

func MergeGameRecorder(r []*GameRecorder) (*GameRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge game record err : no recorder")
	}
	r0 := r[0]
	s, err := NewGameRecorder(r0.GameName, r0.Policy, r0.MaxTicks)
	if err != nil {
		return s, err
	}
	for _, v := range r {
		if v.GameName != r0.GameName {
			return s, errs.NewFatal("merge game record err : different game name")
		}
		if v.Policy != r0.Policy {
			return s, errs.NewFatal("merge game record err : different policy")
		}
		if v.MaxTicks != r0.MaxTicks {
			return s, errs.NewFatal("merge game record err : different max ticks")
		}
		s.Basic.Games += v.Basic.Games
		s.Basic.GameOvers += v.Basic.GameOvers
		s.Basic.Capped += v.Basic.Capped
		s.Basic.Ticks += v.Basic.Ticks
		s.Basic.Spawns += v.Basic.Spawns
		s.Basic.Skipped += v.Basic.Skipped
		s.Basic.Frozen += v.Basic.Frozen
		s.Basic.Matched += v.Basic.Matched
		s.Basic.Cleared += v.Basic.Cleared
		s.Basic.Applied += v.Basic.Applied
		s.Basic.Rejected += v.Basic.Rejected

		s.Dist.Ticks = append(s.Dist.Ticks, v.Dist.Ticks...)
		s.Dist.Cleared = append(s.Dist.Cleared, v.Dist.Cleared...)
	}
	return s, nil
}

// Done 輸出統計報表（未結束的那局不計入）。
func (g *GameRecorder) Done() *stats.StatReport {
	b := g.Basic
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:      g.GameName,
			Policy:        g.Policy,
			MaxTicks:      g.MaxTicks,
			Games:         b.Games,
			GameOvers:     b.GameOvers,
			Capped:        b.Capped,
			TotalTicks:    b.Ticks,
			Spawns:        b.Spawns,
			SkippedSpawns: b.Skipped,
			Frozen:        b.Frozen,
			Matched:       b.Matched,
			Cleared:       b.Cleared,
			Rejected:      b.Rejected,
		},
		Ticks:   stats.NewDistReport(g.Dist.Ticks),
		Cleared: stats.NewDistReport(g.Dist.Cleared),
	}
	report.Done()
	return report
}
