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
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/recorder"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/policy"
	"github.com/zintix-labs/columns/spec"
	"github.com/zintix-labs/columns/stats"
)

// policySalt 讓策略核心與生成核心來自同一個 seed 但不同串流。
const policySalt = uint64(0x5DEECE66D2F1A3B7)

// Simulator 以策略自動遊玩大量對局並統計存活表現。
//
// 每一局的 seed 都在派工前由 seedMaker 依序產生，因此同一個初始 seed
// 不論 worker 數量多少，統計結果都相同（只有執行順序不同）。
type Simulator struct {
	GameName  string
	gs        *spec.GameSetting
	reg       *policy.Registry
	cf        core.PRNGFactory
	log       *slog.Logger
	initSeed  int64
	seedmaker *seedMaker
}

// job 一局的派工單
type job struct {
	seed int64
}

func newSimulatorWithSeed(gs *spec.GameSetting, reg *policy.Registry, cf core.PRNGFactory, seed int64, lg *slog.Logger) (*Simulator, error) {
	// 先建一次，設定或策略參數有誤時在這裡就失敗
	if _, err := newWorker(gs, reg, cf, lg); err != nil {
		return nil, err
	}
	if _, err := reg.Build(gs.PolicyKey, core.New(cf.New(seed)), gs); err != nil {
		return nil, err
	}
	return &Simulator{
		GameName:  gs.GameName,
		gs:        gs,
		reg:       reg,
		cf:        cf,
		log:       lg,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
	}, nil
}

func (s *Simulator) Seed() int64 { return s.initSeed }

// Sim 以 workers 個 goroutine 跑 games 局，每局跑到 game over 或 max_ticks 為止。
// 回傳合併後的統計報表與用時。
func (s *Simulator) Sim(games int, workers int, showpb bool) (*stats.StatReport, time.Duration, error) {
	if games < 1 {
		return nil, 0, errs.NewWarn("games must > 0")
	}
	if workers < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if workers > games {
		workers = games
	}

	ws := make([]*worker, workers)
	for i := range ws {
		w, err := newWorker(s.gs, s.reg, s.cf, s.log)
		if err != nil {
			return nil, 0, err
		}
		ws[i] = w
	}

	// 派工前先把所有 seed 依序取好，結果與 worker 數量無關
	seeds := make([]int64, games)
	for i := range seeds {
		seeds[i] = s.seedmaker.next()
	}

	jobs := make(chan job, 2048)
	wg := new(sync.WaitGroup)
	wg.Add(workers)

	bar := pb.New(games)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	start := time.Now()
	bar.Start()

	var (
		firstErr error
		errOnce  sync.Once
		failed   atomic.Bool
	)
	for _, w := range ws {
		go func(w *worker) {
			defer wg.Done()
			for j := range jobs {
				if failed.Load() {
					continue
				}
				if err := w.play(j); err != nil {
					errOnce.Do(func() { firstErr = err })
					failed.Store(true)
					continue
				}
				bar.Increment()
			}
		}(w)
	}
	for _, seed := range seeds {
		jobs <- job{seed: seed}
	}
	close(jobs)
	wg.Wait()
	used := time.Since(start)
	bar.Finish()

	if firstErr != nil {
		return nil, used, firstErr
	}

	rs := make([]*recorder.GameRecorder, len(ws))
	for i, w := range ws {
		rs[i] = w.rec
	}
	merged, err := recorder.MergeGameRecorder(rs)
	if err != nil {
		return nil, used, err
	}
	return merged.Done(), used, nil
}

// worker 持有一個可重用的 Session 與自己的紀錄員。
type worker struct {
	gs   *spec.GameSetting
	reg  *policy.Registry
	cf   core.PRNGFactory
	sess *Session
	rec  *recorder.GameRecorder
}

func newWorker(gs *spec.GameSetting, reg *policy.Registry, cf core.PRNGFactory, lg *slog.Logger) (*worker, error) {
	sess, err := newSessionWithSeed(gs, cf, 0, lg)
	if err != nil {
		return nil, err
	}
	rec, err := recorder.NewGameRecorder(gs.GameName, gs.PolicyKey, gs.MaxTicks)
	if err != nil {
		return nil, err
	}
	return &worker{gs: gs, reg: reg, cf: cf, sess: sess, rec: rec}, nil
}

// play 跑完一局。策略每局重建，才不會帶著上一局的計畫。
func (w *worker) play(j job) error {
	w.sess.reseed(j.seed)
	p, err := w.reg.Build(w.gs.PolicyKey, core.New(w.cf.New(policySeed(j.seed))), w.gs)
	if err != nil {
		return err
	}
	over := false
	for t := 0; t < w.gs.MaxTicks; t++ {
		res, err := w.sess.Play(p)
		w.rec.Record(res)
		if err != nil {
			if errors.Is(err, errs.ErrGameOver) {
				over = true
				break
			}
			return err
		}
		if res.GameOver {
			over = true
			break
		}
	}
	w.rec.EndGame(over)
	return nil
}

func policySeed(seed int64) int64 {
	return int64(mix63(uint64(seed) ^ policySalt))
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG (mod 2^63) 推進後經 mix63 打散；CAS 迴圈確保併發呼叫各拿到唯一的值。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的 xor-shift 與乘奇數 (mod 2^63)，結果一定非負
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
