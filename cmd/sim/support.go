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
	"crypto/rand"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"math"
	"math/big"
	"os"
	"strings"

	"github.com/zintix-labs/columns"
	"github.com/zintix-labs/columns/corefmt"
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/logger"
	"github.com/zintix-labs/columns/presets"
	"github.com/zintix-labs/columns/sdk/perf"
	"github.com/zintix-labs/columns/sdk/policy"
	"github.com/zintix-labs/columns/spec"
	"github.com/zintix-labs/columns/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	green = "\033[1;32m"
	reset = "\033[0m"
)

var cfg *config = new(config)

type config struct {
	name      string
	games     int
	worker    int
	seed      int64
	policy    string
	maxTicks  int
	out       string
	trace     string
	logmode   string
	list      bool
	pprofmode string
}

func bindVar() {
	flag.StringVar(&cfg.name, "game", "classic", "preset name")
	flag.IntVar(&cfg.games, "games", 1000, "number of games")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed (< 1: random)")
	flag.StringVar(&cfg.policy, "policy", "", "override policy: idle, random, greedy")
	flag.IntVar(&cfg.maxTicks, "ticks", 0, "override max ticks per game")
	flag.StringVar(&cfg.out, "out", "", "write report to file (.json/.yaml, optional .zst)")
	flag.StringVar(&cfg.trace, "trace", "", "write a single traced game to file (.json, optional .zst)")
	flag.StringVar(&cfg.logmode, "log", "", "log mode: dev, prod, silence")
	flag.BoolVar(&cfg.list, "list", false, "list presets and exit")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")
	flag.Parse()
	cfg.valid()

	// given seed illegal -> random seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

func (cfg *config) valid() {
	if cfg.games < 1 {
		log.Fatal("value err : games must > 0")
	}
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	if cfg.maxTicks < 0 {
		log.Fatal("value err : ticks must >= 0")
	}
	if err := perf.ValidMode(cfg.pprofmode); err != nil {
		log.Fatal(err)
	}
	if _, err := logger.ParseMode(cfg.logmode); err != nil {
		log.Fatal(err)
	}
	if cfg.out != "" {
		switch corefmt.PayloadExt(cfg.out) {
		case ".json", ".yaml", ".yml":
		default:
			log.Fatalf("value err : -out must end with .json, .yaml or .yml (optionally + .zst): %s", cfg.out)
		}
	}
}

func newLab() (*columns.Lab, error) {
	lab, err := columns.NewAuto(nil, columns.Configs(presets.FS), columns.Policies(policy.Builtin))
	if err != nil {
		return nil, err
	}
	mode, _ := logger.ParseMode(cfg.logmode)
	lab.SetLogger(logger.NewDefaultLogger(mode))
	return lab, nil
}

func execute(ctx context.Context) error {
	lab, err := newLab()
	if err != nil {
		return err
	}
	if cfg.list {
		return listPresets(lab)
	}
	gs, err := lab.GameSetting(cfg.name)
	if err != nil {
		return err
	}
	if key := spec.PolicyKey(strings.ToLower(cfg.policy)); key != "" && key != gs.PolicyKey {
		// preset 的參數屬於原本的策略
		gs.PolicyKey = key
		gs.PolicyParams = nil
	}
	if cfg.maxTicks > 0 {
		gs.MaxTicks = cfg.maxTicks
	}

	if cfg.trace != "" {
		return writeTrace(lab, gs)
	}

	sim, err := lab.NewSimulatorBySetting(gs, cfg.seed)
	if err != nil {
		return err
	}
	p := message.NewPrinter(language.English)
	p.Printf("%s[WORKERS:%d] [GAME:%s] [POLICY:%s] [GAMES:%d] [MAX TICKS:%d] [SEED:%d]%s\n",
		green, cfg.worker, gs.GameName, gs.PolicyKey, cfg.games, gs.MaxTicks, sim.Seed(), reset)

	st, used, err := sim.Sim(cfg.games, cfg.worker, true)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	st.StdOut(used)
	if cfg.out != "" {
		return writeReport(st, cfg.out)
	}
	return nil
}

func writeReport(st *stats.StatReport, path string) error {
	w, err := corefmt.Create(path)
	if err != nil {
		return err
	}
	if err := st.WriteWith(w, stats.RenderByExt(corefmt.PayloadExt(path))); err != nil {
		_ = w.Close()
		return errs.Wrap(err, "write report failed")
	}
	if err := w.Close(); err != nil {
		return err
	}
	slog.Info("report written", "path", path)
	return nil
}

func writeTrace(lab *columns.Lab, gs *spec.GameSetting) error {
	s, err := lab.NewSessionBySetting(gs, cfg.seed)
	if err != nil {
		return err
	}
	pol, err := lab.NewPolicy(gs, cfg.seed)
	if err != nil {
		return err
	}
	tr, err := s.Trace(pol, min(gs.MaxTicks, columns.MaxTraceTicks))
	if err != nil {
		return err
	}
	w, err := corefmt.Create(cfg.trace)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tr); err != nil {
		_ = w.Close()
		return errs.Wrap(err, "write trace failed")
	}
	if err := w.Close(); err != nil {
		return err
	}
	p := message.NewPrinter(language.English)
	p.Printf("%s[GAME:%s] [SEED:%d] [TICKS:%d] [GAME OVER:%v]%s\n%s", green, tr.Game, tr.Seed, len(tr.Ticks), tr.GameOver, reset, tr.Final)
	return nil
}

func listPresets(lab *columns.Lab) error {
	sum, err := lab.Summary()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
