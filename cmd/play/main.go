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

// play 在終端機上遊玩一局。
//
//	←/→ 或 a/d 移動、↑/空白/w 旋轉、Esc/q 離開。
//	go run ./cmd/play -game classic -tick 400ms
//	go run ./cmd/play -game narrow -auto
package main

import (
	"flag"
	"log"
	"time"

	"github.com/zintix-labs/columns"
	"github.com/zintix-labs/columns/app"
	"github.com/zintix-labs/columns/logger"
	"github.com/zintix-labs/columns/presets"
	"github.com/zintix-labs/columns/sdk/policy"
)

type config struct {
	name   string
	seed   int64
	tick   time.Duration
	auto   bool
	mute   bool
	logmod string
}

func main() {
	cfg := new(config)
	flag.StringVar(&cfg.name, "game", "classic", "preset name")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed (< 1: random)")
	flag.DurationVar(&cfg.tick, "tick", 500*time.Millisecond, "tick interval")
	flag.BoolVar(&cfg.auto, "auto", false, "let the preset policy play")
	flag.BoolVar(&cfg.mute, "mute", false, "disable sound")
	flag.StringVar(&cfg.logmod, "log", "", "log mode: dev, prod, silence (dev writes to stderr)")
	flag.Parse()

	if cfg.tick < 10*time.Millisecond {
		log.Fatal("value err : tick must >= 10ms")
	}
	mode, err := logger.ParseMode(cfg.logmod)
	if err != nil {
		log.Fatal(err)
	}

	lab, err := columns.NewAuto(nil, columns.Configs(presets.FS), columns.Policies(policy.Builtin))
	if err != nil {
		log.Fatal(err)
	}
	lg, ah := logger.NewAsync(1024, mode)
	defer ah.Close()
	lab.SetLogger(lg)

	var s *columns.Session
	if cfg.seed < 1 {
		s, err = lab.NewSession(cfg.name)
	} else {
		s, err = lab.NewSessionWithSeed(cfg.name, cfg.seed)
	}
	if err != nil {
		log.Fatal(err)
	}

	var auto policy.Policy
	if cfg.auto {
		if auto, err = lab.NewPolicy(s.Setting(), s.Seed()); err != nil {
			log.Fatal(err)
		}
	}

	snd := newSound(!cfg.mute)
	defer snd.Close()

	ui, err := newUI(s, auto, snd, cfg.tick)
	if err != nil {
		log.Fatal(err)
	}
	if err := app.NewWith(ui).Run(); err != nil {
		log.Fatal(err)
	}
	ui.summary()
}
