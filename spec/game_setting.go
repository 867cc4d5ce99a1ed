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

// Package spec 定義遊戲設定檔的結構、解析與驗證。
package spec

import (
	"strings"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/sdk/grid"
)

// PolicyKey 為自動策略在 registry 中的名稱。
type PolicyKey string

const (
	MinColors       = 2
	MaxColors       = 9
	DefaultMaxTicks = 10000
	DefaultPolicy   = PolicyKey("greedy")
)

// GameSetting 包含建立一局遊戲所需的所有設定。
type GameSetting struct {
	GameName     string         `yaml:"game_name"     json:"game_name"`
	VisibleRows  int            `yaml:"visible_rows"  json:"visible_rows"`
	Columns      int            `yaml:"columns"       json:"columns"`
	Colors       int            `yaml:"colors"        json:"colors"`
	PRNG         string         `yaml:"prng"          json:"prng"`
	PolicyKey    PolicyKey      `yaml:"policy_key"    json:"policy_key"`
	PolicyParams map[string]any `yaml:"policy_params" json:"policy_params"`
	MaxTicks     int            `yaml:"max_ticks"     json:"max_ticks"`
}

// Default 回傳經典 13x16、7 色的設定。
func Default() *GameSetting {
	gs := &GameSetting{GameName: "classic"}
	_ = gs.init()
	return gs
}

// init 補預設值後驗證
func (gs *GameSetting) init() error {
	gs.GameName = strings.TrimSpace(gs.GameName)
	if gs.VisibleRows == 0 {
		gs.VisibleRows = grid.DefaultVisibleRows
	}
	if gs.Columns == 0 {
		gs.Columns = grid.DefaultCols
	}
	if gs.Colors == 0 {
		gs.Colors = engine.DefaultColors
	}
	if gs.PRNG == "" {
		gs.PRNG = "pcg64"
	}
	if gs.PolicyKey == "" {
		gs.PolicyKey = DefaultPolicy
	}
	if gs.MaxTicks == 0 {
		gs.MaxTicks = DefaultMaxTicks
	}
	return gs.valid()
}

// valid 執行最基本的設定檔檢查。
func (gs *GameSetting) valid() error {
	if gs.GameName == "" {
		return errs.InvalidGamef("empty game_name")
	}
	if gs.VisibleRows <= 0 || gs.Columns <= 0 {
		return errs.InvalidGamef("game_name: %s invalid dimensions: rows=%d cols=%d", gs.GameName, gs.VisibleRows, gs.Columns)
	}
	if gs.Colors < MinColors || gs.Colors > MaxColors {
		return errs.InvalidGamef("game_name: %s colors must be in [%d,%d], got %d", gs.GameName, MinColors, MaxColors, gs.Colors)
	}
	if gs.MaxTicks < 0 {
		return errs.InvalidGamef("game_name: %s negative max_ticks", gs.GameName)
	}
	if _, err := core.FactoryByName(gs.PRNG); err != nil {
		return errs.Wrap(err, "game_name: "+gs.GameName)
	}
	return nil
}

// EngineConfig 轉成引擎建構參數。
func (gs *GameSetting) EngineConfig() engine.Config {
	return engine.Config{
		VisibleRows: gs.VisibleRows,
		Cols:        gs.Columns,
		Colors:      gs.Colors,
	}
}

// Factory 回傳設定指定的 PRNG 工廠。
func (gs *GameSetting) Factory() (core.PRNGFactory, error) {
	return core.FactoryByName(gs.PRNG)
}

// Clone 複製設定；PolicyParams 為淺複製。
func (gs *GameSetting) Clone() *GameSetting {
	cp := *gs
	if gs.PolicyParams != nil {
		cp.PolicyParams = make(map[string]any, len(gs.PolicyParams))
		for k, v := range gs.PolicyParams {
			cp.PolicyParams[k] = v
		}
	}
	return &cp
}
