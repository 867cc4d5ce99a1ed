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

package policy

import (
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/sdk/sampler"
	"github.com/zintix-labs/columns/spec"
)

// RandomParams.Weights 依序對應 left / right / rotate，省略時三者等權。
type RandomParams struct {
	ActRate float64 `yaml:"act_rate"`
	Weights []int   `yaml:"weights"`
}

// random 每個 tick 以 ActRate 的機率送出一個加權抽樣的指令。
type random struct {
	core   *core.Core
	params RandomParams
	table  *sampler.AliasTable
	buf    [1]engine.Command
}

var randomCmds = []engine.Command{engine.CmdLeft, engine.CmdRight, engine.CmdRotate}

func buildRandom(c *core.Core, gs *spec.GameSetting) (Policy, error) {
	p := RandomParams{ActRate: 0.5}
	if err := spec.DecodePolicyParams(gs, &p); err != nil {
		return nil, err
	}
	if p.ActRate < 0 || p.ActRate > 1 {
		return nil, errs.InvalidGamef("random: act_rate must be in [0,1], got %v", p.ActRate)
	}
	if c == nil {
		return nil, errs.InvalidGamef("random: nil core")
	}
	if len(p.Weights) == 0 {
		p.Weights = []int{1, 1, 1}
	}
	if len(p.Weights) != len(randomCmds) {
		return nil, errs.InvalidGamef("random: weights needs %d entries, got %d", len(randomCmds), len(p.Weights))
	}
	at, err := sampler.NewAliasTable(p.Weights)
	if err != nil {
		return nil, errs.Wrap(err, "random: weights")
	}
	return &random{core: c, params: p, table: at}, nil
}

func (r *random) Decide(e *engine.Engine) []engine.Command {
	if !e.HasFaller() || !r.core.Chance(r.params.ActRate) {
		return nil
	}
	r.buf[0] = randomCmds[r.table.Pick(r.core)]
	return r.buf[:]
}
