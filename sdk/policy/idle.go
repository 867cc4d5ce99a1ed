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
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/spec"
)

// idle 從不送出指令，faller 從生成位置直落。
type idle struct{}

func buildIdle(_ *core.Core, _ *spec.GameSetting) (Policy, error) {
	return idle{}, nil
}

func (idle) Decide(*engine.Engine) []engine.Command { return nil }
