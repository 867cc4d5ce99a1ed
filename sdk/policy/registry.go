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

// Package policy 定義自動遊玩策略的合約、註冊表與內建策略。
package policy

import (
	"fmt"
	"sort"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/engine"
	"github.com/zintix-labs/columns/spec"
)

// Policy 是自動遊玩策略。
//
// Decide 在每個 tick 的 Step 之前被呼叫，只能讀取引擎狀態，
// 回傳本 tick 要送出的指令（可為 nil）。實作不需要 goroutine-safe。
type Policy interface {
	Decide(e *engine.Engine) []engine.Command
}

// Builder 為每一局（每個 Session）建立獨立的 Policy 實例。
// c 為策略專用的亂數核心，不與生成共用。
type Builder func(c *core.Core, gs *spec.GameSetting) (Policy, error)

type Registry struct {
	builders map[spec.PolicyKey]Builder
}

func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[spec.PolicyKey]Builder, 8),
	}
}

func (r *Registry) Register(key spec.PolicyKey, b Builder) error {
	if b == nil {
		return errs.NewFatal(fmt.Sprintf("nil policy builder: %s", key))
	}
	if _, ok := r.builders[key]; ok {
		return errs.NewFatal(fmt.Sprintf("duplicate policy builder: %s", key))
	}
	r.builders[key] = b
	return nil
}

func (r *Registry) Build(key spec.PolicyKey, c *core.Core, gs *spec.GameSetting) (Policy, error) {
	b, ok := r.builders[key]
	if !ok {
		return nil, errs.InvalidGamef("policy is not exist: %s", key)
	}
	return b(c, gs)
}

func (r *Registry) IsExist(key spec.PolicyKey) bool {
	_, ok := r.builders[key]
	return ok
}

// Keys 依字母排序回傳所有已註冊的策略名稱。
func (r *Registry) Keys() []spec.PolicyKey {
	keys := make([]spec.PolicyKey, 0, len(r.builders))
	for k := range r.builders {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Merge 把多個 registry 合併成新的一個，重複的 key 一律視為錯誤。
func Merge(regs ...*Registry) (*Registry, error) {
	out := NewRegistry()
	origin := make(map[spec.PolicyKey]int, 8)
	for i, r := range regs {
		if r == nil {
			continue
		}
		for key, b := range r.builders {
			if _, ok := out.builders[key]; ok {
				return nil, errs.NewFatal(fmt.Sprintf("duplicate policy key %s (registry #%d and #%d)", key, origin[key], i))
			}
			out.builders[key] = b
			origin[key] = i
		}
	}
	return out, nil
}

// Builtin 收錄內建策略：idle、random、greedy。
var Builtin = NewRegistry()

func init() {
	for key, b := range map[spec.PolicyKey]Builder{
		"idle":   buildIdle,
		"random": buildRandom,
		"greedy": buildGreedy,
	} {
		if err := Builtin.Register(key, b); err != nil {
			panic(err)
		}
	}
}
