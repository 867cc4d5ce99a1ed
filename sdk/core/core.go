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

// Package core 提供可插拔、可指定 seed 的亂數核心。
//
// 引擎本身不直接呼叫全域亂數：生成顏色、挑選欄位都透過 *Core，
// 因此測試可以注入固定 seed（或自製 RAND）來重現任何生成序列。
package core

import (
	"strings"

	"github.com/zintix-labs/columns/errs"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// bounded 取樣（UintN / IntN）交給實作自己處理，
// 32-bit 輸出的 PCG32 與 64-bit 輸出的 PCG64 各自走最短路徑。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一個實作下 New(seed) 必須是決定性的，相同 seed 產生相同序列。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 產生 PCG64。
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// PCG32PRNG 產生 PCG32，適合 32-bit 平台。
type PCG32PRNG struct{}

func (p *PCG32PRNG) New(seed int64) PRNG {
	return newPCG32WithSeed(seed)
}

func PCG32Factory() *PCG32PRNG {
	return &PCG32PRNG{}
}

// FactoryByName 依設定檔中的名稱取得工廠；空字串視為 pcg64。
func FactoryByName(name string) (PRNGFactory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pcg64":
		return Default(), nil
	case "pcg32":
		return PCG32Factory(), nil
	default:
		return nil, errs.InvalidGamef("unknown prng: %q", name)
	}
}

// Core 封裝 PRNG，並提供常用取樣工具。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}

// Chance 以機率 p 回傳 true；p <= 0 永遠 false，p >= 1 永遠 true（兩者都不消耗亂數）。
func (c *Core) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return c.Float64() < p
}
