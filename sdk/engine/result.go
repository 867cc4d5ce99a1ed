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

package engine

// TickResult 是一次 Step 的統計。
type TickResult struct {
	Spawn    Spawn
	Event    Event
	Applied  int // 成功執行的指令數
	Rejected int // 被拒絕的指令數
	Matched  int // 本 tick 新標記的格數
	Cleared  int // 本 tick 開頭清除的格數（上一 tick 的標記）
	GameOver bool
}

func (r TickResult) Spawned() bool { return r.Spawn == SpawnPlaced }

func (r TickResult) Skipped() bool { return r.Spawn == SpawnSkipped }

func (r TickResult) Froze() bool { return r.Event.Has(EvFroze) }
