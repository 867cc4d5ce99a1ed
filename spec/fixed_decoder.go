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

package spec

import (
	"bytes"

	"github.com/zintix-labs/columns/errs"
	"gopkg.in/yaml.v3"
)

// DecodePolicyParams 會把 gs.PolicyParams 由 map[string]any 轉成你要的型別 T。
// 未出現的欄位保留 out 原本的值，因此呼叫端可以先填好預設值。
func DecodePolicyParams[T any](gs *GameSetting, out *T) error {
	if len(gs.PolicyParams) == 0 {
		return nil
	}
	// 先把 map[string]any -> YAML bytes
	bs, err := yaml.Marshal(gs.PolicyParams)
	if err != nil {
		return errs.Wrap(err, "spec.policy_params : marshal failed")
	}
	// 再把 YAML bytes -> 自定義的型別
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err = dec.Decode(out); err != nil {
		return errs.InvalidGamef("spec.policy_params : %v", err)
	}
	return nil
}
