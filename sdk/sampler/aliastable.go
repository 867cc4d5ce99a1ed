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

// Package sampler 提供整數版的加權抽樣。
//
// AliasTable 實作 Vose's Alias Method：建表 O(N)，抽樣 O(1)，
// 每次抽樣固定消耗兩次 IntN，因此同一個 seed 下的序列長度可預期。
// 全程整數 scaling，不經過 float64。
package sampler

import (
	"math"
	"math/bits"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/core"
)

// AliasTable 每個槽位只存放「自己」與「別名」兩個選項。
//
//   - Prob: weight[i] * Size，整數 scaling 後的留存門檻。
//   - Aliases: 門檻不足時改選的索引。
//   - Total: 權重總和，抽樣時作為投票範圍。
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// NewAliasTable 依非負整數權重建表，權重不需正規化。
// 負權重、總和為 0 或 w*n 溢位時回傳 ErrInvalidGame。
func NewAliasTable(weights []int) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return nil, errs.InvalidGamef("alias table: empty weights")
	}
	total := uint64(0)
	for i, w := range weights {
		if w < 0 {
			return nil, errs.InvalidGamef("alias table: negative weight at %d", i)
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			return nil, errs.InvalidGamef("alias table: total weight overflow")
		}
		total += uint64(w)
	}
	if total == 0 {
		return nil, errs.InvalidGamef("alias table: all weights are zero")
	}
	if !isSafeMultiply(int(total), n) {
		return nil, errs.InvalidGamef("alias table: weights too large")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, w := range weights {
		prob[i] = w * n
		aliases[i] = i
		if prob[i] < int(total) {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		// 維持 sum(prob) = total * n
		prob[l] = prob[l] + prob[s] - int(total)
		if prob[l] < int(total) {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}

	return &AliasTable{
		Prob:    prob,
		Aliases: aliases,
		Size:    n,
		Total:   int(total),
	}, nil
}

// isSafeMultiply 檢查 a*b 是否仍在 int64 範圍內。
func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && lo <= math.MaxInt64
}

// Pick 抽出一個索引：先選槽位，再以 IntN(Total) < Prob[idx] 決定留下或改走別名。
func (at *AliasTable) Pick(c *core.Core) int {
	if at == nil || at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
