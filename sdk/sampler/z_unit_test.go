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

package sampler

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/core"
)

func TestNewAliasTableRejectsBadWeights(t *testing.T) {
	cases := map[string][]int{
		"empty":    nil,
		"negative": {1, -1, 2},
		"zero":     {0, 0, 0},
		"overflow": {math.MaxInt, 1},
	}
	for name, w := range cases {
		if _, err := NewAliasTable(w); !errors.Is(err, errs.ErrInvalidGame) {
			t.Fatalf("%s: expected ErrInvalidGame, got %v", name, err)
		}
	}
}

func TestAliasTableInvariant(t *testing.T) {
	w := []int{5, 0, 1, 10}
	at, err := NewAliasTable(w)
	if err != nil {
		t.Fatal(err)
	}
	// 每個槽位的門檻都不超過 Total；零權重的索引不會留下自己
	for i, p := range at.Prob {
		if p > at.Total {
			t.Fatalf("slot %d prob %d > total %d", i, p, at.Total)
		}
	}
	if at.Prob[1] != 0 {
		t.Fatalf("zero weight should keep prob 0, got %d", at.Prob[1])
	}
}

func TestAliasTablePickDistribution(t *testing.T) {
	w := []int{1, 0, 3}
	at, err := NewAliasTable(w)
	if err != nil {
		t.Fatal(err)
	}
	c := core.New(core.Default().New(7))
	const n = 40000
	cnt := make([]int, len(w))
	for i := 0; i < n; i++ {
		idx := at.Pick(c)
		if idx < 0 || idx >= len(w) {
			t.Fatalf("pick out of range: %d", idx)
		}
		cnt[idx]++
	}
	if cnt[1] != 0 {
		t.Fatalf("zero weight picked %d times", cnt[1])
	}
	got := float64(cnt[2]) / n
	if math.Abs(got-0.75) > 0.02 {
		t.Fatalf("expected ~0.75 for weight 3/4, got %.4f", got)
	}
}

func TestAliasTableDeterministic(t *testing.T) {
	at, err := NewAliasTable([]int{2, 3, 5})
	if err != nil {
		t.Fatal(err)
	}
	a := core.New(core.Default().New(99))
	b := core.New(core.Default().New(99))
	for i := 0; i < 200; i++ {
		if x, y := at.Pick(a), at.Pick(b); x != y {
			t.Fatalf("pick %d diverged: %d vs %d", i, x, y)
		}
	}
	var empty *AliasTable
	if empty.Pick(a) != -1 {
		t.Fatalf("nil table should pick -1")
	}
}
