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

// The PCG algorithm is designed by Melissa O'Neill.
// The bounded sampling in uint64n follows Lemire's multiply-shift method
// as used by the Go standard library (math/rand/v2, BSD 3-Clause License).

package core

import (
	"math/bits"
	r2 "math/rand/v2"

	"github.com/zintix-labs/columns/errs"
)

// pcg64StateSize 為 math/rand/v2 PCG MarshalBinary 的長度："pcg:" + hi + lo。
const pcg64StateSize = 4 + 16

// PCG64 以 math/rand/v2 的 PCG (128-bit 狀態、DXSM 輸出) 為底，是預設的生成核心。
type PCG64 struct {
	rng *r2.PCG
}

// newPCG64WithSeed 以 splitmix64 把單一 seed 展開成 PCG 的兩個狀態字，
// 相鄰的 seed（模擬器依序發放）也會落在互不相關的串流上。
func newPCG64WithSeed(seed int64) *PCG64 {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	return &PCG64{rng: r2.NewPCG(splitmix64(x), splitmix64(x^0xDA942042E4DD58B5))}
}

func (r *PCG64) Uint64() uint64 {
	return r.rng.Uint64()
}

// UintN 產出 [0,max) 的 uint，若 max == 0 回傳 0
func (r *PCG64) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(r.uint64n(uint64(max)))
}

// IntN 產出 [0,max) 的 int，若 max <= 0 回傳 -1
func (r *PCG64) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(r.uint64n(uint64(max)))
}

// Float64 產出 53 bits 精度的 [0,1)
func (r *PCG64) Float64() float64 {
	return float64(r.Uint64()<<11>>11) / (1 << 53)
}

// Snapshot 回傳 pcg64StateSize bytes 的狀態。
func (r *PCG64) Snapshot() ([]byte, error) {
	b, err := r.rng.MarshalBinary()
	if err != nil {
		return nil, errs.Wrap(err, "pcg64 snapshot")
	}
	return b, nil
}

// Restore 只接受 Snapshot 的輸出；失敗時狀態不變。
func (r *PCG64) Restore(data []byte) error {
	if len(data) != pcg64StateSize {
		return errs.Warnf("pcg64 restore: want %d bytes, got %d", pcg64StateSize, len(data))
	}
	next := new(r2.PCG)
	if err := next.UnmarshalBinary(data); err != nil {
		return errs.Warnf("pcg64 restore: %v", err)
	}
	r.rng = next
	return nil
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// uint64n 回傳 [0,n) 的無偏亂數：取 Uint64()*n 的高 64 bits，
// 低位落在偏差區間時重抽。n 為 2 的次方時直接遮罩。
func (r *PCG64) uint64n(n uint64) uint64 {
	if n&(n-1) == 0 {
		return r.Uint64() & (n - 1)
	}
	hi, lo := bits.Mul64(r.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(r.Uint64(), n)
		}
	}
	return hi
}
