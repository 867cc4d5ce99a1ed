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

// Package grid 定義盤面格子與盤面本體。
//
// 盤面是唯一的真實來源：faller、消除、重力都只透過 CellAt / SetCell 讀寫。
package grid

import "fmt"

// Color 為寶石顏色，有效值 1..N；0 不是顏色。
type Color uint8

// Status 為格子的狀態。
type Status uint8

const (
	Air     Status = iota // faller 仍在下落
	Landed                // faller 已靠底，下一個 tick 凍結
	Frozen                // 永久盤面內容
	Matched               // 已標記待消除
)

var statusNames = [...]string{
	Air:     "air",
	Landed:  "landed",
	Frozen:  "frozen",
	Matched: "matched",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Active 回傳此狀態是否屬於正在下落的 faller。
func (s Status) Active() bool {
	return s == Air || s == Landed
}

// Cell 是 Empty 或 Occupied{color, status} 其中之一。
// 零值即為 Empty。
type Cell struct {
	occupied bool
	color    Color
	status   Status
}

func Empty() Cell {
	return Cell{}
}

func Occupied(c Color, s Status) Cell {
	return Cell{occupied: true, color: c, status: s}
}

func (c Cell) IsEmpty() bool {
	return !c.occupied
}

// Color 在 Empty 時回傳 0。
func (c Cell) Color() Color {
	return c.color
}

// Status 在 Empty 時沒有意義，呼叫端應先檢查 IsEmpty。
func (c Cell) Status() Status {
	return c.status
}

// Is 回傳格子是否為指定狀態的非空格。
func (c Cell) Is(s Status) bool {
	return c.occupied && c.status == s
}

// WithStatus 回傳顏色不變、狀態改為 s 的格子；Empty 原樣回傳。
func (c Cell) WithStatus(s Status) Cell {
	if !c.occupied {
		return c
	}
	c.status = s
	return c
}

// SameAs 回傳兩個格子是否顏色與狀態都相同（皆非空）。
func (c Cell) SameAs(o Cell) bool {
	return c.occupied && o.occupied && c.color == o.color && c.status == o.status
}

func (c Cell) String() string {
	if !c.occupied {
		return "."
	}
	return fmt.Sprintf("%s:%d", c.status, c.color)
}
