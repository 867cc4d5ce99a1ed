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

import (
	"fmt"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/sdk/grid"
)

// Direction 為左右移動方向。
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Command 是外部（玩家輸入或自動策略）送進引擎的指令。
type Command uint8

const (
	CmdLeft Command = iota + 1
	CmdRight
	CmdRotate
)

var cmdNames = map[Command]string{
	CmdLeft:   "left",
	CmdRight:  "right",
	CmdRotate: "rotate",
}

func (c Command) String() string {
	if s, ok := cmdNames[c]; ok {
		return s
	}
	return fmt.Sprintf("cmd(%d)", uint8(c))
}

// ParseCommand 把文字轉為指令，供設定檔與測試使用。
func ParseCommand(s string) (Command, error) {
	for c, name := range cmdNames {
		if name == s {
			return c, nil
		}
	}
	return 0, errs.Warnf("unknown command: %q", s)
}

// Apply 執行單一指令。
func (e *Engine) Apply(cmd Command) error {
	switch cmd {
	case CmdLeft:
		return e.Move(Left)
	case CmdRight:
		return e.Move(Right)
	case CmdRotate:
		return e.Rotate()
	default:
		return errs.Reject(fmt.Sprintf("unknown command %d", uint8(cmd)))
	}
}

// Move 把 faller 左右移一欄。
//
// 沒有 faller、目標欄越界或目標三格任一非空時回傳 ErrInvalidMove，盤面不變。
// 成功後三格一律以 Air 放置（離開支撐就恢復下落）。
func (e *Engine) Move(dir Direction) error {
	if dir != Left && dir != Right {
		return errs.Reject(fmt.Sprintf("bad direction %d", int(dir)))
	}
	if e.faller == nil {
		return errs.Reject("no faller")
	}
	f := e.faller
	to := f.Col + int(dir)
	if to < 0 || to >= e.g.Cols() {
		return errs.Reject(fmt.Sprintf("column %d out of bounds", to))
	}
	for _, r := range f.Rows() {
		if !e.g.CellAt(r, to).IsEmpty() {
			return errs.Reject(fmt.Sprintf("collision at (%d,%d)", r, to))
		}
	}

	e.lift(f)
	f.Col = to
	e.place(f, grid.Air)
	return nil
}

// Rotate 把 faller 顏色向下循環一格，狀態不變。
func (e *Engine) Rotate() error {
	if e.faller == nil {
		return errs.Reject("no faller")
	}
	st := e.fallerStatus()
	e.faller.Colors = e.faller.rotated()
	e.place(e.faller, st)
	return nil
}
