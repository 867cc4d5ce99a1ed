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

// Package errs 定義整個專案共用的錯誤型別與三種遊戲錯誤。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，讓上層知道該忽略、該結束這局，還是該中止整個流程
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// 遊戲層的三種錯誤，一律以 errors.Is 判斷（呼叫端拿到的通常是 Wrap 過的版本）
//
//   - ErrInvalidMove：沒有 faller、faller 已凍結、撞牆或撞到格子。呼叫端忽略即可，盤面不變。
//   - ErrGameOver：生成時所有欄位的緩衝區都被擋住。呼叫端應停止送指令。
//   - ErrInvalidGame：建構參數不合法（維度 <= 0 等），建構直接失敗。
var (
	ErrInvalidMove = NewWarn("invalid move")
	ErrGameOver    = NewWarn("game over")
	ErrInvalidGame = NewFatal("invalid game")
)

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端追加的上下文；Cause 串接下層錯誤（wrap）。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 以 msg 包裝底層錯誤。
//
// ErrLevel 規則：
//   - cause 是 *E：沿用其 ErrLv（例如包裝 ErrInvalidMove 仍是 warn）。
//   - cause 來自標準庫或三方依賴：一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	if errors.As(cause, &e) {
		errLv = e.ErrLv
	}
	r := New(errLv, msg)
	r.Cause = cause
	return r
}

// Reject 建立一個「非法操作」錯誤，reason 說明被拒絕的原因。
func Reject(reason string) *E {
	return Wrap(ErrInvalidMove, reason)
}

// InvalidGamef 建立一個「建構參數不合法」錯誤。
func InvalidGamef(format string, a ...any) *E {
	return Wrap(ErrInvalidGame, fmt.Sprintf(format, a...))
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// Level 回傳 err 鏈上第一個 *E 的等級；非本包錯誤視為 Fatal。
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}
