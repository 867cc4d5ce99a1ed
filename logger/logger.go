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

// Package logger 組裝專案使用的 *slog.Logger。
//
// 兩種注入方式：
//   - NewDefaultLogger(mode)：依 LogMode 取得預設組裝。
//   - NewLogger(h)：呼叫端自備 slog.Handler（JSON/Text/ReplaceAttr/LevelVar...）。
//
// 任何 Handler 都可以再包一層 AsyncHandler 變成非阻塞寫出。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zintix-labs/columns/errs"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev     LogMode = iota // text / stderr / debug
	ModeProd                   // json / stdout / info
	ModeSilence                // 全部丟掉
)

var modeNames = map[string]LogMode{
	"dev":     ModeDev,
	"prod":    ModeProd,
	"silence": ModeSilence,
	"off":     ModeSilence,
}

// ParseMode 解析命令列的 -log 參數，空字串視為 silence。
func ParseMode(s string) (LogMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeSilence, nil
	}
	if m, ok := modeNames[s]; ok {
		return m, nil
	}
	return ModeSilence, errs.Warnf("unknown log mode: %q (dev, prod, silence)", s)
}

func (m LogMode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilence:
		return "silence"
	}
	return "unknown"
}

// NewDefaultLogger 依 LogMode 回傳同步 logger。
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode))
}

// NewDefaultAsyncLogger 依 LogMode 回傳非同步 logger（buffer 8192）。
func NewDefaultAsyncLogger(mode LogMode) *slog.Logger {
	return slog.New(NewAsyncHandler(buildHandler(mode), 8192))
}

// NewLogger 把 Handler 包成 *slog.Logger；nil 視為 ModeDev。
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeDev)
	}
	return slog.New(h)
}

// Discard 回傳不輸出任何東西的 logger。
func Discard() *slog.Logger {
	return slog.New(buildHandler(ModeSilence))
}

// ForGame 為單局加上固定欄位。
func ForGame(l *slog.Logger, game string, seed int64) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With(slog.String("game", game), slog.Int64("seed", seed))
}

func buildHandler(mode LogMode) slog.Handler {
	switch mode {
	case ModeDev:
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	case ModeProd:
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	case ModeSilence:
		// Level 設到最高，Enabled 直接回 false，熱路徑不會組 Record
		return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
}
