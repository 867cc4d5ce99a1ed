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

// Package app 管理命令列程式的生命週期：啟動多個 Component，
// 在收到 SIGINT/SIGTERM 或任一 Component 返回時統一關閉。
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ShutdownTimeout 每次關閉流程的總期限。
const ShutdownTimeout = 5 * time.Second

type App struct {
	comps []Component
	sigs  []os.Signal
}

func New() *App {
	return &App{sigs: []os.Signal{syscall.SIGINT, syscall.SIGTERM}}
}

// NewWith 建立時直接註冊多個 Component。
func NewWith(comps ...Component) *App {
	a := New()
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// Run 以 goroutine 啟動所有 Component 並阻塞：
//   - 收到終止信號：關閉全部後回傳 nil。
//   - 任一 Component.Run 返回：關閉全部後回傳它的 error（可能為 nil）。
func (a *App) Run() error {
	if len(a.comps) == 0 {
		return nil
	}
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, a.sigs...)
	defer signal.Stop(quit)

	select {
	case <-quit:
		a.gracefulShutdown(ShutdownTimeout)
		return nil
	case err := <-errCh:
		a.gracefulShutdown(ShutdownTimeout)
		return err
	}
}

// gracefulShutdown 依註冊順序呼叫 Shutdown，共用同一個期限。
func (a *App) gracefulShutdown(td time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), td)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown err: %v\n", err)
		}
	}
}
