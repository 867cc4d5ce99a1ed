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

package app

import (
	"context"
	"sync"
)

// Component 代表一個有生命週期的元件。Run 阻塞直到元件結束；
// Shutdown 要求元件在 ctx 期限內停止，可能被呼叫多次。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Task 把 func(ctx) error 包成 Component；Shutdown 取消 ctx 並等待函式返回。
type Task struct {
	fn     func(ctx context.Context) error
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewTask(fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{fn: fn, ctx: ctx, cancel: cancel, done: make(chan struct{})}
}

func (t *Task) Run() error {
	var err error
	t.once.Do(func() {
		defer close(t.done)
		err = t.fn(t.ctx)
	})
	return err
}

func (t *Task) Shutdown(ctx context.Context) error {
	t.cancel()
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
