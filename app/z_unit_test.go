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
	"errors"
	"testing"
	"time"
)

func TestRunReturnsComponentError(t *testing.T) {
	boom := errors.New("boom")
	var stopped bool
	long := NewTask(func(ctx context.Context) error {
		<-ctx.Done()
		stopped = true
		return nil
	})
	short := NewTask(func(ctx context.Context) error { return boom })

	err := NewWith(long, short).Run()
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !stopped {
		t.Fatalf("long task should be cancelled on shutdown")
	}
}

func TestTaskShutdownTimeout(t *testing.T) {
	block := make(chan struct{})
	stubborn := NewTask(func(ctx context.Context) error {
		<-block
		return nil
	})
	go func() { _ = stubborn.Run() }()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := stubborn.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	close(block)
}

func TestEmptyApp(t *testing.T) {
	if err := New().Run(); err != nil {
		t.Fatalf("empty app: %v", err)
	}
}
