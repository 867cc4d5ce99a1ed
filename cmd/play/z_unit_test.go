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

package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/zintix-labs/columns/sdk/engine"
)

func TestToneLength(t *testing.T) {
	tn := newTone(440, 10*time.Millisecond)
	want := sampleRate.N(10 * time.Millisecond)
	buf := make([][2]float64, 128)
	total := 0
	for {
		n, ok := tn.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if total != want {
		t.Fatalf("tone streamed %d samples, want %d", total, want)
	}
	for _, s := range buf[:1] {
		if s[0] < -1 || s[0] > 1 {
			t.Fatalf("sample out of range: %v", s)
		}
	}
}

func TestKeysQueueUntilTick(t *testing.T) {
	u := &ui{}
	keys := []tcell.Event{
		tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone),
	}
	for _, k := range keys {
		if u.handle(k) {
			t.Fatalf("movement key should not quit")
		}
	}
	want := []engine.Command{engine.CmdLeft, engine.CmdRight, engine.CmdRotate, engine.CmdLeft}
	if len(u.pending) != len(want) {
		t.Fatalf("pending = %v", u.pending)
	}
	for i := range want {
		if u.pending[i] != want[i] {
			t.Fatalf("pending = %v want %v", u.pending, want)
		}
	}
	if !u.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatalf("q should quit")
	}
	if !u.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("esc should quit")
	}
}

func TestMutedSoundIsNoop(t *testing.T) {
	s := newSound(false)
	s.Match(3)
	s.GameOver()
	s.Close()
}

func TestPumpExitsWhenConsumerGone(t *testing.T) {
	out := make(chan tcell.Event) // 沒有人讀
	done := make(chan struct{})
	poll := func() tcell.Event {
		return tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)
	}
	finished := make(chan struct{})
	go func() {
		pump(poll, out, done)
		close(finished)
	}()
	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatalf("pump still blocked after done closed")
	}
}

func TestPumpStopsOnNilEvent(t *testing.T) {
	out := make(chan tcell.Event, 4)
	evs := []tcell.Event{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), nil}
	i := 0
	poll := func() tcell.Event {
		ev := evs[i]
		i++
		return ev
	}
	pump(poll, out, make(chan struct{}))
	if len(out) != 1 {
		t.Fatalf("expected one forwarded event, got %d", len(out))
	}
}
