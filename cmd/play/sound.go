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
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// sound 在有標記時播放短音；音效裝置初始化失敗時整個靜音，不影響遊戲。
type sound struct {
	mu    sync.Mutex
	mixer *beep.Mixer
	on    bool
}

func newSound(enable bool) *sound {
	s := &sound{mixer: &beep.Mixer{}}
	if !enable {
		return s
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return s
	}
	speaker.Play(s.mixer)
	s.on = true
	return s
}

// Match 標記格數越多音越高。
func (s *sound) Match(cells int) {
	freq := 440.0 * math.Pow(2, float64(min(cells, 12)-3)/12)
	s.play(newTone(freq, 120*time.Millisecond), 0.3)
}

func (s *sound) GameOver() {
	s.play(beep.Seq(
		newTone(330, 150*time.Millisecond),
		newTone(262, 150*time.Millisecond),
		newTone(196, 300*time.Millisecond),
	), 0.3)
}

func (s *sound) play(st beep.Streamer, vol float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.on {
		return
	}
	speaker.Lock()
	s.mixer.Add(&effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(vol)})
	speaker.Unlock()
}

func (s *sound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.on {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.on = false
}

// tone 正弦波，尾端做線性淡出避免爆音。
type tone struct {
	freq  float64
	pos   int
	total int
}

func newTone(freq float64, d time.Duration) *tone {
	return &tone{freq: freq, total: sampleRate.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			return i, true
		}
		env := 1.0
		if rem := t.total - t.pos; rem < t.total/4 {
			env = float64(rem) / float64(t.total/4)
		}
		v := env * math.Sin(2*math.Pi*t.freq*float64(t.pos)/float64(sampleRate))
		samples[i][0], samples[i][1] = v, v
		t.pos++
		n++
	}
	return n, true
}

func (t *tone) Err() error { return nil }
