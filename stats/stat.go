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

// Package stats 把批次模擬的累計結果整理成報表，並提供文字表格與 JSON/YAML 輸出。
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/columns/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"Lo"`
	Hi float64 `json:"Hi" yaml:"Hi"`
}

// StatReport 批次模擬統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary" yaml:"Summary"`
	Ticks   *DistReport    `json:"Ticks"   yaml:"Ticks"`
	Cleared *DistReport    `json:"Cleared" yaml:"Cleared"`
	isDone  bool
}

type SummaryReport struct {
	GameName      string         `json:"GameName"      yaml:"GameName"`
	Policy        spec.PolicyKey `json:"Policy"        yaml:"Policy"`
	MaxTicks      int            `json:"MaxTicks"      yaml:"MaxTicks"`
	Games         int            `json:"Games"         yaml:"Games"`
	GameOvers     int            `json:"GameOvers"     yaml:"GameOvers"`
	Capped        int            `json:"Capped"        yaml:"Capped"`
	GameOverRate  float64        `json:"GameOverRate"  yaml:"GameOverRate"`
	GameOverCI    CI             `json:"GameOverCI"    yaml:"GameOverCI"`
	TotalTicks    int            `json:"TotalTicks"    yaml:"TotalTicks"`
	Spawns        int            `json:"Spawns"        yaml:"Spawns"`
	SkippedSpawns int            `json:"SkippedSpawns" yaml:"SkippedSpawns"`
	SkipRate      float64        `json:"SkipRate"      yaml:"SkipRate"`
	SkipCI        CI             `json:"SkipCI"        yaml:"SkipCI"`
	Frozen        int            `json:"Frozen"        yaml:"Frozen"`
	Matched       int            `json:"Matched"       yaml:"Matched"`
	Cleared       int            `json:"Cleared"       yaml:"Cleared"`
	Rejected      int            `json:"Rejected"      yaml:"Rejected"`
	ClearPerPiece float64        `json:"ClearPerPiece" yaml:"ClearPerPiece"`
}

// DistReport 單局樣本（存活 tick 數、消除格數）的分布摘要
type DistReport struct {
	Mean     float64   `json:"Mean"     yaml:"Mean"`
	Std      float64   `json:"Std"      yaml:"Std"`
	Min      float64   `json:"Min"      yaml:"Min"`
	P10      float64   `json:"P10"      yaml:"P10"`
	Median   float64   `json:"Median"   yaml:"Median"`
	MedianCI CI        `json:"MedianCI" yaml:"MedianCI"`
	P90      float64   `json:"P90"      yaml:"P90"`
	Max      float64   `json:"Max"      yaml:"Max"`
	samples  []float64 // 已排序
}

// NewDistReport 以樣本建立分布摘要，會複製並排序 samples。
func NewDistReport(samples []float64) *DistReport {
	cp := make([]float64, len(samples))
	copy(cp, samples)
	sort.Float64s(cp)
	return &DistReport{samples: cp}
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	sum := s.Summary
	sum.GameOverRate, sum.GameOverCI = proportionCICP(sum.GameOvers, sum.Games, 0.95)
	sum.SkipRate, sum.SkipCI = proportionCICP(sum.SkippedSpawns, sum.Spawns+sum.SkippedSpawns, 0.95)
	if sum.Frozen > 0 {
		sum.ClearPerPiece = float64(sum.Cleared) / float64(sum.Frozen)
	}
	if s.Ticks != nil {
		s.Ticks.done()
	}
	if s.Cleared != nil {
		s.Cleared.done()
	}
	s.isDone = true
}

func (d *DistReport) done() {
	n := len(d.samples)
	if n == 0 {
		return
	}
	if n == 1 {
		d.Mean = d.samples[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(d.samples, nil)
	}
	d.Min = d.samples[0]
	d.Max = d.samples[n-1]
	d.P10 = stat.Quantile(0.10, stat.Empirical, d.samples, nil)
	d.Median = stat.Quantile(0.50, stat.Empirical, d.samples, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, d.samples, nil)
	d.MedianCI.Lo, d.MedianCI.Hi = quantileCI(d.samples, 0.5, 0.95)
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 以表格輸出到 stdout。
func (s *StatReport) StdOut(ut time.Duration) {
	s.Done()
	fmt.Print(formatDuration(ut, s.Summary.Games, s.Summary.TotalTicks))
	sk, sm := s.fmtBasic()
	fmt.Println(fmtTable(s.Summary.GameName, sk, sm))
}

// String 回傳與 StdOut 相同的表格（不含用時）。
func (s *StatReport) String() string {
	s.Done()
	sk, sm := s.fmtBasic()
	return fmtTable(s.Summary.GameName, sk, sm)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, games int, ticks int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	gps := int(float64(games) / sec)
	tps := int(float64(ticks) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\ngps : %d games/sec\ntps : %d ticks/sec\n", sec, gps, tps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\ngps : %d games/sec\ntps : %d ticks/sec\n", m, s, gps, tps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\ngps : %d games/sec\ntps : %d ticks/sec\n", h, m, s, gps, tps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sum := s.Summary
	basic := map[string]string{
		"Game Name":       p.Sprintf("%s", sum.GameName),
		"Policy":          p.Sprintf("%s", sum.Policy),
		"Games":           p.Sprintf("%d", sum.Games),
		"Game Over":       p.Sprintf("%d (%.2f %%)", sum.GameOvers, 100.0*sum.GameOverRate),
		"Game Over 95%CI": p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sum.GameOverCI.Lo, 100.0*sum.GameOverCI.Hi),
		"Capped":          p.Sprintf("%d (max %d ticks)", sum.Capped, sum.MaxTicks),
		"Total Ticks":     p.Sprintf("%d", sum.TotalTicks),
		"Spawns":          p.Sprintf("%d", sum.Spawns),
		"Skipped Spawns":  p.Sprintf("%d (%.2f %%)", sum.SkippedSpawns, 100.0*sum.SkipRate),
		"Frozen Pieces":   p.Sprintf("%d", sum.Frozen),
		"Cleared Cells":   p.Sprintf("%d", sum.Cleared),
		"Clear / Piece":   p.Sprintf("%.3f", sum.ClearPerPiece),
		"Rejected Cmds":   p.Sprintf("%d", sum.Rejected),
	}
	keys := []string{"Game Name", "Policy", "Games", "Game Over", "Game Over 95%CI", "Capped", "Total Ticks", "Spawns", "Skipped Spawns", "Frozen Pieces", "Cleared Cells", "Clear / Piece", "Rejected Cmds"}
	keys = s.Ticks.appendRows(p, "Ticks", keys, basic)
	keys = s.Cleared.appendRows(p, "Cleared", keys, basic)
	return keys, basic
}

func (d *DistReport) appendRows(p *message.Printer, name string, keys []string, msg map[string]string) []string {
	if d == nil {
		return keys
	}
	rows := []struct {
		k string
		v string
	}{
		{name + " Mean", p.Sprintf("%.2f (std %.2f)", d.Mean, d.Std)},
		{name + " P10/P50/P90", p.Sprintf("%.0f / %.0f / %.0f", d.P10, d.Median, d.P90)},
		{name + " Median 95%CI", p.Sprintf("[%.0f,%.0f]", d.MedianCI.Lo, d.MedianCI.Hi)},
		{name + " Min/Max", p.Sprintf("%.0f / %.0f", d.Min, d.Max)},
	}
	for _, r := range rows {
		keys = append(keys, r.k)
		msg[r.k] = r.v
	}
	return keys
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
