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

// Package perf 以 runtime/pprof 包住一段執行，供 cmd/sim 的 -p 參數使用。
//
//	go run ./cmd/sim -game classic -games 2000 -p cpu
//	go tool pprof build/profiling/cpu.pprof
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/columns/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

var modes = map[string]struct{}{"": {}, "cpu": {}, "heap": {}, "allocs": {}}

// ValidMode 檢查 -p 參數。
func ValidMode(mode string) error {
	if _, ok := modes[mode]; !ok {
		return errs.Warnf("unknown pprof mode: %q (cpu, heap, allocs)", mode)
	}
	return nil
}

// RunPProf 依 mode 執行 exe 並寫出對應 profile；mode 為空時只執行 exe。
// 回傳寫出的檔案路徑（未寫檔時為空字串）。
func RunPProf(exe func(), mode string) (string, error) {
	return RunPProfIn(DefaultDir, exe, mode)
}

func RunPProfIn(dir string, exe func(), mode string) (string, error) {
	if err := ValidMode(mode); err != nil {
		return "", err
	}
	switch mode {
	case "cpu":
		return PProfCPU(dir, exe)
	case "heap":
		return PProfHeap(dir, exe)
	case "allocs":
		return PProfAllocs(dir, exe)
	default:
		exe()
		return "", nil
	}
}

func create(dir, name string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", errs.Wrap(err, "create pprof dir failed")
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, "", errs.Wrap(err, "create "+name+" failed")
	}
	return f, path, nil
}

// PProfCPU 在 exe 執行期間收集 CPU profile，也可作為 PGO 的 default.pgo 來源。
func PProfCPU(dir string, exe func()) (string, error) {
	f, path, err := create(dir, "cpu.pprof")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return "", errs.Wrap(err, "start cpu profile failed")
	}
	exe()
	pprof.StopCPUProfile()
	return path, nil
}

// PProfHeap 在 exe 結束後寫出一次 in-use heap 快照；寫出前先 GC 讓 live objects 較準確。
func PProfHeap(dir string, exe func()) (string, error) {
	exe()
	runtime.GC()
	f, path, err := create(dir, "heap.pprof")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return "", errs.Wrap(err, "write heap profile failed")
	}
	return path, nil
}

// PProfAllocs 寫出累積配置 profile（搭配 -sample_index=alloc_space 查看）。
func PProfAllocs(dir string, exe func()) (string, error) {
	exe()
	f, path, err := create(dir, "allocs.pprof")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if prof := pprof.Lookup("allocs"); prof != nil {
		if err := prof.WriteTo(f, 0); err != nil {
			return "", errs.Wrap(err, "write allocs profile failed")
		}
	}
	return path, nil
}
