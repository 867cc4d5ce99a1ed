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
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/zintix-labs/columns/presets"
)

// lineFilter 回傳 false 表示略過該行。
type lineFilter func(line string) bool

// goRun 執行 go 子指令；filter 為 nil 時直接轉接 stdout/stderr，
// 否則合併兩者後逐行過濾並依 ok/FAIL 上色。
func goRun(filter lineFilter, args ...string) error {
	cmd := exec.Command("go", args...)
	if filter == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start go %s: %w", args[0], err)
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if !filter(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	}
	if err := sc.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	return cmd.Wait()
}

func cleanCache() {
	if err := goRun(nil, "clean", "-testcache"); err != nil {
		// cache 清不掉不影響測試本身
		PrintYellow(fmt.Sprintf("go clean -testcache: %v", err))
	}
}

func runTest(_ []string) error {
	PrintGreen("running tests")
	cleanCache()
	err := goRun(func(line string) bool {
		return strings.HasPrefix(line, "ok") ||
			strings.HasPrefix(line, "FAIL") ||
			strings.Contains(line, "build failed") ||
			strings.Contains(line, "setup failed")
	}, "test", "./...", "-cover", "-count=1")
	if err != nil {
		return fmt.Errorf("tests finished with errors: %w", err)
	}
	return nil
}

func runTestDetail(_ []string) error {
	PrintGreen("running tests (detail)")
	cleanCache()
	err := goRun(func(line string) bool {
		return !strings.Contains(line, "[no test files]")
	}, "test", "./...", "-v", "-count=1")
	if err != nil {
		return fmt.Errorf("tests (detail) finished with errors: %w", err)
	}
	return nil
}

func runRace(_ []string) error {
	PrintGreen("running tests (race)")
	return goRun(nil, "test", "-race", "-count=1", ".", "./sdk/...")
}

// runPresets 對每個內建 preset 跑 cmd/sim；額外參數原樣轉給 cmd/sim（例如 -games 500）。
func runPresets(args []string) error {
	names := presets.Names()
	if len(names) == 0 {
		return fmt.Errorf("no embedded presets")
	}
	failed := 0
	for _, file := range names {
		name := strings.TrimSuffix(file, path.Ext(file))
		PrintBlue("== " + name)
		cmdArgs := append([]string{"run", "./cmd/sim", "-game", name, "-games", "200"}, args...)
		if err := goRun(nil, cmdArgs...); err != nil {
			PrintRed(fmt.Sprintf("%s: %v", name, err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d presets failed", failed, len(names))
	}
	PrintGreen(fmt.Sprintf("%d presets ok", len(names)))
	return nil
}
