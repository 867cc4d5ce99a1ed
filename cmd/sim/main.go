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

// sim 以自動策略批次模擬內建 preset，輸出存活統計。
//
//	go run ./cmd/sim -game classic -games 2000 -worker 8
//	go run ./cmd/sim -game narrow -policy random -out build/narrow.yaml.zst
//	go run ./cmd/sim -game tiny -trace build/tiny.json -log dev
package main

import (
	"context"
	"log"

	"github.com/zintix-labs/columns/app"
	"github.com/zintix-labs/columns/sdk/perf"
)

func main() {
	bindVar()
	task := app.NewTask(func(ctx context.Context) error {
		var runErr error
		path, err := perf.RunPProf(func() { runErr = execute(ctx) }, cfg.pprofmode)
		if err != nil {
			return err
		}
		if path != "" {
			log.Printf("profile written: %s", path)
		}
		return runErr
	})
	if err := app.NewWith(task).Run(); err != nil {
		log.Fatal(err)
	}
}
