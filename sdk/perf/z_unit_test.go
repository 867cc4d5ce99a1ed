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

package perf

import (
	"os"
	"testing"
)

func TestRunPProfModes(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []string{"", "heap", "allocs"} {
		ran := false
		path, err := RunPProfIn(dir, func() { ran = true }, mode)
		if err != nil || !ran {
			t.Fatalf("mode %q: ran=%v err=%v", mode, ran, err)
		}
		if mode == "" {
			if path != "" {
				t.Fatalf("plain run should not write a file")
			}
			continue
		}
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Fatalf("mode %q: missing profile %s: %v", mode, path, err)
		}
	}
	if _, err := RunPProfIn(dir, func() {}, "trace"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}
