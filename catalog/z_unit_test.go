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

package catalog

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/columns/errs"
)

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for k, v := range files {
		m[k] = &fstest.MapFile{Data: []byte(v)}
	}
	return m
}

func TestRegisterAndLoad(t *testing.T) {
	c, err := New(mapFS(map[string]string{
		"a.yaml":    "game_name: Alpha\ncolumns: 6\n",
		"README.md": "ignored",
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Register(Entry{Name: " Alpha ", ConfigName: "a.yaml"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := c.GetByName("ALPHA"); !ok {
		t.Fatalf("name lookup should be case-insensitive")
	}
	gs, err := c.GameSettingByName("alpha")
	if err != nil || gs.Columns != 6 {
		t.Fatalf("load: %+v %v", gs, err)
	}
	if _, err := c.GameSettingByName("beta"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := c.Register(Entry{Name: "alpha", ConfigName: "a.yaml"}); !errors.Is(err, ErrDupName) {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	if err := c.Register(Entry{Name: "x", ConfigName: "missing.yaml"}); err == nil {
		t.Fatalf("expected missing config error")
	}
	if err := c.Register(Entry{Name: "x", ConfigName: "../a.yaml"}); err == nil {
		t.Fatalf("expected invalid filename error")
	}
	c.Freeze()
	if err := c.Register(Entry{Name: "y", ConfigName: "a.yaml"}); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected frozen error, got %v", err)
	}
}

func TestDuplicateAcrossSources(t *testing.T) {
	a := mapFS(map[string]string{"g.yaml": "game_name: g\n"})
	b := mapFS(map[string]string{"g.yaml": "game_name: h\n"})
	if _, err := New(a, b); err == nil {
		t.Fatalf("expected duplicate config error")
	}
	if _, err := New(); !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
	nested := fstest.MapFS{"sub/g.yaml": &fstest.MapFile{Data: []byte("game_name: g\n")}}
	if _, err := New(nested); err == nil {
		t.Fatalf("expected flat fs error")
	}
}

func TestDiscover(t *testing.T) {
	c, err := New(
		mapFS(map[string]string{"one.yaml": "game_name: One\n", "two.json": `{"game_name":"two","colors":5}`}),
		mapFS(map[string]string{"three.yml": "game_name: three\nvisible_rows: 8\n"}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	n, err := c.Discover()
	if err != nil || n != 3 {
		t.Fatalf("discover: %d %v", n, err)
	}
	names := c.Names()
	if len(names) != 3 || names[0] != "one" || names[1] != "three" || names[2] != "two" {
		t.Fatalf("unexpected names %v", names)
	}
	sums, err := c.Summaries()
	if err != nil || sums[1].VisibleRows != 8 || sums[2].Colors != 5 {
		t.Fatalf("summaries: %+v %v", sums, err)
	}
	// 第二次不會重複登記
	if n, err := c.Discover(); err != nil || n != 0 {
		t.Fatalf("second discover: %d %v", n, err)
	}
}

func TestDiscoverInvalidConfig(t *testing.T) {
	c, _ := New(mapFS(map[string]string{"bad.yaml": "game_name: bad\ncolumns: -1\n"}))
	if _, err := c.Discover(); !errors.Is(err, errs.ErrInvalidGame) {
		t.Fatalf("expected ErrInvalidGame, got %v", err)
	}
}
