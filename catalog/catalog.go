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

// Package catalog 以名稱索引一或多個 fs.FS 中的遊戲設定檔。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/spec"
)

var (
	ErrDupName   = errs.NewFatal("duplicate game name")
	ErrNotFound  = errs.NewWarn("game not found in catalog")
	ErrFrozen    = errs.NewWarn("catalog already frozen")
	ErrNoSources = errs.NewFatal("no fs provided")
)

type Entry struct {
	Name       string
	ConfigName string
}

// Summary 是列出遊戲時使用的精簡資訊。
type Summary struct {
	Name        string         `json:"name"         yaml:"name"`
	VisibleRows int            `json:"visible_rows" yaml:"visible_rows"`
	Columns     int            `json:"columns"      yaml:"columns"`
	Colors      int            `json:"colors"       yaml:"colors"`
	Policy      spec.PolicyKey `json:"policy"       yaml:"policy"`
}

type Catalog struct {
	byName map[string]Entry
	names  []string            // 用來穩定排序
	unique map[string]struct{} // 一組遊戲，檔名需唯一
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byName: map[string]Entry{},
		names:  make([]string, 0, 16),
		unique: map[string]struct{}{},
		config: multFS,
	}, nil
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register 一次登記多筆；任何一筆不合法則整批都不生效。
func (c *Catalog) Register(metas ...Entry) error {
	if c.frozen {
		return ErrFrozen
	}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range metas {
		meta := &metas[i]
		meta.Name = normName(meta.Name)
		if meta.Name == "" {
			return errs.NewFatal("game name required")
		}
		if err := validFileName(meta.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[meta.ConfigName]; !ok {
			return errs.NewFatal(fmt.Sprintf("config file not found: %s", meta.ConfigName))
		}
		if _, ok := c.byName[meta.Name]; ok {
			return errs.Wrap(ErrDupName, meta.Name)
		}
		if _, ok := seenName[meta.Name]; ok {
			return errs.Wrap(ErrDupName, meta.Name)
		}
		if _, ok := c.unique[meta.ConfigName]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		if _, ok := seenCfg[meta.ConfigName]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		seenName[meta.Name] = struct{}{}
		seenCfg[meta.ConfigName] = struct{}{}
	}
	for _, meta := range metas {
		c.unique[meta.ConfigName] = struct{}{}
		c.byName[meta.Name] = meta
		c.names = append(c.names, meta.Name)
	}
	sort.Strings(c.names)
	return nil
}

// Discover 解析所有來源中尚未登記的設定檔，並以其 game_name 登記。
// 回傳新登記的數量。
func (c *Catalog) Discover() (int, error) {
	files := make([]string, 0, len(c.config.index))
	for name := range c.config.index {
		if _, ok := c.unique[name]; !ok {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	metas := make([]Entry, 0, len(files))
	for _, file := range files {
		gs, err := c.load(file)
		if err != nil {
			return 0, errs.Wrap(err, "discover "+file)
		}
		metas = append(metas, Entry{Name: gs.GameName, ConfigName: file})
	}
	if err := c.Register(metas...); err != nil {
		return 0, err
	}
	return len(metas), nil
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	m, ok := c.byName[normName(name)]
	return m, ok
}

func (c *Catalog) Names() []string {
	if len(c.names) == 0 {
		return nil
	}
	return append([]string(nil), c.names...)
}

func (c *Catalog) All() []Entry {
	m := make([]Entry, 0, len(c.names))
	for _, name := range c.names {
		m = append(m, c.byName[name])
	}
	return m
}

// Summaries 讀取每個設定檔並回傳摘要，順序與 Names 相同。
func (c *Catalog) Summaries() ([]Summary, error) {
	out := make([]Summary, 0, len(c.names))
	for _, name := range c.names {
		gs, err := c.GameSettingByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			Name:        name,
			VisibleRows: gs.VisibleRows,
			Columns:     gs.Columns,
			Colors:      gs.Colors,
			Policy:      gs.PolicyKey,
		})
	}
	return out, nil
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	// 1) 不能包含路徑或類似字元
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must be a basename; no / \\\\ :) ", file))
	}
	// 2) 必須以 .yaml/.yml/.json 結尾（大小寫不敏感）
	if !isConfigFile(file) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file))
	}
	// 3) 不能以 . 開頭
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (cannot start with '.')", file))
	}
	return nil
}

func isConfigFile(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func parseGameSettingByExt(filename string, raw []byte) (*spec.GameSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetGameSettingByYAML(raw)
	case ".json":
		return spec.GetGameSettingByJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", filename))
	}
}

func (c *Catalog) load(file string) (*spec.GameSetting, error) {
	src, ok := c.config.GetFS(file)
	if !ok {
		return nil, errs.NewWarn("file name dose not exist in catalog")
	}
	raw, err := fs.ReadFile(src, file)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	return parseGameSettingByExt(file, raw)
}

// GameSettingByName
//
// 會讀取 fs 中的 YAML/JSON 設定、補預設值並執行基本檢查後回傳。
// 每次呼叫都重新解析，回傳的設定可自由修改。
func (c *Catalog) GameSettingByName(name string) (*spec.GameSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.Wrap(ErrNotFound, name)
	}
	return c.load(e.ConfigName)
}

// LoadFile 直接解析來源中的某個設定檔，不要求已登記。
func (c *Catalog) LoadFile(file string) (*spec.GameSetting, error) {
	if err := validFileName(file); err != nil {
		return nil, err
	}
	return c.load(file)
}
