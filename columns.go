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

// Package columns 是 Columns 模擬引擎的組裝入口（assembler）與運行入口。
//
// Lab 把三個地基組裝在一起：
//  1. Catalog：有哪些遊戲、各自對應的設定檔（來源一律是 fs.FS）。
//  2. policy.Registry：自動策略的 builders。
//  3. PRNGFactory：亂數核心工廠；nil 時依設定檔的 prng 欄位挑選。
//
// 使用流程分兩段：先註冊（Register / RegisterAll），Freeze 之後才能建立 Session 與 Simulator。
//
//	lab, _ := columns.NewAuto(nil, columns.Configs(presets.FS), columns.Policies(policy.Builtin))
//	s, _ := lab.NewSessionWithSeed("classic", 42)
//	res, err := s.Step(engine.CmdLeft)
package columns

import (
	"crypto/rand"
	"io/fs"
	"log/slog"
	"math"
	"math/big"

	"github.com/zintix-labs/columns/catalog"
	"github.com/zintix-labs/columns/errs"
	"github.com/zintix-labs/columns/logger"
	"github.com/zintix-labs/columns/sdk/core"
	"github.com/zintix-labs/columns/sdk/policy"
	"github.com/zintix-labs/columns/spec"
)

var errNotFrozen = errs.NewFatal("catalog is not frozen yet")

// Configs 把一或多個設定檔來源打包成 New 需要的參數。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Policies 把一或多個策略註冊表打包成 New 需要的參數；重複 key 在 New 時失敗。
func Policies(regs ...*policy.Registry) []*policy.Registry {
	return regs
}

type Lab struct {
	cat *catalog.Catalog
	reg *policy.Registry
	cf  core.PRNGFactory
	log *slog.Logger
	sum []catalog.Summary
}

// New 建立 Lab（註冊階段）。cf 可為 nil。
func New(cf core.PRNGFactory, cfgs []fs.FS, policies []*policy.Registry) (*Lab, error) {
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	if len(policies) == 0 {
		return nil, errs.NewFatal("policy registry required")
	}
	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	reg, err := policy.Merge(policies...)
	if err != nil {
		return nil, err
	}
	return &Lab{
		cat: cat,
		reg: reg,
		cf:  cf,
		log: logger.Discard(),
	}, nil
}

// NewAuto 註冊所有來源中的設定檔並 Freeze，直接進入執行階段。
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS, policies []*policy.Registry) (*Lab, error) {
	lab, err := New(cf, cfgs, policies)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

// SetLogger 之後建立的 Session 都會使用 l；nil 代表不輸出。
func (l *Lab) SetLogger(lg *slog.Logger) {
	if lg == nil {
		lg = logger.Discard()
	}
	l.log = lg
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	for _, e := range ents {
		if err := l.checkPolicy(e.ConfigName, e.Name); err != nil {
			return err
		}
	}
	return l.cat.Register(ents...)
}

// RegisterAll 解析所有尚未登記的設定檔並一次登記（任何一個解析失敗則整批不生效），
// 之後確認每個遊戲的 policy_key 都有對應的 builder。
func (l *Lab) RegisterAll() error {
	n, err := l.cat.Discover()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NewFatal("no config files found to register")
	}
	for _, name := range l.cat.Names() {
		if err := l.checkPolicy("", name); err != nil {
			return err
		}
	}
	return nil
}

// checkPolicy 在註冊時就確認策略存在，避免到建 Session 時才失敗。
func (l *Lab) checkPolicy(file, name string) error {
	var (
		gs  *spec.GameSetting
		err error
	)
	if file != "" {
		gs, err = l.cat.LoadFile(file)
	} else {
		gs, err = l.cat.GameSettingByName(name)
	}
	if err != nil {
		return err
	}
	if !l.reg.IsExist(gs.PolicyKey) {
		return errs.InvalidGamef("policy not registered: policy_key=%s (game=%s)", gs.PolicyKey, name)
	}
	return nil
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

func (l *Lab) Policies() []spec.PolicyKey {
	return l.reg.Keys()
}

func (l *Lab) Summary() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errNotFrozen
	}
	if l.sum != nil {
		return l.sum, nil
	}
	sum, err := l.cat.Summaries()
	if err != nil {
		return nil, err
	}
	l.sum = sum
	return l.sum, nil
}

// GameSetting 回傳設定的複本，可自由修改後交給 NewSessionBySetting。
func (l *Lab) GameSetting(name string) (*spec.GameSetting, error) {
	if !l.cat.IsFrozen() {
		return nil, errNotFrozen
	}
	return l.cat.GameSettingByName(name)
}

// NewSession 以 crypto/rand 產生的 seed 建立一局。
func (l *Lab) NewSession(name string) (*Session, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.NewSessionWithSeed(name, seed)
}

// NewSessionWithSeed 同一份設定 + 同一個 seed + 同一串指令，盤面演進完全一致。
func (l *Lab) NewSessionWithSeed(name string, seed int64) (*Session, error) {
	gs, err := l.GameSetting(name)
	if err != nil {
		return nil, err
	}
	return l.NewSessionBySetting(gs, seed)
}

// NewSessionBySetting 使用呼叫端提供的設定（例如從 YAML 讀入後改過欄寬），不需要在 catalog 中登記。
func (l *Lab) NewSessionBySetting(gs *spec.GameSetting, seed int64) (*Session, error) {
	if !l.cat.IsFrozen() {
		return nil, errNotFrozen
	}
	if gs == nil {
		return nil, errs.InvalidGamef("nil game setting")
	}
	cf, err := l.factory(gs)
	if err != nil {
		return nil, err
	}
	return newSessionWithSeed(gs, cf, seed, l.log)
}

// NewPolicy 依設定的 policy_key 建立策略，策略使用獨立的亂數核心。
func (l *Lab) NewPolicy(gs *spec.GameSetting, seed int64) (policy.Policy, error) {
	cf, err := l.factory(gs)
	if err != nil {
		return nil, err
	}
	return l.reg.Build(gs.PolicyKey, core.New(cf.New(seed)), gs)
}

func (l *Lab) NewSimulator(name string) (*Simulator, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.NewSimulatorWithSeed(name, seed)
}

func (l *Lab) NewSimulatorWithSeed(name string, seed int64) (*Simulator, error) {
	gs, err := l.GameSetting(name)
	if err != nil {
		return nil, err
	}
	return l.NewSimulatorBySetting(gs, seed)
}

func (l *Lab) NewSimulatorBySetting(gs *spec.GameSetting, seed int64) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errNotFrozen
	}
	if !l.reg.IsExist(gs.PolicyKey) {
		return nil, errs.InvalidGamef("policy not registered: %s", gs.PolicyKey)
	}
	cf, err := l.factory(gs)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(gs, l.reg, cf, seed, l.log)
}

func (l *Lab) factory(gs *spec.GameSetting) (core.PRNGFactory, error) {
	if l.cf != nil {
		return l.cf, nil
	}
	return gs.Factory()
}

func cryptoSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return seed.Int64(), nil
}
