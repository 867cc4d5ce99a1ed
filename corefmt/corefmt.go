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

// Package corefmt 處理亂數核心快照的文字編碼，以及報表 / 軌跡檔的 zstd 壓縮。
package corefmt

import (
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/columns/errs"
)

// ZstdExt 檔名以此結尾時讀寫自動經過 zstd。
const ZstdExt = ".zst"

// EncodeSnap 把 Core.Snapshot 的結果轉成可複製、可放進 JSON 的字串（base64url 無 padding）。
func EncodeSnap(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeSnap(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errs.Wrap(err, "decode snapshot failed")
	}
	return b, nil
}

// IsCompressed 判斷檔名是否帶 .zst。
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ZstdExt)
}

// PayloadExt 回傳去掉 .zst 之後的副檔名，例如 report.yaml.zst -> .yaml。
func PayloadExt(path string) string {
	if IsCompressed(path) {
		path = path[:len(path)-len(ZstdExt)]
	}
	return strings.ToLower(filepath.Ext(path))
}

// Compress 以預設等級壓縮。
func Compress(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errs.Wrap(err, "create zstd writer failed")
	}
	defer enc.Close()
	return enc.EncodeAll(src, make([]byte, 0, len(src)/2)), nil
}

func Decompress(src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errs.Wrap(err, "create zstd reader failed")
	}
	defer dec.Close()
	out, err := dec.DecodeAll(src, nil)
	if err != nil {
		return nil, errs.Wrap(err, "zstd decode failed")
	}
	return out, nil
}

// fileWriter 依序關閉 zstd encoder 與檔案。
type fileWriter struct {
	io.Writer
	enc *zstd.Encoder
	f   *os.File
}

func (w *fileWriter) Close() error {
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			_ = w.f.Close()
			return errs.Wrap(err, "flush zstd stream failed")
		}
	}
	return w.f.Close()
}

// Create 建立輸出檔；path 以 .zst 結尾時寫入內容會被壓縮。
// 呼叫端必須 Close 才會把壓縮串流寫完。
func Create(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrap(err, "create output dir failed")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(err, "create output file failed")
	}
	if !IsCompressed(path) {
		return &fileWriter{Writer: f, f: f}, nil
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, errs.Wrap(err, "create zstd writer failed")
	}
	return &fileWriter{Writer: enc, enc: enc, f: f}, nil
}

// ReadFile 讀檔，.zst 自動解壓。
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, "read file failed")
	}
	if !IsCompressed(path) {
		return raw, nil
	}
	return Decompress(raw)
}

// NewReader 把 r 包成解壓串流；回傳的 ReadCloser 關閉時只釋放 decoder。
func NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errs.Wrap(err, "create zstd reader failed")
	}
	return dec.IOReadCloser(), nil
}
