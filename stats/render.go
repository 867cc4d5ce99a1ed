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

package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// StatReportRender 定義輸出行為
type StatReportRender interface {
	Write(w io.Writer, r *StatReport) error
}

// Json渲染
type JsonStatReportRender struct{}

func (jr *JsonStatReportRender) Write(w io.Writer, r *StatReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAML渲染
type YAMLStatReportRender struct{}

func (yr *YAMLStatReportRender) Write(w io.Writer, r *StatReport) error {
	return forceReadableList(w, r)
}

// RenderByExt 依副檔名挑選輸出格式：.yaml/.yml 用 YAML，其餘 JSON。
func RenderByExt(ext string) StatReportRender {
	switch ext {
	case ".yaml", ".yml":
		return &YAMLStatReportRender{}
	default:
		return &JsonStatReportRender{}
	}
}

// YAML 內層方法：CI 這類兩欄位的 mapping 用 flow style 輸出
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadable(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadable(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode, yaml.SequenceNode:
		leaf := n.Kind != yaml.DocumentNode
		for _, c := range n.Content {
			styleReadable(c)
			if c.Kind != yaml.ScalarNode {
				leaf = false
			}
		}
		// 只有純量子節點且很短的 mapping / sequence 才壓成一行
		if leaf && len(n.Content) <= 4 {
			n.Style = yaml.FlowStyle
		}
	}
}
