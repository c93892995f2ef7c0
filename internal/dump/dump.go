// Copyright 2026 The csa-header Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dump turns decoded CSA headers into renderable output for the
// csadump command: flattening, expression filtering, and JSON/YAML
// encoding.
package dump

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"

	"github.com/open-dicom/csa-header/csa"
)

// Entry is one decoded tag flattened for rendering.
type Entry struct {
	Name  string      `json:"name" yaml:"name"`
	VR    string      `json:"vr" yaml:"vr"`
	VM    int         `json:"vm" yaml:"vm"`
	Value interface{} `json:"value" yaml:"value"`
}

// Flatten converts a decoded header into entries, preserving stream order.
// Single-value tags flatten to a scalar, multi-value tags keep the list.
func Flatten(h *csa.Header) []Entry {
	entries := make([]Entry, 0, h.Len())
	for _, tag := range h.Tags() {
		var value interface{}
		switch len(tag.Value) {
		case 0:
		case 1:
			value = tag.Value[0]
		default:
			value = tag.Value
		}
		entries = append(entries, Entry{
			Name:  tag.Name,
			VR:    tag.VR.Name,
			VM:    tag.VM,
			Value: value,
		})
	}
	return entries
}

// Filter compiles expression once and keeps the entries it selects. The
// expression sees one Entry at a time as its environment, e.g.
//
//	VR == "IS" && VM > 0
//	Name startsWith "Mr"
func Filter(entries []Entry, expression string) ([]Entry, error) {
	program, err := expr.Compile(expression, expr.Env(Entry{}))
	if err != nil {
		return nil, fmt.Errorf("compiling filter expression: %w", err)
	}

	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		match, err := runFilter(program, e)
		if err != nil {
			return nil, fmt.Errorf("evaluating filter on tag %q: %w", e.Name, err)
		}
		if match {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

func runFilter(program *vm.Program, e Entry) (bool, error) {
	out, err := expr.Run(program, e)
	if err != nil {
		return false, err
	}
	match, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression returned %T, want bool", out)
	}
	return match, nil
}

// Render writes entries to w in the requested format, "json" or "yaml".
func Render(w io.Writer, entries []Entry, format string) error {
	return renderValue(w, entries, format)
}

// RenderValue writes an arbitrary decoded value, such as the protocol tree,
// to w in the requested format.
func RenderValue(w io.Writer, value interface{}, format string) error {
	return renderValue(w, value, format)
}

func renderValue(w io.Writer, value interface{}, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(value)
	default:
		return fmt.Errorf("unknown output format %q, want json or yaml", format)
	}
}
