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

package csa

import (
	"regexp"
	"strconv"
	"strings"
)

// ASCCONV region markers. XProtocol documents wrap the same assignment
// block in <Tag> { ... } markup; the assignments between the markers are
// dialect-identical, so one extractor serves both.
const (
	ascconvBegin = "### ASCCONV BEGIN"
	ascconvEnd   = "### ASCCONV END ###"
)

var (
	// assignmentPattern matches one `path = value` line. Structural and
	// markup lines fail the match and are skipped.
	assignmentPattern = regexp.MustCompile(
		`^\s*([A-Za-z_][A-Za-z0-9_]*(?:\[\d+\])*(?:\.[A-Za-z_][A-Za-z0-9_]*(?:\[\d+\])*)*)\s*=\s*(.*?)\s*$`)

	// segmentPattern splits one dotted path segment into its key and any
	// bracketed indices.
	segmentPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)((?:\[\d+\])*)$`)

	indexPattern = regexp.MustCompile(`\[(\d+)\]`)
)

// ParseProtocol decodes ASCCONV or XProtocol text into a nested tree of
// blocks (map[string]interface{}), arrays ([]interface{}) and scalar
// leaves.
//
// The decoder is tolerant by design: when the ASCCONV markers are absent
// the whole text is treated as the assignment region, and lines that do not
// carry an assignment are skipped. It therefore never fails; at worst it
// returns an empty tree.
func ParseProtocol(text string) map[string]interface{} {
	root := map[string]interface{}{}
	for _, line := range strings.Split(assignmentRegion(text), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		m := assignmentPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		segs, ok := splitPath(m[1])
		if !ok {
			continue
		}
		assign(root, segs, parseLiteral(m[2]))
	}
	return root
}

// assignmentRegion isolates the text between the ASCCONV markers, falling
// back to the whole input when they are absent.
func assignmentRegion(text string) string {
	start := strings.Index(text, ascconvBegin)
	if start < 0 {
		return text
	}
	// The BEGIN marker line can carry annotations; skip the whole line.
	nl := strings.IndexByte(text[start:], '\n')
	if nl < 0 {
		return ""
	}
	start += nl + 1

	end := strings.Index(text[start:], ascconvEnd)
	if end < 0 {
		return text[start:]
	}
	return text[start : start+end]
}

// pathSegment is one dotted component of an assignment path, e.g.
// asSlice[0] splits into key "asSlice" and indices [0].
type pathSegment struct {
	key     string
	indices []int
}

func splitPath(path string) ([]pathSegment, bool) {
	parts := strings.Split(path, ".")
	segs := make([]pathSegment, 0, len(parts))
	for _, part := range parts {
		m := segmentPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, false
		}
		seg := pathSegment{key: m[1]}
		for _, im := range indexPattern.FindAllStringSubmatch(m[2], -1) {
			idx, err := strconv.Atoi(im[1])
			if err != nil {
				return nil, false
			}
			seg.indices = append(seg.indices, idx)
		}
		segs = append(segs, seg)
	}
	return segs, true
}

// assign walks the tree from root, creating block nodes and extending
// arrays as needed, and sets value at the final path segment. Array indices
// may arrive sparse and out of order; gaps are filled with empty-block
// placeholders that later assignments overwrite.
//
// The tree handle is explicit and local to one decode; no traversal state
// outlives the call.
func assign(root map[string]interface{}, segs []pathSegment, value interface{}) {
	var node interface{} = root
	set := func(interface{}) {} // the root block itself is never replaced

	for si, seg := range segs {
		block, ok := node.(map[string]interface{})
		if !ok {
			// The path descends into an existing leaf; replace it with a
			// block, as a later assignment redefines the shape.
			block = map[string]interface{}{}
			set(block)
		}

		key := seg.key
		node = block[key]
		set = func(v interface{}) { block[key] = v }

		for _, rawIdx := range seg.indices {
			idx := rawIdx
			arr, _ := node.([]interface{})
			for len(arr) <= idx {
				arr = append(arr, map[string]interface{}{})
			}
			set(arr)
			target := arr
			node = target[idx]
			set = func(v interface{}) { target[idx] = v }
		}

		if si == len(segs)-1 {
			set(value)
			return
		}
		if _, ok := node.(map[string]interface{}); !ok {
			nb := map[string]interface{}{}
			set(nb)
			node = nb
		}
	}
}

// parseLiteral evaluates one right-hand side under the narrow literal
// grammar the protocol dialects need: quoted strings, bracketed numeric
// lists, hex and decimal integers, floats. Anything else stays raw text.
// There is deliberately no general expression evaluation here.
func parseLiteral(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	switch {
	case s[0] == '"':
		// ASCCONV doubles its string delimiters, e.g. ""N4_VB17"";
		// trimming the quote run handles both forms.
		return strings.Trim(s, `"`)
	case s[0] == '[' && s[len(s)-1] == ']':
		return parseList(s[1 : len(s)-1])
	}

	// Base 0 admits hex literals such as 0x4.
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

// parseList parses the body of a bracketed numeric list.
func parseList(body string) []interface{} {
	fields := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	items := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		items = append(items, parseLiteral(f))
	}
	return items
}
