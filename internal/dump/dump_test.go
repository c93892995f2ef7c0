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

package dump

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dicom/csa-header/csa"
)

// buildType1Element assembles a minimal legacy-layout element with
// single-item text tags, enough to exercise flattening end to end.
func buildType1Element(tags ...[2]string) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, int32(len(tags)))
	for _, tag := range tags {
		name := make([]byte, 64)
		copy(name, tag[0])
		buf.Write(name)
		binary.Write(buf, binary.LittleEndian, int32(1)) // VM
		buf.Write([]byte{'I', 'S', 0, 0})                // VR
		buf.Write([]byte{0x06, 0x00})                    // syngo dating byte, dummy
		binary.Write(buf, binary.LittleEndian, int32(1)) // item count
		payload := []byte(tag[1] + "\x00")
		binary.Write(buf, binary.LittleEndian, int32(len(payload)))
		binary.Write(buf, binary.LittleEndian, int32(77))
		binary.Write(buf, binary.LittleEndian, int32(0))
		binary.Write(buf, binary.LittleEndian, int32(0))
		buf.Write(payload)
		if pad := (4 - len(payload)%4) % 4; pad != 0 {
			buf.Write(make([]byte, pad))
		}
	}
	return buf.Bytes()
}

func TestFlatten(t *testing.T) {
	header, err := csa.Parse(buildType1Element(
		[2]string{"B_value", "1000"},
		[2]string{"NumberOfAverages", "3"},
	))
	require.NoError(t, err)

	entries := Flatten(header)
	assert.Equal(t, []Entry{
		{Name: "B_value", VR: "IS", VM: 1, Value: int64(1000)},
		{Name: "NumberOfAverages", VR: "IS", VM: 1, Value: int64(3)},
	}, entries)
}

func sampleEntries() []Entry {
	return []Entry{
		{Name: "EchoTime", VR: "DS", VM: 1, Value: 12.25},
		{Name: "B_value", VR: "IS", VM: 1, Value: int64(1000)},
		{Name: "MrPhoenixProtocol", VR: "UT", VM: 1, Value: map[string]interface{}{"lSize": int64(3)}},
	}
}

func TestFilter(t *testing.T) {
	testCases := []struct {
		name       string
		expression string
		want       []string
	}{
		{"by vr", `VR == "IS"`, []string{"B_value"}},
		{"by name prefix", `Name startsWith "Mr"`, []string{"MrPhoenixProtocol"}},
		{"by vm", `VM > 0`, []string{"EchoTime", "B_value", "MrPhoenixProtocol"}},
		{"nothing matches", `VR == "SQ"`, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kept, err := Filter(sampleEntries(), tc.expression)
			require.NoError(t, err)

			names := make([]string, 0, len(kept))
			for _, e := range kept {
				names = append(names, e.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestFilterBadExpression(t *testing.T) {
	_, err := Filter(sampleEntries(), `Name ==`)
	require.Error(t, err)
}

func TestFilterNonBooleanExpression(t *testing.T) {
	_, err := Filter(sampleEntries(), `Name`)
	require.Error(t, err)
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleEntries(), "json"))

	var decoded []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "EchoTime", decoded[0].Name)
	assert.Equal(t, "DS", decoded[0].VR)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleEntries(), "yaml"))

	out := buf.String()
	assert.Contains(t, out, "name: EchoTime")
	assert.Contains(t, out, "vr: DS")
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleEntries(), "xml")
	require.Error(t, err)
}
