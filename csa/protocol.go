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
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeProtocol decodes a parsed protocol tree into a caller-defined
// struct. Keys match field names case-insensitively; use mapstructure field
// tags for the exact ASCCONV spellings, e.g.
//
//	type sliceArray struct {
//		Size   int64 `mapstructure:"lSize"`
//		Slices []struct {
//			Thickness float64 `mapstructure:"dThickness"`
//		} `mapstructure:"asSlice"`
//	}
//
// Decoding is weakly typed, so int64 leaves fit plain int fields and
// numeric strings fit numeric fields.
func DecodeProtocol(tree map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("building protocol decoder: %w", err)
	}
	if err := dec.Decode(tree); err != nil {
		return fmt.Errorf("decoding protocol tree: %w", err)
	}
	return nil
}
