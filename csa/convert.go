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
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// convert interprets one item payload according to its VR. A zero-length
// payload decodes to nil for every kind: CSA marks present-but-empty values
// with a zero item length.
//
// Text that fails to parse as a number under IS/DS also decodes to nil;
// one malformed numeric item must not abort the whole header.
func convert(vr *VR, raw []byte) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	switch vr.kind {
	case textVR:
		if s := trimText(raw); s != "" {
			return s, nil
		}
		return nil, nil
	case intStringVR:
		v, err := strconv.ParseInt(trimText(raw), 10, 64)
		if err != nil {
			return nil, nil
		}
		return v, nil
	case decimalStringVR:
		v, err := strconv.ParseFloat(trimText(raw), 64)
		if err != nil {
			return nil, nil
		}
		return v, nil
	case binaryVR:
		return convertBinary(vr, raw)
	case opaqueVR:
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return cp, nil
	default:
		return nil, fmt.Errorf("unknown vr kind: %v", vr.kind)
	}
}

// convertBinary decodes a fixed-width little-endian number. The payload
// must match the VR's declared width exactly. Integral values normalize to
// int64, floating-point values to float64.
func convertBinary(vr *VR, raw []byte) (interface{}, error) {
	if len(raw) != vr.width {
		return nil, fmt.Errorf("%w: vr %s wants %d bytes, got %d",
			ErrSizeMismatch, vr.Name, vr.width, len(raw))
	}

	switch vr {
	case SSVR:
		return int64(int16(binary.LittleEndian.Uint16(raw))), nil
	case USVR:
		return int64(binary.LittleEndian.Uint16(raw)), nil
	case SLVR:
		return int64(int32(binary.LittleEndian.Uint32(raw))), nil
	case ULVR:
		return int64(binary.LittleEndian.Uint32(raw)), nil
	case FLVR:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw))), nil
	case FDVR:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw)), nil
	default:
		return nil, fmt.Errorf("unknown binary vr: %v", vr.Name)
	}
}

// trimText decodes Latin-1 bytes, cuts at the first NUL, and trims
// surrounding whitespace.
func trimText(raw []byte) string {
	return strings.TrimSpace(decodeLatin1(stripToNull(raw)))
}

// stripToNull truncates the slice at the first NUL byte, if any.
func stripToNull(raw []byte) []byte {
	if i := bytes.IndexByte(raw, 0x00); i >= 0 {
		return raw[:i]
	}
	return raw
}

// decodeLatin1 maps each byte to the Unicode code point of the same value.
// CSA text is ISO-8859-1, which string() alone would mangle above 0x7F.
func decodeLatin1(raw []byte) string {
	for _, b := range raw {
		if b >= 0x80 {
			runes := make([]rune, len(raw))
			for i, c := range raw {
				runes[i] = rune(c)
			}
			return string(runes)
		}
	}
	return string(raw)
}
