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
	"errors"
	"fmt"
)

// Format identifies which of the two historical CSA binary layouts an
// element uses.
type Format int

const (
	// Type1 is the legacy layout: the buffer opens directly with the tag
	// count.
	Type1 Format = 1

	// Type2 is the modern layout, opened by the "SV10" marker.
	Type2 Format = 2
)

func (f Format) String() string {
	switch f {
	case Type1:
		return "CSA1"
	case Type2:
		return "CSA2"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

const (
	// type2Marker opens every Type 2 element.
	type2Marker = "SV10"

	// type2UnusedSize is the size of the unused field between the marker
	// and the tag count.
	type2UnusedSize = 4

	// type2SeparatorSize is the size of the unused separator between the
	// tag count and the first tag record.
	type2SeparatorSize = 4

	// byteAlignment is the boundary item payload reads are padded to.
	byteAlignment = 4

	// nameFieldSize is the width of the NUL-padded tag name field.
	nameFieldSize = 64

	// vrFieldSize is the width of the VR code field.
	vrFieldSize = 4

	// tagRecordSize is the fixed part of one tag record: name field, VM,
	// VR code, syngo dating byte, dummy byte, item count.
	tagRecordSize = nameFieldSize + 4 + vrFieldSize + 1 + 1 + 4
)

// Valid item check field values. Anything else means the buffer is not a
// CSA tag stream.
var checkSentinels = [2]int32{77, 205}

// protocolTags names the tags whose string value embeds an ASCCONV or
// XProtocol document. MrProtocol is the pre-syngo spelling of
// MrPhoenixProtocol.
var protocolTags = map[string]bool{
	"MrPhoenixProtocol": true,
	"MrProtocol":        true,
}

// Tag is one decoded CSA tag.
type Tag struct {
	// Name is the tag name with its NUL padding removed.
	Name string

	// VR is the tag's value representation.
	VR *VR

	// VM is the declared value multiplicity. The number of decoded values
	// is at most VM; zero marks a tag that is present but empty.
	VM int

	// Value holds the decoded values in stream order. Entries are string,
	// int64, float64, []byte or nil; for protocol tags the single entry is
	// the decoded protocol tree (map[string]interface{}).
	Value []interface{}
}

// Header is one decoded CSA element. Iteration order of Tags matches the
// order tags appear in the byte stream; that ordering is part of the
// contract, not an accident of implementation.
type Header struct {
	format Format
	tags   []*Tag
	index  map[string]int
}

// Format reports the binary layout the element used.
func (h *Header) Format() Format { return h.format }

// Len reports the number of decoded tags.
func (h *Header) Len() int { return len(h.tags) }

// Tags returns the decoded tags in stream order.
func (h *Header) Tags() []*Tag { return h.tags }

// Get returns the tag with the given name.
func (h *Header) Get(name string) (*Tag, bool) {
	i, ok := h.index[name]
	if !ok {
		return nil, false
	}
	return h.tags[i], true
}

// Protocol returns the decoded protocol tree when the element carried a
// protocol tag.
func (h *Header) Protocol() (map[string]interface{}, bool) {
	for _, tag := range h.tags {
		if !protocolTags[tag.Name] || len(tag.Value) == 0 {
			continue
		}
		if tree, ok := tag.Value[0].(map[string]interface{}); ok {
			return tree, true
		}
	}
	return nil, false
}

// append inserts a tag, keeping the position of the first occurrence when a
// name repeats.
func (h *Header) append(t *Tag) {
	if i, ok := h.index[t.Name]; ok {
		h.tags[i] = t
		return
	}
	h.index[t.Name] = len(h.tags)
	h.tags = append(h.tags, t)
}

// DetectFormat reports which binary layout the buffer uses, without
// decoding it. Buffers too short for the marker report Type1.
func DetectFormat(raw []byte) Format {
	if len(raw) >= len(type2Marker) && string(raw[:len(type2Marker)]) == type2Marker {
		return Type2
	}
	return Type1
}

// Parse decodes one raw CSA element into an ordered Header. The buffer is
// borrowed read-only for the duration of the call.
//
// Decoding is strict: any structural failure aborts the decode with an
// error wrapping one of the Err sentinels, and a partial header is never
// returned. When the element carries a protocol tag, its string value is
// replaced by the tree returned by ParseProtocol.
func Parse(raw []byte) (*Header, error) {
	h := &Header{format: DetectFormat(raw), index: map[string]int{}}
	u := newUnpacker(raw)

	if h.format == Type2 {
		if err := u.skip(len(type2Marker) + type2UnusedSize); err != nil {
			return nil, err
		}
	}

	count, err := u.int32()
	if err != nil {
		return nil, err
	}
	if count < 0 || int(count) > u.remaining()/tagRecordSize {
		return nil, fmt.Errorf("%w: implausible tag count %d with %d bytes left",
			ErrMalformedHeader, count, u.remaining())
	}
	if h.format == Type2 {
		if err := u.skip(type2SeparatorSize); err != nil {
			return nil, err
		}
	}

	for i := 0; i < int(count); i++ {
		tag, err := readTag(u)
		if err != nil {
			if errors.Is(err, ErrOutOfBounds) {
				return nil, fmt.Errorf("%w: tag %d of %d: %v",
					ErrTruncatedStream, i+1, count, err)
			}
			return nil, fmt.Errorf("tag %d of %d: %w", i+1, count, err)
		}
		h.append(tag)
	}

	decodeProtocolTags(h)
	return h, nil
}

// readTag decodes one tag record and its item stream.
func readTag(u *unpacker) (*Tag, error) {
	nameRaw, err := u.read(nameFieldSize)
	if err != nil {
		return nil, err
	}
	name := trimText(nameRaw)

	vm, err := u.int32()
	if err != nil {
		return nil, err
	}
	if vm < 0 {
		return nil, fmt.Errorf("%w: tag %q declares negative VM %d",
			ErrMalformedHeader, name, vm)
	}

	vrRaw, err := u.read(vrFieldSize)
	if err != nil {
		return nil, err
	}
	vr := lookupVR(trimText(vrRaw))

	// Syngo dating byte and a dummy byte. Neither influences decoding; the
	// dating byte restates what the VR already declares.
	if err := u.skip(2); err != nil {
		return nil, err
	}

	nItems, err := u.int32()
	if err != nil {
		return nil, err
	}
	if nItems < 0 {
		return nil, fmt.Errorf("%w: tag %q declares negative item count %d",
			ErrMalformedHeader, name, nItems)
	}

	values, err := readItems(u, vr, int(vm), int(nItems))
	if err != nil {
		if errors.Is(err, ErrOutOfBounds) {
			return nil, err
		}
		return nil, fmt.Errorf("tag %q: %w", name, err)
	}

	return &Tag{Name: name, VR: vr, VM: int(vm), Value: values}, nil
}

// readItems consumes every physically declared item so the cursor stays
// aligned, but converts and keeps only the first vm values. Writers pad the
// item count to a minimum of four when VM is zero, so the surplus slots
// must be skipped, never omitted.
func readItems(u *unpacker, vr *VR, vm, nItems int) ([]interface{}, error) {
	keep := vm
	if keep > nItems {
		keep = nItems
	}

	var values []interface{}
	if keep > 0 {
		values = make([]interface{}, 0, keep)
	}

	for i := 0; i < nItems; i++ {
		length, err := readItemPrelude(u, i)
		if err != nil {
			return nil, err
		}
		payload, err := u.read(length)
		if err != nil {
			return nil, err
		}
		if pad := (byteAlignment - length%byteAlignment) % byteAlignment; pad != 0 {
			if err := u.skip(pad); err != nil {
				return nil, err
			}
		}

		// Items beyond VM are physically present but carry no values.
		if i >= keep {
			continue
		}
		v, err := convert(vr, payload)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// readItemPrelude reads an item's four-integer prelude and validates its
// check field, returning the payload length. The first integer is the
// length, the second is the check field, the last two are padding.
func readItemPrelude(u *unpacker, iItem int) (int, error) {
	length, err := u.int32()
	if err != nil {
		return 0, err
	}
	check, err := u.int32()
	if err != nil {
		return 0, err
	}
	if err := u.skip(8); err != nil {
		return 0, err
	}

	if check != checkSentinels[0] && check != checkSentinels[1] {
		return 0, fmt.Errorf("%w: item %d check field %d, want %d or %d",
			ErrInvalidCheckBit, iItem, check, checkSentinels[0], checkSentinels[1])
	}
	if length < 0 {
		return 0, fmt.Errorf("%w: item %d declares negative length %d",
			ErrMalformedHeader, iItem, length)
	}
	return int(length), nil
}

// decodeProtocolTags replaces the scalar protocol text of any protocol tag
// with its parsed tree.
func decodeProtocolTags(h *Header) {
	for _, tag := range h.tags {
		if !protocolTags[tag.Name] || len(tag.Value) == 0 {
			continue
		}
		if text, ok := tag.Value[0].(string); ok {
			tag.Value[0] = ParseProtocol(text)
		}
	}
}
