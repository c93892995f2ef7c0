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
	"encoding/binary"
	"fmt"
)

// unpacker is a bounds-checked cursor over one element buffer. It is the
// only place buffer access is range-checked; every other component reads
// through it. One unpacker serves exactly one decode and is never retained
// afterwards.
type unpacker struct {
	buf []byte
	pos int
}

func newUnpacker(buf []byte) *unpacker {
	return &unpacker{buf: buf}
}

// read returns the next n bytes and advances the cursor. Bounds are checked
// before any byte is handed out; a failed read leaves the cursor unchanged.
// The returned slice aliases the element buffer and must not be modified.
func (u *unpacker) read(n int) ([]byte, error) {
	if n < 0 || u.pos+n > len(u.buf) {
		return nil, fmt.Errorf("%w: reading %d bytes at offset %d of %d",
			ErrOutOfBounds, n, u.pos, len(u.buf))
	}
	b := u.buf[u.pos : u.pos+n]
	u.pos += n
	return b, nil
}

// peek returns the next n bytes without advancing the cursor.
func (u *unpacker) peek(n int) ([]byte, error) {
	if n < 0 || u.pos+n > len(u.buf) {
		return nil, fmt.Errorf("%w: peeking %d bytes at offset %d of %d",
			ErrOutOfBounds, n, u.pos, len(u.buf))
	}
	return u.buf[u.pos : u.pos+n], nil
}

// skip discards the next n bytes.
func (u *unpacker) skip(n int) error {
	_, err := u.read(n)
	return err
}

// seek repositions the cursor to an absolute offset in [0, len].
func (u *unpacker) seek(offset int) error {
	if offset < 0 || offset > len(u.buf) {
		return fmt.Errorf("%w: seeking to offset %d of %d",
			ErrOutOfBounds, offset, len(u.buf))
	}
	u.pos = offset
	return nil
}

// remaining reports how many bytes are left before the end of the buffer.
func (u *unpacker) remaining() int {
	return len(u.buf) - u.pos
}

// uint32 reads a little-endian unsigned 32-bit integer. CSA headers are
// little-endian throughout.
func (u *unpacker) uint32() (uint32, error) {
	b, err := u.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// int32 reads a little-endian signed 32-bit integer.
func (u *unpacker) int32() (int32, error) {
	v, err := u.uint32()
	return int32(v), err
}
