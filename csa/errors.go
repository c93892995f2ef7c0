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

import "errors"

// Decode failures are classified by sentinel errors so that callers can
// tell malformed input apart from misrouted input with errors.Is. Every
// returned error wraps one of these with byte-offset or tag context.
var (
	// ErrOutOfBounds reports a read or seek past the end of the element
	// buffer. No partial read is performed.
	ErrOutOfBounds = errors.New("csa: read out of bounds")

	// ErrMalformedHeader reports a structural field (type marker, tag
	// count, declared sizes) failing a sanity check.
	ErrMalformedHeader = errors.New("csa: malformed header")

	// ErrInvalidCheckBit reports an item check field holding neither
	// sentinel value. The buffer is very likely not CSA-encoded at all,
	// e.g. XProtocol text routed to the binary decoder.
	ErrInvalidCheckBit = errors.New("csa: invalid check bit")

	// ErrTruncatedStream reports a declared tag count exceeding what the
	// buffer can supply. Partial headers are never returned.
	ErrTruncatedStream = errors.New("csa: truncated tag stream")

	// ErrSizeMismatch reports a fixed-width binary value whose payload does
	// not match the width its VR declares.
	ErrSizeMismatch = errors.New("csa: value size mismatch")
)
