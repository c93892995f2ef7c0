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

// Package csa decodes Siemens CSA headers, the proprietary metadata blocks
// carried in the DICOM private elements (0029,1010) "CSA Image Header Info"
// and (0029,1020) "CSA Series Header Info".
//
// The package does not read DICOM files itself. The caller obtains the raw
// element bytes from any DICOM reader and passes them to Parse, which
// returns a Header: an ordered mapping of tag name to value representation,
// value multiplicity, and decoded values. Both historical binary layouts are
// supported; Type 2 elements open with the "SV10" marker, anything else is
// decoded as the legacy Type 1 layout.
//
// One tag is special. MrPhoenixProtocol (MrProtocol on older software
// versions) embeds a textual protocol document in the ASCCONV or XProtocol
// dialect. Parse decodes that text into a nested tree of blocks, arrays and
// scalars, and replaces the tag's string value with the tree. The text
// decoder is also exported as ParseProtocol for callers that hold protocol
// text obtained some other way.
//
// Decoding is strict: a truncated or structurally invalid element fails with
// a classified error rather than yielding a partial header. Failures are
// classified by the Err sentinels in this package and can be tested with
// errors.Is. A single decode holds no shared state, so independent decodes
// may run concurrently without coordination.
package csa
