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

// vrKind groups VR codes that share a conversion rule
type vrKind int

const (
	// textVR is for free-text values, cut at the first NUL and trimmed
	textVR vrKind = iota

	// intStringVR is for integers carried as decimal text
	intStringVR

	// decimalStringVR is for floats carried as decimal text
	decimalStringVR

	// binaryVR is for fixed-width little-endian binary numbers
	binaryVR

	// opaqueVR is for values returned as raw bytes, including every VR
	// code the registry does not know
	opaqueVR
)

// VR models the value representation declared in a CSA tag record. The set
// of codes is closed; a code outside it decodes as opaque bytes rather than
// failing the header.
type VR struct {
	// Name is the VR code as it appears in the tag record, e.g. "IS"
	Name string

	kind vrKind

	// width is the exact payload size in bytes for binaryVR codes
	width int
}

var vrLookupMap = map[string]*VR{}

func newVR(name string, kind vrKind, width int) *VR {
	vr := &VR{name, kind, width}
	vrLookupMap[vr.Name] = vr

	return vr
}

// lookupVR resolves a VR code read from the stream. Unknown codes map to an
// opaque VR carrying the original code so no tag can crash the decode.
func lookupVR(name string) *VR {
	if vr, ok := vrLookupMap[name]; ok {
		return vr
	}
	return &VR{Name: name, kind: opaqueVR}
}

// VR set observed in CSA headers. Widths follow the DICOM binary VR
// definitions, http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
var (
	// textual VRs
	ASVR = newVR("AS", textVR, 0)
	CSVR = newVR("CS", textVR, 0)
	DAVR = newVR("DA", textVR, 0)
	DTVR = newVR("DT", textVR, 0)
	LOVR = newVR("LO", textVR, 0)
	LTVR = newVR("LT", textVR, 0)
	SHVR = newVR("SH", textVR, 0)
	STVR = newVR("ST", textVR, 0)
	TMVR = newVR("TM", textVR, 0)
	UTVR = newVR("UT", textVR, 0)

	// unique identifier
	UIVR = newVR("UI", textVR, 0)

	// textual numbers
	ISVR = newVR("IS", intStringVR, 0)
	DSVR = newVR("DS", decimalStringVR, 0)

	// binary numbers
	SSVR = newVR("SS", binaryVR, 2)
	USVR = newVR("US", binaryVR, 2)
	SLVR = newVR("SL", binaryVR, 4)
	ULVR = newVR("UL", binaryVR, 4)
	FLVR = newVR("FL", binaryVR, 4)
	FDVR = newVR("FD", binaryVR, 8)

	// unknown
	UNVR = newVR("UN", opaqueVR, 0)

	// other binary
	OBVR = newVR("OB", opaqueVR, 0)
)
