package upack

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// GUID is the stable global identifier of an asset: a 32-character
// lowercase hexadecimal token carried in the asset's metadata sidecar.
//
// The zero value marks the absence of a global identity, such as a
// reference to a built-in object.
type GUID string

// NewGUID returns a freshly generated, non-zero GUID.
func NewGUID() GUID {
	id := uuid.New()
	return GUID(hex.EncodeToString(id[:]))
}

// IsZero reports whether g carries no identity.
func (g GUID) IsZero() bool { return g == "" }

// String returns the hex form of g.
func (g GUID) String() string { return string(g) }

// Ref is one identifier reference as it appears in asset text: a local
// file ID naming a sub-object plus the GUID of the file that owns it.
//
// Two refs point at the same asset iff their GUIDs are equal. FileID is
// carried for fidelity and never used as a lookup key on its own. Ref is
// comparable and usable as a map key.
type Ref struct {
	FileID int64
	GUID   GUID
}

// IsZero reports whether r is the empty record.
func (r Ref) IsZero() bool { return r == Ref{} }
