package upack

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// snapshotVersion is the current snapshot format version.
const snapshotVersion = 1

// indexSnapshot is the serialized form of an Index's tables.
type indexSnapshot struct {
	Version int             `cbor:"version"`
	Entries []snapshotEntry `cbor:"entries"`
}

type snapshotEntry struct {
	FileID int64  `cbor:"file_id"`
	GUID   string `cbor:"guid,omitempty"`
	Path   string `cbor:"path"`
}

// cborEncMode encodes snapshots with Core Deterministic Encoding
// (RFC 8949 §4.2) so the same index always produces identical bytes.
var cborEncMode cbor.EncMode

// cborDecMode accepts standard CBOR.
var cborDecMode cbor.DecMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("upack: CBOR encoder initialization failed: " + err.Error())
	}
	cborDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("upack: CBOR decoder initialization failed: " + err.Error())
	}
}

// WriteSnapshot serializes the index tables so a later run over the same
// tree can skip the scanning phase. Call only after IndexFiles has
// completed; staleness relative to the tree is the caller's concern.
func (ix *Index) WriteSnapshot(w io.Writer) error {
	snap := indexSnapshot{
		Version: snapshotVersion,
		Entries: make([]snapshotEntry, 0, len(ix.files)),
	}
	for ref, path := range ix.files {
		snap.Entries = append(snap.Entries, snapshotEntry{
			FileID: ref.FileID,
			GUID:   string(ref.GUID),
			Path:   path,
		})
	}
	slices.SortFunc(snap.Entries, func(a, b snapshotEntry) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		if c := strings.Compare(a.GUID, b.GUID); c != 0 {
			return c
		}
		return cmp.Compare(a.FileID, b.FileID)
	})

	data, err := cborEncMode.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadIndexSnapshot rebuilds an Index from a serialized snapshot. The
// returned index is already in the read-only phase.
func ReadIndexSnapshot(r io.Reader, opts ...IndexOption) (*Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap indexSnapshot
	if err := cborDecMode.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	ix := NewIndex(opts...)
	for _, e := range snap.Entries {
		ref := Ref{FileID: e.FileID, GUID: GUID(e.GUID)}
		ix.files[ref] = e.Path
		if !ref.GUID.IsZero() {
			ix.refs[ref.GUID] = ref
		}
	}
	return ix, nil
}
