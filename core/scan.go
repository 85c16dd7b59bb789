package upack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
)

// Reference lines carry a local file ID plus the owning file's GUID:
//
//	m_Material: {fileID: 2100000, guid: 8e9d4ef7c01a2b34c56d7e8f9a0b1c2d, type: 2}
//
// The GUID token is exactly 32 lowercase hex characters. The trailing
// boundary keeps longer runs and uppercase tokens from matching.
var (
	refPattern  = regexp.MustCompile(`fileID:\s*(-?\d+),\s*guid:\s*([0-9a-f]{32})\b`)
	guidPattern = regexp.MustCompile(`guid:\s*([0-9a-f]{32})\b`)
)

// maxScanLine bounds a single line during reference scanning. Serialized
// asset text keeps lines far below this; only pathological binary input
// comes close, and such files fail scanning in isolation.
const maxScanLine = 1 << 20

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxScanLine)
	return sc
}

// ScanRefs scans line-oriented text for identifier references, returning
// every match on every line in input order, duplicates included. Memory
// use is bounded by one line regardless of input size.
func ScanRefs(r io.Reader) ([]Ref, error) {
	var refs []Ref
	sc := newLineScanner(r)
	for sc.Scan() {
		for _, m := range refPattern.FindAllSubmatch(sc.Bytes(), -1) {
			fileID, err := strconv.ParseInt(string(m[1]), 10, 64)
			if err != nil {
				continue
			}
			refs = append(refs, Ref{FileID: fileID, GUID: GUID(m[2])})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan references: %w", err)
	}
	return refs, nil
}

// ScanGUID returns the identifier declared by the first `guid:` line,
// short-circuiting as soon as one matches. The zero Ref means no line
// matched.
func ScanGUID(r io.Reader) (Ref, error) {
	sc := newLineScanner(r)
	for sc.Scan() {
		if m := guidPattern.FindSubmatch(sc.Bytes()); m != nil {
			return Ref{GUID: GUID(m[1])}, nil
		}
	}
	if err := sc.Err(); err != nil {
		return Ref{}, fmt.Errorf("scan identifier: %w", err)
	}
	return Ref{}, nil
}

// ScanFileRefs is ScanRefs over the file at path. An absent file yields
// no references and no error: files may be referenced without being
// present, and absence must not abort an index build.
func ScanFileRefs(path string) ([]Ref, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ScanRefs(f)
}

// ScanFileGUID is ScanGUID over the file at path. An absent file yields
// the zero Ref and no error.
func ScanFileGUID(path string) (Ref, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Ref{}, nil
		}
		return Ref{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ScanGUID(f)
}
