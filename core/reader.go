package upack

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Entry is one decoded asset: the project-relative path, the raw
// metadata bytes, and the content bytes. Partial archives decode to
// partial entries, so any field may be unpopulated.
type Entry struct {
	Path    string
	Meta    []byte
	Content []byte
}

// textProbeSize is how many leading bytes are examined to classify an
// entry as text or binary.
const textProbeSize = 200

// Decode reads a package stream and returns one Entry per asset folder,
// keyed by the folder name (the asset's GUID in a well-formed package).
// Duplicate folders in a malformed package overwrite earlier fields.
//
// Text entries are normalized so every line feed is preceded by a
// carriage return, compensating for the line-ending convention of the
// format's origin platform; binary entries pass through byte for byte.
// Unrecognized entry kinds are logged and skipped. Decode fails only on
// stream-level corruption; malformed individual entries degrade to
// partial results instead.
func Decode(r io.Reader, opts ...ReadOption) (map[string]*Entry, error) {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	entries := make(map[string]*Entry)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read package stream: %w", err)
		}
		if hdr.Typeflag == tar.TypeDir {
			continue
		}

		name := strings.TrimPrefix(hdr.Name, "./")
		folder, kind, ok := strings.Cut(name, "/")
		if !ok {
			logger.Warn("ignoring unrecognized entry", "entry", hdr.Name)
			continue
		}
		if kind == "" {
			continue
		}

		body, err := decodeBody(tr)
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", hdr.Name, err)
		}

		entry := entries[folder]
		if entry == nil {
			entry = &Entry{}
			entries[folder] = entry
		}
		switch kind {
		case "asset":
			entry.Content = body
		case "asset.meta":
			entry.Meta = body
		case "pathname":
			entry.Path = firstLine(body)
		default:
			logger.Warn("ignoring unrecognized entry kind", "entry", hdr.Name)
		}
	}
	return entries, nil
}

// decodeBody reads one entry body, applying CRLF normalization when the
// leading bytes look like ASCII text.
func decodeBody(r io.Reader) ([]byte, error) {
	probe := make([]byte, textProbeSize)
	n, err := io.ReadFull(r, probe)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	probe = probe[:n]

	if !isText(probe) {
		rest, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return append(probe, rest...), nil
	}

	var buf bytes.Buffer
	cw := &crlfWriter{w: &buf}
	if _, err := cw.Write(probe); err != nil {
		return nil, err
	}
	if _, err := io.Copy(cw, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// isText reports whether the probe holds only bytes plausible in ASCII
// text: no control characters outside tab, line feed, and carriage
// return, and no 0xFF.
func isText(probe []byte) bool {
	for _, b := range probe {
		if b == 0xFF {
			return false
		}
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			return false
		}
	}
	return true
}

// crlfWriter rewrites bare line feeds to carriage return + line feed as
// bytes stream through. prevCR survives between Write calls because a
// CRLF pair can straddle the boundary of two writes.
type crlfWriter struct {
	w      io.Writer
	prevCR bool
}

func (cw *crlfWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+len(p)/8)
	for _, b := range p {
		if b == '\n' && !cw.prevCR {
			out = append(out, '\r')
		}
		out = append(out, b)
		cw.prevCR = b == '\r'
	}
	if _, err := cw.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// firstLine returns the first line of body without its terminator.
// pathname entries may carry trailing lines after the path itself.
func firstLine(body []byte) string {
	line, _, _ := bytes.Cut(body, []byte("\n"))
	return string(bytes.TrimRight(line, "\r"))
}
