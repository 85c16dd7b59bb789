// Package fileselect matches files under a project root against
// include/exclude glob patterns.
package fileselect

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

// Select walks the tree under root and returns the absolute paths of
// files whose slash-form relative path matches any include pattern and no
// exclude pattern. Directories are never returned. Patterns support `**`
// (crosses separators), `*` (within a segment), and `?` (single rune).
// An empty include list selects nothing.
func Select(root string, includes, excludes []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	inc, err := compilePatterns(includes)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns(excludes)
	if err != nil {
		return nil, err
	}

	var out []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if matchAny(inc, rel) && !matchAny(exc, rel) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", absRoot, err)
	}
	return out, nil
}

func matchAny(patterns []*regexp.Regexp, rel string) bool {
	for _, p := range patterns {
		if p.MatchString(rel) {
			return true
		}
	}
	return false
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(globToRegex(filepath.ToSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// globToRegex converts a glob to an anchored regular expression.
// Everything except the glob operators is escaped, then translated:
// ** -> .*, * -> [^/]* (segment), ? -> .
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")

	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '*' {
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
				continue
			}
			b.WriteString("[^/]*")
			continue
		}
		if ch == '?' {
			b.WriteString(".")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(ch)))
	}

	b.WriteString("$")
	return b.String()
}
