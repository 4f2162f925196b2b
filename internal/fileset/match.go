package fileset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NegationPrefix marks a pattern that removes earlier matches from the result.
const NegationPrefix = "!"

// Match returns the regular files under base selected by patterns, as sorted
// slash-separated paths relative to base. Patterns apply in order: a positive
// pattern adds its matches, a "!" pattern removes matches collected so far.
//
// A base that does not exist yields zero matches. Any other I/O failure while
// walking is returned, so an unreadable tree is never mistaken for an empty one.
func Match(base string, patterns []string) ([]string, error) {
	info, err := os.Stat(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("match base %s is not a directory", base)
	}

	fsys := os.DirFS(base)
	selected := make(map[string]struct{})
	for _, raw := range patterns {
		pattern, negated := normalizePattern(raw)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q: %w", raw, doublestar.ErrBadPattern)
		}
		if negated {
			for rel := range selected {
				if ok, _ := doublestar.Match(pattern, rel); ok {
					delete(selected, rel)
				}
			}
			continue
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("glob %q under %s: %w", raw, base, err)
		}
		for _, rel := range matches {
			selected[rel] = struct{}{}
		}
	}

	out := make([]string, 0, len(selected))
	for rel := range selected {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

// IsLiteral reports whether pattern names a single path without glob syntax.
func IsLiteral(pattern string) bool {
	p, negated := normalizePattern(pattern)
	return !negated && p != "" && !strings.ContainsAny(p, "*?[{")
}

func normalizePattern(raw string) (pattern string, negated bool) {
	p := strings.TrimSpace(raw)
	if strings.HasPrefix(p, NegationPrefix) {
		negated = true
		p = strings.TrimPrefix(p, NegationPrefix)
	}
	p = strings.TrimPrefix(filepath.ToSlash(p), "./")
	return p, negated
}
