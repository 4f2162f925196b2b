package fileset

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Remove recursively deletes rel under base. rel is slash separated and may
// be a doublestar glob; base is always taken literally, whatever characters
// it contains. Targets that do not exist, and globs that match nothing, are a
// successful no-op. It returns the number of paths removed.
func Remove(ctx context.Context, base, rel string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." || rel == ".." || path.IsAbs(rel) || strings.HasPrefix(rel, "../") {
		return 0, fmt.Errorf("remove %q: pattern must stay inside %s", rel, base)
	}
	if IsLiteral(rel) {
		target := filepath.Join(base, filepath.FromSlash(rel))
		if _, err := os.Lstat(target); err != nil {
			if os.IsNotExist(err) {
				return 0, nil
			}
			return 0, err
		}
		if err := os.RemoveAll(target); err != nil {
			return 0, err
		}
		return 1, nil
	}

	if _, err := os.Stat(base); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	matches, err := doublestar.Glob(os.DirFS(base), rel, doublestar.WithFailOnIOErrors())
	if err != nil {
		return 0, fmt.Errorf("glob %q under %s: %w", rel, base, err)
	}
	// Deepest first so a matched directory never hides a later match beneath it.
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	removed := 0
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := os.RemoveAll(filepath.Join(base, filepath.FromSlash(m))); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Recreate removes dir entirely and creates it again, empty.
func Recreate(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
