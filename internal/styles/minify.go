package styles

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"

	"github.com/newport-ds/ndsdist/internal/fileset"
)

const (
	cssMediaType = "text/css"
	minSuffix    = ".min.css"
)

// Minifier strips whitespace and comments from CSS. Numbers keep their full
// precision.
type Minifier struct {
	m *minify.M
}

// NewMinifier returns a CSS minifier with rounding disabled.
func NewMinifier() *Minifier {
	m := minify.New()
	m.Add(cssMediaType, &css.Minifier{Precision: 0})
	return &Minifier{m: m}
}

// Minify returns the minified form of src.
func (m *Minifier) Minify(src []byte) ([]byte, error) {
	return m.m.Bytes(cssMediaType, src)
}

// MinName returns the minified sibling name: a.rtl.css becomes a.rtl.min.css.
func MinName(name string) string {
	return strings.TrimSuffix(name, ".css") + minSuffix
}

// MinifyDir writes a .min.css sibling for every stylesheet directly inside
// dir. Existing .min.css files are not minified again; the originals are left
// as they are. It returns the names of the files written.
func MinifyDir(ctx context.Context, dir string, m *Minifier) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".css") || strings.HasSuffix(name, minSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		src := filepath.Join(dir, name)
		data, err := os.ReadFile(src)
		if err != nil {
			return written, err
		}
		out, err := m.Minify(data)
		if err != nil {
			return written, err
		}
		target := MinName(name)
		if err := fileset.WriteFileAtomic(filepath.Join(dir, target), out, 0o644); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}
