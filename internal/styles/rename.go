package styles

import (
	"path/filepath"
	"strings"
)

// RenameRule replaces a leading Fragment of an output stem with Replacement.
type RenameRule struct {
	Fragment    string
	Replacement string
}

// RenameTable maps compiled entry names to published stylesheet names.
type RenameTable struct {
	Rules []RenameRule
	// Passthrough stems keep their name; only the extension changes.
	Passthrough []string
	ForceExt    string
}

// DefaultRenameTable renames the scoped entries to moduleName and lets the
// font stylesheet through.
func DefaultRenameTable(fragment, moduleName string, passthrough []string) RenameTable {
	return RenameTable{
		Rules:       []RenameRule{{Fragment: fragment, Replacement: moduleName}},
		Passthrough: passthrough,
		ForceExt:    ".css",
	}
}

// OutputName returns the published file name for entry, e.g.
// index-scoped.rtl.scss -> vlocity-newport-design-system.rtl.css.
func (t RenameTable) OutputName(entry string) string {
	base := filepath.Base(entry)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := t.ForceExt
	if ext == "" {
		ext = filepath.Ext(base)
	}

	for _, p := range t.Passthrough {
		if p != "" && strings.Contains(stem, p) {
			return stem + ext
		}
	}
	for _, r := range t.Rules {
		if strings.HasPrefix(stem, r.Fragment) {
			return r.Replacement + stem[len(r.Fragment):] + ext
		}
	}
	return stem + ext
}
