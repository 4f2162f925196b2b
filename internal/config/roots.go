package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/newport-ds/ndsdist/internal/foundation/errors"
)

// Roots is the immutable set of absolute named roots used by every step.
type Roots struct {
	Project      string
	Output       string
	UI           string
	Assets       string
	DesignTokens string
	Dependencies string
}

// Roots resolves the configured paths to absolute directories. The output
// root is wiped at the start of each run, so it may not hold any source root.
func (c *Config) Roots() (Roots, error) {
	project, err := filepath.Abs(c.Paths.Root)
	if err != nil {
		return Roots{}, errors.WrapError(err, errors.CategoryConfig, "resolve project root").Fatal().Build()
	}
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(project, p)
	}
	r := Roots{
		Project:      project,
		Output:       resolve(c.Paths.Output),
		UI:           resolve(c.Paths.UI),
		Assets:       resolve(c.Paths.Assets),
		DesignTokens: resolve(c.Paths.DesignTokens),
		Dependencies: resolve(c.Paths.Dependencies),
	}

	sources := map[string]string{
		"root":          r.Project,
		"ui":            r.UI,
		"assets":        r.Assets,
		"design_tokens": r.DesignTokens,
		"dependencies":  r.Dependencies,
	}
	for name, src := range sources {
		if within(src, r.Output) {
			return Roots{}, errors.ValidationError(fmt.Sprintf("output root %s would delete paths.%s (%s)", r.Output, name, src)).Build()
		}
	}
	return r, nil
}

// within reports whether path equals dir or lies beneath it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
