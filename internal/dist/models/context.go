package models

import (
	"fmt"
	"path/filepath"

	"github.com/newport-ds/ndsdist/internal/config"
)

// BuildContext is the read-only input every step shares. It is resolved once
// before the first step runs.
type BuildContext struct {
	Roots          config.Roots
	DisplayName    string
	ModuleName     string
	PublicName     string
	InternalMarker string
	Version        string
	BuildID        string
}

// OutputPath joins parts (slash or OS separated) under the output root.
func (c BuildContext) OutputPath(parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, c.Roots.Output)
	for _, p := range parts {
		elems = append(elems, filepath.FromSlash(p))
	}
	return filepath.Join(elems...)
}

// CSSBanner is prepended to compiled stylesheets and Sass entry files.
func (c BuildContext) CSSBanner() string {
	return fmt.Sprintf("/*! %s %s */\n", c.DisplayName, c.Version)
}

// SourceBanner is prepended to the remaining Sass sources.
func (c BuildContext) SourceBanner() string {
	return fmt.Sprintf("// %s %s\n", c.DisplayName, c.Version)
}

// ReadmeHeader is prepended to the published README.
func (c BuildContext) ReadmeHeader() string {
	return fmt.Sprintf("# %s \n# Version: %s \n", c.DisplayName, c.Version)
}
