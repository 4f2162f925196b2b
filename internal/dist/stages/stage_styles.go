package stages

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/logfields"
	"github.com/newport-ds/ndsdist/internal/styles"
)

// stylesDir is where compiled and minified stylesheets land, relative to the output root.
const stylesDir = "assets/styles"

// StageCompileStyles compiles the configured Sass entries from the staged
// scss tree into assets/styles.
func StageCompileStyles(ctx context.Context, bs *models.BuildState) error {
	cfg := bs.Config.Styles
	entries := make([]string, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		entries = append(entries, bs.Context.OutputPath("scss", e))
	}
	outDir := bs.Context.OutputPath(stylesDir)
	written, err := styles.Build(ctx, styles.BuildSpec{
		Entries:      entries,
		IncludePaths: []string{bs.Context.Roots.Dependencies},
		OutDir:       outDir,
		Compiler:     bs.Tools.Compiler,
		Prefixer:     bs.Tools.Prefixer,
		Rename:       styles.DefaultRenameTable(cfg.Fragment, bs.Context.ModuleName, cfg.Passthrough),
	})
	if err != nil {
		path := outDir
		var entryErr *styles.EntryError
		if errors.As(err, &entryErr) {
			path = entryErr.Entry
		}
		return transformFailure(err, "compile stylesheets", path)
	}
	bs.Outputs.Stylesheets = written
	bs.CountFiles(models.StageCompileStyles, len(written))
	slog.Info("Compiled stylesheets", logfields.Dest(outDir), logfields.Count(len(written)))
	return nil
}

// StageMinifyStyles writes a .min.css sibling for every compiled stylesheet.
func StageMinifyStyles(ctx context.Context, bs *models.BuildState) error {
	dir := bs.Context.OutputPath(stylesDir)
	m := bs.Tools.Minifier
	if m == nil {
		m = styles.NewMinifier()
	}
	written, err := styles.MinifyDir(ctx, dir, m)
	if err != nil {
		return transformFailure(err, "minify stylesheets", dir)
	}
	bs.Outputs.Minified = written
	bs.CountFiles(models.StageMinifyStyles, len(written))
	for _, name := range written {
		slog.Debug("Minified stylesheet", logfields.Path(filepath.Join(dir, name)))
	}
	return nil
}
