package stages

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/fileset"
	"github.com/newport-ds/ndsdist/internal/logfields"
)

// CopySpecFunc derives a copy from the build state.
type CopySpecFunc func(bs *models.BuildState) fileset.CopySpec

// copyStage returns a step that performs the copy described by specFn.
func copyStage(name models.StageName, specFn CopySpecFunc) models.Stage {
	return func(ctx context.Context, bs *models.BuildState) error {
		spec := specFn(bs)
		n, err := fileset.Copy(ctx, spec)
		if err != nil {
			return fsFailure(err, "copy files", spec.Base)
		}
		bs.CountFiles(name, n)
		slog.Debug("Copied files", logfields.Stage(string(name)), logfields.Path(spec.Base), logfields.Dest(spec.Dest), logfields.Count(n))
		return nil
	}
}

func iconPackage(bs *models.BuildState) string {
	return filepath.Join(bs.Context.Roots.Dependencies, filepath.FromSlash(bs.Config.Paths.IconPackage))
}

func licenses(bs *models.BuildState) string {
	return filepath.Join(bs.Context.Roots.Assets, "licenses")
}

// Copy steps in pipeline order.
var (
	StageCopyRootFiles = copyStage(models.StageCopyRootFiles, func(bs *models.BuildState) fileset.CopySpec {
		p := bs.Config.Project
		return fileset.CopySpec{
			Base:     bs.Context.Roots.Project,
			Patterns: []string{p.Manifest, p.ReadmeTemplate, p.ReleaseNotes},
			Dest:     bs.Context.OutputPath(),
		}
	})

	StageCopySCSS = copyStage(models.StageCopySCSS, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     bs.Context.Roots.UI,
			Patterns: []string{"**/*.scss"},
			Dest:     bs.Context.OutputPath("scss"),
		}
	})

	StageCopySassLicense = copyStage(models.StageCopySassLicense, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     licenses(bs),
			Patterns: []string{"License-for-Sass.txt"},
			Dest:     bs.Context.OutputPath("scss"),
		}
	})

	StageCopyIcons = copyStage(models.StageCopyIcons, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     filepath.Join(iconPackage(bs), filepath.FromSlash(bs.Config.Paths.IconSet)),
			Patterns: []string{"**"},
			Dest:     bs.Context.OutputPath("assets", "icons"),
		}
	})

	StageCopyIconList = copyStage(models.StageCopyIconList, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     iconPackage(bs),
			Patterns: []string{bs.Config.Paths.IconList},
			Dest:     bs.Context.OutputPath(),
		}
	})

	StageCopyFonts = copyStage(models.StageCopyFonts, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     filepath.Join(bs.Context.Roots.Assets, "fonts"),
			Patterns: []string{"**/*", "!**/*.ttf"},
			Dest:     bs.Context.OutputPath("assets", "fonts"),
		}
	})

	StageCopyFontLicense = copyStage(models.StageCopyFontLicense, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     licenses(bs),
			Patterns: []string{"License-for-font.txt"},
			Dest:     bs.Context.OutputPath("assets", "fonts"),
		}
	})

	StageCopyImages = copyStage(models.StageCopyImages, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     filepath.Join(bs.Context.Roots.Assets, "images"),
			Patterns: []string{"**/*", "!themes/**/*"},
			Dest:     bs.Context.OutputPath("assets", "images"),
		}
	})

	StageCopyImagesLicense = copyStage(models.StageCopyImagesLicense, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     licenses(bs),
			Patterns: []string{"License-for-images.txt"},
			Dest:     bs.Context.OutputPath("assets", "images"),
		}
	})

	StageCopySwatches = copyStage(models.StageCopySwatches, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     filepath.Join(bs.Context.Roots.Assets, "downloads", "swatches"),
			Patterns: []string{"**"},
			Dest:     bs.Context.OutputPath("swatches"),
		}
	})

	StageCopyDesignTokens = copyStage(models.StageCopyDesignTokens, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     bs.Context.Roots.DesignTokens,
			Patterns: []string{"**/*.*"},
			Dest:     bs.Context.OutputPath("design-tokens"),
		}
	})

	StageCopyComponentTokens = copyStage(models.StageCopyComponentTokens, func(bs *models.BuildState) fileset.CopySpec {
		return fileset.CopySpec{
			Base:     bs.Context.Roots.UI,
			Patterns: []string{"components/**/tokens/**/*.yml"},
			Dest:     bs.Context.OutputPath("ui"),
		}
	})
)
