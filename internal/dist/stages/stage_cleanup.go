package stages

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/fileset"
	"github.com/newport-ds/ndsdist/internal/logfields"
)

// InternalDir holds build-only material that never ships.
const InternalDir = "__internal"

// removeStage returns a step that prunes target (slash separated, relative
// to the output root; globs allowed). Absent targets are fine.
func removeStage(name models.StageName, target func(bs *models.BuildState) string) models.Stage {
	return func(ctx context.Context, bs *models.BuildState) error {
		rel := target(bs)
		n, err := fileset.Remove(ctx, bs.Context.Roots.Output, rel)
		if err != nil {
			return fsFailure(err, "remove staged files", bs.Context.OutputPath(rel))
		}
		bs.CountFiles(name, n)
		slog.Debug("Pruned", logfields.Stage(string(name)), logfields.Path(rel), logfields.Count(n))
		return nil
	}
}

func fixed(rel string) func(*models.BuildState) string {
	return func(*models.BuildState) string { return rel }
}

// Cleanup steps in pipeline order.
var (
	StageRemoveReadmeTemplate = removeStage(models.StageRemoveReadmeTemplate, func(bs *models.BuildState) string {
		return filepath.Base(bs.Config.Project.ReadmeTemplate)
	})
	StageRemoveSwatches     = removeStage(models.StageRemoveSwatches, fixed("swatches"))
	StageRemoveDesignTokens = removeStage(models.StageRemoveDesignTokens, fixed("design-tokens"))
	StageRemoveUI           = removeStage(models.StageRemoveUI, fixed("ui"))
	StageRemoveSCSS         = removeStage(models.StageRemoveSCSS, fixed("scss"))
	StageRemoveInternal     = removeStage(models.StageRemoveInternal, fixed(InternalDir))
	StageRemovePNGIcons     = removeStage(models.StageRemovePNGIcons, fixed("assets/icons/**/*.png"))
)
