package stages

import (
	"context"
	"log/slog"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/fileset"
	"github.com/newport-ds/ndsdist/internal/logfields"
)

// StageCleanOutput removes the output root and recreates it empty.
func StageCleanOutput(ctx context.Context, bs *models.BuildState) error {
	out := bs.Context.Roots.Output
	if err := fileset.Recreate(ctx, out); err != nil {
		return fsFailure(err, "clean output root", out)
	}
	slog.Debug("Output root cleaned", logfields.Path(out))
	return nil
}
