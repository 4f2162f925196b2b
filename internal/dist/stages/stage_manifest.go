package stages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/manifest"
)

// StageCleanManifest rewrites the staged manifest into its published form.
func StageCleanManifest(_ context.Context, bs *models.BuildState) error {
	path := bs.Context.OutputPath(filepath.Base(bs.Config.Project.Manifest))
	edit := manifest.Publishable(bs.Context.PublicName, bs.Context.InternalMarker)
	if err := manifest.Edit(path, edit); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fsFailure(err, "staged manifest missing", path)
		}
		return serializationFailure(fmt.Errorf("%w: %w", ErrManifest, err), "rewrite manifest", path)
	}
	bs.CountFiles(models.StageCleanManifest, 1)
	return nil
}
