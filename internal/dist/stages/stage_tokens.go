package stages

import (
	"context"
	"log/slog"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/logfields"
	"github.com/newport-ds/ndsdist/internal/tokens"
)

// StageValidateTokens parses every staged design-token and component-token
// file. Nothing later in the pipeline reads them, so a file that does not
// parse is reported as a warning and the build goes on.
func StageValidateTokens(ctx context.Context, bs *models.BuildState) error {
	total := 0
	for _, dir := range []string{bs.Context.OutputPath("design-tokens"), bs.Context.OutputPath("ui")} {
		res, err := tokens.ValidateTree(ctx, dir)
		if err != nil {
			return fsFailure(err, "read design tokens", dir)
		}
		for _, inv := range res.Invalid {
			slog.Warn("Design token file does not parse", logfields.Stage(string(models.StageValidateTokens)), logfields.Path(inv.Path), logfields.Error(inv.Err))
			bs.Report.AddWarning(models.IssueTokensInvalid, models.StageValidateTokens, inv.Error())
		}
		total += res.Checked
	}
	bs.CountFiles(models.StageValidateTokens, total)
	return nil
}
