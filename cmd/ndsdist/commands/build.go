package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/newport-ds/ndsdist/internal/dist"
	"github.com/newport-ds/ndsdist/internal/dist/models"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	ProjectFlags `embed:""`

	Report string `help:"Write the JSON build report to this file (overrides build.report_file)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, logger, err := loadConfig(root, b.ProjectFlags)
	if err != nil {
		return err
	}
	if b.Report != "" {
		cfg.Build.ReportFile = b.Report
	}

	ctx, cancel := signalContext()
	defer cancel()

	_, err = RunBuild(ctx, os.Stdout, dist.NewBuilder(cfg, dist.WithLogger(logger)))
	return err
}

// RunBuild runs one build and prints its summary line to w.
func RunBuild(ctx context.Context, w io.Writer, b *dist.Builder) (*models.BuildReport, error) {
	report, err := b.Build(ctx)
	if report != nil {
		_, _ = fmt.Fprintln(w, report.Summary())
	}
	return report, err
}
