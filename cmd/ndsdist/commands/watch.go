package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/newport-ds/ndsdist/internal/config"
	"github.com/newport-ds/ndsdist/internal/dist"
	"github.com/newport-ds/ndsdist/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	ProjectFlags `embed:""`

	Debounce time.Duration `help:"Quiet period after the last change before rebuilding" default:"300ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, logger, err := loadConfig(root, w.ProjectFlags)
	if err != nil {
		return err
	}
	wcfg, err := WatchConfig(cfg, w.Debounce)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	b := dist.NewBuilder(cfg, dist.WithLogger(logger))
	build := func(ctx context.Context) error {
		_, err := RunBuild(ctx, os.Stdout, b)
		return err
	}
	if err := build(ctx); err != nil {
		slog.Warn("Initial build failed; waiting for changes", "error", err)
	}

	watcher, err := watch.New(wcfg, build)
	if err != nil {
		return err
	}
	slog.Info("Watching for changes", "roots", wcfg.Roots)
	return watcher.Run(ctx)
}

// WatchConfig derives the watched trees from the configured roots. The output
// and dependency roots never trigger a rebuild, nor do the files a build
// writes beside the sources.
func WatchConfig(cfg *config.Config, debounce time.Duration) (watch.Config, error) {
	r, err := cfg.Roots()
	if err != nil {
		return watch.Config{}, err
	}
	wc := watch.Config{
		Roots:    []string{r.Project, r.UI, r.Assets, r.DesignTokens},
		Exclude:  []string{r.Output, r.Dependencies},
		Debounce: debounce,
	}
	for _, f := range []string{cfg.Build.ReportFile, cfg.Build.MetricsFile} {
		if f != "" {
			wc.Ignore = append(wc.Ignore, filepath.Base(f)+"*")
		}
	}
	return wc, nil
}
