package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/newport-ds/ndsdist/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags. Running ndsdist without a command builds.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"dist.yaml" env:"NDSDIST_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Build the distributable package into the output root"`
	Watch WatchCmd `cmd:"" help:"Rebuild whenever a source tree changes"`
	Pack  PackCmd  `cmd:"" help:"Pack the output root into a compressed tarball"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// ProjectFlags are shared by commands that act on a project checkout.
type ProjectFlags struct {
	Root   string `short:"r" help:"Project root (overrides paths.root)" type:"path"`
	Output string `short:"o" help:"Output root (overrides paths.output)"`
}

func (p ProjectFlags) apply(cfg *config.Config) {
	if p.Root != "" {
		cfg.Paths.Root = p.Root
	}
	if p.Output != "" {
		cfg.Paths.Output = p.Output
	}
}

// ConfigPath resolves a relative config path against --root when that flag
// is given, so "-r ../nds" picks up ../nds/dist.yaml.
func (p ProjectFlags) ConfigPath(path string) string {
	if p.Root == "" || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// loadConfig reads the configuration and switches the default logger to the
// configured level and format.
func loadConfig(root *CLI, flags ProjectFlags) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flags.ConfigPath(root.Config))
	if err != nil {
		return nil, nil, err
	}
	flags.apply(cfg)
	logger := cfg.Log.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
