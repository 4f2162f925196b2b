package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/newport-ds/ndsdist/internal/archive"
	"github.com/newport-ds/ndsdist/internal/config"
	"github.com/newport-ds/ndsdist/internal/digest"
	ferrors "github.com/newport-ds/ndsdist/internal/foundation/errors"
	"github.com/newport-ds/ndsdist/internal/manifest"
)

// PackCmd implements the 'pack' command.
type PackCmd struct {
	ProjectFlags `embed:""`

	Compression string `help:"Tarball compression" enum:"zstd,lz4" default:"zstd"`
	Out         string `help:"Tarball path (default <module>-<version> in the project root)"`
	Prefix      string `help:"Directory prefix for every entry" default:"package/"`
}

func (p *PackCmd) Run(_ *Global, root *CLI) error {
	cfg, _, err := loadConfig(root, p.ProjectFlags)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return RunPack(ctx, os.Stdout, cfg, p.Compression, p.Out, p.Prefix)
}

// RunPack archives an already built output root. The version comes from the
// published manifest so the name matches what was built.
func RunPack(ctx context.Context, w io.Writer, cfg *config.Config, compression, out, prefix string) error {
	c, err := archive.ParseCompression(compression)
	if err != nil {
		return ferrors.ValidationError(err.Error()).Build()
	}
	r, err := cfg.Roots()
	if err != nil {
		return err
	}
	published := filepath.Join(r.Output, filepath.Base(cfg.Project.Manifest))
	ver, err := manifest.ReadVersion(published)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotFound, "output root holds no built package; run build first").
			WithContext("path", published).Build()
	}
	if out == "" {
		out = filepath.Join(r.Project, cfg.Project.ModuleName+"-"+ver+c.Extension())
	}

	n, err := archive.Pack(ctx, r.Output, out, archive.Options{
		Compression: c,
		Prefix:      prefix,
		ModTime:     sourceDateEpoch(),
	})
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "pack output root").
			WithContext("path", out).Build()
	}
	sum, size, err := digest.File(out)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "checksum tarball").
			WithContext("path", out).Build()
	}
	slog.Info("Packed output root", "path", out, "files", n, "bytes", size)
	_, _ = fmt.Fprintf(w, "%s  %s\n", sum, out)
	return nil
}

// sourceDateEpoch honours SOURCE_DATE_EPOCH for reproducible tarballs.
func sourceDateEpoch() time.Time {
	raw := os.Getenv("SOURCE_DATE_EPOCH")
	if raw == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("Ignoring invalid SOURCE_DATE_EPOCH", "value", raw)
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
