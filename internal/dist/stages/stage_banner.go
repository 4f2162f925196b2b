package stages

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/fileset"
)

var (
	cssBannerPatterns  = []string{"**/*.css", "scss/index*"}
	scssBannerPatterns = []string{"scss/**/*.scss", "!scss/index*.scss", "!scss/vendor/**/*.*"}
)

// StageBannerCSS prepends the block banner to every stylesheet and Sass entry file.
func StageBannerCSS(ctx context.Context, bs *models.BuildState) error {
	out := bs.Context.OutputPath()
	n, err := fileset.PrependAll(ctx, out, cssBannerPatterns, bs.Context.CSSBanner())
	if err != nil {
		return fsFailure(err, "prepend css banner", out)
	}
	bs.CountFiles(models.StageBannerCSS, n)
	return nil
}

// StageBannerSCSS prepends the line banner to the Sass partials, leaving entry
// files and vendored sources alone.
func StageBannerSCSS(ctx context.Context, bs *models.BuildState) error {
	out := bs.Context.OutputPath()
	n, err := fileset.PrependAll(ctx, out, scssBannerPatterns, bs.Context.SourceBanner())
	if err != nil {
		return fsFailure(err, "prepend scss banner", out)
	}
	bs.CountFiles(models.StageBannerSCSS, n)
	return nil
}

// StageVerifyBanners checks that every published stylesheet, minified or
// not, starts with the block banner exactly once.
func StageVerifyBanners(ctx context.Context, bs *models.BuildState) error {
	dir := bs.Context.OutputPath(stylesDir)
	files, err := fileset.Match(dir, []string{"*.css"})
	if err != nil {
		return fsFailure(err, "list stylesheets", dir)
	}
	banner := []byte(bs.Context.CSSBanner())
	var missing []string
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return fsFailure(err, "read stylesheet", path)
		}
		if !bytes.HasPrefix(data, banner) || bytes.HasPrefix(data[len(banner):], banner) {
			missing = append(missing, rel)
		}
	}
	if len(missing) > 0 {
		err := fmt.Errorf("%w: %s", ErrBannerMissing, strings.Join(missing, ", "))
		return validationFailure(err, "stylesheet banner check failed", dir)
	}
	bs.CountFiles(models.StageVerifyBanners, len(files))
	return nil
}
