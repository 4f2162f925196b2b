package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/fileset"
	"github.com/newport-ds/ndsdist/internal/markdown"
)

// ReadmeName is the published README file name.
const ReadmeName = "README.md"

// StageReadme writes README.md from the staged template with the name and
// version header on top. The template stays in place until
// remove_readme_template runs.
func StageReadme(_ context.Context, bs *models.BuildState) error {
	src := bs.Context.OutputPath(filepath.Base(bs.Config.Project.ReadmeTemplate))
	dst := bs.Context.OutputPath(ReadmeName)
	body, err := os.ReadFile(src)
	if err != nil {
		return fsFailure(err, "read readme template", src)
	}
	out := append([]byte(bs.Context.ReadmeHeader()), body...)
	if err := fileset.WriteFileAtomic(dst, out, 0o644); err != nil {
		return fsFailure(err, "write readme", dst)
	}
	bs.CountFiles(models.StageReadme, 1)
	return nil
}

// StageVerifyReadme checks that the README opens with the display name heading.
func StageVerifyReadme(_ context.Context, bs *models.BuildState) error {
	path := bs.Context.OutputPath(ReadmeName)
	body, err := os.ReadFile(path)
	if err != nil {
		return fsFailure(err, "read readme", path)
	}
	h, ok := markdown.FirstHeading(body)
	if !ok {
		return validationFailure(fmt.Errorf("%w: no heading", ErrReadmeInvalid), "readme check failed", path)
	}
	if h.Level != 1 || !strings.Contains(h.Text, bs.Context.DisplayName) {
		err := fmt.Errorf("%w: first heading %q does not name %q", ErrReadmeInvalid, h.Text, bs.Context.DisplayName)
		return validationFailure(err, "readme check failed", path)
	}
	return nil
}
