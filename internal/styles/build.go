package styles

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/newport-ds/ndsdist/internal/fileset"
	"github.com/newport-ds/ndsdist/internal/logfields"
)

// BuildSpec describes one stylesheet build.
type BuildSpec struct {
	// Entries are absolute paths of the Sass files to compile, in order.
	Entries      []string
	IncludePaths []string
	OutDir       string
	Compiler     Compiler
	Prefixer     *Prefixer
	Rename       RenameTable
}

// EntryError reports the entry that failed to compile or prefix.
type EntryError struct {
	Entry string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Entry, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Build compiles, prefixes and renames every entry into OutDir and returns
// the written file names. The first failing entry stops the build.
func Build(ctx context.Context, spec BuildSpec) ([]string, error) {
	if spec.Compiler == nil {
		return nil, fmt.Errorf("styles: no compiler configured")
	}
	written := make([]string, 0, len(spec.Entries))
	for _, entry := range spec.Entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		css, err := spec.Compiler.Compile(ctx, entry, spec.IncludePaths)
		if err != nil {
			slog.Error("Sass compile failed", logfields.Path(entry), logfields.Error(err))
			return written, &EntryError{Entry: entry, Err: err}
		}
		if spec.Prefixer != nil {
			if css, err = spec.Prefixer.Prefix(css, entry); err != nil {
				slog.Error("Vendor prefixing failed", logfields.Path(entry), logfields.Error(err))
				return written, &EntryError{Entry: entry, Err: err}
			}
		}
		name := spec.Rename.OutputName(entry)
		dest := filepath.Join(spec.OutDir, name)
		if err := fileset.WriteFileAtomic(dest, []byte(css), 0o644); err != nil {
			return written, err
		}
		slog.Debug("Compiled stylesheet", logfields.Path(entry), logfields.Dest(dest))
		written = append(written, name)
	}
	return written, nil
}
