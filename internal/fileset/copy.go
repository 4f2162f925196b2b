package fileset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopySpec selects files under Base and mirrors them beneath Dest.
type CopySpec struct {
	Base     string
	Patterns []string
	Dest     string
	// Optional suppresses the not-found error for literal patterns.
	Optional bool
}

// MissingSourceError reports a literal source path that does not exist.
type MissingSourceError struct {
	Path string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("source %s does not exist", e.Path)
}

// Copy writes every file selected by spec to Dest, preserving its path
// relative to Base. Existing destination files are overwritten. Glob patterns
// that select nothing are not an error; a literal pattern naming a missing
// file is, unless the CopySpec is Optional. It returns the number of files copied.
func Copy(ctx context.Context, spec CopySpec) (int, error) {
	if !spec.Optional {
		for _, p := range spec.Patterns {
			if !IsLiteral(p) {
				continue
			}
			src := filepath.Join(spec.Base, filepath.FromSlash(strings.TrimPrefix(p, "./")))
			if _, err := os.Stat(src); err != nil {
				if os.IsNotExist(err) {
					return 0, &MissingSourceError{Path: src}
				}
				return 0, err
			}
		}
	}

	files, err := Match(spec.Base, spec.Patterns)
	if err != nil {
		return 0, err
	}

	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		src := filepath.Join(spec.Base, filepath.FromSlash(rel))
		dst := filepath.Join(spec.Dest, filepath.FromSlash(rel))
		if err := CopyFile(src, dst); err != nil {
			return i, err
		}
	}
	return len(files), nil
}

// CopyFile copies a single file, creating parent directories and keeping the
// source permission bits.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return out.Close()
}
