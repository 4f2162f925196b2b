// Package archive packs a finished output root into a single compressed
// tarball for upload, and reads such tarballs back.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/newport-ds/ndsdist/internal/fileset"
)

// Compression selects the stream codec around the tar.
type Compression string

const (
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// ParseCompression accepts "zstd" (default for "") or "lz4".
func ParseCompression(name string) (Compression, error) {
	switch Compression(strings.ToLower(strings.TrimSpace(name))) {
	case "", CompressionZstd:
		return CompressionZstd, nil
	case CompressionLZ4:
		return CompressionLZ4, nil
	default:
		return "", fmt.Errorf("unknown compression %q", name)
	}
}

// Extension returns the conventional file suffix.
func (c Compression) Extension() string {
	if c == CompressionLZ4 {
		return ".tar.lz4"
	}
	return ".tar.zst"
}

// Options controls Pack.
type Options struct {
	Compression Compression
	// Prefix is prepended to every entry name, e.g. "package/".
	Prefix string
	// ModTime, when set, replaces file times so identical trees produce
	// identical archives.
	ModTime time.Time
}

// Pack writes every file under root to dest. Entries are sorted by path.
// It returns the number of files written.
func Pack(ctx context.Context, root, dest string, opts Options) (int, error) {
	files, err := fileset.Match(root, []string{"**/*"})
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	n, err := write(ctx, out, root, files, opts)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, err
	}
	return n, nil
}

func write(ctx context.Context, w io.Writer, root string, files []string, opts Options) (int, error) {
	cw, err := compressor(w, opts.Compression)
	if err != nil {
		return 0, err
	}
	tw := tar.NewWriter(cw)
	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			_ = cw.Close()
			return i, err
		}
		if err := addFile(tw, root, rel, opts); err != nil {
			_ = cw.Close()
			return i, err
		}
	}
	if err := tw.Close(); err != nil {
		return len(files), err
	}
	if err := cw.Close(); err != nil {
		return len(files), err
	}
	return len(files), nil
}

func addFile(tw *tar.Writer, root, rel string, opts Options) error {
	src := filepath.Join(root, filepath.FromSlash(rel))
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = path.Join(opts.Prefix, rel)
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""
	if !opts.ModTime.IsZero() {
		hdr.ModTime = opts.ModTime
		hdr.AccessTime = time.Time{}
		hdr.ChangeTime = time.Time{}
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archive %s: %w", rel, err)
	}
	return nil
}

func compressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case "", CompressionZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

func decompressor(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case "", CompressionZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown compression %q", c)
	}
}

// Walk calls fn for every regular file entry of the archive at src.
func Walk(src string, c Compression, fn func(hdr *tar.Header, r io.Reader) error) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	r, closeFn, err := decompressor(f, c)
	if err != nil {
		return err
	}
	defer closeFn()

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

// List returns the entry names of the archive at src.
func List(src string, c Compression) ([]string, error) {
	var names []string
	err := Walk(src, c, func(hdr *tar.Header, _ io.Reader) error {
		names = append(names, hdr.Name)
		return nil
	})
	return names, err
}
