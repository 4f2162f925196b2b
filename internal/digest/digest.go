// Package digest computes BLAKE3 checksums of the published artifacts so a
// build report identifies exactly what was produced.
package digest

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/newport-ds/ndsdist/internal/fileset"
)

// Checksum is the hex-encoded 32-byte BLAKE3 digest of one file.
type Checksum struct {
	Path string `json:"path"` // slash-separated, relative to the tree root
	Sum  string `json:"blake3"`
	Size int64  `json:"size"`
}

// File hashes a single file.
func File(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Bytes hashes data in memory.
func Bytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Tree hashes every file under root selected by patterns, in path order.
func Tree(ctx context.Context, root string, patterns []string) ([]Checksum, error) {
	files, err := fileset.Match(root, patterns)
	if err != nil {
		return nil, err
	}
	out := make([]Checksum, 0, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum, size, err := File(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		out = append(out, Checksum{Path: rel, Sum: sum, Size: size})
	}
	return out, nil
}
