package archive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func distTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"package.json":                  `{"name":"@vlocity/newport-design-system"}`,
		"README.md":                     "# Vlocity Newport Design System \n",
		"assets/styles/nds.css":         "/*! v */\n.a{}",
		"assets/fonts/webfonts/a.woff2": "woff2",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestPackRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionZstd, CompressionLZ4} {
		t.Run(string(c), func(t *testing.T) {
			root := distTree(t)
			dest := filepath.Join(t.TempDir(), "nds"+c.Extension())

			n, err := Pack(context.Background(), root, dest, Options{Compression: c, Prefix: "package"})
			require.NoError(t, err)
			assert.Equal(t, 4, n)

			contents := map[string]string{}
			err = Walk(dest, c, func(hdr *tar.Header, r io.Reader) error {
				data, err := io.ReadAll(r)
				if err != nil {
					return err
				}
				contents[hdr.Name] = string(data)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, "/*! v */\n.a{}", contents["package/assets/styles/nds.css"])
			assert.Len(t, contents, 4)

			names, err := List(dest, c)
			require.NoError(t, err)
			assert.Equal(t, []string{
				"package/README.md",
				"package/assets/fonts/webfonts/a.woff2",
				"package/assets/styles/nds.css",
				"package/package.json",
			}, names)
		})
	}
}

func TestPack_Reproducible(t *testing.T) {
	root := distTree(t)
	stamp := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	a := filepath.Join(t.TempDir(), "a.tar.zst")
	b := filepath.Join(t.TempDir(), "b.tar.zst")

	_, err := Pack(context.Background(), root, a, Options{ModTime: stamp})
	require.NoError(t, err)
	_, err = Pack(context.Background(), root, b, Options{ModTime: stamp})
	require.NoError(t, err)

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestPack_CanceledRemovesPartialArchive(t *testing.T) {
	root := distTree(t)
	dest := filepath.Join(t.TempDir(), "out.tar.zst")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Pack(ctx, root, dest, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, dest)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)

	c, err = ParseCompression("LZ4")
	require.NoError(t, err)
	assert.Equal(t, CompressionLZ4, c)
	assert.Equal(t, ".tar.lz4", c.Extension())

	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}
