package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, cfg Config) (*atomic.Int32, chan struct{}) {
	t.Helper()
	var builds atomic.Int32
	done := make(chan struct{}, 16)
	w, err := New(cfg, func(context.Context) error {
		builds.Add(1)
		done <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return &builds, done
}

func TestWatcher_BurstTriggersSingleRebuild(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ui", "components"), 0o755))
	builds, done := startWatcher(t, Config{Roots: []string{root}, Debounce: 50 * time.Millisecond})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "ui", "components", "_button.scss"), []byte{byte('a' + i)}, 0o644))
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a rebuild")
	}
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), builds.Load())
}

func TestWatcher_IgnoresExcludedAndScratchFiles(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(out, 0o755))
	builds, _ := startWatcher(t, Config{Roots: []string{root}, Exclude: []string{out}, Debounce: 30 * time.Millisecond})

	require.NoError(t, os.WriteFile(filepath.Join(out, "nds.css"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".package.json.swp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README-dist.md~"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), builds.Load())
}

func TestWatcher_IgnoresBuildArtifacts(t *testing.T) {
	root := t.TempDir()
	builds, _ := startWatcher(t, Config{
		Roots:    []string{root},
		Ignore:   []string{"dist-report.json*", "ndsdist.prom*"},
		Debounce: 30 * time.Millisecond,
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "dist-report.json.tmp"), []byte("{}"), 0o644))
	require.NoError(t, os.Rename(filepath.Join(root, "dist-report.json.tmp"), filepath.Join(root, "dist-report.json")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ndsdist.prom123456"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), builds.Load())
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	root := t.TempDir()
	_, done := startWatcher(t, Config{Roots: []string{root}, Debounce: 30 * time.Millisecond})

	nested := filepath.Join(root, "assets", "fonts")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a rebuild for the new directory")
	}

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(nested, "a.woff2"), []byte("x"), 0o644))
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a rebuild for a file in the new directory")
	}
}

func TestNew_RequiresBuild(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/p/.DS_Store"))
	assert.True(t, shouldIgnoreEvent("/p/#index.scss#"))
	assert.True(t, shouldIgnoreEvent("/p/index.scss.swp"))
	assert.False(t, shouldIgnoreEvent("/p/index.scss"))
}
