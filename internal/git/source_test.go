package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, string) {
	t.Helper()
	repoPath := filepath.Join(t.TempDir(), "nds")
	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "package.json"), []byte(`{"version":"1.0.0"}`), 0o600))
	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("package.json")
	require.NoError(t, err)
	commit, err := w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com"},
	})
	require.NoError(t, err)
	return repoPath, commit.String()
}

func TestReadSource_FromSubdirectory(t *testing.T) {
	repoPath, commit := initRepo(t)
	sub := filepath.Join(repoPath, "ui", "components")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	info, err := ReadSource(sub, false)
	require.NoError(t, err)
	assert.Equal(t, commit, info.Commit)
	assert.Equal(t, commit[:7], info.ShortCommit())
	assert.NotEmpty(t, info.Branch)
	assert.False(t, info.Dirty)
}

func TestReadSource_Dirty(t *testing.T) {
	repoPath, _ := initRepo(t)

	info, err := ReadSource(repoPath, true)
	require.NoError(t, err)
	assert.False(t, info.Dirty)

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "package.json"), []byte(`{"version":"1.0.1"}`), 0o600))
	info, err = ReadSource(repoPath, true)
	require.NoError(t, err)
	assert.True(t, info.Dirty)
}

func TestReadSource_NotRepository(t *testing.T) {
	_, err := ReadSource(t.TempDir(), false)
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestReadSource_EmptyRepository(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "empty")
	_, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	info, err := ReadSource(repoPath, false)
	require.NoError(t, err)
	assert.Empty(t, info.Commit)
}
