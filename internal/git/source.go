// Package git reads the state of the repository the distribution is built
// from, so build reports can name the exact source commit.
package git

import (
	stderrors "errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when no repository encloses the project root.
var ErrNotRepository = stderrors.New("not a git repository")

// SourceInfo describes the checked-out revision.
type SourceInfo struct {
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
	Dirty  bool   `json:"dirty"`
}

// ShortCommit returns the first seven characters of the commit hash.
func (s SourceInfo) ShortCommit() string {
	if len(s.Commit) > 7 {
		return s.Commit[:7]
	}
	return s.Commit
}

// ReadSource opens the repository enclosing dir and reports HEAD. Dirty is
// only computed when checkDirty is set since it walks the worktree.
func ReadSource(dir string, checkDirty bool) (SourceInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return SourceInfo{}, ErrNotRepository
		}
		return SourceInfo{}, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			// Fresh repository without commits.
			return SourceInfo{}, nil
		}
		return SourceInfo{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	info := SourceInfo{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	if checkDirty {
		wt, err := repo.Worktree()
		if err != nil {
			return info, fmt.Errorf("open worktree: %w", err)
		}
		status, err := wt.Status()
		if err != nil {
			return info, fmt.Errorf("worktree status: %w", err)
		}
		info.Dirty = !status.IsClean()
	}
	return info, nil
}
