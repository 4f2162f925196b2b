package testing

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/newport-ds/ndsdist/internal/fileset"
)

// FileAssertions checks the state of a tree rooted at baseDir. Paths are
// slash separated and relative to baseDir.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{
		t:       t,
		baseDir: baseDir,
	}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// AssertFileExists validates that a regular file exists
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := fa.path(relativePath)
	if stat, err := os.Stat(fullPath); err != nil {
		fa.t.Errorf("Expected file to exist: %s", fullPath)
	} else if stat.IsDir() {
		fa.t.Errorf("Expected %s to be a file, but it's a directory", fullPath)
	}
	return fa
}

// AssertNotExists validates that nothing exists at the path
func (fa *FileAssertions) AssertNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := fa.path(relativePath)
	if _, err := os.Lstat(fullPath); err == nil {
		fa.t.Errorf("Expected path to not exist: %s", fullPath)
	}
	return fa
}

// AssertDirExists validates that a directory exists
func (fa *FileAssertions) AssertDirExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := fa.path(relativePath)
	if stat, err := os.Stat(fullPath); os.IsNotExist(err) {
		fa.t.Errorf("Expected directory to exist: %s", fullPath)
	} else if err == nil && !stat.IsDir() {
		fa.t.Errorf("Expected %s to be a directory, but it's a file", fullPath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content
func (fa *FileAssertions) AssertFileContains(relativePath, expectedContent string) *FileAssertions {
	fa.t.Helper()
	content, ok := fa.read(relativePath)
	if ok && !strings.Contains(content, expectedContent) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s",
			relativePath, expectedContent, content)
	}
	return fa
}

// AssertFileHasPrefix validates that a file starts with prefix exactly once.
func (fa *FileAssertions) AssertFileHasPrefix(relativePath, prefix string) *FileAssertions {
	fa.t.Helper()
	content, ok := fa.read(relativePath)
	if !ok {
		return fa
	}
	if !strings.HasPrefix(content, prefix) {
		fa.t.Errorf("Expected file %s to start with %q\nActual content:\n%s", relativePath, prefix, content)
	} else if strings.HasPrefix(content[len(prefix):], prefix) {
		fa.t.Errorf("File %s starts with %q more than once", relativePath, prefix)
	}
	return fa
}

// AssertNoMatches validates that no file under dir matches patterns.
func (fa *FileAssertions) AssertNoMatches(dir string, patterns ...string) *FileAssertions {
	fa.t.Helper()
	matches, err := fileset.Match(fa.path(dir), patterns)
	if err != nil {
		fa.t.Errorf("Failed to match %v under %s: %v", patterns, dir, err)
		return fa
	}
	if len(matches) > 0 {
		fa.t.Errorf("Expected no files matching %v under %s, found %v", patterns, dir, matches)
	}
	return fa
}

// AssertEntries validates the exact set of names directly inside dir.
func (fa *FileAssertions) AssertEntries(dir string, expected ...string) *FileAssertions {
	fa.t.Helper()
	got := fa.ListEntries(dir)
	want := append([]string(nil), expected...)
	sort.Strings(want)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		fa.t.Errorf("Unexpected entries in %s\nwant: %v\ngot:  %v", dir, want, got)
	}
	return fa
}

// AssertNotLarger validates that a is at most as large as b.
func (fa *FileAssertions) AssertNotLarger(a, b string) *FileAssertions {
	fa.t.Helper()
	sa, errA := os.Stat(fa.path(a))
	sb, errB := os.Stat(fa.path(b))
	if errA != nil || errB != nil {
		fa.t.Errorf("Failed to stat %s / %s: %v %v", a, b, errA, errB)
		return fa
	}
	if sa.Size() > sb.Size() {
		fa.t.Errorf("File %s (%d bytes) is larger than %s (%d bytes)", a, sa.Size(), b, sb.Size())
	}
	return fa
}

// ListEntries returns the sorted names directly inside dir.
func (fa *FileAssertions) ListEntries(relativePath string) []string {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.path(relativePath))
	if err != nil {
		fa.t.Logf("Failed to read directory %s: %v", relativePath, err)
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// GetFileContent reads and returns the content of a file
func (fa *FileAssertions) GetFileContent(relativePath string) string {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(relativePath))
	if err != nil {
		fa.t.Fatalf("Failed to read file %s: %v", relativePath, err)
	}
	return string(content)
}

func (fa *FileAssertions) read(relativePath string) (string, bool) {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(relativePath))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", relativePath, err)
		return "", false
	}
	return string(content), true
}
