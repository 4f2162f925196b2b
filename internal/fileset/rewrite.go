package fileset

import (
	"context"
	"os"
	"path/filepath"
)

// WriteFileAtomic replaces path with data by writing a sibling temp file and
// renaming it over the target.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// Prepend inserts header before the existing content of path.
func Prepend(path, header string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out := make([]byte, 0, len(header)+len(body))
	out = append(out, header...)
	out = append(out, body...)
	return WriteFileAtomic(path, out, info.Mode().Perm())
}

// PrependAll prepends header to every file under base selected by patterns
// and returns how many files were rewritten.
func PrependAll(ctx context.Context, base string, patterns []string, header string) (int, error) {
	files, err := Match(base, patterns)
	if err != nil {
		return 0, err
	}
	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := Prepend(filepath.Join(base, filepath.FromSlash(rel)), header); err != nil {
			return i, err
		}
	}
	return len(files), nil
}

// Rename moves from to to, creating the destination directory.
func Rename(from, to string) error {
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return err
	}
	return os.Rename(from, to)
}
