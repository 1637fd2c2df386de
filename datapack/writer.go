package datapack

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// File modes of created datapack files and directories.
var (
	FileMode os.FileMode = 0o644
	DirMode  os.FileMode = 0o755
)

// WriteFiles writes files, keyed by datapack-relative path, into dir in
// sorted path order, creating directories as needed. It returns the paths
// written.
func WriteFiles(dir string, files map[string]string) ([]string, error) {
	keys := slices.Sorted(maps.Keys(files))
	written := make([]string, 0, len(keys))

	for _, rel := range keys {
		path := filepath.Join(dir, filepath.FromSlash(rel))

		if err := os.MkdirAll(filepath.Dir(path), DirMode); err != nil {
			return written, ErrWrite.Wrap(err)
		}

		if err := os.WriteFile(path, []byte(files[rel]), FileMode); err != nil {
			return written, ErrWrite.Wrap(err)
		}

		written = append(written, path)
	}

	return written, nil
}
