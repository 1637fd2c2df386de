package cmd

import (
	"context"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mcmacros/build"
	"github.com/ardnew/mcmacros/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName is the source name of scripts read from stdin.
const stdinName = "<stdin>"

// sources returns a compilation unit for each distinct script in paths, in
// order of first mention. Paths naming the same file, through symlinks or
// different relative forms, yield one unit. All occurrences of "-" yield one
// unit reading stdin, placed where "-" first appears.
func sources(paths []string) ([]build.Source, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	out := make([]build.Source, 0, len(paths))
	seen := make(map[any]struct{})
	stdin := false

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				stdin = true

				out = append(out, build.Source{Name: stdinName, Reader: os.Stdin})
			}

			continue
		}

		key, err := statFile(path)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err).WithPosition(lang.Position{Source: path})
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}

		out = append(out, build.Source{Name: path})
	}

	return out, nil
}

// statFile resolves path through symlinks and returns its identity: a
// [fileKey], or the resolved path where the platform has no inode numbers.
func statFile(path string) (any, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, &os.PathError{Op: "read", Path: path, Err: syscall.EISDIR}
	}

	if key, ok := makeFileKey(info); ok {
		return key, nil
	}

	return resolved, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

