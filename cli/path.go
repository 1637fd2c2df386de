package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mcmacros/pkg"
)

// baseConfig is the key of the flag mapping in a configuration file and the
// base name of the user configuration file.
const baseConfig = "config"

// configExt is the extension of configuration files.
const configExt = ".yaml"

// defaultDirMode is the permission mode of created directories.
var defaultDirMode os.FileMode = 0o700

// exeRewrite maps executable names to the prefix used for per-user paths.
var exeRewrite = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d+$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^\.+`), ""},
}

// basePrefix returns the name of the per-user configuration and cache
// directories: the executable's base name without extension, rewritten by
// exeRewrite.
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		for _, rw := range exeRewrite {
			id = rw.rex.ReplaceAllString(id, rw.rep)
		}

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// userDir returns basePrefix under the directory from base, or under
// $HOME/fallback, or under the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

// configDir returns the per-user configuration directory.
var configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })

// cacheDir returns the per-user directory for transient files.
var cacheDir = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })

// configPath joins elem to the per-user configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// localConfig is the configuration file read from the working directory. Its
// values take precedence over the user configuration file.
func localConfig() string { return pkg.Name + configExt }

// mkdirAllRequired creates the per-user configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
