// Package cmd implements the mcmacros subcommands: compile, tree, and init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file written by init.
	ConfigIdentifier = "config"
)
