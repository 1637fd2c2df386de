// Package pkg holds the identity of the mcmacros module.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time and
// printed by the --version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text, default config
	// paths, and the name of the working-directory configuration file.
	Name = "mcmacros"
	// Description is a short summary of the command for help output.
	Description = "Macro preprocessor for Minecraft datapack functions"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
