package cmd

import "github.com/ardnew/mcmacros/lang"

var (
	ErrNoInput     = lang.NewError("no input scripts")
	ErrYAMLMarshal = lang.NewError("marshal YAML")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrFormat      = lang.NewError("unknown tree format")
)
