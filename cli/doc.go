// Package cli contains the command line interface for mcmacros.
//
// # Usage
//
//	mcmacros [flags] <datapack> <source>...          # compile (default)
//	mcmacros tree [-o native|json|yaml] [<source>]
//	mcmacros init [--force]
//
// # Configuration
//
// Flag values are read from the "config" mapping of two YAML files: first the
// per-user file (config.yaml in the user configuration directory, see
// [os.UserConfigDir]), then mcmacros.yaml in the working directory. Values in
// the second override the first, and command-line flags override both. Keys
// name flags without their leading dashes; hyphens may be written as
// underscores.
//
//	config:
//	  log-level: info
//	  keep_going: true
//	  plugin-path: [./modules]
//
// The init command writes the current flag values to the per-user file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
