// Package profile provides optional runtime profiling of mcmacros using
// [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the "pprof" build tag:
//
//	go build -tags pprof .
//	mcmacros --pprof-mode cpu --pprof-dir ./profiles compile out/ main.mcm
//
// Without the tag, [Profiler.Start] is a no-op and [Modes] is empty. With it,
// the package also registers the [net/http/pprof] handlers.
//
// Profiles are written to the chosen directory with names matching the mode
// (cpu.pprof, mem.pprof, ...) and can be inspected with:
//
//	go tool pprof -http=: ./profiles/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
