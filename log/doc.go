// Package log provides leveled, structured logging based on [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some settings overridden, and
// [Logger.With] derives one that attaches attributes to every record.
//
// Besides the slog levels, [LevelTrace] sits below [LevelDebug] and is used for
// per-statement compiler tracing.
//
// The package-level functions ([Info], [Debug], and so on) write through a
// default logger that [Config] reconfigures. The command-line front end calls
// [Config] before any other work so that early diagnostics honor the
// requested level and format.
//
// When pretty output is enabled (the default), records are colorized. The
// text format prints key=value pairs and the JSON format prints one indented
// block per record.
package log
