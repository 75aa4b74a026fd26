// Package log wraps [log/slog] with a Trace level, functional options, and a
// colorized text handler for terminals.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("rendering", slog.String("path", "page/body"))
//
// # Configuration
//
// Options are applied when a logger is built. [Logger.Wrap] rebuilds a
// logger from its own configuration with further options on top:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithPretty(true))
//
// # Default Logger
//
// The package-level functions ([Trace], [Info], [Warn], and so on) write to a
// default logger that [Config] reconfigures. Context-unaware functions use
// [DefaultContextProvider], which returns [context.TODO].
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is printed as "TRACE". It is
// used for evaluation breadcrumbs that are too noisy for debug output.
package log
