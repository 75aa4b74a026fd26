// Package cli contains the command line interface for typoscript.
//
// # Usage
//
// Every command reads the configuration tree from --source files (YAML or
// JSON), merged in order:
//
//	typoscript -s site.yaml -s local.yaml page/body
//	typoscript -s site.yaml eval -o json page/items
//	typoscript -s site.yaml resolve page<Document>
//	typoscript -s site.yaml -c title=Home repl
//
// # Settings
//
// Flag defaults are read from config.yaml in the user configuration
// directory. The init command writes the current flag values there.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
// It adds --pprof-mode and --pprof-dir (default ~/.cache/typoscript/pprof).
package cli
