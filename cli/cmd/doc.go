// Package cmd implements the typoscript subcommands.
//
// Every command loads the configuration tree from the global --source
// files, merged in order, and builds a [typoscript.Runtime] with the
// built-in objects and processors registered.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the settings file.
	ConfigIdentifier = "config"
)
