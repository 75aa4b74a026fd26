package cmd

import "github.com/ardnew/typoscript/typoscript"

var (
	ErrOpenSource   = typoscript.NewError("open source")
	ErrNoSource     = typoscript.NewError("no source given (use --source)")
	ErrNoResult     = typoscript.NewError("path has no result")
	ErrYAMLMarshal  = typoscript.NewError("marshal YAML")
	ErrWriteConfig  = typoscript.NewError("write configuration file")
	ErrFileExists   = typoscript.NewError("file exists (use --force to overwrite)")
	ErrContextValue = typoscript.NewError("invalid context value")
)
