package processor

import (
	"errors"

	"github.com/ardnew/typoscript/typoscript"
)

// Processor names.
const (
	TrimName     = "trim"
	WrapName     = "wrap"
	CropName     = "crop"
	ReplaceName  = "replace"
	CaseName     = "case"
	PathListName = "pathlist"
)

// Register adds every built-in processor to procs.
func Register(procs *typoscript.Processors) error {
	return errors.Join(
		procs.Register(TrimName, NewTrim),
		procs.Register(WrapName, NewWrap),
		procs.Register(CropName, NewCrop),
		procs.Register(ReplaceName, NewReplace),
		procs.Register(CaseName, NewCase),
		procs.Register(PathListName, NewPathList),
	)
}
