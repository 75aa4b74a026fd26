package object

import (
	"errors"

	"github.com/ardnew/typoscript/typoscript"
)

// Implementation identifiers.
const (
	TextID       = "Text"
	ValueID      = "Value"
	ArrayID      = "Array"
	CollectionID = "Collection"
	TemplateID   = "Template"
)

// Register adds every built-in object to reg.
func Register(reg *typoscript.Registry) error {
	return errors.Join(
		reg.Register(TextID, NewText),
		reg.Register(ValueID, NewValue),
		reg.Register(ArrayID, NewArray),
		reg.Register(CollectionID, NewCollection),
		reg.Register(TemplateID, NewTemplate(NewTextTemplate)),
	)
}
