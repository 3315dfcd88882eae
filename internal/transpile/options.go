package transpile

import (
	"scriptkit/internal/transform"
)

type (
	Macro = transform.Macro
	Names = transform.Names
)

// Options control one Transpile call.
type Options struct {
	Names Names
	// Macros are applied in order before parsing. nil selects the default
	// list; an empty non-nil slice disables macros.
	Macros    []Macro
	ForceSync bool
	// FileName is only used in SyntaxError messages.
	FileName string
}

func (o Options) macros() []Macro {
	if o.Macros == nil {
		return transform.DefaultMacros()
	}
	return o.Macros
}
