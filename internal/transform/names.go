package transform

// Names are the identifiers injected into lowered code. The host binds
// each of them when it constructs the function.
type Names struct {
	LoopGuard string `toml:"loop_guard"`
	Import    string `toml:"import"`
	Export    string `toml:"export"`
	Meta      string `toml:"meta"`
	Factory   string `toml:"factory"`
	Fragment  string `toml:"fragment"`
}

// DefaultNames returns the names used when a field is left empty.
func DefaultNames() Names {
	return Names{
		LoopGuard: "loopGuard",
		Import:    "importModule",
		Export:    "exportModule",
		Meta:      "importMeta",
		Factory:   "h",
		Fragment:  "Fragment",
	}
}

// WithDefaults fills empty fields from DefaultNames.
func (n Names) WithDefaults() Names {
	d := DefaultNames()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&n.LoopGuard, d.LoopGuard)
	fill(&n.Import, d.Import)
	fill(&n.Export, d.Export)
	fill(&n.Meta, d.Meta)
	fill(&n.Factory, d.Factory)
	fill(&n.Fragment, d.Fragment)
	return n
}
