package compiler

import (
	"scriptkit/internal/interp"
	"scriptkit/internal/observ"
	"scriptkit/internal/source"
	"scriptkit/internal/transpile"
)

// Metadata describes a compiled script. It is immutable once Compile
// returns.
type Metadata struct {
	FunctionName   string
	DiagnosticName string
	FileName       string
	IsAsync        bool
	IsModule       bool

	// ScriptLineOffset counts the declaration lines in front of the user
	// code: factory header, constants, function header, variables,
	// argument defaults and aliases.
	ScriptLineOffset int
	// BackendLineOffset counts the lines a backend adds on top, the
	// native scoped lookup wrapper.
	BackendLineOffset int

	// Handle is the loaded script of an interpreted build; nil for native.
	Handle *interp.Script
	// Source is the final text handed to the backend.
	Source  string
	Timings observ.Report

	transpiled *transpile.Result
}

// Transpiled returns the compiled-output record.
func (m *Metadata) Transpiled() *transpile.Result { return m.transpiled }

func (m *Metadata) preamble() uint32 {
	return source.MustU32(m.ScriptLineOffset + m.BackendLineOffset)
}

// LocationToOriginal maps a 1-based position in the final source to the
// raw script. Positions in the preamble or past the user code map to the
// zero LineCol.
func (m *Metadata) LocationToOriginal(lc source.LineCol) source.LineCol {
	skip := m.preamble()
	if lc.Line <= skip {
		return source.LineCol{}
	}
	return m.transpiled.LocToOriginal(source.LineCol{Line: lc.Line - skip, Col: lc.Col})
}

// LocationToCompiled maps a 1-based position in the raw script to the
// final source.
func (m *Metadata) LocationToCompiled(lc source.LineCol) source.LineCol {
	out := m.transpiled.LocToCompiled(lc)
	if out.Line == 0 {
		return out
	}
	out.Line += m.preamble()
	return out
}
