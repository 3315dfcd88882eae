// Package diag defines the diagnostic model shared by the lexer and parser.
//
// # Purpose
//
//   - Provide small, deterministic data structures that capture findings
//     produced while scanning and parsing a script.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt; internal/transpile turns the first error into a
// SyntaxError positioned in the user's raw text.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – byte range in the text that was parsed.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage. The parser
// calls ReportError(...).WithNote(...).Emit(), or Reporter.Report directly.
// BagReporter aggregates diagnostics into a Bag, which supports sorting and
// deduplication.
package diag
