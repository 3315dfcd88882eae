// Package codegen renders small synthetic AST fragments back to text.
//
// Transform passes never re-print user code: they edit the text model in
// place. Codegen is only used when a pass splices in a freshly built
// construct (a destructuring declaration, an exporter call, a quoted tag
// name). Nodes that came from the parsed text are copied verbatim from the
// source when a Printer is given one.
package codegen
