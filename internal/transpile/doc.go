// Package transpile runs the whole source-to-source pipeline for one
// script: macro expansion, parsing, the transform passes. The result keeps
// the edit history so compiled positions can be traced back to the text the
// user wrote.
package transpile
