// Package token defines lexical token kinds for the script dialect.
// Invariants:
//   - Token.Text is a slice of the scanned text (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Contextual words (as, async, await, type, interface, of, get, set, ...)
//     are identifiers; the parser recognizes them by text.
//   - '>' is always scanned alone; the parser rescans '>>', '>=' and friends
//     in operator position so nested generic argument lists close cleanly.
//   - '/' is always scanned as an operator; the parser rescans it as a regular
//     expression in operand position.
package token
