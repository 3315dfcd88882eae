// Package transform lowers the extended script dialect to plain script
// text. Every pass reads the parsed tree and records its rewrites as edits
// on a textmodel.Buffer, so the edit history can later map any compiled
// position back to the source the user wrote.
//
// Passes run in a fixed order (modules, loop guards, markup, type erasure,
// optional async erasure) and all of them address the text through the
// parse-time snapshot. Async detection is an analysis and edits nothing.
package transform
