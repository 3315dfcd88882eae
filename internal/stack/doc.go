// Package stack rewrites script error stacks into raw script coordinates.
//
// Each backend renders frames in its own shape. The native engine prints
//
//	at name (file:line:col(pc))
//
// and the interpreter prints
//
//	in name at file:line:col
//
// Both are parsed into Frames; frames that belong to a known callable are
// remapped and everything older than the oldest such frame is replaced by
// a single host boundary frame.
package stack
