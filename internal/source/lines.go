package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Lines indexes line starts of an in-memory text so offsets and 1-based
// line/column pairs can be converted in both directions.
type Lines struct {
	size    uint32
	lineIdx []uint32 // offsets of '\n'
}

// NewLines builds the line index for text.
func NewLines(text string) *Lines {
	return &Lines{
		size:    MustU32(len(text)),
		lineIdx: buildLineIndex([]byte(text)),
	}
}

// Count returns the number of lines (a trailing newline opens an empty line).
func (l *Lines) Count() int {
	return len(l.lineIdx) + 1
}

// Len returns the indexed text length in bytes.
func (l *Lines) Len() int {
	return int(l.size)
}

// LineCol converts a byte offset into a 1-based position. Offsets past the
// end are clamped to the end of the text.
func (l *Lines) LineCol(off int) LineCol {
	if off < 0 {
		off = 0
	}
	u := MustU32(off)
	if u > l.size {
		u = l.size
	}
	return toLineCol(l.lineIdx, u)
}

// Offset converts a 1-based position into a byte offset. Columns past the end
// of the line clamp to the line end; ok is false when the line does not exist.
func (l *Lines) Offset(lc LineCol) (int, bool) {
	if lc.Line == 0 || int(lc.Line) > l.Count() {
		return 0, false
	}
	start := uint32(0)
	if lc.Line > 1 {
		start = l.lineIdx[lc.Line-2] + 1
	}
	end := l.size
	if int(lc.Line-1) < len(l.lineIdx) {
		end = l.lineIdx[lc.Line-1]
	}
	col := lc.Col
	if col == 0 {
		col = 1
	}
	off := start + col - 1
	if off > end {
		off = end
	}
	return int(off), true
}

// MustU32 converts a non-negative int offset to uint32, panicking on overflow.
func MustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
