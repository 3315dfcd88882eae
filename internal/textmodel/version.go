package textmodel

import (
	"strconv"
	"strings"
)

// WriterID identifies a logical writer. Original (0) owns the input text.
type WriterID int

const Original WriterID = 0

// Version is a snapshot of edit counts per writer, indexed by WriterID.
// Versions taken from one Buffer always describe a prefix of its edit log.
type Version []int

// Observed reports whether edit e is included in the snapshot.
func (v Version) Observed(e Edit) bool {
	w := int(e.Writer)
	return w < len(v) && e.Seq < v[w]
}

// Total returns the number of edits covered by the snapshot.
func (v Version) Total() int {
	n := 0
	for _, c := range v {
		n += c
	}
	return n
}

func (v Version) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(c))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Bias decides where an anchor goes when text is inserted exactly at it.
type Bias uint8

const (
	// BiasRight moves the anchor past text inserted at its position, so
	// consecutive inserts at one snapshot offset keep their call order.
	BiasRight Bias = iota
	// BiasLeft keeps the anchor before text inserted at its position.
	BiasLeft
)

// Anchor is a stable reference to an offset in the text as it looked under
// Version.
type Anchor struct {
	Offset  int
	Version Version
	Bias    Bias
}
