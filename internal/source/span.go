package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one text.
type Span struct {
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// SpanOf builds a span from int offsets.
func SpanOf(start, end int) Span {
	return Span{Start: MustU32(start), End: MustU32(end)}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether off lies inside [Start, End).
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// Lo and Hi return the bounds as ints for slicing.
func (s Span) Lo() int { return int(s.Start) }
func (s Span) Hi() int { return int(s.End) }
