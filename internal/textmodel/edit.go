package textmodel

import "fmt"

// Edit is one entry of the edit log. Exactly one of Text (insert) or
// Deleted (delete) is non-empty. Offset is absolute in the buffer as it was
// right before the edit was applied.
type Edit struct {
	Writer  WriterID `msgpack:"w"`
	Seq     int      `msgpack:"s"`
	Offset  int      `msgpack:"o"`
	Text    string   `msgpack:"t,omitempty"`
	Deleted int      `msgpack:"d,omitempty"`
}

func (e Edit) IsInsert() bool { return e.Text != "" }

func (e Edit) String() string {
	if e.IsInsert() {
		return fmt.Sprintf("w%d#%d insert @%d %q", e.Writer, e.Seq, e.Offset, e.Text)
	}
	return fmt.Sprintf("w%d#%d delete @%d+%d", e.Writer, e.Seq, e.Offset, e.Deleted)
}

// transform сдвигает позицию pos через правку e.
func (e Edit) transform(pos int, bias Bias) int {
	if e.IsInsert() {
		switch {
		case pos > e.Offset:
			return pos + len(e.Text)
		case pos == e.Offset && bias == BiasRight:
			return pos + len(e.Text)
		}
		return pos
	}
	end := e.Offset + e.Deleted
	switch {
	case pos >= end:
		return pos - e.Deleted
	case pos > e.Offset:
		return e.Offset
	}
	return pos
}
