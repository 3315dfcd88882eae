package textmodel

import (
	"fmt"
	"strings"
)

// piece is a run of characters written by one writer. For writer 0, orig is
// the offset of the run in the original text.
type piece struct {
	writer WriterID
	orig   int
	text   string
}

// Buffer is the edit buffer. It is not safe for concurrent use; one compile
// call owns one Buffer.
type Buffer struct {
	original string
	pieces   []piece
	log      []Edit
	counts   []int // edits per writer; len(counts) == number of writers
	length   int

	cached string
	dirty  bool
}

// New creates a buffer over text, attributed to Original.
func New(text string) *Buffer {
	b := &Buffer{original: text, counts: []int{0}, length: len(text), cached: text}
	if text != "" {
		b.pieces = []piece{{writer: Original, orig: 0, text: text}}
	}
	return b
}

// Original returns the input text.
func (b *Buffer) Original() string { return b.original }

// Len returns the current text length in bytes.
func (b *Buffer) Len() int { return b.length }

// String returns the current text.
func (b *Buffer) String() string {
	if b.dirty {
		var sb strings.Builder
		sb.Grow(b.length)
		for _, p := range b.pieces {
			sb.WriteString(p.text)
		}
		b.cached = sb.String()
		b.dirty = false
	}
	return b.cached
}

// Writers returns the number of writer ids handed out, including Original.
func (b *Buffer) Writers() int { return len(b.counts) }

// Edits returns the edit log. The slice must not be modified.
func (b *Buffer) Edits() []Edit { return b.log }

// Version snapshots the current edit counts.
func (b *Buffer) Version() Version {
	return append(Version(nil), b.counts...)
}

// NewWriterID allocates a fresh writer id.
func (b *Buffer) NewWriterID() WriterID {
	b.counts = append(b.counts, 0)
	return WriterID(len(b.counts) - 1)
}

// NewWriter allocates a writer whose offsets are read against the current
// version.
func (b *Buffer) NewWriter() *Writer {
	id := b.NewWriterID()
	return &Writer{buf: b, id: id, base: b.Version()}
}

// NewWriterFrom allocates a writer reading offsets against an earlier
// version. Passes driven by one parse all share the parse-time version.
func (b *Buffer) NewWriterFrom(base Version) *Writer {
	id := b.NewWriterID()
	return &Writer{buf: b, id: id, base: append(Version(nil), base...)}
}

// Anchor creates an anchor for off under version v.
func (b *Buffer) Anchor(off int, v Version, bias Bias) Anchor {
	return Anchor{Offset: off, Version: v, Bias: bias}
}

// Resolve returns the current offset of a.
func (b *Buffer) Resolve(a Anchor) int {
	pos := a.Offset
	for _, e := range b.log {
		if a.Version.Observed(e) {
			continue
		}
		pos = e.transform(pos, a.Bias)
	}
	return min(max(pos, 0), b.length)
}

// Insert inserts text at the absolute current offset off on behalf of w.
func (b *Buffer) Insert(w WriterID, off int, text string) error {
	if err := b.checkWriter(w); err != nil {
		return err
	}
	if off < 0 || off > b.length {
		return fmt.Errorf("textmodel: insert offset %d out of range [0,%d]", off, b.length)
	}
	if text == "" {
		return nil
	}
	i := b.split(off)
	b.pieces = append(b.pieces, piece{})
	copy(b.pieces[i+1:], b.pieces[i:])
	b.pieces[i] = piece{writer: w, orig: -1, text: text}
	b.record(Edit{Writer: w, Offset: off, Text: text})
	b.length += len(text)
	return nil
}

// Delete removes n bytes at the absolute current offset off on behalf of w.
func (b *Buffer) Delete(w WriterID, off, n int) error {
	if err := b.checkWriter(w); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if off < 0 || n < 0 || off+n > b.length {
		return fmt.Errorf("textmodel: delete range [%d,%d) out of range [0,%d]", off, off+n, b.length)
	}
	i := b.split(off)
	j := b.split(off + n)
	b.pieces = append(b.pieces[:i], b.pieces[j:]...)
	b.record(Edit{Writer: w, Offset: off, Deleted: n})
	b.length -= n
	return nil
}

func (b *Buffer) checkWriter(w WriterID) error {
	if w < 0 || int(w) >= len(b.counts) {
		return fmt.Errorf("textmodel: unknown writer %d", w)
	}
	return nil
}

func (b *Buffer) record(e Edit) {
	e.Seq = b.counts[e.Writer]
	b.counts[e.Writer]++
	b.log = append(b.log, e)
	b.dirty = true
}

// split гарантирует границу куска на off и возвращает индекс куска,
// начинающегося в off (или len(pieces), если off в конце).
func (b *Buffer) split(off int) int {
	pos := 0
	for i, p := range b.pieces {
		if off == pos {
			return i
		}
		end := pos + len(p.text)
		if off < end {
			k := off - pos
			left := piece{writer: p.writer, orig: p.orig, text: p.text[:k]}
			right := piece{writer: p.writer, orig: p.orig, text: p.text[k:]}
			if p.writer == Original {
				right.orig = p.orig + k
			}
			b.pieces = append(b.pieces, piece{})
			copy(b.pieces[i+2:], b.pieces[i+1:])
			b.pieces[i] = left
			b.pieces[i+1] = right
			return i + 1
		}
		pos = end
	}
	return len(b.pieces)
}

// locate returns the index of the piece holding the byte at off and the
// start of that piece; idx == len(pieces) when off is at or past the end.
func (b *Buffer) locate(off int) (idx, start int) {
	pos := 0
	for i, p := range b.pieces {
		if off < pos+len(p.text) {
			return i, pos
		}
		pos += len(p.text)
	}
	return len(b.pieces), pos
}

// WriterAt returns the writer of the byte at off. Offsets at or past the end
// report the writer of the last byte.
func (b *Buffer) WriterAt(off int) WriterID {
	if len(b.pieces) == 0 {
		return Original
	}
	i, _ := b.locate(off)
	if i == len(b.pieces) {
		i--
	}
	return b.pieces[i].writer
}

// MapToOriginal maps a current offset to an offset in the original text.
// Bytes written by Original map exactly; inserted text maps to the position
// right after the nearest preceding original byte (0 if there is none).
func (b *Buffer) MapToOriginal(off int) int {
	i, start := b.locate(off)
	if i < len(b.pieces) && b.pieces[i].writer == Original {
		return b.pieces[i].orig + (off - start)
	}
	for i--; i >= 0; i-- {
		if p := b.pieces[i]; p.writer == Original {
			return p.orig + len(p.text)
		}
	}
	return 0
}

// MapFromOriginal maps an offset in the original text to the current text.
func (b *Buffer) MapFromOriginal(off int) int {
	return b.Resolve(Anchor{Offset: off, Version: Version{0}, Bias: BiasRight})
}
