package textmodel

// Writer applies edits for one pass. All offsets are read against the
// version captured when the writer was created.
type Writer struct {
	buf  *Buffer
	id   WriterID
	base Version
}

func (w *Writer) ID() WriterID { return w.id }

// Base returns the snapshot the writer's offsets refer to.
func (w *Writer) Base() Version { return w.base }

// Resolve maps a base offset to the live buffer.
func (w *Writer) Resolve(off int, bias Bias) int {
	return w.buf.Resolve(Anchor{Offset: off, Version: w.base, Bias: bias})
}

// Insert puts text at base offset off, after anything this pass already
// inserted there.
func (w *Writer) Insert(off int, text string) error {
	return w.buf.Insert(w.id, w.Resolve(off, BiasRight), text)
}

// InsertLeft puts text at base offset off, before anything this pass already
// inserted there. Used for closing delimiters so that nested wrappers
// close in the right order.
func (w *Writer) InsertLeft(off int, text string) error {
	return w.buf.Insert(w.id, w.Resolve(off, BiasLeft), text)
}

// Delete removes the base range [start, end). Text inserted at either end
// by this pass survives.
func (w *Writer) Delete(start, end int) error {
	if end <= start {
		return nil
	}
	s := w.Resolve(start, BiasRight)
	e := w.Resolve(end, BiasLeft)
	if e <= s {
		return nil
	}
	return w.buf.Delete(w.id, s, e-s)
}

// Replace deletes the base range [start, end) and inserts text in its place.
func (w *Writer) Replace(start, end int, text string) error {
	if err := w.Delete(start, end); err != nil {
		return err
	}
	return w.Insert(start, text)
}

// Text returns the base-version text of [start, end). It is only valid for
// ranges the pass has not edited yet.
func (w *Writer) Text(start, end int) string {
	s := w.Resolve(start, BiasRight)
	e := w.Resolve(end, BiasLeft)
	if e <= s {
		return ""
	}
	return w.buf.String()[s:e]
}
