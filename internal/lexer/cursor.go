package lexer

import (
	"scriptkit/internal/source"
)

// Cursor представляет собой позицию в тексте
type Cursor struct {
	Src string
	Off uint32
}

// NewCursor creates a new cursor over src.
func NewCursor(src string) Cursor {
	source.MustU32(len(src))
	return Cursor{Src: src}
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return int(c.Off) >= len(c.Src)
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Src[c.Off]
}

// PeekAt читает байт со смещением n от курсора, иначе 0
func (c *Cursor) PeekAt(n int) byte {
	i := int(c.Off) + n
	if i < 0 || i >= len(c.Src) {
		return 0
	}
	return c.Src[i]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Src[c.Off]
	c.Off++
	return b
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: uint32(m), End: c.Off}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// EatString consumes s if the text at the cursor starts with it.
func (c *Cursor) EatString(s string) bool {
	end := int(c.Off) + len(s)
	if end <= len(c.Src) && c.Src[c.Off:end] == s {
		c.Off += uint32(len(s))
		return true
	}
	return false
}
