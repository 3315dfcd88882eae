package codegen

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Writer accumulates generated output.
type Writer struct {
	buf []byte
}

// String returns the accumulated output.
func (w *Writer) String() string {
	return string(w.buf)
}

// WriteString appends s.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// Quote returns s as a double-quoted script string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\u2028' || r == '\u2029':
			sb.WriteString(`\u` + strconv.FormatInt(int64(r), 16))
		case r == utf8.RuneError && size == 1:
			sb.WriteString(`\ufffd`)
		case r < 0x20 || r == 0x7f:
			h := strconv.FormatInt(int64(r), 16)
			sb.WriteString(`\x` + strings.Repeat("0", 2-len(h)) + h)
		default:
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	sb.WriteByte('"')
	return sb.String()
}

// EscapeTemplate escapes raw text for use inside a template literal.
func EscapeTemplate(s string) string {
	if !strings.ContainsAny(s, "`\\$") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '`' || c == '\\':
			sb.WriteByte('\\')
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// IsIdentifierName reports whether s can be written as a bare property key
// or binding name.
func IsIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '$' || r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r >= utf8.RuneSelf:
		default:
			return false
		}
	}
	return true
}
