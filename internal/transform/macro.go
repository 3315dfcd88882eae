package transform

import (
	"fmt"
	"sync"

	"github.com/dlclark/regexp2"
)

// Macro rewrites the leading edge of raw script text before it is parsed.
// Pattern uses script regular expression syntax; Replacement may refer to
// groups as $1 or ${name}.
type Macro struct {
	Pattern     string `toml:"pattern" msgpack:"p"`
	Replacement string `toml:"replacement" msgpack:"r"`
}

// DefaultMacros strips one leading '=' (the shorthand for expression scripts).
func DefaultMacros() []Macro {
	return []Macro{{Pattern: `^=`, Replacement: ""}}
}

// Shift is one applied macro: Removed leading bytes became Inserted bytes.
type Shift struct {
	Removed  int `msgpack:"r"`
	Inserted int `msgpack:"i"`
}

// Expansion is macro output plus what is needed to get back to raw offsets.
type Expansion struct {
	Text   string
	Shifts []Shift
}

var macroCache sync.Map // pattern -> *regexp2.Regexp

func compileMacro(pattern string) (*regexp2.Regexp, error) {
	if re, ok := macroCache.Load(pattern); ok {
		return re.(*regexp2.Regexp), nil
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	actual, _ := macroCache.LoadOrStore(pattern, re)
	return actual.(*regexp2.Regexp), nil
}

// ExpandMacros applies macros in order. A macro fires only when its pattern
// matches at offset 0 of the current text.
func ExpandMacros(raw string, macros []Macro) (Expansion, error) {
	x := Expansion{Text: raw}
	for i, m := range macros {
		re, err := compileMacro(m.Pattern)
		if err != nil {
			return x, fmt.Errorf("macro %d %q: %w", i, m.Pattern, err)
		}
		match, err := re.FindStringMatch(x.Text)
		if err != nil {
			return x, fmt.Errorf("macro %d %q: %w", i, m.Pattern, err)
		}
		if match == nil || match.Index != 0 {
			continue
		}
		removed := len(match.String())
		out, err := re.Replace(x.Text, m.Replacement, 0, 1)
		if err != nil {
			return x, fmt.Errorf("macro %d %q: %w", i, m.Pattern, err)
		}
		x.Shifts = append(x.Shifts, Shift{Removed: removed, Inserted: len(out) - (len(x.Text) - removed)})
		x.Text = out
	}
	return x, nil
}

// ToRaw maps an offset in the expanded text to the raw text. Offsets inside
// a replacement map to the start of the text it replaced.
func (x Expansion) ToRaw(off int) int {
	for i := len(x.Shifts) - 1; i >= 0; i-- {
		s := x.Shifts[i]
		if off < s.Inserted {
			off = 0
			continue
		}
		off = off - s.Inserted + s.Removed
	}
	return off
}

// FromRaw is the inverse of ToRaw. Offsets inside removed text map to the
// end of the replacement.
func (x Expansion) FromRaw(off int) int {
	for _, s := range x.Shifts {
		if off < s.Removed {
			off = s.Inserted
			continue
		}
		off = off - s.Removed + s.Inserted
	}
	return off
}

