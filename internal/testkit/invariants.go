package testkit

import (
	"fmt"

	"scriptkit/internal/ast"
	"scriptkit/internal/token"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed
// program:
// 1) every node span is ordered (Start <= End)
// 2) every node span lies within the source
func CheckSpanInvariants(prog *ast.Program, src string) error {
	if prog == nil {
		return fmt.Errorf("nil program")
	}
	size := uint32(len(src)) //nolint:gosec // fuzz inputs are capped well below 4 GiB
	var err error
	ast.Inspect(prog, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		sp := n.Span()
		switch {
		case sp.Start > sp.End:
			err = fmt.Errorf("%T span is inverted: %v", n, sp)
		case sp.End > size:
			err = fmt.Errorf("%T span %v is past the end of the source (%d bytes)", n, sp, size)
		}
		return err == nil
	})
	return err
}

// CheckTokenInvariants checks a token stream: tokens do not overlap, stay
// within the source and carry their own text.
func CheckTokenInvariants(toks []token.Token, src string) error {
	var prev uint32
	for i, tok := range toks {
		sp := tok.Span
		if sp.Start < prev {
			return fmt.Errorf("token %d (%s) starts at %d, before the previous end %d", i, tok.Kind, sp.Start, prev)
		}
		if sp.Start > sp.End || int(sp.End) > len(src) {
			return fmt.Errorf("token %d (%s) has bad span %v", i, tok.Kind, sp)
		}
		if tok.Text != src[sp.Start:sp.End] {
			return fmt.Errorf("token %d text %q does not match source %q", i, tok.Text, src[sp.Start:sp.End])
		}
		prev = sp.End
	}
	return nil
}
