package fuzztests

import (
	"testing"

	"scriptkit/internal/diag"
	"scriptkit/internal/lexer"
	"scriptkit/internal/testkit"
	"scriptkit/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		src := clampInput(input)

		bag := diag.NewBag(64)
		lx := lexer.New(src, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

		// каждый токен съедает хотя бы байт, иначе это зацикливание
		limit := len(src) + 2
		var toks []token.Token
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			toks = append(toks, tok)
			if len(toks) > limit {
				t.Fatalf("lexer produced more than %d tokens for %d bytes", limit, len(src))
			}
		}
		if err := testkit.CheckTokenInvariants(toks, src); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(src, 200))
		}
	})
}
