package lexer

import (
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

// Жадность: сначала длинные операторы, затем короткие.
// '>' всегда выдаётся одиночным: составные формы собирает RescanGreater.
var operators = []struct {
	text string
	kind token.Kind
}{
	{">>>=", token.UShrAssign},
	{"...", token.Ellipsis},
	{"===", token.EqEqEq},
	{"!==", token.BangEqEq},
	{"**=", token.PowAssign},
	{"<<=", token.ShlAssign},
	{"&&=", token.AndAssign},
	{"||=", token.OrAssign},
	{"??=", token.NullishAssig},
	{"=>", token.Arrow},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{"<<", token.Shl},
	{"**", token.StarStar},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"??", token.QuestionQ},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PctAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
}

var singleOps = map[byte]token.Kind{
	'{': token.LBrace, '}': token.RBrace, '(': token.LParen, ')': token.RParen,
	'[': token.LBracket, ']': token.RBracket, '.': token.Dot, ';': token.Semicolon,
	',': token.Comma, '<': token.Lt, '>': token.Gt, '+': token.Plus, '-': token.Minus,
	'*': token.Star, '/': token.Slash, '%': token.Percent, '&': token.Amp, '|': token.Pipe,
	'^': token.Caret, '!': token.Bang, '~': token.Tilde, '?': token.Question,
	':': token.Colon, '=': token.Assign, '@': token.At,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	// ?. но не ?.5 (тернарный оператор с числом)
	if lx.cursor.Peek() == '?' && lx.cursor.PeekAt(1) == '.' && !isDec(lx.cursor.PeekAt(2)) {
		lx.cursor.Off += 2
		return lx.emit(token.QuestionDot, start)
	}
	for _, op := range operators {
		if lx.cursor.EatString(op.text) {
			return lx.emit(op.kind, start)
		}
	}
	b := lx.cursor.Peek()
	if k, ok := singleOps[b]; ok {
		lx.cursor.Bump()
		return lx.emit(k, start)
	}
	lx.bumpRune()
	tok := lx.emit(token.Invalid, start)
	lx.report(diag.LexUnknownChar, tok.Span, "unexpected character "+tok.Text)
	return tok
}

// RescanGreater extends a '>' token into '>>', '>>>', '>=', '>>=' or '>>>='
// when the following characters are adjacent.
func (lx *Lexer) RescanGreater(tok token.Token) token.Token {
	if tok.Kind != token.Gt {
		return tok
	}
	lx.cursor.Reset(Mark(tok.Span.Start))
	start := lx.cursor.Mark()
	for _, op := range []struct {
		text string
		kind token.Kind
	}{
		{">>>=", token.UShrAssign}, {">>>", token.UShr}, {">>=", token.ShrAssign},
		{">>", token.Shr}, {">=", token.GtEq}, {">", token.Gt},
	} {
		if lx.cursor.EatString(op.text) {
			out := lx.emit(op.kind, start)
			out.NewlineBefore = tok.NewlineBefore
			return out
		}
	}
	return tok
}
