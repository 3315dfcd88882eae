package parser

import (
	"slices"

	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

// next: съедает текущий токен и читает следующий
func (p *Parser) next() token.Token {
	tok := p.tok
	p.prevEnd = tok.Span.End
	p.tok = p.lx.Next()
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.tok.Kind)
}

// atWord проверяет контекстное слово (идентификатор с заданным текстом)
func (p *Parser) atWord(s string) bool {
	return p.tok.Kind == token.Ident && p.tok.Text == s
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

// expect: ожидаем конкретный токен. Если нет, репортим и возвращаем (tok,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	p.err(code, msg+", got "+p.describe())
	return p.tok, false
}

// peek возвращает токен после текущего, не сдвигая парсер.
func (p *Parser) peek() token.Token {
	off := p.lx.Offset()
	outerFailed := p.specFailed
	p.speculating++
	tok := p.lx.Next()
	p.speculating--
	p.specFailed = outerFailed
	p.lx.Reset(off)
	return tok
}

// semicolon реализует автоматическую вставку ';'.
// Возвращает true, если ';' был явно в тексте.
func (p *Parser) semicolon() bool {
	if p.eat(token.Semicolon) {
		return true
	}
	if p.at(token.RBrace) || p.at(token.EOF) || p.tok.NewlineBefore {
		return false
	}
	p.err(diag.SynExpectSemicolon, "expected ';', got "+p.describe())
	return false
}

func (p *Parser) describe() string {
	switch p.tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident, token.Number, token.String:
		return "'" + p.tok.Text + "'"
	}
	if p.tok.Text != "" {
		return "'" + p.tok.Text + "'"
	}
	return p.tok.Kind.String()
}

func (p *Parser) spanFrom(start uint32) source.Span {
	end := p.prevEnd
	if end < start {
		end = start
	}
	return source.Span{Start: start, End: end}
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) {
	p.errAt(code, p.tok.Span, msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	if p.speculating > 0 {
		p.specFailed = true
		return
	}
	if p.opts.Reporter == nil {
		return
	}
	p.opts.CurrentErrors++
	if p.opts.Enough() && p.opts.CurrentErrors > p.opts.MaxErrors {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

type parserState struct {
	tok     token.Token
	prevEnd uint32
	lexOff  uint32
	errs    uint
}

func (p *Parser) save() parserState {
	return parserState{tok: p.tok, prevEnd: p.prevEnd, lexOff: p.lx.Offset(), errs: p.opts.CurrentErrors}
}

func (p *Parser) restore(s parserState) {
	p.tok = s.tok
	p.prevEnd = s.prevEnd
	p.lx.Reset(s.lexOff)
	p.opts.CurrentErrors = s.errs
}

// try runs fn speculatively. On failure (fn returns false or any error is
// reported) the parser is rewound and false is returned.
func (p *Parser) try(fn func() bool) bool {
	st := p.save()
	outerFailed := p.specFailed
	p.specFailed = false
	p.speculating++
	ok := fn()
	p.speculating--
	if p.specFailed {
		ok = false
	}
	p.specFailed = outerFailed
	if !ok {
		p.restore(st)
	}
	return ok
}

// lookahead runs fn speculatively and always rewinds.
func (p *Parser) lookahead(fn func() bool) bool {
	st := p.save()
	outerFailed := p.specFailed
	p.specFailed = false
	p.speculating++
	ok := fn() && !p.specFailed
	p.speculating--
	p.specFailed = outerFailed
	p.restore(st)
	return ok
}

// rescanGreater собирает '>>', '>=' и т.п. в позиции оператора.
func (p *Parser) rescanGreater() {
	if p.tok.Kind == token.Gt {
		p.tok = p.lx.RescanGreater(p.tok)
	}
}

// skipTo прокручивает токены до одного из kinds (не съедая его) или EOF.
func (p *Parser) skipTo(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.atAny(kinds...) {
		p.next()
	}
}

func (p *Parser) spanFromTo(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}
