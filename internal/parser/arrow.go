package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

// tryArrow пробует разобрать стрелочную функцию. Спекулятивно разбирается
// только заголовок до '=>'; тело разбирается уже без отката, чтобы ошибки
// в нём попадали в диагностику.
func (p *Parser) tryArrow() ast.Expr {
	if !p.maybeArrow() {
		return nil
	}
	start := p.tok.Span.Start
	var fn *ast.Function
	ok := p.try(func() bool {
		fn = p.parseArrowHead()
		return fn != nil && p.at(token.Arrow) && !p.tok.NewlineBefore
	})
	if !ok {
		return nil
	}
	p.next() // =>
	if p.at(token.LBrace) {
		fn.Body = p.parseFunctionBody(fn.Async != nil, false)
	} else {
		outerAsync, outerGen := p.inAsync, p.inGenerator
		p.inAsync, p.inGenerator = fn.Async != nil, false
		p.fnDepth++
		fn.ExprBody = p.parseAssign()
		p.fnDepth--
		p.inAsync, p.inGenerator = outerAsync, outerGen
	}
	fn.Range = p.spanFrom(start)
	return &ast.ArrowFunc{Base: ast.Base{Range: fn.Range}, Func: fn}
}

// maybeArrow: дешёвый фильтр перед спекуляцией.
func (p *Parser) maybeArrow() bool {
	switch p.tok.Kind {
	case token.LParen, token.Lt:
		return true
	case token.Ident:
		nk := p.peek()
		if nk.Kind == token.Arrow {
			return true
		}
		if p.tok.Text == "async" && !nk.NewlineBefore {
			return nk.Kind == token.Ident || nk.Kind == token.LParen || nk.Kind == token.Lt
		}
	}
	return false
}

func (p *Parser) parseArrowHead() *ast.Function {
	start := p.tok.Span.Start
	fn := &ast.Function{}
	if p.atWord("async") && p.peek().Kind != token.Arrow {
		sp := p.next().Span
		fn.Async = &sp
	}
	if p.at(token.Ident) {
		tok := p.next()
		id := &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: tok.Text}
		fn.Params = []*ast.Param{{Base: ast.Base{Range: tok.Span}, Pattern: id}}
		fn.Range = p.spanFrom(start)
		return fn
	}
	if p.at(token.Lt) {
		fn.TypeParams = p.parseTypeParams()
	}
	if !p.at(token.LParen) {
		return nil
	}
	outerAsync := p.inAsync
	p.inAsync = fn.Async != nil
	fn.Params, fn.ParamList = p.parseParams()
	p.inAsync = outerAsync
	if p.at(token.Colon) && !p.noArrowRetType {
		fn.ReturnType = p.parseReturnTypeAnn()
	}
	fn.Range = source.Span{Start: start, End: p.prevEnd}
	return fn
}
