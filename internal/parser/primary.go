package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.tok
	start := tok.Span.Start
	switch tok.Kind {
	case token.Ident:
		if tok.Text == "async" {
			if nk := p.peek(); nk.Kind == token.KwFunction && !nk.NewlineBefore {
				sp := p.next().Span
				fn := p.parseFunction(start, &sp, true, false)
				return &ast.FuncExpr{Base: ast.Base{Range: fn.Range}, Func: fn}
			}
		}
		p.next()
		return &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: tok.Text}
	case token.PrivateName:
		p.next()
		return &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: tok.Text}
	case token.KwThis:
		p.next()
		return &ast.ThisExpr{Base: ast.Base{Range: tok.Span}}
	case token.KwSuper:
		p.next()
		return &ast.SuperExpr{Base: ast.Base{Range: tok.Span}}
	case token.KwNull, token.KwTrue, token.KwFalse, token.Number:
		p.next()
		return &ast.Lit{Base: ast.Base{Range: tok.Span}, Kind: tok.Kind, Raw: tok.Text}
	case token.String:
		return p.parseStringLit()
	case token.Slash, token.SlashAssign:
		p.tok = p.lx.RescanRegex(p.tok)
		tok = p.next()
		return &ast.Lit{Base: ast.Base{Range: tok.Span}, Kind: token.Regex, Raw: tok.Text}
	case token.NoSubstTemplate, token.TemplateHead:
		return p.parseTemplate()
	case token.LParen:
		p.next()
		x := p.parseExpressionNoInRestriction()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		return &ast.ParenExpr{Base: ast.Base{Range: p.spanFrom(start)}, X: x}
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		return p.parseObjectLit()
	case token.KwFunction:
		fn := p.parseFunction(start, nil, true, false)
		return &ast.FuncExpr{Base: ast.Base{Range: fn.Range}, Func: fn}
	case token.KwClass:
		c := p.parseClass(start, nil, true)
		return &ast.ClassExpr{Base: ast.Base{Range: c.Range}, Class: c}
	case token.KwImport:
		return p.parseImportExpr()
	case token.Lt:
		return p.parseMarkup()
	case token.KwNew:
		return p.parsePrimaryOrNew()
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+p.describe())
	switch tok.Kind {
	case token.RParen, token.RBracket, token.RBrace, token.Semicolon, token.EOF:
	default:
		p.next()
	}
	return &ast.Ident{Base: ast.Base{Range: source.Span{Start: start, End: start}}}
}

// parseImportExpr: import.meta или import(x[, options]).
func (p *Parser) parseImportExpr() ast.Expr {
	kw := p.next().Span
	if p.eat(token.Dot) {
		if !p.atWord("meta") {
			p.err(diag.SynUnexpectedToken, "expected 'import.meta', got "+p.describe())
		} else {
			p.next()
		}
		return &ast.ImportMeta{Base: ast.Base{Range: p.spanFrom(kw.Start)}}
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after import"); !ok {
		return &ast.ImportCall{Base: ast.Base{Range: p.spanFrom(kw.Start)}, Keyword: kw}
	}
	outer := p.noIn
	p.noIn = false
	call := &ast.ImportCall{Keyword: kw, Arg: p.parseAssign()}
	if p.eat(token.Comma) && !p.at(token.RParen) {
		call.Options = p.parseAssign()
		p.eat(token.Comma)
	}
	p.noIn = outer
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close import()")
	call.Range = p.spanFrom(kw.Start)
	return call
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.next().Span.Start
	outer := p.noIn
	p.noIn = false
	arr := &ast.ArrayLit{}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if p.eat(token.Comma) {
			arr.Elems = append(arr.Elems, nil)
			continue
		}
		if p.at(token.Ellipsis) {
			sstart := p.next().Span.Start
			x := p.parseAssign()
			arr.Elems = append(arr.Elems, &ast.SpreadElement{Base: ast.Base{Range: p.spanFrom(sstart)}, X: x})
		} else {
			arr.Elems = append(arr.Elems, p.parseAssign())
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.noIn = outer
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close array literal")
	arr.Range = p.spanFrom(start)
	return arr
}

func (p *Parser) parseObjectLit() ast.Expr {
	start := p.next().Span.Start
	outer := p.noIn
	p.noIn = false
	obj := &ast.ObjectLit{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.tok.Span.Start
		obj.Props = append(obj.Props, p.parseObjectMember())
		if !p.eat(token.Comma) {
			break
		}
		if p.tok.Span.Start == before {
			break
		}
	}
	p.noIn = outer
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close object literal")
	obj.Range = p.spanFrom(start)
	return obj
}

func (p *Parser) parseObjectMember() ast.Node {
	start := p.tok.Span.Start
	if p.eat(token.Ellipsis) {
		x := p.parseAssign()
		return &ast.SpreadElement{Base: ast.Base{Range: p.spanFrom(start)}, X: x}
	}

	kind := "init"
	var async *source.Span
	generator := false
	if p.atWord("async") {
		if nk := p.peek(); !nk.NewlineBefore && (isPropertyKeyStart(nk) || nk.Kind == token.Star) {
			sp := p.next().Span
			async = &sp
			kind = "method"
		}
	}
	if p.eat(token.Star) {
		generator = true
		kind = "method"
	}
	if (p.atWord("get") || p.atWord("set")) && kind == "init" {
		if nk := p.peek(); isPropertyKeyStart(nk) {
			kind = p.next().Text
		}
	}

	key, computed := p.parsePropertyKey()
	prop := &ast.Property{Kind: kind, Key: key, Computed: computed}
	switch {
	case p.at(token.LParen) || p.at(token.Lt):
		if prop.Kind == "init" {
			prop.Kind = "method"
		}
		fn := &ast.Function{Async: async, Generator: generator}
		p.parseSignature(fn)
		fn.Body = p.parseFunctionBody(async != nil, generator)
		fn.Range = p.spanFrom(key.Span().Start)
		prop.Func = fn
	case kind != "init":
		p.err(diag.SynUnexpectedToken, "expected '(' after method name, got "+p.describe())
	case p.eat(token.Colon):
		prop.Value = p.parseAssign()
	default:
		id, ok := key.(*ast.Ident)
		if !ok || computed {
			p.err(diag.SynUnexpectedToken, "expected ':' in object literal, got "+p.describe())
			break
		}
		prop.Shorthand = true
		prop.Value = id
		if p.at(token.Assign) {
			// cover grammar: {a = 1} допустим только как шаблон деструктуризации
			p.next()
			def := p.parseAssign()
			prop.Value = &ast.AssignExpr{Base: ast.Base{Range: p.spanFrom(start)}, Op: token.Assign, Target: id, Value: def}
		}
	}
	prop.Range = p.spanFrom(start)
	return prop
}

// parseTemplate разбирает `a${x}b${y}c`; после каждого выражения '}'
// пересканируется как продолжение шаблона.
func (p *Parser) parseTemplate() *ast.TemplateLit {
	start := p.tok.Span.Start
	tl := &ast.TemplateLit{}
	if p.at(token.NoSubstTemplate) {
		tl.Quasis = append(tl.Quasis, p.next().Span)
		tl.Range = p.spanFrom(start)
		return tl
	}
	tl.Quasis = append(tl.Quasis, p.next().Span)
	for {
		tl.Exprs = append(tl.Exprs, p.parseExpressionNoInRestriction())
		if !p.at(token.RBrace) {
			p.err(diag.LexUnterminatedTemplate, "expected '}' in template literal, got "+p.describe())
			break
		}
		p.tok = p.lx.RescanTemplate(p.tok)
		part := p.next()
		tl.Quasis = append(tl.Quasis, part.Span)
		if part.Kind != token.TemplateMiddle {
			break
		}
	}
	tl.Range = p.spanFrom(start)
	return tl
}
