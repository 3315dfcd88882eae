package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

func (p *Parser) parseIdent() *ast.Ident {
	if p.at(token.Ident) {
		tok := p.next()
		return &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: tok.Text}
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got "+p.describe())
	return &ast.Ident{Base: ast.Base{Range: source.Span{Start: p.tok.Span.Start, End: p.tok.Span.Start}}}
}

// parseFunctionDecl разбирает `[async] function [*] name<T>(params): R { ... }`.
// Тело может отсутствовать (перегрузка или declare).
func (p *Parser) parseFunctionDecl(start uint32, async *source.Span, nameOptional bool) ast.Stmt {
	fn := p.parseFunction(start, async, nameOptional, true)
	return &ast.FuncDecl{Base: ast.Base{Range: fn.Range}, Func: fn}
}

func (p *Parser) parseFunction(start uint32, async *source.Span, nameOptional, allowNoBody bool) *ast.Function {
	p.expect(token.KwFunction, diag.SynUnexpectedToken, "expected 'function'")
	fn := &ast.Function{Async: async}
	if p.eat(token.Star) {
		fn.Generator = true
	}
	if p.at(token.Ident) {
		fn.Name = p.parseIdent()
	} else if !nameOptional {
		p.err(diag.SynExpectIdentifier, "expected function name, got "+p.describe())
	}
	p.parseSignature(fn)
	switch {
	case p.at(token.LBrace):
		fn.Body = p.parseFunctionBody(fn.Async != nil, fn.Generator)
	case allowNoBody:
		p.semicolon()
	default:
		p.err(diag.SynUnexpectedToken, "expected '{', got "+p.describe())
	}
	fn.Range = p.spanFrom(start)
	return fn
}

// parseSignature разбирает `<T>(params): R` в fn.
func (p *Parser) parseSignature(fn *ast.Function) {
	if p.at(token.Lt) {
		fn.TypeParams = p.parseTypeParams()
	}
	fn.Params, fn.ParamList = p.parseParams()
	if p.at(token.Colon) {
		fn.ReturnType = p.parseReturnTypeAnn()
	}
}

func (p *Parser) parseFunctionBody(async, generator bool) *ast.BlockStmt {
	outerAsync, outerGen, outerNoIn := p.inAsync, p.inGenerator, p.noIn
	p.inAsync, p.inGenerator, p.noIn = async, generator, false
	p.fnDepth++
	body := p.parseBlock()
	p.fnDepth--
	p.inAsync, p.inGenerator, p.noIn = outerAsync, outerGen, outerNoIn
	return body
}

var paramModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "override": true,
}

func (p *Parser) parseParams() ([]*ast.Param, source.Span) {
	start := p.tok.Span.Start
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, p.spanFrom(start)
	}
	var params []*ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		params = append(params, p.parseParam())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	return params, p.spanFrom(start)
}

func (p *Parser) parseParam() *ast.Param {
	start := p.tok.Span.Start
	prm := &ast.Param{}
	for p.at(token.Ident) && paramModifiers[p.tok.Text] {
		nk := p.peek().Kind
		if nk != token.Ident && nk != token.LBrace && nk != token.LBracket {
			break
		}
		tok := p.next()
		prm.Modifiers = append(prm.Modifiers, ast.Modifier{Kind: tok.Text, Span: tok.Span})
	}
	if p.at(token.KwThis) {
		tok := p.next()
		prm.This = true
		prm.Pattern = &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: "this"}
		prm.Type = p.parseOptionalTypeAnn()
		prm.Range = p.spanFrom(start)
		return prm
	}
	if p.eat(token.Ellipsis) {
		prm.Rest = true
	}
	prm.Pattern = p.parseBindingTarget()
	if p.at(token.Question) {
		sp := p.next().Span
		prm.Optional = &sp
	}
	prm.Type = p.parseOptionalTypeAnn()
	if p.eat(token.Assign) {
		prm.Default = p.parseAssign()
	}
	prm.Range = p.spanFrom(start)
	return prm
}

// parseBindingTarget: идентификатор, {…} или […].
func (p *Parser) parseBindingTarget() ast.Node {
	switch p.tok.Kind {
	case token.LBracket:
		return p.parseArrayPattern()
	case token.LBrace:
		return p.parseObjectPattern()
	}
	return p.parseIdent()
}

func (p *Parser) parseBindingElement() ast.Node {
	start := p.tok.Span.Start
	target := p.parseBindingTarget()
	if p.eat(token.Assign) {
		def := p.parseAssign()
		return &ast.AssignPattern{Base: ast.Base{Range: p.spanFrom(start)}, Target: target, Default: def}
	}
	return target
}

func (p *Parser) parseArrayPattern() ast.Node {
	start := p.next().Span.Start // [
	pat := &ast.ArrayPattern{}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if p.at(token.Comma) {
			p.next()
			pat.Elems = append(pat.Elems, nil)
			continue
		}
		if p.at(token.Ellipsis) {
			rstart := p.next().Span.Start
			arg := p.parseBindingTarget()
			pat.Elems = append(pat.Elems, &ast.RestElement{Base: ast.Base{Range: p.spanFrom(rstart)}, Arg: arg})
		} else {
			pat.Elems = append(pat.Elems, p.parseBindingElement())
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	pat.Range = p.spanFrom(start)
	return pat
}

func (p *Parser) parseObjectPattern() ast.Node {
	start := p.next().Span.Start // {
	pat := &ast.ObjectPattern{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		pstart := p.tok.Span.Start
		if p.eat(token.Ellipsis) {
			arg := p.parseBindingTarget()
			pat.Props = append(pat.Props, &ast.RestElement{Base: ast.Base{Range: p.spanFrom(pstart)}, Arg: arg})
		} else {
			key, computed := p.parsePropertyKey()
			prop := &ast.PatternProp{Key: key, Computed: computed}
			if p.eat(token.Colon) {
				prop.Value = p.parseBindingElement()
			} else {
				id, ok := key.(*ast.Ident)
				if !ok || computed {
					p.err(diag.SynUnexpectedToken, "expected ':' in object pattern")
					id = &ast.Ident{Base: ast.Base{Range: key.Span()}}
				}
				prop.Shorthand = true
				prop.Value = id
				if p.eat(token.Assign) {
					def := p.parseAssign()
					prop.Value = &ast.AssignPattern{Base: ast.Base{Range: p.spanFrom(pstart)}, Target: id, Default: def}
				}
			}
			prop.Range = p.spanFrom(pstart)
			pat.Props = append(pat.Props, prop)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
	pat.Range = p.spanFrom(start)
	return pat
}

// parsePropertyKey: имя, строка, число, #private или [computed].
func (p *Parser) parsePropertyKey() (ast.Expr, bool) {
	tok := p.tok
	switch {
	case tok.Kind == token.Ident || tok.Kind.IsKeyword() || tok.Kind == token.PrivateName:
		p.next()
		return &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: tok.Text}, false
	case tok.Kind == token.String:
		return p.parseStringLit(), false
	case tok.Kind == token.Number:
		p.next()
		return &ast.Lit{Base: ast.Base{Range: tok.Span}, Kind: tok.Kind, Raw: tok.Text}, false
	case tok.Kind == token.LBracket:
		p.next()
		outer := p.noIn
		p.noIn = false
		x := p.parseAssign()
		p.noIn = outer
		p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
		return x, true
	}
	p.err(diag.SynExpectIdentifier, "expected property name, got "+p.describe())
	p.next()
	return &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: tok.Text}, false
}

func isPropertyKeyStart(tok token.Token) bool {
	switch tok.Kind {
	case token.Ident, token.String, token.Number, token.LBracket, token.PrivateName:
		return true
	}
	return tok.Kind.IsKeyword()
}
