package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

// Типы разбираются ради границ: AST хранит только их спаны.

func (p *Parser) parseOptionalTypeAnn() *ast.TypeAnn {
	if !p.at(token.Colon) {
		return nil
	}
	start := p.next().Span.Start
	p.parseType()
	return &ast.TypeAnn{Base: ast.Base{Range: p.spanFrom(start)}}
}

// parseReturnTypeAnn допускает предикаты `x is T`, `asserts x [is T]`.
func (p *Parser) parseReturnTypeAnn() *ast.TypeAnn {
	start := p.next().Span.Start // :
	if p.atWord("asserts") {
		if nk := p.peek(); !nk.NewlineBefore && (nk.Kind == token.Ident || nk.Kind == token.KwThis) {
			p.next()
			p.next()
			if p.atWord("is") && !p.tok.NewlineBefore {
				p.next()
				p.parseType()
			}
			return &ast.TypeAnn{Base: ast.Base{Range: p.spanFrom(start)}}
		}
	}
	if (p.at(token.Ident) || p.at(token.KwThis)) && p.peek().Is("is") && !p.peek().NewlineBefore {
		p.next()
		p.next()
	}
	p.parseType()
	return &ast.TypeAnn{Base: ast.Base{Range: p.spanFrom(start)}}
}

func (p *Parser) parseTypeParams() *ast.TypeParams {
	start := p.next().Span.Start // <
	for !p.at(token.Gt) && !p.at(token.EOF) {
		for p.at(token.KwConst) || p.at(token.KwIn) || p.atWord("out") && p.peek().Kind == token.Ident {
			p.next()
		}
		p.parseIdent()
		if p.eat(token.KwExtends) {
			p.parseType()
		}
		if p.eat(token.Assign) {
			p.parseType()
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.Gt, diag.SynExpectType, "expected '>' to close type parameters")
	return &ast.TypeParams{Base: ast.Base{Range: p.spanFrom(start)}}
}

func (p *Parser) parseTypeArgs() *ast.TypeArgs {
	start := p.next().Span.Start // <
	for !p.at(token.Gt) && !p.at(token.EOF) {
		p.parseType()
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.Gt, diag.SynExpectType, "expected '>' to close type arguments")
	return &ast.TypeArgs{Base: ast.Base{Range: p.spanFrom(start)}}
}

func (p *Parser) parseType() {
	if p.isFunctionTypeStart() {
		p.parseFunctionType()
		return
	}
	p.parseUnionType()
	if p.at(token.KwExtends) && !p.tok.NewlineBefore {
		p.next()
		p.parseUnionType()
		p.expect(token.Question, diag.SynExpectType, "expected '?' in conditional type")
		p.parseType()
		p.expect(token.Colon, diag.SynExpectType, "expected ':' in conditional type")
		p.parseType()
	}
}

// isFunctionTypeStart: `<T>(...) =>`, `(...) =>`, `new (...) =>`, `abstract new`.
func (p *Parser) isFunctionTypeStart() bool {
	switch {
	case p.at(token.Lt), p.at(token.KwNew):
		return true
	case p.atWord("abstract") && p.peek().Kind == token.KwNew:
		return true
	case p.at(token.LParen):
		return p.lookahead(func() bool {
			p.parseParams()
			return p.at(token.Arrow)
		})
	}
	return false
}

func (p *Parser) parseFunctionType() {
	if p.atWord("abstract") {
		p.next()
	}
	p.eat(token.KwNew)
	if p.at(token.Lt) {
		p.parseTypeParams()
	}
	p.parseParams()
	p.expect(token.Arrow, diag.SynExpectType, "expected '=>' in function type")
	if (p.at(token.Ident) || p.at(token.KwThis)) && p.peek().Is("is") {
		p.next()
		p.next()
	}
	p.parseType()
}

func (p *Parser) parseUnionType() {
	p.eat(token.Pipe)
	p.parseIntersectionType()
	for p.eat(token.Pipe) {
		p.parseIntersectionType()
	}
}

func (p *Parser) parseIntersectionType() {
	p.eat(token.Amp)
	p.parseTypeOperator()
	for p.eat(token.Amp) {
		p.parseTypeOperator()
	}
}

func (p *Parser) parseTypeOperator() {
	switch {
	case p.atWord("keyof") || p.atWord("unique") || p.atWord("readonly"):
		if nk := p.peek(); nk.Kind != token.Comma && nk.Kind != token.RParen && nk.Kind != token.Gt &&
			nk.Kind != token.Semicolon && nk.Kind != token.RBracket && nk.Kind != token.Assign {
			p.next()
			p.parseTypeOperator()
			return
		}
	case p.atWord("infer"):
		if p.peek().Kind == token.Ident {
			p.next()
			p.parseIdent()
			if p.at(token.KwExtends) {
				p.lookaheadConstraint()
			}
			return
		}
	}
	p.parsePostfixType()
}

// lookaheadConstraint съедает `extends C` после infer, если это не условный тип.
func (p *Parser) lookaheadConstraint() {
	p.try(func() bool {
		p.next()
		p.parseUnionType()
		return !p.at(token.Question)
	})
}

func (p *Parser) parsePostfixType() {
	p.parsePrimaryType()
	for p.at(token.LBracket) && !p.tok.NewlineBefore {
		p.next()
		if !p.at(token.RBracket) {
			p.parseType()
		}
		p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' in type")
	}
}

func (p *Parser) parsePrimaryType() {
	switch tok := p.tok; {
	case tok.Kind == token.LParen:
		p.next()
		p.parseType()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' in type")
	case tok.Kind == token.LBracket:
		p.parseTupleType()
	case tok.Kind == token.LBrace:
		p.parseTypeMembers()
	case tok.Kind == token.KwTypeof:
		p.next()
		if p.at(token.KwImport) {
			p.parseImportType()
		} else {
			p.parseEntityName()
		}
		if p.at(token.Lt) && !p.tok.NewlineBefore {
			p.parseTypeArgs()
		}
	case tok.Kind == token.KwImport:
		p.parseImportType()
	case tok.Kind == token.String, tok.Kind == token.Number, tok.Kind == token.KwTrue,
		tok.Kind == token.KwFalse, tok.Kind == token.KwNull, tok.Kind == token.KwVoid,
		tok.Kind == token.KwThis, tok.Kind == token.NoSubstTemplate:
		p.next()
	case tok.Kind == token.Minus && p.peek().Kind == token.Number:
		p.next()
		p.next()
	case tok.Kind == token.TemplateHead:
		p.parseTemplateType()
	case tok.Kind == token.Ident:
		p.parseEntityName()
		if p.at(token.Lt) && !p.tok.NewlineBefore {
			p.parseTypeArgs()
		}
	default:
		p.err(diag.SynExpectType, "expected type, got "+p.describe())
		if !p.at(token.EOF) {
			p.next()
		}
	}
}

func (p *Parser) parseEntityName() {
	p.parseIdent()
	for p.at(token.Dot) {
		p.next()
		if p.at(token.Ident) || p.tok.Kind.IsKeyword() || p.at(token.PrivateName) {
			p.next()
		} else {
			p.err(diag.SynExpectIdentifier, "expected name after '.', got "+p.describe())
			return
		}
	}
}

func (p *Parser) parseImportType() {
	p.next() // import
	p.expect(token.LParen, diag.SynExpectType, "expected '(' in import type")
	p.expect(token.String, diag.SynExpectType, "expected module specifier")
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' in import type")
	for p.eat(token.Dot) {
		p.parseIdent()
	}
	if p.at(token.Lt) {
		p.parseTypeArgs()
	}
}

func (p *Parser) parseTemplateType() {
	p.next() // head
	for {
		p.parseType()
		if !p.at(token.RBrace) {
			p.err(diag.SynExpectType, "expected '}' in template literal type")
			return
		}
		p.tok = p.lx.RescanTemplate(p.tok)
		if p.next().Kind == token.TemplateTail {
			return
		}
	}
}

// [A, B?, ...C[], name: D]
func (p *Parser) parseTupleType() {
	p.next() // [
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		p.eat(token.Ellipsis)
		if p.at(token.Ident) {
			if nk := p.peek(); nk.Kind == token.Colon || (nk.Kind == token.Question && p.lookahead(func() bool {
				p.next()
				p.next()
				return p.at(token.Colon)
			})) {
				p.next()
				p.eat(token.Question)
				p.next() // :
			}
		}
		p.parseType()
		p.eat(token.Question)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close tuple type")
}

// parseTypeMembers разбирает тело интерфейса или литерала типа, включая
// mapped types `{ [K in T]: V }`.
func (p *Parser) parseTypeMembers() {
	p.expect(token.LBrace, diag.SynExpectType, "expected '{'")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.tok.Span.Start
		p.parseTypeMember()
		if !p.eat(token.Semicolon) && !p.eat(token.Comma) && !p.at(token.RBrace) && !p.tok.NewlineBefore {
			p.err(diag.SynExpectType, "expected ';' between type members, got "+p.describe())
		}
		if p.tok.Span.Start == before {
			p.next()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close type")
}

func (p *Parser) parseTypeMember() {
	// +readonly / -readonly / readonly модификаторы
	if (p.at(token.Plus) || p.at(token.Minus)) && p.peek().Is("readonly") {
		p.next()
	}
	if p.atWord("readonly") && isPropertyKeyStart(p.peek()) {
		p.next()
	}
	switch {
	case p.at(token.LParen), p.at(token.Lt):
		p.parseCallSignature()
		return
	case p.at(token.KwNew) && (p.peek().Kind == token.LParen || p.peek().Kind == token.Lt):
		p.next()
		p.parseCallSignature()
		return
	case p.at(token.LBracket):
		if p.isMappedTypeMember() {
			p.parseMappedTypeMember()
			return
		}
		if p.isIndexSignature() {
			p.parseIndexSignatureBody()
			return
		}
	case (p.atWord("get") || p.atWord("set")) && isPropertyKeyStart(p.peek()):
		p.next()
	}
	p.parsePropertyKey()
	p.eat(token.Question)
	if p.at(token.LParen) || p.at(token.Lt) {
		p.parseCallSignature()
		return
	}
	p.parseOptionalTypeAnn()
}

func (p *Parser) parseCallSignature() {
	fn := &ast.Function{}
	p.parseSignature(fn)
}

func (p *Parser) isMappedTypeMember() bool {
	return p.lookahead(func() bool {
		p.next()
		if !p.at(token.Ident) {
			return false
		}
		p.next()
		return p.at(token.KwIn)
	})
}

func (p *Parser) parseMappedTypeMember() {
	p.next() // [
	p.parseIdent()
	p.next() // in
	p.parseType()
	if p.atWord("as") {
		p.next()
		p.parseType()
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' in mapped type")
	if (p.at(token.Plus) || p.at(token.Minus)) && p.peek().Kind == token.Question {
		p.next()
	}
	p.eat(token.Question)
	p.parseOptionalTypeAnn()
}
