package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

func (p *Parser) parseClassDecl(start uint32, mods []ast.Modifier) ast.Stmt {
	c := p.parseClass(start, mods, false)
	return &ast.ClassDecl{Base: ast.Base{Range: c.Range}, Class: c}
}

func (p *Parser) parseClass(start uint32, mods []ast.Modifier, nameOptional bool) *ast.Class {
	p.expect(token.KwClass, diag.SynUnexpectedToken, "expected 'class'")
	c := &ast.Class{Modifiers: mods}
	if p.at(token.Ident) && !p.atWord("implements") {
		c.Name = p.parseIdent()
	} else if !nameOptional {
		p.err(diag.SynExpectIdentifier, "expected class name, got "+p.describe())
	}
	if p.at(token.Lt) {
		c.TypeParams = p.parseTypeParams()
	}
	if p.eat(token.KwExtends) {
		c.Super = p.parseCallChain(p.parsePrimaryOrNew(), false)
		if p.at(token.Lt) {
			c.SuperTypeArgs = p.parseTypeArgs()
		}
	}
	if p.atWord("implements") {
		istart := p.next().Span.Start
		for {
			p.parseType()
			if !p.eat(token.Comma) {
				break
			}
		}
		sp := p.spanFrom(istart)
		c.Implements = &sp
	}
	p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open class body")
	outerNoIn := p.noIn
	p.noIn = false
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			continue
		}
		before := p.tok.Span.Start
		if m := p.parseClassMember(); m != nil {
			c.Members = append(c.Members, m)
		}
		if p.tok.Span.Start == before {
			p.next()
		}
	}
	p.noIn = outerNoIn
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close class body")
	c.Range = p.spanFrom(start)
	return c
}

var memberModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "abstract": true,
	"override": true, "declare": true, "static": true, "accessor": true,
}

func (p *Parser) parseClassMember() ast.Node {
	start := p.tok.Span.Start
	if p.atWord("static") && p.peek().Kind == token.LBrace {
		p.next()
		body := p.parseFunctionBody(false, false)
		return &ast.StaticBlock{Base: ast.Base{Range: p.spanFrom(start)}, Body: body}
	}

	var mods []ast.Modifier
	static := false
	for p.at(token.Ident) && memberModifiers[p.tok.Text] {
		nk := p.peek()
		if !isPropertyKeyStart(nk) && nk.Kind != token.Star {
			break
		}
		tok := p.next()
		if tok.Text == "static" {
			static = true
		}
		mods = append(mods, ast.Modifier{Kind: tok.Text, Span: tok.Span})
	}

	if p.at(token.LBracket) && p.isIndexSignature() {
		p.parseIndexSignatureBody()
		p.semicolon()
		return &ast.IndexSignature{Base: ast.Base{Range: p.spanFrom(start)}}
	}

	kind := "method"
	var async *source.Span
	generator := false
	if p.atWord("async") {
		if nk := p.peek(); !nk.NewlineBefore && (isPropertyKeyStart(nk) || nk.Kind == token.Star) {
			sp := p.next().Span
			async = &sp
		}
	}
	if p.eat(token.Star) {
		generator = true
	}
	if (p.atWord("get") || p.atWord("set")) && async == nil && !generator {
		if nk := p.peek(); isPropertyKeyStart(nk) {
			kind = p.next().Text
		}
	}

	key, computed := p.parsePropertyKey()
	var optional, definite *source.Span
	if p.at(token.Question) {
		sp := p.next().Span
		optional = &sp
	} else if p.at(token.Bang) {
		sp := p.next().Span
		definite = &sp
	}

	if p.at(token.LParen) || p.at(token.Lt) {
		if kind == "method" && !computed && isConstructorKey(key) {
			kind = "constructor"
		}
		fn := &ast.Function{Async: async, Generator: generator}
		p.parseSignature(fn)
		if p.at(token.LBrace) {
			fn.Body = p.parseFunctionBody(async != nil, generator)
		} else {
			p.semicolon()
		}
		fn.Range = p.spanFrom(key.Span().Start)
		return &ast.MethodDef{
			Base:      ast.Base{Range: p.spanFrom(start)},
			Modifiers: mods, Static: static, Kind: kind,
			Key: key, Computed: computed, Optional: optional, Func: fn,
		}
	}

	f := &ast.FieldDef{Modifiers: mods, Static: static, Key: key, Computed: computed, Optional: optional, Definite: definite}
	f.Type = p.parseOptionalTypeAnn()
	if p.eat(token.Assign) {
		p.fnDepth++
		f.Value = p.parseAssign()
		p.fnDepth--
	}
	p.semicolon()
	f.Range = p.spanFrom(start)
	return f
}

func isConstructorKey(key ast.Expr) bool {
	switch k := key.(type) {
	case *ast.Ident:
		return k.Name == "constructor"
	case *ast.StringLit:
		return k.Value == "constructor"
	}
	return false
}

// isIndexSignature проверяет форму `[name: ...`.
func (p *Parser) isIndexSignature() bool {
	return p.lookahead(func() bool {
		p.next()
		if !p.at(token.Ident) {
			return false
		}
		p.next()
		return p.at(token.Colon)
	})
}

func (p *Parser) parseIndexSignatureBody() {
	p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '['")
	p.parseIdent()
	p.parseOptionalTypeAnn()
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	p.parseOptionalTypeAnn()
}
