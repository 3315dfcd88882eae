package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

func (p *Parser) parseInterface(start uint32) ast.Stmt {
	p.next() // interface
	d := &ast.TypeDecl{Kind: "interface", Name: p.parseIdent()}
	if p.at(token.Lt) {
		p.parseTypeParams()
	}
	if p.eat(token.KwExtends) {
		for {
			p.parseType()
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.parseTypeMembers()
	d.Range = p.spanFrom(start)
	return d
}

func (p *Parser) parseTypeAlias(start uint32) ast.Stmt {
	p.next() // type
	d := &ast.TypeDecl{Kind: "type", Name: p.parseIdent()}
	if p.at(token.Lt) {
		p.parseTypeParams()
	}
	p.expect(token.Assign, diag.SynExpectType, "expected '=' in type alias")
	p.parseType()
	p.semicolon()
	d.Range = p.spanFrom(start)
	return d
}

// parseEnum: `[const] enum Name { A, B = 1, "c" }`; const уже съеден вызывающим.
func (p *Parser) parseEnum(start uint32) ast.Stmt {
	p.next() // enum
	d := &ast.TypeDecl{Kind: "enum", Name: p.parseIdent()}
	p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' in enum")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.parsePropertyKey()
		if p.eat(token.Assign) {
			p.parseAssign()
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close enum")
	d.Range = p.spanFrom(start)
	return d
}

// parseNamespace: namespace A.B { ... }, module "x" { ... }, global { ... }.
func (p *Parser) parseNamespace(start uint32) ast.Stmt {
	kind := p.next().Text
	d := &ast.TypeDecl{Kind: "namespace"}
	switch {
	case kind == "global":
		d.Name = &ast.Ident{}
	case p.at(token.String):
		s := p.parseStringLit()
		d.Name = &ast.Ident{Base: s.Base}
	default:
		d.Name = p.parseIdent()
		for p.eat(token.Dot) {
			p.parseIdent()
		}
	}
	if p.at(token.LBrace) {
		p.next()
		p.fnDepth++
		p.parseStatementList(func() bool { return p.at(token.RBrace) })
		p.fnDepth--
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close namespace")
	} else {
		p.semicolon()
	}
	d.Range = p.spanFrom(start)
	return d
}

func (p *Parser) parseDeclare(start uint32) ast.Stmt {
	p.next() // declare
	decl := p.parseStatement()
	return &ast.DeclareStmt{Base: ast.Base{Range: p.spanFrom(start)}, Decl: decl}
}
