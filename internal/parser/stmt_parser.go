package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

// parseStatementList разбирает операторы до stop(); директивы пролога
// ("use strict") помечаются в ExprStmt.Directive.
func (p *Parser) parseStatementList(stop func() bool) []ast.Stmt {
	var out []ast.Stmt
	prologue := true
	for !stop() && !p.at(token.EOF) {
		before := p.tok.Span.Start
		errs := p.opts.CurrentErrors
		st := p.parseStatement()
		if st != nil {
			if es, ok := st.(*ast.ExprStmt); ok && prologue {
				if s, ok := es.X.(*ast.StringLit); ok {
					es.Directive = s.Value
				} else {
					prologue = false
				}
			} else {
				prologue = false
			}
			out = append(out, st)
		}
		if p.opts.CurrentErrors != errs {
			p.resync()
		}
		if p.tok.Span.Start == before && !p.at(token.EOF) {
			p.next() // гарантируем прогресс
		}
	}
	return out
}

// resync: восстановление после ошибки: до ';', '}' или начала новой строки.
func (p *Parser) resync() {
	for !p.at(token.EOF) {
		if p.eat(token.Semicolon) || p.at(token.RBrace) || p.tok.NewlineBefore {
			return
		}
		p.next()
	}
}

func (p *Parser) parseStatement() ast.Stmt {
	start := p.tok.Span.Start
	switch p.tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.next()
		return &ast.EmptyStmt{Base: ast.Base{Range: p.spanFrom(start)}}
	case token.KwVar:
		return p.parseVarStatement()
	case token.KwConst:
		if p.peek().Is("enum") {
			p.next()
			return p.parseEnum(start)
		}
		return p.parseVarStatement()
	case token.KwFunction:
		return p.parseFunctionDecl(start, nil, false)
	case token.KwClass:
		return p.parseClassDecl(start, nil)
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwThrow:
		return p.parseThrow()
	case token.KwBreak, token.KwContinue:
		return p.parseJump()
	case token.KwTry:
		return p.parseTry()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwWith:
		return p.parseWith()
	case token.KwDebugger:
		p.next()
		p.semicolon()
		return &ast.DebuggerStmt{Base: ast.Base{Range: p.spanFrom(start)}}
	case token.KwImport:
		if nk := p.peek().Kind; nk != token.LParen && nk != token.Dot {
			return p.parseImport()
		}
	case token.KwExport:
		return p.parseExport()
	case token.Ident:
		if st := p.parseWordStatement(); st != nil {
			return st
		}
	}
	return p.parseExpressionStatement()
}

// parseWordStatement обрабатывает операторы, начинающиеся с контекстного слова.
// Возвращает nil, если слово оказалось обычным идентификатором.
func (p *Parser) parseWordStatement() ast.Stmt {
	start := p.tok.Span.Start
	next := p.peek()
	sameLineIdent := !next.NewlineBefore && (next.Kind == token.Ident || next.Kind.IsKeyword())
	switch p.tok.Text {
	case "let":
		if next.Kind == token.Ident || next.Kind == token.LBracket || next.Kind == token.LBrace {
			return p.parseVarStatement()
		}
	case "using":
		if sameLineIdent && next.Kind == token.Ident {
			return p.parseVarStatement()
		}
	case "async":
		if next.Kind == token.KwFunction && !next.NewlineBefore {
			asyncSpan := p.next().Span
			return p.parseFunctionDecl(start, &asyncSpan, false)
		}
	case "abstract":
		if next.Kind == token.KwClass && !next.NewlineBefore {
			mod := ast.Modifier{Kind: "abstract", Span: p.next().Span}
			return p.parseClassDecl(start, []ast.Modifier{mod})
		}
	case "interface":
		if sameLineIdent {
			return p.parseInterface(start)
		}
	case "type":
		if sameLineIdent {
			return p.parseTypeAlias(start)
		}
	case "enum":
		if sameLineIdent {
			return p.parseEnum(start)
		}
	case "namespace", "module":
		if sameLineIdent || (next.Kind == token.String && !next.NewlineBefore) {
			return p.parseNamespace(start)
		}
	case "global":
		if next.Kind == token.LBrace && !next.NewlineBefore {
			return p.parseNamespace(start)
		}
	case "declare":
		if sameLineIdent || (next.Kind == token.Ident && !next.NewlineBefore) {
			return p.parseDeclare(start)
		}
	}
	if next.Kind == token.Colon {
		label := p.parseIdent()
		p.next() // :
		body := p.parseStatement()
		return &ast.LabeledStmt{Base: ast.Base{Range: p.spanFrom(start)}, Label: label, Body: body}
	}
	return nil
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	start := p.tok.Span.Start
	x := p.parseExpression()
	p.semicolon()
	return &ast.ExprStmt{Base: ast.Base{Range: p.spanFrom(start)}, X: x}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.tok.Span.Start
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return &ast.BlockStmt{Base: ast.Base{Range: p.spanFrom(start)}}
	}
	body := p.parseStatementList(func() bool { return p.at(token.RBrace) })
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
	return &ast.BlockStmt{Base: ast.Base{Range: p.spanFrom(start)}, Body: body}
}

func (p *Parser) parseVarStatement() ast.Stmt {
	d := p.parseVarDecl(true)
	d.Semi = p.semicolon()
	d.Range = p.spanFrom(d.Range.Start)
	return d
}

// parseVarDecl разбирает `kind a = 1, b` без завершающего ';'.
// allowInit=false оставляет '=' вызывающему.
func (p *Parser) parseVarDecl(allowInit bool) *ast.VarDecl {
	start := p.tok.Span.Start
	kind := p.next().Text
	d := &ast.VarDecl{Kind: kind}
	for {
		dstart := p.tok.Span.Start
		decl := &ast.VarDeclarator{Target: p.parseBindingTarget()}
		if p.at(token.Bang) && !p.tok.NewlineBefore {
			sp := p.next().Span
			decl.Definite = &sp
		}
		decl.Type = p.parseOptionalTypeAnn()
		if allowInit && p.eat(token.Assign) {
			decl.Init = p.parseAssign()
		}
		decl.Range = p.spanFrom(dstart)
		d.Decls = append(d.Decls, decl)
		if !p.eat(token.Comma) {
			break
		}
	}
	d.Range = p.spanFrom(start)
	return d
}
