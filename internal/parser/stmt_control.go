package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

func (p *Parser) parseParenExpr() ast.Expr {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	x := p.parseExpression()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	return x
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.next().Span.Start
	st := &ast.IfStmt{Test: p.parseParenExpr()}
	st.Cons = p.parseStatement()
	if p.eat(token.KwElse) {
		st.Alt = p.parseStatement()
	}
	st.Range = p.spanFrom(start)
	return st
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.next().Span.Start
	st := &ast.WhileStmt{Test: p.parseParenExpr()}
	st.Body = p.parseStatement()
	st.Range = p.spanFrom(start)
	return st
}

func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.next().Span.Start
	st := &ast.DoWhileStmt{Body: p.parseStatement()}
	p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while'")
	st.Test = p.parseParenExpr()
	p.eat(token.Semicolon) // после do-while ';' всегда необязателен
	st.Range = p.spanFrom(start)
	return st
}

// parseFor разбирает все три формы: for(;;), for-in и for-of (включая for await).
func (p *Parser) parseFor() ast.Stmt {
	start := p.next().Span.Start
	var awaitSpan *source.Span
	if p.atWord("await") {
		sp := p.next().Span
		awaitSpan = &sp
	}
	p.expect(token.LParen, diag.SynForBadHeader, "expected '(' after 'for'")

	var init ast.Node
	outerNoIn := p.noIn
	p.noIn = true
	switch {
	case p.at(token.Semicolon):
	case p.at(token.KwVar), p.at(token.KwConst),
		p.atWord("let") && p.isLetDecl(), p.atWord("using") && p.peek().Kind == token.Ident:
		init = p.parseVarDecl(true)
	default:
		init = p.parseExpression()
	}
	p.noIn = outerNoIn

	switch {
	case init != nil && p.atWord("of"):
		p.next()
		right := p.parseAssign()
		p.expect(token.RParen, diag.SynForBadHeader, "expected ')'")
		st := &ast.ForOfStmt{Await: awaitSpan, Left: init, Right: right}
		st.Body = p.parseStatement()
		st.Range = p.spanFrom(start)
		return st
	case init != nil && p.at(token.KwIn):
		p.next()
		right := p.parseExpression()
		p.expect(token.RParen, diag.SynForBadHeader, "expected ')'")
		st := &ast.ForInStmt{Left: init, Right: right}
		st.Body = p.parseStatement()
		st.Range = p.spanFrom(start)
		return st
	}

	st := &ast.ForStmt{Init: init}
	p.expect(token.Semicolon, diag.SynForBadHeader, "expected ';' in loop header")
	if !p.at(token.Semicolon) {
		st.Test = p.parseExpression()
	}
	p.expect(token.Semicolon, diag.SynForBadHeader, "expected ';' in loop header")
	if !p.at(token.RParen) {
		st.Update = p.parseExpression()
	}
	p.expect(token.RParen, diag.SynForBadHeader, "expected ')'")
	st.Body = p.parseStatement()
	st.Range = p.spanFrom(start)
	return st
}

func (p *Parser) isLetDecl() bool {
	k := p.peek().Kind
	return k == token.Ident || k == token.LBracket || k == token.LBrace
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.next().Span.Start
	st := &ast.ReturnStmt{}
	if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) && !p.tok.NewlineBefore {
		st.Arg = p.parseExpression()
	}
	p.semicolon()
	st.Range = p.spanFrom(start)
	return st
}

func (p *Parser) parseThrow() ast.Stmt {
	start := p.next().Span.Start
	if p.tok.NewlineBefore {
		p.err(diag.SynExpectExpression, "line break is not allowed after 'throw'")
	}
	st := &ast.ThrowStmt{Arg: p.parseExpression()}
	p.semicolon()
	st.Range = p.spanFrom(start)
	return st
}

func (p *Parser) parseJump() ast.Stmt {
	kw := p.next()
	var label *ast.Ident
	if p.at(token.Ident) && !p.tok.NewlineBefore {
		label = p.parseIdent()
	}
	p.semicolon()
	if kw.Kind == token.KwBreak {
		return &ast.BreakStmt{Base: ast.Base{Range: p.spanFrom(kw.Span.Start)}, Label: label}
	}
	return &ast.ContinueStmt{Base: ast.Base{Range: p.spanFrom(kw.Span.Start)}, Label: label}
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.next().Span.Start
	st := &ast.TryStmt{Block: p.parseBlock()}
	if p.eat(token.KwCatch) {
		if p.eat(token.LParen) {
			st.Param = p.parseBindingTarget()
			st.ParamType = p.parseOptionalTypeAnn()
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		}
		st.Handler = p.parseBlock()
	}
	if p.eat(token.KwFinally) {
		st.Finalizer = p.parseBlock()
	}
	if st.Handler == nil && st.Finalizer == nil {
		p.err(diag.SynUnexpectedToken, "missing catch or finally after try")
	}
	st.Range = p.spanFrom(start)
	return st
}

func (p *Parser) parseSwitch() ast.Stmt {
	start := p.next().Span.Start
	st := &ast.SwitchStmt{Disc: p.parseParenExpr()}
	p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		cstart := p.tok.Span.Start
		c := &ast.SwitchCase{}
		switch {
		case p.eat(token.KwCase):
			c.Test = p.parseExpression()
		case p.eat(token.KwDefault):
		default:
			p.err(diag.SynUnexpectedToken, "expected 'case' or 'default', got "+p.describe())
			p.skipTo(token.KwCase, token.KwDefault, token.RBrace)
			continue
		}
		p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':'")
		c.Body = p.parseStatementList(func() bool {
			return p.at(token.KwCase) || p.at(token.KwDefault) || p.at(token.RBrace)
		})
		c.Range = p.spanFrom(cstart)
		st.Cases = append(st.Cases, c)
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
	st.Range = p.spanFrom(start)
	return st
}

func (p *Parser) parseWith() ast.Stmt {
	start := p.next().Span.Start
	st := &ast.WithStmt{Object: p.parseParenExpr()}
	st.Body = p.parseStatement()
	st.Range = p.spanFrom(start)
	return st
}
