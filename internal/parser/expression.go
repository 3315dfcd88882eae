package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

// Таблица приоритетов бинарных операторов; больше: сильнее связывает.
const (
	precNullish        = 1  // ??
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precBitwiseOr      = 4  // |
	precBitwiseXor     = 5  // ^
	precBitwiseAnd     = 6  // &
	precEquality       = 7  // == != === !==
	precRelational     = 8  // < > <= >= instanceof in as satisfies
	precShift          = 9  // << >> >>>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
	precExponent       = 12 // ** (правоассоциативный)
)

func (p *Parser) binaryPrec(k token.Kind) int {
	switch k {
	case token.QuestionQ:
		return precNullish
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq:
		return precEquality
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwInstanceof:
		return precRelational
	case token.KwIn:
		if p.noIn {
			return 0
		}
		return precRelational
	case token.Shl, token.Shr, token.UShr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	case token.StarStar:
		return precExponent
	}
	return 0
}

func (p *Parser) parseExpression() ast.Expr {
	start := p.tok.Span.Start
	x := p.parseAssign()
	if !p.at(token.Comma) {
		return x
	}
	seq := &ast.SeqExpr{List: []ast.Expr{x}}
	for p.eat(token.Comma) {
		seq.List = append(seq.List, p.parseAssign())
	}
	seq.Range = p.spanFrom(start)
	return seq
}

func (p *Parser) parseAssign() ast.Expr {
	if p.inGenerator && p.atWord("yield") {
		return p.parseYield()
	}
	if arrow := p.tryArrow(); arrow != nil {
		return arrow
	}
	start := p.tok.Span.Start
	left := p.parseConditional()
	p.rescanGreater()
	if p.tok.Kind.IsAssign() {
		op := p.next().Kind
		value := p.parseAssign()
		return &ast.AssignExpr{Base: ast.Base{Range: p.spanFrom(start)}, Op: op, Target: left, Value: value}
	}
	return left
}

func (p *Parser) parseYield() ast.Expr {
	start := p.next().Span.Start
	y := &ast.YieldExpr{}
	if p.eat(token.Star) {
		y.Delegate = true
		y.Arg = p.parseAssign()
	} else if !p.tok.NewlineBefore && p.startsExpression() {
		y.Arg = p.parseAssign()
	}
	y.Range = p.spanFrom(start)
	return y
}

// startsExpression: может ли текущий токен начинать выражение.
func (p *Parser) startsExpression() bool {
	switch p.tok.Kind {
	case token.RParen, token.RBracket, token.RBrace, token.Comma, token.Semicolon, token.Colon,
		token.EOF, token.Arrow, token.Dot, token.QuestionDot, token.Question, token.Gt,
		token.EqEq, token.EqEqEq, token.BangEq, token.BangEqEq, token.AndAnd, token.OrOr,
		token.QuestionQ, token.KwIn, token.KwInstanceof, token.Pipe, token.Amp, token.Caret,
		token.Star, token.Percent, token.StarStar, token.Shl, token.TemplateMiddle, token.TemplateTail:
		return false
	}
	if p.tok.Kind.IsAssign() {
		return false
	}
	if p.atWord("as") || p.atWord("satisfies") {
		return false
	}
	return true
}

func (p *Parser) parseConditional() ast.Expr {
	start := p.tok.Span.Start
	test := p.parseBinary(1)
	if !p.at(token.Question) {
		return test
	}
	p.next()
	outerRet, outerNoIn := p.noArrowRetType, p.noIn
	p.noArrowRetType, p.noIn = true, false
	cons := p.parseAssign()
	p.noArrowRetType, p.noIn = outerRet, outerNoIn
	p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression")
	alt := p.parseAssign()
	return &ast.CondExpr{Base: ast.Base{Range: p.spanFrom(start)}, Test: test, Cons: cons, Alt: alt}
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	start := p.tok.Span.Start
	left := p.parseUnary()
	for {
		p.rescanGreater()
		if (p.atWord("as") || p.atWord("satisfies")) && !p.tok.NewlineBefore && precRelational >= minPrec {
			kind := p.next().Text
			if kind == "as" && p.at(token.KwConst) {
				p.next()
			} else {
				p.parseType()
			}
			left = &ast.AsExpr{Base: ast.Base{Range: p.spanFrom(start)}, X: left, Kind: kind}
			continue
		}
		prec := p.binaryPrec(p.tok.Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.next().Kind
		var right ast.Expr
		if op == token.StarStar {
			right = p.parseBinary(prec)
		} else {
			right = p.parseBinary(prec + 1)
		}
		left = &ast.BinaryExpr{Base: ast.Base{Range: p.spanFrom(start)}, Op: op, X: left, Y: right}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.tok.Span.Start
	switch p.tok.Kind {
	case token.Bang, token.Tilde, token.Plus, token.Minus, token.KwTypeof, token.KwVoid, token.KwDelete:
		op := p.next().Text
		x := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.Base{Range: p.spanFrom(start)}, Op: op, X: x}
	case token.PlusPlus, token.MinusMinus:
		op := p.next().Kind
		x := p.parseUnary()
		return &ast.UpdateExpr{Base: ast.Base{Range: p.spanFrom(start)}, Op: op, Prefix: true, X: x}
	case token.Ident:
		if p.tok.Text == "await" && p.awaitIsOperator() {
			kw := p.next().Span
			arg := p.parseUnary()
			return &ast.AwaitExpr{Base: ast.Base{Range: p.spanFrom(start)}, Keyword: kw, Arg: arg}
		}
	}
	x := p.parseLeftHandSide()
	if (p.at(token.PlusPlus) || p.at(token.MinusMinus)) && !p.tok.NewlineBefore {
		op := p.next().Kind
		return &ast.UpdateExpr{Base: ast.Base{Range: p.spanFrom(start)}, Op: op, X: x}
	}
	return x
}

// awaitIsOperator: внутри async-функций и на верхнем уровне скрипта
// `await`: оператор, если за ним идёт операнд.
func (p *Parser) awaitIsOperator() bool {
	if !p.inAsync && p.fnDepth > 0 {
		return false
	}
	nk := p.peek().Kind
	switch nk {
	case token.RParen, token.RBracket, token.RBrace, token.Comma, token.Semicolon, token.Colon,
		token.Assign, token.Arrow, token.EOF, token.Dot, token.QuestionDot, token.Question:
		return false
	}
	return true
}

func (p *Parser) parseLeftHandSide() ast.Expr {
	return p.parseCallChain(p.parsePrimaryOrNew(), true)
}

func (p *Parser) parsePrimaryOrNew() ast.Expr {
	if !p.at(token.KwNew) {
		return p.parsePrimary()
	}
	start := p.next().Span.Start
	if p.eat(token.Dot) {
		if !p.atWord("target") {
			p.err(diag.SynUnexpectedToken, "expected 'new.target'")
		} else {
			p.next()
		}
		return &ast.MetaProp{Base: ast.Base{Range: p.spanFrom(start)}}
	}
	n := &ast.NewExpr{Callee: p.parseCallChain(p.parsePrimaryOrNew(), false)}
	if p.at(token.Lt) {
		p.try(func() bool {
			n.TypeArgs = p.parseTypeArgs()
			return true
		})
	}
	if p.at(token.LParen) {
		n.Args = p.parseArgs()
	}
	n.Range = p.spanFrom(start)
	return n
}

// parseCallChain разбирает цепочку .x, ?.x, [i], (args), `tpl`, x!, f<T>().
func (p *Parser) parseCallChain(x ast.Expr, allowCall bool) ast.Expr {
	start := x.Span().Start
	for {
		switch {
		case p.at(token.Dot):
			p.next()
			prop := p.parseMemberName()
			x = &ast.MemberExpr{Base: ast.Base{Range: p.spanFrom(start)}, X: x, Prop: prop}
		case p.at(token.QuestionDot) && allowCall:
			p.next()
			switch {
			case p.at(token.LParen):
				args := p.parseArgs()
				x = &ast.CallExpr{Base: ast.Base{Range: p.spanFrom(start)}, Callee: x, Args: args, Optional: true}
			case p.at(token.LBracket):
				p.next()
				prop := p.parseExpressionNoInRestriction()
				p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
				x = &ast.MemberExpr{Base: ast.Base{Range: p.spanFrom(start)}, X: x, Prop: prop, Computed: true, Optional: true}
			case p.at(token.Lt):
				targs := p.parseTypeArgs()
				args := p.parseArgs()
				x = &ast.CallExpr{Base: ast.Base{Range: p.spanFrom(start)}, Callee: x, TypeArgs: targs, Args: args, Optional: true}
			default:
				prop := p.parseMemberName()
				x = &ast.MemberExpr{Base: ast.Base{Range: p.spanFrom(start)}, X: x, Prop: prop, Optional: true}
			}
		case p.at(token.LBracket):
			p.next()
			prop := p.parseExpressionNoInRestriction()
			p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
			x = &ast.MemberExpr{Base: ast.Base{Range: p.spanFrom(start)}, X: x, Prop: prop, Computed: true}
		case p.at(token.LParen) && allowCall:
			args := p.parseArgs()
			x = &ast.CallExpr{Base: ast.Base{Range: p.spanFrom(start)}, Callee: x, Args: args}
		case p.at(token.NoSubstTemplate) || p.at(token.TemplateHead):
			quasi := p.parseTemplate()
			x = &ast.TaggedTemplate{Base: ast.Base{Range: p.spanFrom(start)}, Tag: x, Quasi: quasi}
		case p.at(token.Bang) && !p.tok.NewlineBefore:
			p.next()
			x = &ast.NonNullExpr{Base: ast.Base{Range: p.spanFrom(start)}, X: x}
		case p.at(token.Lt) && !p.tok.NewlineBefore:
			var targs *ast.TypeArgs
			ok := p.try(func() bool {
				targs = p.parseTypeArgs()
				return p.at(token.LParen) && allowCall || p.at(token.NoSubstTemplate) || p.at(token.TemplateHead)
			})
			if !ok {
				return x
			}
			if p.at(token.LParen) {
				args := p.parseArgs()
				x = &ast.CallExpr{Base: ast.Base{Range: p.spanFrom(start)}, Callee: x, TypeArgs: targs, Args: args}
			} else {
				quasi := p.parseTemplate()
				x = &ast.TaggedTemplate{Base: ast.Base{Range: p.spanFrom(start)}, Tag: x, TypeArgs: targs, Quasi: quasi}
			}
		default:
			return x
		}
	}
}

func (p *Parser) parseMemberName() ast.Expr {
	tok := p.tok
	if tok.Kind == token.Ident || tok.Kind.IsKeyword() || tok.Kind == token.PrivateName {
		p.next()
		return &ast.Ident{Base: ast.Base{Range: tok.Span}, Name: tok.Text}
	}
	p.err(diag.SynExpectIdentifier, "expected property name, got "+p.describe())
	return &ast.Ident{Base: ast.Base{Range: tok.Span}}
}

func (p *Parser) parseExpressionNoInRestriction() ast.Expr {
	outer := p.noIn
	p.noIn = false
	x := p.parseExpression()
	p.noIn = outer
	return x
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	outer := p.noIn
	p.noIn = false
	var args []ast.Expr
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.at(token.Ellipsis) {
			start := p.next().Span.Start
			x := p.parseAssign()
			args = append(args, &ast.SpreadElement{Base: ast.Base{Range: p.spanFrom(start)}, X: x})
		} else {
			args = append(args, p.parseAssign())
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.noIn = outer
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close arguments")
	return args
}
