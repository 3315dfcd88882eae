package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

// parseMarkup разбирает элемент или фрагмент, начиная с текущего '<'.
// Внутри разметки лексер работает в режиме NextMarkup/ScanMarkupText;
// по выходу парсер возвращается к обычным токенам.
func (p *Parser) parseMarkup() ast.Expr {
	lt := p.tok
	x := p.parseMarkupNode(lt.Span.Start)
	p.prevEnd = p.lx.Offset()
	p.tok = p.lx.Next()
	return x
}

// parseMarkupNode: лексер стоит сразу после '<'.
func (p *Parser) parseMarkupNode(start uint32) ast.Expr {
	t := p.lx.NextMarkup()
	if t.Kind == token.Gt {
		frag := &ast.MarkupFragment{Open: source.Span{Start: start, End: t.Span.End}}
		frag.Children, frag.Close = p.parseMarkupChildren(nil)
		frag.Range = source.Span{Start: start, End: p.lx.Offset()}
		return frag
	}

	el := &ast.MarkupElement{}
	el.Name, t = p.parseMarkupName(t)
	for {
		switch t.Kind {
		case token.Ident:
			var attr *ast.MarkupAttr
			attr, t = p.parseMarkupAttr(t)
			el.Attrs = append(el.Attrs, attr)
			continue
		case token.LBrace:
			el.Attrs = append(el.Attrs, p.parseMarkupSpreadAttr(t))
			t = p.lx.NextMarkup()
			continue
		case token.Slash:
			gt := p.lx.NextMarkup()
			if gt.Kind != token.Gt {
				p.errAt(diag.SynUnexpectedToken, gt.Span, "expected '>' after '/' in markup tag")
			}
			el.SelfClosing = true
			el.OpenEnd = source.Span{Start: t.Span.Start, End: gt.Span.End}
			el.Range = source.Span{Start: start, End: gt.Span.End}
			return el
		case token.Gt:
			el.OpenEnd = t.Span
			el.Children, el.Close = p.parseMarkupChildren(el.Name)
			el.Range = source.Span{Start: start, End: p.lx.Offset()}
			return el
		}
		p.errAt(diag.SynUnexpectedToken, t.Span, "unexpected '"+t.Text+"' in markup tag")
		el.Range = source.Span{Start: start, End: t.Span.End}
		return el
	}
}

// parseMarkupName собирает имя вида a, a-b, ns:a или A.B.C и возвращает
// следующий токен разметки.
func (p *Parser) parseMarkupName(t token.Token) (*ast.MarkupName, token.Token) {
	if t.Kind != token.Ident {
		p.errAt(diag.SynExpectIdentifier, t.Span, "expected markup name, got '"+t.Text+"'")
		return &ast.MarkupName{Base: ast.Base{Range: source.Span{Start: t.Span.Start, End: t.Span.Start}}}, t
	}
	name := &ast.MarkupName{Raw: t.Text}
	start, end := t.Span.Start, t.Span.End
	next := p.lx.NextMarkup()
	if next.Kind == token.Colon {
		part := p.lx.NextMarkup()
		name.Raw += ":" + part.Text
		end = part.Span.End
		next = p.lx.NextMarkup()
	}
	for next.Kind == token.Dot {
		part := p.lx.NextMarkup()
		if part.Kind != token.Ident {
			p.errAt(diag.SynExpectIdentifier, part.Span, "expected name after '.' in markup tag")
			break
		}
		name.Raw += "." + part.Text
		end = part.Span.End
		next = p.lx.NextMarkup()
	}
	name.Range = source.Span{Start: start, End: end}
	return name, next
}

func (p *Parser) parseMarkupAttr(t token.Token) (*ast.MarkupAttr, token.Token) {
	attr := &ast.MarkupAttr{}
	attr.Name, t = p.parseMarkupName(t)
	attr.Range = attr.Name.Range
	if t.Kind != token.Assign {
		return attr, t
	}
	v := p.lx.NextMarkup()
	switch v.Kind {
	case token.String:
		raw := v.Text
		val := ""
		if len(raw) >= 2 {
			val = raw[1 : len(raw)-1]
		}
		attr.Value = &ast.StringLit{Base: ast.Base{Range: v.Span}, Value: val, Raw: raw}
	case token.LBrace:
		c := p.parseMarkupContainer(v, false)
		if c.X == nil {
			p.errAt(diag.SynExpectExpression, c.Range, "markup attribute value must not be empty")
		}
		attr.Value = c
	case token.Lt:
		attr.Value = p.parseMarkupNode(v.Span.Start)
	default:
		p.errAt(diag.SynUnexpectedToken, v.Span, "expected attribute value, got '"+v.Text+"'")
	}
	if attr.Value != nil {
		attr.Range.End = attr.Value.Span().End
	}
	return attr, p.lx.NextMarkup()
}

func (p *Parser) parseMarkupSpreadAttr(lb token.Token) *ast.MarkupSpreadAttr {
	p.prevEnd = lb.Span.End
	p.tok = p.lx.Next()
	p.expect(token.Ellipsis, diag.SynUnexpectedToken, "expected '...' in markup spread attribute")
	x := p.parseAssign()
	if !p.at(token.RBrace) {
		p.err(diag.SynUnclosedBrace, "expected '}' to close spread attribute, got "+p.describe())
	}
	return &ast.MarkupSpreadAttr{Base: ast.Base{Range: source.Span{Start: lb.Span.Start, End: p.tok.Span.End}}, X: x}
}

// parseMarkupContainer разбирает {expr} после уже прочитанной '{'.
// По выходу лексер стоит сразу за '}'.
func (p *Parser) parseMarkupContainer(lb token.Token, child bool) *ast.MarkupExprContainer {
	c := &ast.MarkupExprContainer{}
	p.prevEnd = lb.Span.End
	p.tok = p.lx.Next()
	if child && p.at(token.Ellipsis) {
		p.next()
		c.Spread = true
	}
	if !p.at(token.RBrace) {
		if child {
			c.X = p.parseExpressionNoInRestriction()
		} else {
			c.X = p.parseAssign()
		}
	}
	end := p.tok.Span.End
	if !p.at(token.RBrace) {
		p.err(diag.SynUnclosedBrace, "expected '}' in markup expression, got "+p.describe())
		end = p.tok.Span.Start
		p.lx.Reset(end)
	}
	c.Range = source.Span{Start: lb.Span.Start, End: end}
	return c
}

// parseMarkupChildren читает детей до закрывающего тега и возвращает его спан.
// open == nil означает фрагмент.
func (p *Parser) parseMarkupChildren(open *ast.MarkupName) ([]ast.Node, source.Span) {
	var children []ast.Node
	src := p.lx.Source()
	for {
		text := p.lx.ScanMarkupText()
		if text.Span.Len() > 0 {
			children = append(children, &ast.MarkupText{Base: ast.Base{Range: text.Span}, Raw: text.Text})
		}
		off := p.lx.Offset()
		if int(off) >= len(src) {
			p.errAt(diag.SynMarkupMismatch, source.Span{Start: off, End: off}, "unterminated markup element")
			return children, source.Span{Start: off, End: off}
		}
		if src[off] == '{' {
			lb := p.lx.Next()
			c := p.parseMarkupContainer(lb, true)
			children = append(children, c)
			continue
		}
		lt := p.lx.Next() // '<'
		save := p.lx.Offset()
		if t := p.lx.NextMarkup(); t.Kind == token.Slash {
			return children, p.parseMarkupClose(lt.Span.Start, open)
		}
		p.lx.Reset(save)
		children = append(children, p.parseMarkupNode(lt.Span.Start))
	}
}

// parseMarkupClose разбирает `</Name>` после прочитанных '<' и '/'.
func (p *Parser) parseMarkupClose(start uint32, open *ast.MarkupName) source.Span {
	t := p.lx.NextMarkup()
	raw := ""
	if t.Kind != token.Gt {
		var name *ast.MarkupName
		name, t = p.parseMarkupName(t)
		raw = name.Raw
	}
	want := ""
	if open != nil {
		want = open.Raw
	}
	if t.Kind != token.Gt {
		p.errAt(diag.SynUnexpectedToken, t.Span, "expected '>' to close markup tag")
	}
	sp := source.Span{Start: start, End: t.Span.End}
	if raw != want {
		msg := "expected closing tag </" + want + ">"
		if open == nil {
			msg = "expected closing fragment </>"
		}
		p.errAt(diag.SynMarkupMismatch, sp, msg)
	}
	return sp
}
