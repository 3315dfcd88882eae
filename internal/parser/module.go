package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/token"
)

func (p *Parser) parseImport() ast.Stmt {
	start := p.next().Span.Start // import
	d := &ast.ImportDecl{}
	if p.at(token.String) {
		d.Source = p.parseStringLit()
		p.parseImportAttributes()
		p.semicolon()
		d.Range = p.spanFrom(start)
		return d
	}
	if p.atWord("type") {
		if nk := p.peek(); nk.Kind == token.LBrace || nk.Kind == token.Star || (nk.Kind == token.Ident && nk.Text != "from") {
			p.next()
			d.TypeOnly = true
		}
	}
	if p.at(token.Ident) {
		d.Default = p.parseIdent()
		if p.at(token.Assign) {
			p.err(diag.SynImportMalformed, "import assignment is not supported; use an import declaration")
			return d
		}
		if !p.eat(token.Comma) {
			return p.finishImport(start, d)
		}
	}
	switch {
	case p.at(token.Star):
		p.next()
		if !p.atWord("as") {
			p.err(diag.SynImportMalformed, "expected 'as' after '*' in import")
		} else {
			p.next()
		}
		d.Namespace = p.parseIdent()
	case p.at(token.LBrace):
		p.next()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			d.Specs = append(d.Specs, p.parseImportSpec())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' in import")
	default:
		p.err(diag.SynImportMalformed, "expected import bindings, got "+p.describe())
	}
	return p.finishImport(start, d)
}

func (p *Parser) finishImport(start uint32, d *ast.ImportDecl) ast.Stmt {
	if !p.atWord("from") {
		p.err(diag.SynImportMalformed, "expected 'from', got "+p.describe())
		return d
	}
	p.next()
	if !p.at(token.String) {
		p.err(diag.SynImportMalformed, "expected module specifier, got "+p.describe())
		return d
	}
	d.Source = p.parseStringLit()
	p.parseImportAttributes()
	p.semicolon()
	d.Range = p.spanFrom(start)
	return d
}

// with { type: "json" } / assert { ... }: разбираются и игнорируются.
func (p *Parser) parseImportAttributes() {
	if (p.at(token.KwWith) || p.atWord("assert")) && !p.tok.NewlineBefore && p.peek().Kind == token.LBrace {
		p.next()
		p.parsePrimary()
	}
}

func (p *Parser) parseImportSpec() *ast.ImportSpec {
	start := p.tok.Span.Start
	spec := &ast.ImportSpec{}
	if p.atWord("type") && p.isTypeModifierInSpec() {
		p.next()
		spec.TypeOnly = true
	}
	nameTok := p.tok
	spec.Imported = p.parseModuleExportName()
	if p.atWord("as") {
		p.next()
		spec.Local = p.parseIdent()
	} else {
		if nameTok.Kind != token.Ident {
			p.errAt(diag.SynImportMalformed, nameTok.Span, "imported name "+nameTok.Text+" needs an 'as' alias")
		}
		spec.Local = &ast.Ident{Base: ast.Base{Range: nameTok.Span}, Name: spec.Imported}
	}
	spec.Range = p.spanFrom(start)
	return spec
}

// isTypeModifierInSpec отличает `{ type A }` от `{ type }` и `{ type as x }`.
func (p *Parser) isTypeModifierInSpec() bool {
	nk := p.peek()
	if !(nk.Kind == token.Ident || nk.Kind.IsKeyword() || nk.Kind == token.String) {
		return false
	}
	if nk.Text != "as" {
		return true
	}
	return p.lookahead(func() bool {
		p.next() // type
		p.next() // as
		return !p.at(token.Comma) && !p.at(token.RBrace)
	})
}

func (p *Parser) parseModuleExportName() string {
	switch {
	case p.at(token.String):
		return p.parseStringLit().Value
	case p.at(token.Ident) || p.tok.Kind.IsKeyword():
		return p.next().Text
	}
	p.err(diag.SynExpectIdentifier, "expected name, got "+p.describe())
	return ""
}

func (p *Parser) parseExport() ast.Stmt {
	start := p.next().Span.Start // export
	switch {
	case p.at(token.KwDefault):
		return p.parseExportDefault(start)
	case p.at(token.Star):
		p.next()
		d := &ast.ExportAll{}
		if p.atWord("as") {
			p.next()
			d.Alias = p.parseModuleExportName()
		}
		if !p.atWord("from") {
			p.err(diag.SynExportMalformed, "expected 'from', got "+p.describe())
			return d
		}
		p.next()
		if p.at(token.String) {
			d.Source = p.parseStringLit()
		} else {
			p.err(diag.SynExportMalformed, "expected module specifier, got "+p.describe())
		}
		p.parseImportAttributes()
		p.semicolon()
		d.Range = p.spanFrom(start)
		return d
	case p.at(token.LBrace), p.atWord("type") && p.peek().Kind == token.LBrace:
		return p.parseExportList(start)
	case p.at(token.Assign), p.atWord("as"):
		p.err(diag.SynExportMalformed, "export assignment is not supported; use 'export default'")
		return nil
	}

	declStart := p.tok.Span.Start
	decl := p.parseStatement()
	switch decl.(type) {
	case *ast.VarDecl, *ast.FuncDecl, *ast.ClassDecl, *ast.TypeDecl, *ast.DeclareStmt:
	default:
		p.errAt(diag.SynExportMalformed, p.spanFrom(declStart), "expected declaration after 'export'")
	}
	return &ast.ExportDecl{
		Base:    ast.Base{Range: p.spanFrom(start)},
		Keyword: p.spanFromTo(start, declStart),
		Decl:    decl,
	}
}

func (p *Parser) parseExportDefault(start uint32) ast.Stmt {
	p.next() // default
	valueStart := p.tok.Span.Start
	d := &ast.ExportDefault{Prefix: p.spanFromTo(start, valueStart)}
	switch {
	case p.at(token.KwFunction):
		d.Value = p.parseFunctionDecl(valueStart, nil, true)
	case p.atWord("async") && p.peek().Kind == token.KwFunction && !p.peek().NewlineBefore:
		sp := p.next().Span
		d.Value = p.parseFunctionDecl(valueStart, &sp, true)
	case p.at(token.KwClass):
		c := p.parseClass(valueStart, nil, true)
		d.Value = &ast.ClassDecl{Base: ast.Base{Range: c.Range}, Class: c}
	case p.atWord("abstract") && p.peek().Kind == token.KwClass:
		mod := ast.Modifier{Kind: "abstract", Span: p.next().Span}
		c := p.parseClass(valueStart, []ast.Modifier{mod}, true)
		d.Value = &ast.ClassDecl{Base: ast.Base{Range: c.Range}, Class: c}
	case p.atWord("interface") && p.peek().Kind == token.Ident:
		d.Value = p.parseInterface(valueStart)
	default:
		d.Value = p.parseAssign()
		d.Semi = p.semicolon()
	}
	d.Range = p.spanFrom(start)
	return d
}

func (p *Parser) parseExportList(start uint32) ast.Stmt {
	d := &ast.ExportList{}
	if p.atWord("type") {
		p.next()
		d.TypeOnly = true
	}
	p.next() // {
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		sstart := p.tok.Span.Start
		spec := &ast.ExportSpec{}
		if p.atWord("type") && p.isTypeModifierInSpec() {
			p.next()
			spec.TypeOnly = true
		}
		spec.Local = p.parseModuleExportName()
		spec.Exported = spec.Local
		if p.atWord("as") {
			p.next()
			spec.Exported = p.parseModuleExportName()
		}
		spec.Range = p.spanFrom(sstart)
		d.Specs = append(d.Specs, spec)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' in export")
	if p.atWord("from") {
		p.next()
		if p.at(token.String) {
			d.Source = p.parseStringLit()
		} else {
			p.err(diag.SynExportMalformed, "expected module specifier, got "+p.describe())
		}
		p.parseImportAttributes()
	}
	p.semicolon()
	d.Range = p.spanFrom(start)
	return d
}
