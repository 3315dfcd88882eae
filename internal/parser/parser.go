package parser

import (
	"scriptkit/internal/ast"
	"scriptkit/internal/diag"
	"scriptkit/internal/lexer"
	"scriptkit/internal/source"
	"scriptkit/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Program *ast.Program
	Bag     *diag.Bag
}

// Parser: состояние парсера на один текст
type Parser struct {
	lx      *lexer.Lexer
	src     string
	tok     token.Token // текущий (ещё не съеденный) токен
	prevEnd uint32      // конец последнего съеденного токена
	opts    Options

	// speculative parsing: diagnostics are swallowed and only mark failure
	speculating int
	specFailed  bool

	fnDepth        int
	inAsync        bool
	inGenerator    bool
	noIn           bool
	noArrowRetType bool
}

// Parse разбирает весь текст. Если Reporter не задан, диагностики собираются
// в Bag результата.
func Parse(src string, opts Options) Result {
	var bag *diag.Bag
	if opts.Reporter == nil {
		limit := int(opts.MaxErrors)
		if limit == 0 {
			limit = 64
		}
		bag = diag.NewBag(limit)
		opts.Reporter = diag.BagReporter{Bag: bag}
	}
	p := newParser(src, opts)
	prog := p.parseProgram()
	return Result{Program: prog, Bag: bag}
}

// ParseExpression разбирает одиночное выражение (используется тестами и отладчиком).
func ParseExpression(src string, opts Options) (ast.Expr, *diag.Bag) {
	bag := diag.NewBag(16)
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: bag}
	}
	p := newParser(src, opts)
	x := p.parseExpression()
	if !p.at(token.EOF) {
		p.err(diag.SynUnexpectedToken, "unexpected "+p.describe())
	}
	return x, bag
}

func newParser(src string, opts Options) *Parser {
	p := &Parser{src: src, opts: opts}
	p.lx = lexer.New(src, lexer.Options{Reporter: lexReporter{p: p}})
	p.tok = p.lx.Next()
	return p
}

// lexReporter пропускает ошибки лексера через парсер, чтобы при
// спекулятивном разборе они не попадали в диагностику.
type lexReporter struct {
	p *Parser
}

func (r lexReporter) Report(code diag.Code, _ diag.Severity, primary source.Span, msg string, _ []diag.Note) {
	r.p.errAt(code, primary, msg)
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	prog.Body = p.parseStatementList(func() bool { return p.at(token.EOF) })
	prog.Range = source.Span{Start: 0, End: source.MustU32(len(p.src))}
	return prog
}

// IsError reports whether any error was reported.
func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}
