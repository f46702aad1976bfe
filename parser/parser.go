// Package parser implements the Poke parser (spec.md §4.6): three entry
// modes (program, statement, expression) over a hand-written recursive-
// descent grammar, reporting through a structured DiagSink and
// discarding the partial AST on error.
//
// ANTLR (pulled in transitively by the hyperpb-go example's CEL
// dependency) was considered and dropped: running a grammar generator is
// outside what this environment can do, and for a grammar this size a
// hand-written descent parser has every behavior ANTLR's generated one
// would, per SPEC_FULL.md's Parser section.
package parser

import (
	"fmt"

	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/lexer"
)

// Parser turns a token stream from lexer.Lexer into an *ast.Node tree.
type Parser struct {
	lex  *lexer.Lexer
	diag DiagSink

	cur   lexer.Token
	ahead *lexer.Token // one token of lookahead, filled lazily

	errCount int
}

// New returns a Parser reading from lex and reporting through diag. If
// diag is nil, a fresh *Collector is installed.
func New(lex *lexer.Lexer, diag DiagSink) *Parser {
	if diag == nil {
		diag = &Collector{}
	}
	p := &Parser{lex: lex, diag: diag}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.ahead != nil {
		p.cur = *p.ahead
		p.ahead = nil
		return
	}
	p.cur = p.lex.Next()
}

func (p *Parser) peekNext() lexer.Token {
	if p.ahead == nil {
		t := p.lex.Next()
		p.ahead = &t
	}
	return *p.ahead
}

func (p *Parser) errorf(format string, args ...any) {
	p.errCount++
	p.diag.Report(Diagnostic{
		Severity: SevError,
		Line:     p.cur.Line,
		Col:      p.cur.Col,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *Parser) loc() ast.SourceLocation {
	return ast.SourceLocation{Line: p.cur.Line, Col: p.cur.Col}
}

func (p *Parser) expectPunct(s string) bool {
	if p.cur.Kind == lexer.Punct && p.cur.Text == s {
		p.advance()
		return true
	}
	p.errorf("expected %q, found %q", s, p.cur.Text)
	return false
}

func (p *Parser) atPunct(s string) bool {
	return p.cur.Kind == lexer.Punct && p.cur.Text == s
}

func (p *Parser) atKeyword(s string) bool {
	return p.cur.Kind == lexer.Keyword && p.cur.Text == s
}

// ParseProgram is the *program* entry mode: zero or more declarations and
// statements (spec.md §4.6).
func ParseProgram(src string, diag DiagSink) (*ast.Node, int, error) {
	p := New(lexer.New(src), diag)
	prog := ast.NewNode(ast.Program, ast.SourceLocation{})
	for p.cur.Kind != lexer.EOF {
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		prog.AppendChild(stmt)
	}
	if p.errCount > 0 {
		return nil, p.lex.Pos(), fmt.Errorf("parse error: %d error(s)", p.errCount)
	}
	return prog, p.lex.Pos(), nil
}

// ParseStatement is the *statement* entry mode: a single statement,
// possibly an expression statement.
func ParseStatement(src string, diag DiagSink) (*ast.Node, int, error) {
	p := New(lexer.New(src), diag)
	stmt := p.parseStatement()
	if stmt == nil {
		return nil, p.lex.Pos(), fmt.Errorf("parse error: %d error(s)", p.errCount)
	}
	return stmt, p.lex.Pos(), nil
}

// ParseExpression is the *expression* entry mode: a single expression.
func ParseExpression(src string, diag DiagSink) (*ast.Node, int, error) {
	p := New(lexer.New(src), diag)
	exp := p.parseExpr()
	if exp == nil || p.errCount > 0 {
		return nil, p.lex.Pos(), fmt.Errorf("parse error: %d error(s)", p.errCount)
	}
	return exp, p.lex.Pos(), nil
}

// ParseExpression parses a single expression off p's lexer, for callers
// that built p via New to install an AlienHook first.
func (p *Parser) ParseExpression() (*ast.Node, error) {
	exp := p.parseExpr()
	if exp == nil || p.errCount > 0 {
		return nil, fmt.Errorf("parse error: %d error(s)", p.errCount)
	}
	return exp, nil
}

// WithAlienHook enables lexical cuckolding on the underlying lexer
// (spec.md §4.6). Must be called before the first ParseXxx call that
// shares this lexer, so construct the Parser via New directly when using
// it rather than going through the package-level ParseXxx helpers.
func (p *Parser) WithAlienHook(hook lexer.AlienHook) *Parser {
	p.lex.Cuckolding = true
	p.lex.Hook = hook
	// New has already lexed the first token; route it through the hook too.
	if p.cur.Kind == lexer.AlienIdent && p.cur.Resolved == "" {
		if resolved, ok := hook(p.cur.Text[1:]); ok {
			p.cur.Resolved = resolved
		}
	}
	return p
}
