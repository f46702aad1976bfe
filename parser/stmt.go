package parser

import (
	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/lexer"
)

// parseStatement parses one statement form and returns its root node, or
// nil once a hard error has made further progress meaningless.
func (p *Parser) parseStatement() *ast.Node {
	if p.errCount > 0 {
		return nil
	}

	loc := p.loc()

	switch {
	case p.atPunct(";"):
		p.advance()
		return ast.NewNode(ast.NullStmt, loc)

	case p.atPunct("{"):
		return p.parseCompStmt()

	case p.atKeyword("if"):
		return p.parseIfStmt()

	case p.atKeyword("while"), p.atKeyword("for"):
		return p.parseLoopStmt()

	case p.atKeyword("break"):
		p.advance()
		p.expectPunct(";")
		return ast.NewNode(ast.BreakStmt, loc)

	case p.atKeyword("continue"):
		p.advance()
		p.expectPunct(";")
		return ast.NewNode(ast.ContinueStmt, loc)

	case p.atKeyword("return"):
		p.advance()
		n := ast.NewNode(ast.ReturnStmt, loc)
		if !p.atPunct(";") {
			n.AppendChild(p.parseExpr())
		}
		p.expectPunct(";")
		return n

	case p.atKeyword("raise"):
		p.advance()
		n := ast.NewNode(ast.RaiseStmt, loc)
		if !p.atPunct(";") {
			n.AppendChild(p.parseExpr())
		}
		p.expectPunct(";")
		return n

	case p.atKeyword("try"):
		return p.parseTryStmt()

	case p.atKeyword("print"), p.atKeyword("printf"):
		return p.parsePrintStmt()

	case p.atKeyword("var"):
		return p.parseVarDecl()

	default:
		return p.parseExpOrAssStmt()
	}
}

func (p *Parser) parseCompStmt() *ast.Node {
	loc := p.loc()
	n := ast.NewNode(ast.CompStmt, loc)
	p.expectPunct("{")
	for !p.atPunct("}") && p.cur.Kind != lexer.EOF {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		n.AppendChild(stmt)
	}
	p.expectPunct("}")
	return n
}

func (p *Parser) parseIfStmt() *ast.Node {
	loc := p.loc()
	p.advance() // "if"
	n := ast.NewNode(ast.IfStmt, loc)
	p.expectPunct("(")
	n.AppendChild(p.parseExpr())
	p.expectPunct(")")
	n.AppendChild(p.parseStatement())
	if p.atKeyword("else") {
		p.advance()
		n.AppendChild(p.parseStatement())
	}
	return n
}

// parseLoopStmt handles while(cond){...}, for(init;cond;step){...} and
// for(x in arr where cond){...} (spec.md §4.5's LoopStmt/LoopStmtIterator
// pair covers both the C-style and iterator forms).
func (p *Parser) parseLoopStmt() *ast.Node {
	loc := p.loc()
	n := ast.NewNode(ast.LoopStmt, loc)
	if p.atKeyword("while") {
		p.advance()
		p.expectPunct("(")
		n.AppendChild(p.parseExpr())
		p.expectPunct(")")
		n.AppendChild(p.parseStatement())
		return n
	}

	p.advance() // "for"
	p.expectPunct("(")
	if p.looksLikeIterator() {
		it := ast.NewNode(ast.LoopStmtIterator, p.loc())
		name := ast.NewNode(ast.Identifier, p.loc())
		name.Name = p.cur.Text
		p.advance() // identifier
		it.AppendChild(name)
		if p.atKeyword("in") {
			p.advance()
		}
		it.AppendChild(p.parseExpr()) // the iterated array expression
		if p.atKeyword("where") {
			p.advance()
			it.AppendChild(p.parseExpr())
		}
		p.expectPunct(")")
		n.AppendChild(it)
		n.AppendChild(p.parseStatement())
		return n
	}

	// C-style for(init; cond; step)
	if !p.atPunct(";") {
		n.AppendChild(p.parseExpOrAssStmtNoSemi())
	} else {
		n.AppendChild(ast.NewNode(ast.NullStmt, p.loc()))
	}
	p.expectPunct(";")
	if !p.atPunct(";") {
		n.AppendChild(p.parseExpr())
	} else {
		n.AppendChild(ast.NewNode(ast.NullStmt, p.loc()))
	}
	p.expectPunct(";")
	if !p.atPunct(")") {
		n.AppendChild(p.parseExpOrAssStmtNoSemi())
	} else {
		n.AppendChild(ast.NewNode(ast.NullStmt, p.loc()))
	}
	p.expectPunct(")")
	n.AppendChild(p.parseStatement())
	return n
}

// looksLikeIterator reports whether the tokens at the current position
// start a `name in expr [where expr]` iterator head rather than a
// C-style for-clause; true precisely when the current token is an
// identifier immediately followed by the "in" keyword.
func (p *Parser) looksLikeIterator() bool {
	if p.cur.Kind != lexer.Ident {
		return false
	}
	next := p.peekNext()
	return next.Kind == lexer.Keyword && next.Text == "in"
}

func (p *Parser) parseTryStmt() *ast.Node {
	loc := p.loc()
	p.advance() // "try"
	body := p.parseStatement()
	switch {
	case p.atKeyword("catch"):
		p.advance()
		n := ast.NewNode(ast.TryCatchStmt, loc)
		n.AppendChild(body)
		if p.atPunct("(") {
			p.advance()
			n.AppendChild(p.parseExpr())
			p.expectPunct(")")
		}
		n.AppendChild(p.parseStatement())
		return n
	case p.atKeyword("until"):
		p.advance()
		n := ast.NewNode(ast.TryUntilStmt, loc)
		n.AppendChild(body)
		n.AppendChild(p.parseExpr())
		p.expectPunct(";")
		return n
	default:
		p.errorf("expected 'catch' or 'until' after 'try' body")
		return nil
	}
}

func (p *Parser) parsePrintStmt() *ast.Node {
	loc := p.loc()
	isFormat := p.cur.Text == "printf"
	p.advance()
	if isFormat {
		n := ast.NewNode(ast.Format, loc)
		if p.cur.Kind == lexer.StrLit {
			fa := ast.NewNode(ast.FormatArg, p.loc())
			fa.StrVal = p.cur.Text
			p.advance()
			n.AppendChild(fa)
		}
		for p.atPunct(",") {
			p.advance()
			n.AppendChild(p.parseExpr())
		}
		p.expectPunct(";")
		return n
	}
	n := ast.NewNode(ast.PrintStmt, loc)
	n.AppendChild(p.parseExpr())
	for p.atPunct(",") {
		p.advance()
		n.AppendChild(p.parseExpr())
	}
	p.expectPunct(";")
	return n
}

func (p *Parser) parseVarDecl() *ast.Node {
	loc := p.loc()
	p.advance() // "var"
	n := ast.NewNode(ast.Decl, loc)
	if p.cur.Kind == lexer.Ident {
		n.Name = p.cur.Text
		p.advance()
	} else {
		p.errorf("expected identifier after 'var'")
	}
	if p.atPunct("=") {
		p.advance()
		n.AppendChild(p.parseExpr())
	}
	p.expectPunct(";")
	return n
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

func (p *Parser) parseExpOrAssStmt() *ast.Node {
	n := p.parseExpOrAssStmtNoSemi()
	p.expectPunct(";")
	return n
}

// parseExpOrAssStmtNoSemi parses an expression statement, assignment
// statement, or increment/decrement statement, leaving the trailing ';'
// for the caller (needed by for(;;)'s clauses, which share no semicolon).
func (p *Parser) parseExpOrAssStmtNoSemi() *ast.Node {
	loc := p.loc()
	lhs := p.parseExpr()
	if p.atPunct("++") || p.atPunct("--") {
		n := ast.NewNode(ast.IncrDecr, loc)
		n.Op = p.cur.Text
		p.advance()
		n.AppendChild(lhs)
		return n
	}
	if p.cur.Kind == lexer.Punct && assignOps[p.cur.Text] {
		n := ast.NewNode(ast.AssStmt, loc)
		n.Op = p.cur.Text
		p.advance()
		n.AppendChild(lhs)
		n.AppendChild(p.parseExpr())
		return n
	}
	n := ast.NewNode(ast.ExpStmt, loc)
	n.AppendChild(lhs)
	return n
}
