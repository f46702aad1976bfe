package parser

import (
	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/lexer"
)

// binPrec gives each binary operator's precedence; higher binds tighter.
// Mirrors spec.md §3's expression grammar (C-family precedence, with the
// conditional operator as the loosest binding form handled separately).
var binPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

// parseExpr parses a full expression, including the ternary conditional
// form `cond ? then : else` (ast.CondExp).
func (p *Parser) parseExpr() *ast.Node {
	lhs := p.parseBinary(0)
	if lhs == nil {
		return nil
	}
	if p.atPunct("?") {
		loc := p.loc()
		p.advance()
		n := ast.NewNode(ast.CondExp, loc)
		n.AppendChild(lhs)
		n.AppendChild(p.parseExpr())
		p.expectPunct(":")
		n.AppendChild(p.parseExpr())
		return n
	}
	return lhs
}

// parseBinary is a precedence-climbing parser over binPrec.
func (p *Parser) parseBinary(minPrec int) *ast.Node {
	lhs := p.parseUnary()
	if lhs == nil {
		return nil
	}
	for {
		if p.cur.Kind != lexer.Punct {
			return lhs
		}
		prec, ok := binPrec[p.cur.Text]
		if !ok || prec < minPrec {
			return lhs
		}
		op := p.cur.Text
		loc := p.loc()
		p.advance()
		rhs := p.parseBinary(prec + 1)
		if rhs == nil {
			return nil
		}
		n := ast.NewNode(ast.Exp, loc)
		n.Op = op
		n.AppendChild(lhs)
		n.AppendChild(rhs)
		lhs = n
	}
}

var unaryOps = map[string]bool{"-": true, "!": true, "~": true, "&": true}

func (p *Parser) parseUnary() *ast.Node {
	if p.cur.Kind == lexer.Punct && unaryOps[p.cur.Text] {
		loc := p.loc()
		op := p.cur.Text
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		n := ast.NewNode(ast.Exp, loc)
		n.Op = "u" + op // distinguish unary minus from binary subtraction etc.
		n.AppendChild(operand)
		return n
	}
	return p.parsePostfix()
}

// parsePostfix handles indexing a[i], trimming a[i:j], field access a.b,
// and call expressions f(args), left-associatively
// chained onto a primary expression.
func (p *Parser) parsePostfix() *ast.Node {
	n := p.parsePrimary()
	if n == nil {
		return nil
	}
	for {
		switch {
		case p.atPunct("["):
			loc := p.loc()
			p.advance()
			first := p.parseExpr()
			if p.atPunct(":") {
				p.advance()
				second := p.parseExpr()
				p.expectPunct("]")
				tr := ast.NewNode(ast.Trimmer, loc)
				tr.AppendChild(n)
				tr.AppendChild(first)
				tr.AppendChild(second)
				n = tr
				continue
			}
			p.expectPunct("]")
			idx := ast.NewNode(ast.Indexer, loc)
			idx.AppendChild(n)
			idx.AppendChild(first)
			n = idx

		case p.atPunct("."):
			loc := p.loc()
			p.advance()
			field := ast.NewNode(ast.StructRef, loc)
			if p.cur.Kind == lexer.Ident {
				field.Name = p.cur.Text
				p.advance()
			} else {
				p.errorf("expected field name after '.'")
			}
			field.AppendChild(n)
			n = field

		case p.atPunct("("):
			loc := p.loc()
			p.advance()
			call := ast.NewNode(ast.Funcall, loc)
			call.AppendChild(n)
			for !p.atPunct(")") {
				argLoc := p.loc()
				arg := ast.NewNode(ast.FuncallArg, argLoc)
				arg.AppendChild(p.parseExpr())
				call.AppendChild(arg)
				if p.atPunct(",") {
					p.advance()
					continue
				}
				break
			}
			p.expectPunct(")")
			n = call

		default:
			return n
		}
	}
}

// parsePrimary parses a literal, identifier, parenthesized expression,
// array/struct constructor, isa form, or lambda.
func (p *Parser) parsePrimary() *ast.Node {
	loc := p.loc()

	switch {
	case p.cur.Kind == lexer.IntLit:
		n := ast.NewNode(ast.Integer, loc)
		n.IntVal = p.cur.IntVal
		n.Base = p.cur.Base
		n.Signed = true
		n.IntSize = 32
		p.advance()
		return n

	case p.cur.Kind == lexer.StrLit:
		n := ast.NewNode(ast.String, loc)
		n.StrVal = p.cur.Text
		p.advance()
		return n

	case p.cur.Kind == lexer.AlienIdent:
		n := ast.NewNode(ast.Identifier, loc)
		n.Name = p.cur.Resolved
		if n.Name == "" {
			n.Name = p.cur.Text
		}
		p.advance()
		return n

	case p.cur.Kind == lexer.Ident:
		n := ast.NewNode(ast.Identifier, loc)
		n.Name = p.cur.Text
		p.advance()
		return n

	case p.atKeyword("isa"):
		p.advance()
		p.expectPunct("(")
		typ := p.parseExpr()
		p.expectPunct(")")
		n := ast.NewNode(ast.Isa, loc)
		n.AppendChild(typ)
		return n

	case p.atKeyword("fun"):
		return p.parseLambda()

	case p.atPunct("("):
		p.advance()
		n := p.parseExpr()
		p.expectPunct(")")
		return n

	case p.atPunct("["):
		return p.parseArrayLiteral()

	case p.atKeyword("struct"):
		return p.parseStructLiteral()

	default:
		p.errorf("unexpected token %q in expression", p.cur.Text)
		return nil
	}
}

func (p *Parser) parseArrayLiteral() *ast.Node {
	loc := p.loc()
	p.advance() // "["
	n := ast.NewNode(ast.ArrayInitializer, loc)
	for !p.atPunct("]") {
		n.AppendChild(p.parseExpr())
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct("]")
	return n
}

func (p *Parser) parseStructLiteral() *ast.Node {
	loc := p.loc()
	p.advance() // "struct"
	p.expectPunct("{")
	n := ast.NewNode(ast.Struct, loc)
	for !p.atPunct("}") {
		fieldLoc := p.loc()
		f := ast.NewNode(ast.StructField, fieldLoc)
		if p.cur.Kind == lexer.Ident {
			f.Name = p.cur.Text
			p.advance()
		}
		p.expectPunct("=")
		f.AppendChild(p.parseExpr())
		n.AppendChild(f)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct("}")
	return n
}

func (p *Parser) parseLambda() *ast.Node {
	loc := p.loc()
	p.advance() // "fun"
	n := ast.NewNode(ast.Lambda, loc)
	p.expectPunct("(")
	for !p.atPunct(")") {
		argLoc := p.loc()
		arg := ast.NewNode(ast.FuncArg, argLoc)
		if p.cur.Kind == lexer.Ident {
			arg.Name = p.cur.Text
			p.advance()
		}
		if p.atPunct("...") {
			arg.Vararg = true
			p.advance()
		}
		n.AppendChild(arg)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct(")")
	n.AppendChild(p.parseStatement())
	return n
}
