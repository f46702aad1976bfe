package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/ast"
)

func TestAppendChildAndChildren(t *testing.T) {
	t.Parallel()

	prog := ast.NewNode(ast.Program, ast.SourceLocation{})
	a := ast.NewNode(ast.Decl, ast.SourceLocation{})
	b := ast.NewNode(ast.Decl, ast.SourceLocation{})
	prog.AppendChild(a)
	prog.AppendChild(b)

	assert.Equal(t, []*ast.Node{a, b}, prog.Children())
	assert.Equal(t, prog, a.Parent)
}

func TestReplace(t *testing.T) {
	t.Parallel()

	prog := ast.NewNode(ast.Program, ast.SourceLocation{})
	a := ast.NewNode(ast.Decl, ast.SourceLocation{})
	b := ast.NewNode(ast.Decl, ast.SourceLocation{})
	c := ast.NewNode(ast.Decl, ast.SourceLocation{})
	prog.AppendChild(a)
	prog.AppendChild(b)

	assert.True(t, prog.Replace(b, c))
	assert.Equal(t, []*ast.Node{a, c}, prog.Children())
}

func TestWalkVisitsPreAndPost(t *testing.T) {
	t.Parallel()

	prog := ast.NewNode(ast.Program, ast.SourceLocation{})
	child := ast.NewNode(ast.ExpStmt, ast.SourceLocation{})
	prog.AppendChild(child)

	var pre, post []ast.Code
	ast.Walk(prog, ast.Visitor{
		Pre:  func(n *ast.Node) bool { pre = append(pre, n.Code); return true },
		Post: func(n *ast.Node) { post = append(post, n.Code) },
	})

	assert.Equal(t, []ast.Code{ast.Program, ast.ExpStmt}, pre)
	assert.Equal(t, []ast.Code{ast.ExpStmt, ast.Program}, post)
}
