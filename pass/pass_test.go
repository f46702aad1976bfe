package pass_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pass"
)

func TestRunVisitsByCode(t *testing.T) {
	t.Parallel()

	root := ast.NewNode(ast.Program, ast.SourceLocation{})
	child := ast.NewNode(ast.ExpStmt, ast.SourceLocation{})
	root.AppendChild(child)

	var visited []ast.Code
	ph := pass.NewPhase("collect")
	ph.OnCode(ast.ExpStmt, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		visited = append(visited, n.Code)
		return nil, pass.Continue
	})

	payload := &pass.Payload{}
	pass.Run(root, payload, ph)

	assert.Equal(t, []ast.Code{ast.ExpStmt}, visited)
	assert.True(t, payload.Ok())
}

func TestFatalStopsTraversal(t *testing.T) {
	t.Parallel()

	root := ast.NewNode(ast.Program, ast.SourceLocation{})
	a := ast.NewNode(ast.ExpStmt, ast.SourceLocation{})
	b := ast.NewNode(ast.ExpStmt, ast.SourceLocation{})
	root.AppendChild(a)
	root.AppendChild(b)

	visits := 0
	ph := pass.NewPhase("abort-first")
	ph.OnCode(ast.ExpStmt, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		visits++
		p.Fatal("boom")
		return nil, pass.Continue
	})

	payload := &pass.Payload{}
	pass.Run(root, payload, ph)

	assert.Equal(t, 1, visits)
	assert.False(t, payload.Ok())
	assert.Equal(t, 1, payload.Errors)
}

func TestReplaceSwapsNode(t *testing.T) {
	t.Parallel()

	root := ast.NewNode(ast.Program, ast.SourceLocation{})
	orig := ast.NewNode(ast.Integer, ast.SourceLocation{})
	orig.IntVal = 1
	root.AppendChild(orig)

	ph := pass.NewPhase("fold")
	ph.OnCode(ast.Integer, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		folded := ast.NewNode(ast.Integer, n.Loc)
		folded.IntVal = n.IntVal * 2
		return folded, pass.Continue
	})

	payload := &pass.Payload{}
	pass.Run(root, payload, ph)

	assert.Equal(t, int64(2), root.Children()[0].IntVal)
}

func TestWarnPromotedToErrorWhenErrorOnWarn(t *testing.T) {
	t.Parallel()

	p := &pass.Payload{ErrorOnWarn: true}
	p.Warn("useless annotation")
	assert.Equal(t, 1, p.Errors)
	assert.Equal(t, 0, p.Warnings)
	assert.False(t, p.Ok())
}

func TestContextStack(t *testing.T) {
	t.Parallel()

	p := &pass.Payload{}
	p.PushContext("struct")
	assert.True(t, p.InContext("struct"))
	p.PopContext()
	assert.False(t, p.InContext("struct"))
}
