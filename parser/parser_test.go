package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/lexer"
	"go.pokelang.org/pk/parser"
)

func TestParseExpressionPrecedence(t *testing.T) {
	t.Parallel()

	n, _, err := parser.ParseExpression("1 + 2 * 3", nil)
	require.NoError(t, err)
	require.Equal(t, ast.Exp, n.Code)
	assert.Equal(t, "+", n.Op)

	rhs := n.Children()[1]
	require.Equal(t, ast.Exp, rhs.Code)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseExpressionConditional(t *testing.T) {
	t.Parallel()

	n, _, err := parser.ParseExpression("a ? 1 : 2", nil)
	require.NoError(t, err)
	require.Equal(t, ast.CondExp, n.Code)
	require.Len(t, n.Children(), 3)
}

func TestParseExpressionPostfixChain(t *testing.T) {
	t.Parallel()

	n, _, err := parser.ParseExpression("a.b[0](1, 2)", nil)
	require.NoError(t, err)
	require.Equal(t, ast.Funcall, n.Code)

	callee := n.Children()[0]
	require.Equal(t, ast.Indexer, callee.Code)

	field := callee.Children()[0]
	require.Equal(t, ast.StructRef, field.Code)
	assert.Equal(t, "b", field.Name)
}

func TestParseStatementIfElse(t *testing.T) {
	t.Parallel()

	n, _, err := parser.ParseStatement("if (x) y; else z;", nil)
	require.NoError(t, err)
	require.Equal(t, ast.IfStmt, n.Code)
	require.Len(t, n.Children(), 3)
}

func TestParseStatementWhileLoop(t *testing.T) {
	t.Parallel()

	n, _, err := parser.ParseStatement("while (x) { y; }", nil)
	require.NoError(t, err)
	require.Equal(t, ast.LoopStmt, n.Code)
	require.Len(t, n.Children(), 2)
	assert.Equal(t, ast.CompStmt, n.Children()[1].Code)
}

func TestParseStatementForIterator(t *testing.T) {
	t.Parallel()

	n, _, err := parser.ParseStatement("for (x in arr where x > 0) print x;", nil)
	require.NoError(t, err)
	require.Equal(t, ast.LoopStmt, n.Code)

	it := n.Children()[0]
	require.Equal(t, ast.LoopStmtIterator, it.Code)
	require.Len(t, it.Children(), 3)
	assert.Equal(t, "x", it.Children()[0].Name)
}

func TestParseStatementAssignment(t *testing.T) {
	t.Parallel()

	n, _, err := parser.ParseStatement("x += 1;", nil)
	require.NoError(t, err)
	require.Equal(t, ast.AssStmt, n.Code)
	assert.Equal(t, "+=", n.Op)
}

func TestParseProgramDiscardsPartialASTOnError(t *testing.T) {
	t.Parallel()

	diag := &parser.Collector{}
	n, _, err := parser.ParseProgram("x = ;", diag)
	assert.Error(t, err)
	assert.Nil(t, n)
	assert.True(t, diag.HasErrors())
}

func TestParseProgramMultipleStatements(t *testing.T) {
	t.Parallel()

	n, _, err := parser.ParseProgram("var x = 1; print x;", nil)
	require.NoError(t, err)
	require.Equal(t, ast.Program, n.Code)
	require.Len(t, n.Children(), 2)
	assert.Equal(t, ast.Decl, n.Children()[0].Code)
	assert.Equal(t, ast.PrintStmt, n.Children()[1].Code)
}

func TestAlienHookCuckolding(t *testing.T) {
	t.Parallel()

	p := parser.New(lexer.New("$foo"), nil).WithAlienHook(func(name string) (string, bool) {
		if name == "foo" {
			return "resolved_foo", true
		}
		return "", false
	})
	n, err := p.ParseExpression()
	require.NoError(t, err)
	require.Equal(t, ast.Identifier, n.Code)
	assert.Equal(t, "resolved_foo", n.Name)
}
