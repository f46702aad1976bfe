package sema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pvm"
	"go.pokelang.org/pk/sema"
)

func intLit(v int64) *ast.Node {
	n := ast.NewNode(ast.Integer, ast.SourceLocation{})
	n.IntVal = v
	n.Signed = true
	n.IntSize = 32
	return n
}

func TestRunFoldsConstantAddition(t *testing.T) {
	t.Parallel()

	exp := ast.NewNode(ast.Exp, ast.SourceLocation{})
	exp.Op = "+"
	exp.AppendChild(intLit(1))
	exp.AppendChild(intLit(2))

	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	result := sema.Run(exp, p)

	assert.True(t, p.Ok())
	assert.Equal(t, ast.Integer, result.Code)
	assert.Equal(t, int64(3), result.IntVal)
}

func TestRunPromotesOperandsBeforeFolding(t *testing.T) {
	t.Parallel()

	wide := intLit(10)
	wide.IntSize = 64
	narrow := intLit(5)
	narrow.IntSize = 16

	exp := ast.NewNode(ast.Exp, ast.SourceLocation{})
	exp.Op = "*"
	exp.AppendChild(narrow)
	exp.AppendChild(wide)

	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	result := sema.Run(exp, p)

	assert.True(t, p.Ok())
	assert.Equal(t, int64(50), result.IntVal)
	assert.Equal(t, 64, result.IntSize)
}

func TestRunRejectsBreakOutsideLoop(t *testing.T) {
	t.Parallel()

	root := ast.NewNode(ast.CompStmt, ast.SourceLocation{})
	root.AppendChild(ast.NewNode(ast.BreakStmt, ast.SourceLocation{}))

	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	sema.Run(root, p)

	assert.False(t, p.Ok())
}

func TestRunAllowsBreakInsideLoop(t *testing.T) {
	t.Parallel()

	loop := ast.NewNode(ast.LoopStmt, ast.SourceLocation{})
	loop.AppendChild(ast.NewNode(ast.BreakStmt, ast.SourceLocation{}))

	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	sema.Run(loop, p)

	assert.True(t, p.Ok())
}

func TestRunRejectsDuplicateFieldNames(t *testing.T) {
	t.Parallel()

	s := ast.NewNode(ast.Struct, ast.SourceLocation{})
	f1 := ast.NewNode(ast.StructField, ast.SourceLocation{})
	f1.Name = "a"
	f2 := ast.NewNode(ast.StructField, ast.SourceLocation{})
	f2.Name = "a"
	s.AppendChild(f1)
	s.AppendChild(f2)

	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	sema.Run(s, p)

	assert.False(t, p.Ok())
}

func TestRunAnnotatesArrayInitializerIndices(t *testing.T) {
	t.Parallel()

	arr := ast.NewNode(ast.ArrayInitializer, ast.SourceLocation{})
	arr.AppendChild(intLit(10))
	arr.AppendChild(intLit(20))
	arr.AppendChild(intLit(30))

	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	sema.Run(arr, p)

	assert.True(t, p.Ok())
	for i, c := range arr.Children() {
		assert.True(t, c.IndexSet)
		assert.Equal(t, i, c.Index)
	}
}

func TestRunRejectsInvalidAssignmentTarget(t *testing.T) {
	t.Parallel()

	ass := ast.NewNode(ast.AssStmt, ast.SourceLocation{})
	ass.Op = "="
	ass.AppendChild(intLit(1)) // not an l-value
	ass.AppendChild(intLit(2))

	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	sema.Run(ass, p)

	assert.False(t, p.Ok())
}

func TestRunTypesIdentifierFromDeclaration(t *testing.T) {
	t.Parallel()

	decl := ast.NewNode(ast.Decl, ast.SourceLocation{})
	decl.Name = "x"
	decl.AppendChild(intLit(42))

	ident := ast.NewNode(ast.Identifier, ast.SourceLocation{})
	ident.Name = "x"

	block := ast.NewNode(ast.CompStmt, ast.SourceLocation{})
	block.AppendChild(decl)
	block.AppendChild(ident)

	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	sema.Run(block, p)

	assert.True(t, p.Ok())
	children := block.Children()
	resolvedIdent := children[1]
	assert.NotEqual(t, pvm.Null, resolvedIdent.Type)
	assert.Equal(t, ctx.TypeOf(decl.Type).IntSize, ctx.TypeOf(resolvedIdent.Type).IntSize)
}
