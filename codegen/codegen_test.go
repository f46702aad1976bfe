package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/codegen"
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

// compile runs root through sema.Run then codegen.Generate, the same
// pipeline the façade's compile_* operations drive.
func compile(t *testing.T, root *ast.Node) *pvm.Program {
	t.Helper()
	ctx := pvm.NewContext()
	p := sema.NewPayload(ctx, false)
	root = sema.Run(root, p)
	require.True(t, p.Ok())
	prog, errs := codegen.Generate(root, ctx)
	require.Empty(t, errs)
	return prog
}

func TestGenerateAddition(t *testing.T) {
	t.Parallel()

	exp := ast.NewNode(ast.Exp, ast.SourceLocation{})
	exp.Op = "+"
	exp.AppendChild(intLit(1))
	exp.AppendChild(intLit(2))

	ctx := pvm.NewContext()
	prog := compile(t, exp)

	vm := pvm.NewVM(ctx)
	result, exc := vm.Run(prog, 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(3), result.IntValue())
}

func TestGenerateVarDeclAndUse(t *testing.T) {
	t.Parallel()

	decl := ast.NewNode(ast.Decl, ast.SourceLocation{})
	decl.Name = "x"
	decl.AppendChild(intLit(42))

	use := ast.NewNode(ast.Exp, ast.SourceLocation{})
	use.Op = "*"
	ident := ast.NewNode(ast.Identifier, ast.SourceLocation{})
	ident.Name = "x"
	use.AppendChild(ident)
	use.AppendChild(intLit(2))

	useStmt := ast.NewNode(ast.ReturnStmt, ast.SourceLocation{})
	useStmt.AppendChild(use)

	block := ast.NewNode(ast.CompStmt, ast.SourceLocation{})
	block.AppendChild(decl)
	block.AppendChild(useStmt)

	ctx := pvm.NewContext()
	prog := compile(t, block)

	vm := pvm.NewVM(ctx)
	result, exc := vm.Run(prog, 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(84), result.IntValue())
}

func TestDisassembleListsLabelsAndMnemonics(t *testing.T) {
	t.Parallel()

	exp := ast.NewNode(ast.Exp, ast.SourceLocation{})
	exp.Op = "+"
	exp.AppendChild(intLit(1))
	exp.AppendChild(intLit(2))

	prog := compile(t, exp)
	out := codegen.Disassemble(prog)

	assert.True(t, strings.Contains(out, "PUSH") || strings.Contains(out, "push"))
	assert.True(t, strings.Contains(out, "ADD") || strings.Contains(out, "add"))
}

func TestGenerateIfStmt(t *testing.T) {
	t.Parallel()

	cond := ast.NewNode(ast.Exp, ast.SourceLocation{})
	cond.Op = "<"
	cond.AppendChild(intLit(1))
	cond.AppendChild(intLit(2))

	thenRet := ast.NewNode(ast.ReturnStmt, ast.SourceLocation{})
	thenRet.AppendChild(intLit(100))
	elseRet := ast.NewNode(ast.ReturnStmt, ast.SourceLocation{})
	elseRet.AppendChild(intLit(200))

	ifStmt := ast.NewNode(ast.IfStmt, ast.SourceLocation{})
	ifStmt.AppendChild(cond)
	ifStmt.AppendChild(thenRet)
	ifStmt.AppendChild(elseRet)

	ctx := pvm.NewContext()
	prog := compile(t, ifStmt)

	vm := pvm.NewVM(ctx)
	result, exc := vm.Run(prog, 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(100), result.IntValue())
}
