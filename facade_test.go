package pk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pk "go.pokelang.org/pk"
	"go.pokelang.org/pk/config"
	"go.pokelang.org/pk/pvm"
)

func newTestCompiler(t *testing.T) *pk.Compiler {
	t.Helper()
	return pk.New(nil, pk.Flags{}, config.Default())
}

func TestCompileExpressionEvaluatesArithmetic(t *testing.T) {
	t.Parallel()
	c := newTestCompiler(t)
	defer c.Free()

	res, err := c.CompileExpression("2 + 3 * 4")
	require.NoError(t, err)
	assert.Nil(t, res.Exception)
	assert.Equal(t, int64(14), res.Value.IntValue())
}

func TestCompileBufferDeclaresToplevelBinding(t *testing.T) {
	t.Parallel()
	c := newTestCompiler(t)
	defer c.Free()

	_, err := c.CompileBuffer("var x = 7;")
	require.NoError(t, err)
	assert.True(t, c.DeclP("x"))
	val, ok := c.DeclVal("x")
	require.True(t, ok)
	assert.Equal(t, int64(7), val.IntValue())
}

func TestDeclSetValRebindsExistingDeclaration(t *testing.T) {
	t.Parallel()
	c := newTestCompiler(t)
	defer c.Free()

	_, err := c.CompileBuffer("var x = 1;")
	require.NoError(t, err)
	ok := c.DeclSetVal("x", c.Ctx.MakeType(pvm.TypeValue{Code: pvm.TypeIntegral, IntSize: 32, IntSigned: true}))
	assert.True(t, ok)
	assert.False(t, c.DeclSetVal("nonexistent", pvm.Null))
}

func TestDefvarInjectsHostValueBeforeCompile(t *testing.T) {
	t.Parallel()
	c := newTestCompiler(t)
	defer c.Free()

	c.Defvar("injected", pvm.MakeInt(99, 32))
	res, err := c.CompileExpression("injected")
	require.NoError(t, err)
	assert.Equal(t, int64(99), res.Value.IntValue())
}

func TestDeclMapExcludesBootstrapBindings(t *testing.T) {
	t.Parallel()
	c := newTestCompiler(t)
	defer c.Free()

	_, err := c.CompileBuffer("var y = 5;")
	require.NoError(t, err)

	decls := c.DeclMap()
	_, hasUser := decls["y"]
	assert.True(t, hasUser)
	_, hasBootstrap := decls["PKL_VERSION"]
	assert.False(t, hasBootstrap)
}

func TestDisassembleExpressionListsInstructions(t *testing.T) {
	t.Parallel()
	c := newTestCompiler(t)
	defer c.Free()

	out, err := c.DisassembleExpression("1 + 2")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestLoadIsIdempotentForSamePath(t *testing.T) {
	t.Parallel()
	c := newTestCompiler(t)
	defer c.Free()

	first, err := c.Load("pkl-rt")
	require.NoError(t, err)
	assert.False(t, first, "pkl-rt is already loaded by New")

	second, err := c.Load("pkl-rt")
	require.NoError(t, err)
	assert.False(t, second)
}
