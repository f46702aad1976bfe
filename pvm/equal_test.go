package pvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/pvm"
)

func TestEqualStructural(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()

	elemType := ctx.MakeType(pvm.TypeValue{Code: pvm.TypeIntegral, IntSize: 32, IntSigned: true})
	a1 := ctx.MakeArray(2, elemType)
	ctx.ArrayOf(a1).Cells[0].Value = pvm.MakeInt(1, 32)
	ctx.ArrayOf(a1).Cells[1].Value = pvm.MakeInt(2, 32)

	a2 := ctx.MakeArray(2, elemType)
	ctx.ArrayOf(a2).Cells[0].Value = pvm.MakeInt(1, 32)
	ctx.ArrayOf(a2).Cells[1].Value = pvm.MakeInt(2, 32)

	assert.True(t, ctx.Equal(a1, a2))

	// Mapping a1 but not a2 must not affect equality: equal is structural,
	// not identity/mapinfo based.
	ctx.ArrayOf(a1).Info = pvm.MapInfo{Mapped: true, IOS: 1, Offset: 64}
	assert.True(t, ctx.Equal(a1, a2))

	ctx.ArrayOf(a2).Cells[1].Value = pvm.MakeInt(3, 32)
	assert.False(t, ctx.Equal(a1, a2))
}

func TestEqualReflexiveSymmetric(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	s := ctx.MakeString("hello")
	assert.True(t, ctx.Equal(s, s))

	s2 := ctx.MakeString("hello")
	assert.True(t, ctx.Equal(s, s2))
	assert.True(t, ctx.Equal(s2, s))
}
