package pvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/pvm"
)

func TestSizeOfIntegral(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	assert.Equal(t, uint64(32), ctx.SizeOf(pvm.MakeInt(5, 32)))
	assert.Equal(t, uint64(8), ctx.SizeOf(pvm.MakeUint(5, 8)))
}

func TestSizeOfAdditiveOverStruct(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	structType := ctx.MakeType(pvm.TypeValue{Code: pvm.TypeStruct, Name: "s"})
	sv := ctx.MakeStruct(2, structType)
	s := ctx.StructOf(sv)
	s.Fields[0] = pvm.FieldCell{Name: "a", Value: pvm.MakeInt(1, 32)}
	s.Fields[1] = pvm.FieldCell{Name: "b", Value: pvm.MakeInt(1, 16)}

	assert.Equal(t, uint64(48), ctx.SizeOf(sv))
}

func TestSizeOfSkipsAbsentFields(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	structType := ctx.MakeType(pvm.TypeValue{Code: pvm.TypeStruct, Name: "s"})
	sv := ctx.MakeStruct(2, structType)
	s := ctx.StructOf(sv)
	s.Fields[0] = pvm.FieldCell{Name: "a", Value: pvm.MakeInt(1, 32)}
	// Fields[1] left zero-valued: Name == "" and Value == Null, i.e. absent.

	assert.Equal(t, uint64(32), ctx.SizeOf(sv))
}
