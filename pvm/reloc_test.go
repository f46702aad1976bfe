package pvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/pvm"
)

func TestRelocUrelocIsIdentity(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	elemType := ctx.MakeType(pvm.TypeValue{Code: pvm.TypeIntegral, IntSize: 8})
	av := ctx.MakeArray(2, elemType)
	a := ctx.ArrayOf(av)
	a.Info = pvm.MapInfo{Mapped: true, IOS: 1, Offset: 128}
	a.Cells[0].Offset = 0
	a.Cells[1].Offset = 8

	ctx.Reloc(av, 256)
	assert.Equal(t, uint64(256), a.Info.Offset)

	ctx.Ureloc(av)
	assert.Equal(t, uint64(128), a.Info.Offset)
	assert.Equal(t, uint64(0), a.Cells[0].Offset)
	assert.Equal(t, uint64(8), a.Cells[1].Offset)
}

func TestUnmapClearsMapInfo(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	elemType := ctx.MakeType(pvm.TypeValue{Code: pvm.TypeIntegral, IntSize: 8})
	av := ctx.MakeArray(1, elemType)
	a := ctx.ArrayOf(av)
	a.Info = pvm.MapInfo{Mapped: true, IOS: 1, Offset: 64}

	assert.NoError(t, ctx.Unmap(av))
	assert.False(t, a.Info.Mapped)
}
