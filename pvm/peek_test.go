package pvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pokelang.org/pk/pvm"
)

func TestPokePeekRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	id, err := ctx.IOS.OpenMem(make([]byte, 16))
	require.NoError(t, err)

	require.NoError(t, ctx.Poke(id, 0, pvm.MakeUint(0xdeadbeef, 32)))
	v, err := ctx.Peek(id, 0, 32, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdeadbeef), v.UintValue())
}

func TestPeekEndianness(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	id, err := ctx.IOS.OpenMem(make([]byte, 16))
	require.NoError(t, err)
	require.NoError(t, ctx.Poke(id, 0, pvm.MakeUint(0x1234, 16)))

	lo, err := ctx.Peek(id, 0, 8, false)
	require.NoError(t, err)
	hi, err := ctx.Peek(id, 8, 8, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x34), lo.UintValue())
	assert.Equal(t, uint64(0x12), hi.UintValue())

	ctx.Endian = pvm.MSB
	require.NoError(t, ctx.Poke(id, 0, pvm.MakeUint(0x1234, 16)))
	lo, err = ctx.Peek(id, 0, 8, false)
	require.NoError(t, err)
	hi, err = ctx.Peek(id, 8, 8, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12), lo.UintValue())
	assert.Equal(t, uint64(0x34), hi.UintValue())
}

func TestPeekPastEndReturnsEOF(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	id, err := ctx.IOS.OpenMem(make([]byte, 2))
	require.NoError(t, err)

	_, err = ctx.Peek(id, 0, 32, false)
	assert.Error(t, err)
}
