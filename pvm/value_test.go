package pvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/pvm"
)

func TestIntRoundTrip(t *testing.T) {
	t.Parallel()

	v := pvm.MakeInt(-5, 8)
	assert.Equal(t, int64(-5), v.IntValue())
	assert.Equal(t, 8, v.IntSize())
	assert.Equal(t, pvm.TagInt, v.Tag())
}

func TestUintRoundTrip(t *testing.T) {
	t.Parallel()

	v := pvm.MakeUint(200, 8)
	assert.Equal(t, uint64(200), v.UintValue())
}

func TestNull(t *testing.T) {
	t.Parallel()

	assert.True(t, pvm.Null.IsNull())
	assert.False(t, pvm.MakeInt(0, 32).IsNull())
}

func TestKind(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	assert.Equal(t, pvm.KindInt, pvm.MakeInt(1, 32).Kind(ctx))
	assert.Equal(t, pvm.KindString, ctx.MakeString("hi").Kind(ctx))
	assert.Equal(t, pvm.KindNull, pvm.Null.Kind(ctx))
}
