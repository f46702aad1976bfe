package pvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/pvm"
)

func TestEnvironmentLookupShadowing(t *testing.T) {
	t.Parallel()

	env := pvm.NewEnvironment()
	env.Register("x", pvm.MakeInt(1, 32))

	env.PushFrame()
	env.Register("x", pvm.MakeInt(2, 32))
	v, ok := env.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, int64(2), v.IntValue())

	env.PopFrame()
	v, ok = env.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v.IntValue())
}

func TestEnvironmentSetMissing(t *testing.T) {
	t.Parallel()

	env := pvm.NewEnvironment()
	assert.False(t, env.Set("nope", pvm.Null))
}

func TestEnvironmentToplevelP(t *testing.T) {
	t.Parallel()

	env := pvm.NewEnvironment()
	assert.True(t, env.ToplevelP())
	env.PushFrame()
	assert.False(t, env.ToplevelP())
}
