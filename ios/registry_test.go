package ios_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pokelang.org/pk/ios"
)

func TestOpenMemRoundTripsData(t *testing.T) {
	r := ios.NewRegistry()
	id, err := r.OpenMem([]byte("hello"))
	require.NoError(t, err)

	buf := make([]byte, 5)
	n, status, err := r.Pread(id, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, ios.PreadOK, status)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestSubSpaceWindowsIntoBase(t *testing.T) {
	r := ios.NewRegistry()
	base, err := r.OpenMem([]byte("0123456789"))
	require.NoError(t, err)

	// A 4-byte sub-space starting 3 bytes into base.
	handler := ios.FormatSubHandler(base, 3*8, 4*8, "middle")
	sub, err := r.Open(handler, ios.FlagRead|ios.FlagWrite, false)
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, status, err := r.Pread(sub, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, ios.PreadOK, status)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3456", string(buf))

	size, ok := r.Size(sub)
	require.True(t, ok)
	assert.Equal(t, uint64(4*8), size)
}

func TestSubSpaceReadPastEndIsEOF(t *testing.T) {
	r := ios.NewRegistry()
	base, err := r.OpenMem([]byte("0123456789"))
	require.NoError(t, err)

	handler := ios.FormatSubHandler(base, 0, 2*8, "tiny")
	sub, err := r.Open(handler, ios.FlagRead, false)
	require.NoError(t, err)

	buf := make([]byte, 3)
	_, status, err := r.Pread(sub, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, ios.PreadEOF, status)
}

func TestSubSpaceWindowExceedingBaseSizeIsRejected(t *testing.T) {
	r := ios.NewRegistry()
	base, err := r.OpenMem([]byte("01234"))
	require.NoError(t, err)

	handler := ios.FormatSubHandler(base, 0, 100*8, "toobig")
	_, err = r.Open(handler, ios.FlagRead, false)
	assert.Error(t, err)
}

func TestCloseBaseClosesSubSpaces(t *testing.T) {
	r := ios.NewRegistry()
	base, err := r.OpenMem([]byte("01234"))
	require.NoError(t, err)

	handler := ios.FormatSubHandler(base, 0, 2*8, "child")
	sub, err := r.Open(handler, ios.FlagRead, false)
	require.NoError(t, err)

	require.NoError(t, r.Close(base))
	_, ok := r.SearchByID(sub)
	assert.False(t, ok)
}
