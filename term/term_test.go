package term_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/term"
)

// fd -1 never satisfies golang.org/x/term.IsTerminal, so NewDefault
// against a plain bytes.Buffer always takes the non-interactive path.
func newNonInteractive(buf *bytes.Buffer) *term.Default {
	return term.NewDefault(buf, -1)
}

func TestPutsAndPrintfWriteThrough(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := newNonInteractive(&buf)
	d.Puts("hello ")
	d.Printf("%d", 42)
	assert.Equal(t, "hello 42", buf.String())
}

func TestIndentWritesRepeatedSpaces(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := newNonInteractive(&buf)
	d.Indent(2, 3)
	assert.Equal(t, strings.Repeat(" ", 6), buf.String())
}

func TestClassIsNoopWhenNotInteractive(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := newNonInteractive(&buf)
	d.Class("error")
	d.Puts("x")
	d.EndClass("error")
	assert.Equal(t, "x", buf.String())
}

func TestHyperlinkIsNoopWhenNotInteractive(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := newNonInteractive(&buf)
	d.Hyperlink("https://example.com", "1")
	d.Puts("link")
	d.EndHyperlink()
	assert.Equal(t, "link", buf.String())
}

func TestSetRGBRoundTrips(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := newNonInteractive(&buf)
	d.SetRGB(10, 20, 30)
	r, g, b := d.RGB()
	assert.Equal(t, uint8(10), r)
	assert.Equal(t, uint8(20), g)
	assert.Equal(t, uint8(30), b)
}
