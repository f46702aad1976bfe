package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pokelang.org/pk/config"
)

func TestDefaultHasDecimalOutputAndUnlimitedDepth(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	assert.Equal(t, 10, cfg.Output.Base)
	assert.Equal(t, -1, cfg.Output.MaxDepth)
	assert.False(t, cfg.ErrorOnWarning)
}

func TestLoadDecodesYAML(t *testing.T) {
	t.Parallel()
	src := `
load_path: ["/usr/share/poke", "./modules"]
skip_standard_types: true
error_on_warning: true
output:
  base: 16
  max_depth: 4
  show_offsets: true
`
	cfg, err := config.Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/share/poke", "./modules"}, cfg.LoadPath)
	assert.True(t, cfg.SkipStandardTypes)
	assert.True(t, cfg.ErrorOnWarning)
	assert.Equal(t, 16, cfg.Output.Base)
	assert.Equal(t, 4, cfg.Output.MaxDepth)
	assert.True(t, cfg.Output.ShowOffsets)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	t.Parallel()
	_, err := config.Load(strings.NewReader("not_a_real_field: 1\n"))
	assert.Error(t, err)
}
