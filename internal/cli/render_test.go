package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "counter.yaml", counterFixture)

	out, err := execute(t, "render", path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>\n", out)

	out, err = execute(t, "--format", "json", "render", path)
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, map[string]any{"name": "counter", "html": "<p>hi</p>"}, resp.Data)
}

func TestRender_NoView(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "failing.yaml", failingFixture)

	_, err := execute(t, "render", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixture failing has no view")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
