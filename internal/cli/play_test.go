package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlay_Text(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "counter.yaml", counterFixture)

	out, err := execute(t, "play", path)
	require.NoError(t, err)

	assert.Equal(t, `counter
  clicks:
    next@100(2)
    next@200(1)
    completed@300
  html: <p>hi</p>
✓ all assertions passed
`, out)
}

func TestPlay_JSON(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "counter.yaml", counterFixture)

	out, err := execute(t, "--format", "json", "play", path)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "counter", data["name"])
	assert.Equal(t, true, data["pass"])
	assert.Equal(t, "<p>hi</p>", data["html"])
	assert.NotContains(t, data, "run_id")

	clicks := data["streams"].(map[string]any)["clicks"].([]any)
	require.Len(t, clicks, 3)
	assert.Equal(t, map[string]any{"kind": "next", "time": float64(100), "value": float64(2)}, clicks[0])
}

func TestPlay_FailedAssertions(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "failing.yaml", failingFixture)

	out, err := execute(t, "play", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Assertion failed: values on clicks")
	assert.Contains(t, out, "✗ 1 assertion(s) failed")

	out, err = execute(t, "--format", "json", "play", path)
	require.Error(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, CodeTestFailed, resp.Error.Code)
	assert.Equal(t, false, resp.Data.(map[string]any)["pass"])
}

func TestPlay_Record(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "counter.yaml", counterFixture)
	db := filepath.Join(dir, "runs.db")

	out, err := execute(t, "--format", "json", "play", path, "--record", db)
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.NotEmpty(t, data["run_id"])

	out, err = execute(t, "play", path, "--record", db)
	require.NoError(t, err)
	assert.Contains(t, out, "  run: ")
}

func TestPlay_CommandErrors(t *testing.T) {
	dir := t.TempDir()
	invalid := writeFixture(t, dir, "invalid.yaml", "name: empty\nstreams: []\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"play", filepath.Join(dir, "nope.yaml")}, "fixture not found"},
		{"invalid fixture", []string{"play", invalid}, "failed to load fixture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}

	_, err := execute(t, "play")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestPlay_VerboseLogsToStderr(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "counter.yaml", counterFixture)

	cmd := NewRootCommand()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"-v", "--format", "json", "play", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, errOut.String(), "Loaded fixture counter")
	assert.Contains(t, errOut.String(), "stream played")
	decodeResponse(t, out.String())
}
