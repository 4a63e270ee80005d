package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cycletest/internal/stream"
)

func TestLoad_YAML(t *testing.T) {
	f, err := Load("testdata/counter.yaml")
	require.NoError(t, err)

	assert.Equal(t, "counter", f.Name)
	assert.Equal(t, "testdata/counter.yaml", f.Path)
	assert.Equal(t, &stream.Timing{Created: 1, Subscribed: 10, Disposed: 1000}, f.Timing)
	require.Len(t, f.Streams, 2)
	assert.Equal(t, KindCold, f.Streams[1].Kind)
	assert.Equal(t, map[string]any{"ok": true}, f.Streams[1].Messages[0].Value)
	require.NotNil(t, f.View)
	assert.Equal(t, "div", f.View.Tag)
	assert.Len(t, f.Assertions, 4)
	assert.Equal(t, []any{2, 1}, f.Assertions[0].Values)
}

func TestLoad_CUE(t *testing.T) {
	f, err := Load("testdata/counter.cue")
	require.NoError(t, err)

	assert.Equal(t, "counter-cue", f.Name)
	assert.Nil(t, f.Timing)
	require.Len(t, f.Streams, 1)

	msgs, err := f.Streams[0].Notifications()
	require.NoError(t, err)
	assert.Equal(t, []stream.Notification{stream.OnNext(100, 2), stream.OnNext(200, 1)}, msgs)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), "failed to read fixture file"},
		{"unsupported extension", write("f.json", `{}`), `unsupported fixture extension ".json"`},
		{"unknown field", write("typo.yaml", "name: x\nstream: []\n"), "failed to parse YAML"},
		{"invalid yaml fixture", write("empty.yaml", "name: x\nstreams: []\n"), "invalid fixture x: streams list is required"},
		{"cue syntax", write("bad.cue", "name: {"), "failed to compile CUE"},
		{"cue not concrete", write("open.cue", "name: string\nstreams: []\n"), "not concrete"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestIsFixtureFile(t *testing.T) {
	assert.True(t, IsFixtureFile("a/b.yaml"))
	assert.True(t, IsFixtureFile("b.YML"))
	assert.True(t, IsFixtureFile("b.cue"))
	assert.False(t, IsFixtureFile("b.golden"))
}
