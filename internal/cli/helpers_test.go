package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const counterFixture = `name: counter
streams:
  - name: clicks
    kind: hot
    messages:
      - {time: 200, value: 1}
      - {time: 100, value: 2}
      - {time: 300, kind: completed}
view:
  tag: p
  children: [{text: hi}]
assertions:
  - {type: values, stream: clicks, values: [2, 1]}
  - {type: completes, stream: clicks, at: 300}
`

const failingFixture = `name: failing
streams:
  - name: clicks
    messages:
      - {time: 100, value: 2}
assertions:
  - {type: values, stream: clicks, values: [3]}
`

const counterHistory = `{"fixture":"counter","streams":{"clicks":[{"kind":"next","time":100,"value":2},{"kind":"next","time":200,"value":1},{"kind":"completed","time":300}]}}`

func writeFixture(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}
