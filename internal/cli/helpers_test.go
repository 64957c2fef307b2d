package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var scenarioDir = filepath.Join("..", "harness", "testdata", "scenarios")

func scenarioPath(name string) string {
	return filepath.Join(scenarioDir, name)
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(FormatEnv, "")

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const failingScenario = `
name: failing
devices:
  - name: fx
    signals:
      - { name: mix, direction: in }
      - { name: rate, direction: in }
queries:
  - { name: fx, op: list, source: fx, expect: [fx/rate] }
`
