package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const acmeAnalysis = `company: Acme Pay
scores:
  integration: 80
  monetization: 20
  painPoint: 65
  automation: 50
  compliance: 90
  target: 40
notes:
  integration: Public API and webhooks.
`

// executeCmd runs the root command with args and an empty configuration
// file, so settings in the user's home directory never leak into tests.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{}\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--config", cfgPath))

	err := cmd.Execute()
	return out.String(), err
}

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
