package cli

import (
	"bytes"
	"testing"
)

// execute runs the root command hermetically: temp config and data
// directories plus forced offline mode, so no invocation touches the
// network or the user's home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RELICA_DATA_DIR", t.TempDir())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config-dir", t.TempDir(), "--offline"}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
