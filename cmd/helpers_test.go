package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const validDocJSON = `{
  "experience": {"id": "e1", "name": "Pets", "type": "ai_photo", "stepsOrder": ["intro", "cap", "pets", "ai", "done"]},
  "steps": [
    {"id": "intro", "type": "info", "config": {"title": "Hi"}},
    {"id": "cap", "type": "capture", "config": {"mode": "photo"}},
    {"id": "pets", "type": "multiple-choice", "config": {"allowMultiple": true, "options": [{"label": "Dog"}, {"label": "Cat"}]}},
    {"id": "ai", "type": "ai-transform", "config": {
      "prompt": "Guest holding {{pet}}",
      "variables": [{"key": "pet", "sourceType": "input", "sourceStepId": "pets", "required": true}]
    }},
    {"id": "done", "type": "reward"}
  ]
}`

// useMemFs points every command at an in-memory filesystem for the test.
func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := appFs
	appFs = afero.NewMemMapFs()
	t.Cleanup(func() { appFs = prev })
	return appFs
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

// executeCommand runs rootCmd with args and returns everything it printed.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default; cobra keeps flag values
// between executions of the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
