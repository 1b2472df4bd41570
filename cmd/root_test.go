package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd(t *testing.T) {
	output, err := executeCommand(t, "--help")
	assert.NoError(t, err)

	assert.Contains(t, output, "Guestflow validates guest experiences") // Short desc
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Available Commands:")
	for _, name := range []string{"validate", "compose", "types", "new", "apply", "policy", "serve"} {
		assert.Contains(t, output, name)
	}
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0.3.0", GetVersion())

	output, err := executeCommand(t, "version")
	assert.NoError(t, err)
	assert.Contains(t, output, "guestflow 0.3.0")
}
