package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypesCmd(t *testing.T) {
	output, err := executeCommand(t, "types")
	require.NoError(t, err)
	for _, typ := range []string{"photo", "ai_photo", "survey", "wheel"} {
		assert.Contains(t, output, typ)
	}

	output, err = executeCommand(t, "types", "wheel", "--json")
	require.NoError(t, err)
	assert.Contains(t, output, `"stepType": "wheel"`)

	_, err = executeCommand(t, "types", "quiz")
	assert.ErrorContains(t, err, `unknown experience type "quiz"`)
}
