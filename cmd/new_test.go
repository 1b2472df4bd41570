package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/Guestflow/internal/scaffold"
	"github.com/josephgoksu/Guestflow/models"
)

func TestNewCmd(t *testing.T) {
	useMemFs(t)

	output, err := executeCommand(t, "new", "ai_photo", "/exp/portraits.yaml", "--name", "Portraits")
	require.NoError(t, err)
	assert.Contains(t, output, "Created ai_photo experience")

	doc, err := newStore().Load("/exp/portraits.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Portraits", doc.Experience.Name)
	assert.Equal(t, models.ExperienceAIPhoto, doc.Experience.Type)
	assert.NotEmpty(t, doc.Experience.ID)

	output, err = executeCommand(t, "validate", "/exp/portraits.yaml")
	require.NoError(t, err, output)

	_, err = executeCommand(t, "new", "survey", "/exp/portraits.yaml")
	assert.ErrorContains(t, err, "already exists")

	_, err = executeCommand(t, "new", "survey", "/exp/portraits.yaml", "--force")
	require.NoError(t, err)
	doc, err = newStore().Load("/exp/portraits.yaml")
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceSurvey, doc.Experience.Type)
	assert.Equal(t, "Survey", doc.Experience.Name)

	_, err = executeCommand(t, "new", "quiz", "/exp/quiz.json")
	assert.ErrorIs(t, err, scaffold.ErrNoSeed)
}
