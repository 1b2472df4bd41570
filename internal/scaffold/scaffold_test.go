package scaffold

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/internal/validation"
	"github.com/josephgoksu/Guestflow/models"
)

func TestDocument_EveryTypeValidates(t *testing.T) {
	s := New(nil)
	for _, typ := range registry.Default().Types() {
		t.Run(string(typ), func(t *testing.T) {
			doc, err := s.Document(typ, "Starter")
			require.NoError(t, err)
			require.NoError(t, models.ValidateStruct(doc))

			result := validation.Validate(doc.Experience, doc.OrderedSteps())
			assert.True(t, result.Valid, "errors: %+v", result.Errors)
			assert.Empty(t, result.Warnings)
		})
	}
}

func TestDocument_RelinksVariables(t *testing.T) {
	n := 0
	s := New(nil)
	s.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	s.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	doc, err := s.Document(models.ExperienceAIGIF, "Comic GIF")
	require.NoError(t, err)

	assert.Equal(t, "id-1", doc.Experience.ID)
	assert.Equal(t, []string{"id-2", "id-3", "id-4", "id-5", "id-6"}, doc.Experience.StepsOrder)
	assert.Equal(t, models.StepCapture, doc.Steps[1].Type)
	assert.Equal(t, models.CaptureConfig{Mode: models.CaptureGIF, Countdown: 3}, doc.Steps[1].Config)

	ai, ok := doc.Steps[3].AITransform()
	require.True(t, ok)
	assert.Equal(t, "id-4", ai.Variables[0].SourceStepID)
	assert.Equal(t, "id-1", doc.Steps[3].ExperienceID)

	// the seed itself is untouched
	seedAI := s.seeds[models.ExperienceAIGIF][3].Config.(models.AiTransformConfig)
	assert.Equal(t, "style", seedAI.Variables[0].SourceStepID)
}

func TestDocument_UnknownType(t *testing.T) {
	_, err := New(Seeds{}).Document(models.ExperiencePhoto, "x")
	assert.ErrorIs(t, err, ErrNoSeed)
}

func TestDefaultSeeds_FreshCopies(t *testing.T) {
	a := DefaultSeeds()
	a[models.ExperienceWheel][0].Name = "changed"
	assert.Equal(t, "Welcome", DefaultSeeds()[models.ExperienceWheel][0].Name)
}
