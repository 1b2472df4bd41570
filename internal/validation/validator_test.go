package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/models"
	"github.com/josephgoksu/Guestflow/types"
)

func info(id string) models.Step {
	return models.Step{ID: id, Type: models.StepInfo, Config: models.InfoConfig{Title: "Welcome"}}
}

func capture(id string, mode models.CaptureMode) models.Step {
	return models.Step{ID: id, Type: models.StepCapture, Config: models.CaptureConfig{Mode: mode}}
}

func question(id string) models.Step {
	return models.Step{ID: id, Type: models.StepShortText, Config: models.ShortTextConfig{}}
}

func reward(id string) models.Step {
	return models.Step{ID: id, Type: models.StepReward, Config: models.RewardConfig{}}
}

func transform(id, prompt string, vars ...models.AiTransformVariable) models.Step {
	return models.Step{
		ID:     id,
		Type:   models.StepAITransform,
		Config: models.AiTransformConfig{Prompt: prompt, Variables: vars},
	}
}

func petVar(source string) models.AiTransformVariable {
	return models.AiTransformVariable{Key: "pet", SourceType: models.SourceInput, SourceStepID: source, Required: true}
}

func exp(t models.ExperienceType) models.Experience {
	return models.Experience{ID: "e1", Type: t}
}

func errorCodes(r types.ValidationResult) []types.ErrorCode {
	out := []types.ErrorCode{}
	for _, e := range r.Errors {
		out = append(out, e.Code)
	}
	return out
}

func warningCodes(r types.ValidationResult) []types.WarningCode {
	out := []types.WarningCode{}
	for _, w := range r.Warnings {
		out = append(out, w.Code)
	}
	return out
}

func TestValidate_ValidAIPhoto(t *testing.T) {
	steps := []models.Step{
		info("i1"),
		capture("c1", models.CapturePhoto),
		question("q1"),
		transform("ai", "A portrait of {{pet}}", petVar("q1")),
		reward("r1"),
	}
	r := Validate(exp(models.ExperienceAIPhoto), steps)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidate_UnknownTypeShortCircuits(t *testing.T) {
	steps := []models.Step{transform("ai", "{{x}}", models.AiTransformVariable{Key: "x", SourceType: models.SourceStatic})}
	r := Validate(exp("hologram"), steps)
	assert.False(t, r.Valid)
	assert.Equal(t, []types.ErrorCode{types.CodeInvalidType}, errorCodes(r))
	assert.Empty(t, r.Warnings)
}

// An ai_photo experience with no ai-transform step is invalid.
func TestValidate_AIPhotoWithoutTransform(t *testing.T) {
	steps := []models.Step{info("i1"), capture("c1", models.CapturePhoto), reward("r1")}
	r := Validate(exp(models.ExperienceAIPhoto), steps)
	assert.False(t, r.Valid)
	assert.True(t, r.HasError(types.CodeMissingRequiredStep))
	assert.Contains(t, r.Errors[0].Message, "ai-transform")
}

func TestValidate_RequiredConfigMustMatch(t *testing.T) {
	steps := []models.Step{info("i1"), capture("c1", models.CaptureVideo), reward("r1")}
	r := Validate(exp(models.ExperienceGIF), steps)
	assert.False(t, r.Valid)
	assert.Equal(t, []types.ErrorCode{types.CodeMissingRequiredStep}, errorCodes(r))
	assert.Contains(t, r.Errors[0].Message, "mode=gif")

	steps[1] = capture("c1", models.CaptureGIF)
	assert.True(t, Validate(exp(models.ExperienceGIF), steps).Valid)
}

func TestValidate_RequiredConfigMatchesUnknownPayload(t *testing.T) {
	// A capture step whose config was kept as raw fields still matches.
	steps := []models.Step{{
		ID:     "c1",
		Type:   models.StepCapture,
		Config: models.UnknownConfig{Type: models.StepCapture, Fields: map[string]any{"mode": "photo", "extra": 1}},
	}}
	r := Validate(exp(models.ExperiencePhoto), steps)
	assert.True(t, r.Valid)
}

func TestValidate_BeforeRewardPosition(t *testing.T) {
	tests := []struct {
		name  string
		steps []models.Step
		want  []types.ErrorCode
	}{
		{
			name: "transform directly before reward",
			steps: []models.Step{
				capture("c1", models.CapturePhoto), transform("ai", "x"), reward("r1"),
			},
			want: []types.ErrorCode{},
		},
		{
			name: "question between transform and reward",
			steps: []models.Step{
				capture("c1", models.CapturePhoto), transform("ai", "x"), question("q1"), reward("r1"),
			},
			want: []types.ErrorCode{types.CodeInvalidStepPosition},
		},
		{
			name: "transform after reward",
			steps: []models.Step{
				capture("c1", models.CapturePhoto), reward("r1"), transform("ai", "x"),
			},
			want: []types.ErrorCode{types.CodeInvalidStepPosition},
		},
		{
			name: "no reward step skips the check",
			steps: []models.Step{
				transform("ai", "x"), capture("c1", models.CapturePhoto),
			},
			want: []types.ErrorCode{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(exp(models.ExperienceAIPhoto), tt.steps)
			assert.Equal(t, tt.want, errorCodes(r))
		})
	}
}

func TestValidate_FirstAndLastPositions(t *testing.T) {
	reg := registry.New([]registry.Definition{{
		Type: "kiosk",
		RequiredSteps: []registry.StepRequirement{
			{StepType: models.StepInfo, Position: registry.PositionFirst},
			{StepType: models.StepReward, Position: registry.PositionLast},
		},
	}})
	v := New(reg)

	ok := v.Validate(exp("kiosk"), []models.Step{info("i1"), question("q1"), reward("r1")})
	assert.True(t, ok.Valid)

	bad := v.Validate(exp("kiosk"), []models.Step{question("q1"), reward("r1"), info("i1")})
	require.Len(t, bad.Errors, 2)
	assert.Equal(t, types.CodeInvalidStepPosition, bad.Errors[0].Code)
	assert.Equal(t, "i1", bad.Errors[0].StepID)
	assert.Equal(t, types.CodeInvalidStepPosition, bad.Errors[1].Code)
	assert.Equal(t, "r1", bad.Errors[1].StepID)
}

func TestValidate_DisallowedSteps(t *testing.T) {
	steps := []models.Step{
		info("i1"),
		{ID: "w1", Type: models.StepWheel, Config: models.WheelConfig{}},
		capture("c1", models.CapturePhoto),
		transform("ai", "x"),
		{ID: "h1", Type: "hologram", Config: models.UnknownConfig{Type: "hologram"}},
		reward("r1"),
	}
	r := Validate(exp(models.ExperienceWheel), steps)
	assert.False(t, r.Valid)
	require.Equal(t, []types.ErrorCode{
		types.CodeDisallowedStepType,
		types.CodeDisallowedStepType,
		types.CodeDisallowedStepType,
	}, errorCodes(r))
	assert.Equal(t, "c1", r.Errors[0].StepID)
	assert.Equal(t, "ai", r.Errors[1].StepID)
	assert.Equal(t, "h1", r.Errors[2].StepID)
}

// A wheel experience with only its wheel step is valid but warns about info.
func TestValidate_WheelWithoutInfo(t *testing.T) {
	steps := []models.Step{{ID: "w1", Type: models.StepWheel, Config: models.WheelConfig{}}}
	r := Validate(exp(models.ExperienceWheel), steps)
	assert.True(t, r.Valid)
	assert.Equal(t, []types.WarningCode{types.CodeMissingRecommendedStep}, warningCodes(r))
	assert.Equal(t, "info", r.Warnings[0].Field)
}

func TestValidate_SurveyWarnsForInfoAndReward(t *testing.T) {
	r := Validate(exp(models.ExperienceSurvey), []models.Step{question("q1")})
	assert.True(t, r.Valid)
	assert.Equal(t, []types.WarningCode{types.CodeMissingRecommendedStep, types.CodeMissingRecommendedStep}, warningCodes(r))
}

// Two variables keyed "pet" in one step make the experience invalid.
func TestValidate_DuplicateVariableKey(t *testing.T) {
	steps := []models.Step{
		capture("c1", models.CapturePhoto),
		question("q1"),
		transform("ai", "{{pet}}",
			petVar("q1"),
			models.AiTransformVariable{Key: "pet", SourceType: models.SourceStatic, StaticValue: "cat"},
		),
		reward("r1"),
	}
	r := Validate(exp(models.ExperienceAIPhoto), steps)
	assert.False(t, r.Valid)
	assert.Equal(t, []types.ErrorCode{types.CodeDuplicateVariableKey}, errorCodes(r))
}

// A source step placed after the consumer is an ordering violation.
func TestValidate_SourceAfterConsumer(t *testing.T) {
	steps := []models.Step{
		capture("c1", models.CapturePhoto),
		transform("ai", "{{pet}}", petVar("q1")),
		question("q1"),
		reward("r1"),
	}
	r := Validate(exp(models.ExperienceAIPhoto), steps)
	assert.False(t, r.Valid)
	assert.True(t, r.HasError(types.CodeVariableOrderViolation))
}

func TestValidate_PlaceholderAdvisories(t *testing.T) {
	steps := []models.Step{
		capture("c1", models.CapturePhoto),
		question("q1"),
		transform("ai", "Holding {{pet}} near {{Lake}}",
			petVar("q1"),
			models.AiTransformVariable{Key: "bg", SourceType: models.SourceStatic, StaticValue: "forest"},
			models.AiTransformVariable{Key: "mood", SourceType: models.SourceStatic, StaticValue: "calm", PromptPlaceholder: "mood"},
		),
		reward("r1"),
	}
	r := Validate(exp(models.ExperienceAIPhoto), steps)
	assert.True(t, r.Valid, "advisories never affect validity")
	assert.Equal(t, []types.WarningCode{
		types.CodeMissingRecommendedStep,
		types.CodeUnusedVariable,
		types.CodeUnusedVariable,
		types.CodeUnboundPlaceholder,
	}, warningCodes(r))
	assert.Equal(t, "variables[1].promptPlaceholder", r.Warnings[1].Field)
	assert.Equal(t, "variables[2].promptPlaceholder", r.Warnings[2].Field)
	assert.Contains(t, r.Warnings[3].Message, "{{lake}}")
}

func TestValidate_CustomPlaceholderBindsIdentifier(t *testing.T) {
	steps := []models.Step{
		info("i1"),
		capture("c1", models.CapturePhoto),
		question("q1"),
		transform("ai", "A {{Animal}} in space",
			models.AiTransformVariable{Key: "pet", SourceType: models.SourceInput, SourceStepID: "q1", PromptPlaceholder: "{{animal}}"},
		),
		reward("r1"),
	}
	r := Validate(exp(models.ExperienceAIPhoto), steps)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warnings)
}

// Identical input gives byte-identical output, ordering included.
func TestValidate_Deterministic(t *testing.T) {
	steps := []models.Step{
		transform("ai", "{{a}} {{b}} {{c}}",
			models.AiTransformVariable{Key: "z", SourceType: models.SourceStatic},
			models.AiTransformVariable{Key: "y", SourceType: models.SourceEvent, EventField: "venue"},
			models.AiTransformVariable{Key: "x", SourceType: models.SourceInput, SourceStepID: "q9"},
		),
		question("q1"),
		{ID: "w", Type: models.StepWheel},
	}

	first, err := json.Marshal(Validate(exp(models.ExperienceAIVideo), steps))
	require.NoError(t, err)
	for range 20 {
		again, err := json.Marshal(Validate(exp(models.ExperienceAIVideo), steps))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestValidate_NeverPanicsOnSparseInput(t *testing.T) {
	assert.NotPanics(t, func() {
		Validate(models.Experience{}, nil)
		Validate(exp(models.ExperienceAIGIF), []models.Step{{}, {Type: models.StepAITransform}})
	})
	r := Validate(exp(models.ExperienceSurvey), nil)
	assert.True(t, r.Valid)
	assert.NotNil(t, r.Errors)
}
