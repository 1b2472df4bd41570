package refgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josephgoksu/Guestflow/models"
	"github.com/josephgoksu/Guestflow/types"
)

func aiStep(id string, vars ...models.AiTransformVariable) models.Step {
	return models.Step{
		ID:     id,
		Type:   models.StepAITransform,
		Config: models.AiTransformConfig{Prompt: "x", Variables: vars},
	}
}

func codes(errs []types.ValidationError) []types.ErrorCode {
	out := make([]types.ErrorCode, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestCheck(t *testing.T) {
	capture := models.Step{ID: "cap", Type: models.StepCapture, Config: models.CaptureConfig{Mode: models.CapturePhoto}}
	question := models.Step{ID: "q1", Type: models.StepShortText}
	later := models.Step{ID: "late", Type: models.StepShortText}

	tests := []struct {
		name  string
		steps []models.Step
		want  []types.ErrorCode
	}{
		{
			name: "valid bindings",
			steps: []models.Step{
				capture, question,
				aiStep("ai",
					models.AiTransformVariable{Key: "face", SourceType: models.SourceCapture, SourceStepID: "cap"},
					models.AiTransformVariable{Key: "name", SourceType: models.SourceInput, SourceStepID: "q1", Required: true},
					models.AiTransformVariable{Key: "bg", SourceType: models.SourceStatic, StaticValue: "forest"},
					models.AiTransformVariable{Key: "brand", SourceType: models.SourceEvent, EventField: models.EventFieldCompanyName},
				),
			},
			want: []types.ErrorCode{},
		},
		{
			name: "unknown and empty source step",
			steps: []models.Step{
				aiStep("ai",
					models.AiTransformVariable{Key: "a", SourceType: models.SourceInput, SourceStepID: "nope"},
					models.AiTransformVariable{Key: "b", SourceType: models.SourceCapture},
				),
			},
			want: []types.ErrorCode{types.CodeInvalidVariableRef, types.CodeInvalidVariableRef},
		},
		{
			name: "source step id must match exactly",
			steps: []models.Step{
				question,
				aiStep("ai",
					models.AiTransformVariable{Key: "a", SourceType: models.SourceInput, SourceStepID: " q1", Required: true},
					models.AiTransformVariable{Key: "b", SourceType: models.SourceInput, SourceStepID: "q1 "},
				),
			},
			want: []types.ErrorCode{types.CodeInvalidVariableRef, types.CodeInvalidVariableRef},
		},
		{
			name: "source runs after consumer",
			steps: []models.Step{
				aiStep("ai", models.AiTransformVariable{Key: "name", SourceType: models.SourceInput, SourceStepID: "late"}),
				later,
			},
			want: []types.ErrorCode{types.CodeVariableOrderViolation},
		},
		{
			name: "self reference",
			steps: []models.Step{
				aiStep("ai", models.AiTransformVariable{Key: "me", SourceType: models.SourceCapture, SourceStepID: "ai"}),
			},
			want: []types.ErrorCode{types.CodeVariableOrderViolation},
		},
		{
			name: "static and event problems",
			steps: []models.Step{
				aiStep("ai",
					models.AiTransformVariable{Key: "bg", SourceType: models.SourceStatic},
					models.AiTransformVariable{Key: "venue", SourceType: models.SourceEvent, EventField: "venue"},
					models.AiTransformVariable{Key: "none", SourceType: models.SourceEvent},
				),
			},
			want: []types.ErrorCode{types.CodeStaticValueMissing, types.CodeInvalidEventField, types.CodeInvalidEventField},
		},
		{
			name: "unsupported source type",
			steps: []models.Step{
				aiStep("ai", models.AiTransformVariable{Key: "x", SourceType: "webhook"}),
			},
			want: []types.ErrorCode{types.CodeInvalidSourceType},
		},
		{
			name: "duplicate keys reported per repeat",
			steps: []models.Step{
				aiStep("ai",
					models.AiTransformVariable{Key: "pet", SourceType: models.SourceStatic, StaticValue: "cat"},
					models.AiTransformVariable{Key: "pet", SourceType: models.SourceStatic, StaticValue: "dog"},
					models.AiTransformVariable{Key: "pet", SourceType: models.SourceStatic, StaticValue: "cow"},
				),
			},
			want: []types.ErrorCode{types.CodeDuplicateVariableKey, types.CodeDuplicateVariableKey},
		},
		{
			name: "one bad variable never hides another",
			steps: []models.Step{
				question,
				aiStep("ai1",
					models.AiTransformVariable{Key: "a", SourceType: models.SourceStatic},
					models.AiTransformVariable{Key: "b", SourceType: models.SourceInput, SourceStepID: "ghost"},
				),
				aiStep("ai2",
					models.AiTransformVariable{Key: "c", SourceType: models.SourceInput, SourceStepID: "ai2"},
				),
			},
			want: []types.ErrorCode{
				types.CodeStaticValueMissing,
				types.CodeInvalidVariableRef,
				types.CodeVariableOrderViolation,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(Check(tt.steps)))
		})
	}
}

func TestCheck_ErrorsCarryStepAndField(t *testing.T) {
	errs := Check([]models.Step{
		aiStep("ai",
			models.AiTransformVariable{Key: "ok", SourceType: models.SourceStatic, StaticValue: "v"},
			models.AiTransformVariable{Key: "bad", SourceType: models.SourceStatic},
		),
	})
	assert.Len(t, errs, 1)
	assert.Equal(t, "ai", errs[0].StepID)
	assert.Equal(t, "variables[1].staticValue", errs[0].Field)
	assert.Contains(t, errs[0].Message, `"bad"`)
}

func TestCheck_IgnoresNonTransformSteps(t *testing.T) {
	errs := Check([]models.Step{
		{ID: "i", Type: models.StepInfo, Config: models.InfoConfig{}},
		{ID: "u", Type: "hologram", Config: models.UnknownConfig{Type: "hologram"}},
		{ID: "nil", Type: models.StepAITransform},
	})
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
}
