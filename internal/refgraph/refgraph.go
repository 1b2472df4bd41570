// Package refgraph checks the variable bindings of ai-transform steps
// against the ordered steps of their experience.
package refgraph

import (
	"fmt"

	"github.com/josephgoksu/Guestflow/models"
	"github.com/josephgoksu/Guestflow/types"
)

// Check validates every variable of every ai-transform step in steps, which
// must already be in run order. All findings are accumulated in step order,
// then variable order.
func Check(steps []models.Step) []types.ValidationError {
	position := make(map[string]int, len(steps))
	for i, s := range steps {
		if _, dup := position[s.ID]; !dup {
			position[s.ID] = i
		}
	}

	errs := []types.ValidationError{}
	for i, s := range steps {
		cfg, ok := s.AITransform()
		if !ok {
			continue
		}
		errs = append(errs, checkStep(s.ID, i, cfg.Variables, position)...)
	}
	return errs
}

func checkStep(stepID string, consumerPos int, vars []models.AiTransformVariable, position map[string]int) []types.ValidationError {
	var errs []types.ValidationError
	seenKeys := make(map[string]bool, len(vars))

	for i, v := range vars {
		field := fmt.Sprintf("variables[%d]", i)

		if seenKeys[v.Key] {
			errs = append(errs, types.ValidationError{
				Code:    types.CodeDuplicateVariableKey,
				Message: fmt.Sprintf("variable key %q is declared more than once", v.Key),
				StepID:  stepID,
				Field:   field + ".key",
			})
		}
		seenKeys[v.Key] = true

		switch {
		case v.SourceType.NeedsSourceStep():
			// Ids match exactly, as the resolver looks them up.
			ref := v.SourceStepID
			srcPos, found := position[ref]
			switch {
			case ref == "" || !found:
				errs = append(errs, types.ValidationError{
					Code:    types.CodeInvalidVariableRef,
					Message: fmt.Sprintf("variable %q references unknown step %q", v.Key, v.SourceStepID),
					StepID:  stepID,
					Field:   field + ".sourceStepId",
				})
			case srcPos >= consumerPos:
				errs = append(errs, types.ValidationError{
					Code: types.CodeVariableOrderViolation,
					Message: fmt.Sprintf("variable %q reads step %q at position %d, which does not run before position %d",
						v.Key, ref, srcPos, consumerPos),
					StepID: stepID,
					Field:  field + ".sourceStepId",
				})
			}

		case v.SourceType == models.SourceStatic:
			if v.StaticValue == "" {
				errs = append(errs, types.ValidationError{
					Code:    types.CodeStaticValueMissing,
					Message: fmt.Sprintf("static variable %q has no value", v.Key),
					StepID:  stepID,
					Field:   field + ".staticValue",
				})
			}

		case v.SourceType == models.SourceEvent:
			if !v.EventField.IsValid() {
				errs = append(errs, types.ValidationError{
					Code:    types.CodeInvalidEventField,
					Message: fmt.Sprintf("variable %q reads unknown event field %q", v.Key, v.EventField),
					StepID:  stepID,
					Field:   field + ".eventField",
				})
			}

		default:
			errs = append(errs, types.ValidationError{
				Code:    types.CodeInvalidSourceType,
				Message: fmt.Sprintf("variable %q has unsupported source type %q", v.Key, v.SourceType),
				StepID:  stepID,
				Field:   field + ".sourceType",
			})
		}
	}
	return errs
}
