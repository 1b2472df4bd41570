// Package prompt turns an ai-transform step into the final prompt string:
// variables are resolved from session values and event metadata, then
// substituted into the parsed prompt template.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/Guestflow/models"
	"github.com/josephgoksu/Guestflow/types"
)

// ResolutionError reports a required variable that had no value. No prompt
// may be composed for the step when it is returned.
type ResolutionError struct {
	Code   string `json:"code"`
	Key    string `json:"key"`
	StepID string `json:"stepId,omitempty"`
}

func (e *ResolutionError) Error() string {
	if e.StepID != "" {
		return fmt.Sprintf("%s: required variable %q has no value from step %q", e.Code, e.Key, e.StepID)
	}
	return fmt.Sprintf("%s: required variable %q has no value", e.Code, e.Key)
}

// IsMissingRequiredValue reports whether err is a ResolutionError.
func IsMissingRequiredValue(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re) && re.Code == types.CodeMissingRequiredValue
}

// Resolver resolves variables. Steps given at construction let it spot
// multi-select questions even when the session value does not say so.
type Resolver struct {
	steps map[string]models.Step
}

// NewResolver indexes steps by id.
func NewResolver(steps ...models.Step) *Resolver {
	idx := make(map[string]models.Step, len(steps))
	for _, s := range steps {
		if _, dup := idx[s.ID]; !dup {
			idx[s.ID] = s
		}
	}
	return &Resolver{steps: idx}
}

// Resolve resolves variables without step context.
func Resolve(variables []models.AiTransformVariable, session SessionValues, event models.EventMeta) (map[string]string, error) {
	return NewResolver().Resolve(variables, session, event)
}

// Resolve maps every variable key to its text. It is all-or-nothing: the
// first required variable without a value aborts with a *ResolutionError
// and a nil map.
func (r *Resolver) Resolve(variables []models.AiTransformVariable, session SessionValues, event models.EventMeta) (map[string]string, error) {
	out := make(map[string]string, len(variables))
	for _, v := range variables {
		value, err := r.resolveOne(v, session, event)
		if err != nil {
			return nil, err
		}
		out[v.Key] = value
	}
	return out, nil
}

func (r *Resolver) resolveOne(v models.AiTransformVariable, session SessionValues, event models.EventMeta) (string, error) {
	switch v.SourceType {
	case models.SourceInput:
		var value string
		if sv, ok := session[v.SourceStepID]; ok {
			value = sv.text(r.steps[v.SourceStepID].IsMultiSelect())
		}
		if strings.TrimSpace(value) == "" {
			if v.Required {
				return "", &ResolutionError{
					Code:   types.CodeMissingRequiredValue,
					Key:    v.Key,
					StepID: v.SourceStepID,
				}
			}
			return "", nil
		}
		return value, nil

	case models.SourceCapture:
		return session[v.SourceStepID].Label, nil

	case models.SourceStatic:
		return v.StaticValue, nil

	case models.SourceEvent:
		value, _ := event.Lookup(v.EventField)
		return value, nil
	}
	return "", nil
}
