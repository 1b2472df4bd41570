// Package validation checks an experience and its ordered steps against the
// type registry, the variable reference graph and the prompt placeholders.
package validation

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/josephgoksu/Guestflow/internal/refgraph"
	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/internal/template"
	"github.com/josephgoksu/Guestflow/models"
	"github.com/josephgoksu/Guestflow/types"
)

// Validator runs the structural checks against one registry.
type Validator struct {
	registry *registry.Registry
}

// New returns a Validator bound to reg. A nil reg uses the built-in types.
func New(reg *registry.Registry) *Validator {
	if reg == nil {
		reg = registry.Default()
	}
	return &Validator{registry: reg}
}

// Validate checks exp and steps with the built-in registry.
func Validate(exp models.Experience, steps []models.Step) types.ValidationResult {
	return New(nil).Validate(exp, steps)
}

// Validate checks exp and steps. steps must be in run order; a step's
// position is its index. The result is deterministic for identical input.
func (v *Validator) Validate(exp models.Experience, steps []models.Step) types.ValidationResult {
	result := types.NewValidationResult()

	def, ok := v.registry.DefinitionFor(exp.Type)
	if !ok {
		result.AddError(types.ValidationError{
			Code:    types.CodeInvalidType,
			Message: fmt.Sprintf("unknown experience type %q", exp.Type),
			Field:   "type",
		})
		return result
	}

	checkRequired(&result, def, steps)
	checkAllowed(&result, def, steps)
	checkRecommended(&result, def, steps)

	for _, e := range refgraph.Check(steps) {
		result.AddError(e)
	}

	checkPlaceholders(&result, steps)
	return result
}

func checkRequired(result *types.ValidationResult, def registry.Definition, steps []models.Step) {
	for _, req := range def.RequiredSteps {
		idx := findStep(steps, req)
		if idx < 0 {
			result.AddError(types.ValidationError{
				Code:    types.CodeMissingRequiredStep,
				Message: fmt.Sprintf("%s experience requires %s", def.Type, describe(req)),
				Field:   "steps",
			})
			continue
		}
		if req.Position == "" {
			continue
		}
		want, applies := expectedIndex(req.Position, steps)
		if applies && idx != want {
			result.AddError(types.ValidationError{
				Code: types.CodeInvalidStepPosition,
				Message: fmt.Sprintf("%s step must be placed %s (found at position %d, expected %d)",
					req.StepType, req.Position, idx, want),
				StepID: steps[idx].ID,
				Field:  "position",
			})
		}
	}
}

// expectedIndex returns the index a step with position p must occupy. It
// reports false when the position cannot be evaluated, which only happens
// for before-reward without any reward step.
func expectedIndex(p registry.Position, steps []models.Step) (int, bool) {
	switch p {
	case registry.PositionFirst:
		return 0, true
	case registry.PositionLast:
		return len(steps) - 1, true
	case registry.PositionBeforeReward:
		reward := slices.IndexFunc(steps, func(s models.Step) bool { return s.Type == models.StepReward })
		if reward < 0 {
			return 0, false
		}
		return reward - 1, true
	}
	return 0, false
}

func checkAllowed(result *types.ValidationResult, def registry.Definition, steps []models.Step) {
	for _, s := range steps {
		if def.Allows(s.Type) {
			continue
		}
		result.AddError(types.ValidationError{
			Code:    types.CodeDisallowedStepType,
			Message: fmt.Sprintf("%s steps are not allowed in a %s experience", s.Type, def.Type),
			StepID:  s.ID,
			Field:   "type",
		})
	}
}

func checkRecommended(result *types.ValidationResult, def registry.Definition, steps []models.Step) {
	for _, rec := range def.RecommendedSteps {
		if findStep(steps, rec) >= 0 {
			continue
		}
		result.AddWarning(types.ValidationWarning{
			Code:    types.CodeMissingRecommendedStep,
			Message: fmt.Sprintf("%s experiences usually include %s", def.Type, describe(rec)),
			Field:   string(rec.StepType),
		})
	}
}

func checkPlaceholders(result *types.ValidationResult, steps []models.Step) {
	for _, s := range steps {
		cfg, ok := s.AITransform()
		if !ok {
			continue
		}

		inPrompt := template.PlaceholdersOf(cfg.Prompt)
		declared := make(map[string]bool, len(cfg.Variables))

		for i, variable := range cfg.Variables {
			ident, ok := template.IdentifierOf(variable.Placeholder())
			if ok {
				declared[ident] = true
			}
			if ok && slices.Contains(inPrompt, ident) {
				continue
			}
			result.AddWarning(types.ValidationWarning{
				Code:    types.CodeUnusedVariable,
				Message: fmt.Sprintf("placeholder %s of variable %q does not appear in the prompt", variable.Placeholder(), variable.Key),
				StepID:  s.ID,
				Field:   fmt.Sprintf("variables[%d].promptPlaceholder", i),
			})
		}

		for _, ident := range inPrompt {
			if declared[ident] {
				continue
			}
			result.AddWarning(types.ValidationWarning{
				Code:    types.CodeUnboundPlaceholder,
				Message: fmt.Sprintf("prompt placeholder {{%s}} has no variable and will be sent as written", ident),
				StepID:  s.ID,
				Field:   "prompt",
			})
		}
	}
}

// findStep returns the index of the first step satisfying req, or -1.
func findStep(steps []models.Step, req registry.StepRequirement) int {
	var want map[string]any
	if len(req.Config) > 0 {
		want = models.NormalizeFields(req.Config)
	}
	for i, s := range steps {
		if s.Type != req.StepType {
			continue
		}
		if want == nil || isSuperset(models.ConfigFields(s.Config), want) {
			return i
		}
	}
	return -1
}

func isSuperset(have, want map[string]any) bool {
	for k, v := range want {
		got, ok := have[k]
		if !ok || !reflect.DeepEqual(got, v) {
			return false
		}
	}
	return true
}

func describe(req registry.StepRequirement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "a step of type %s", req.StepType)
	if len(req.Config) > 0 {
		keys := make([]string, 0, len(req.Config))
		for k := range req.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, req.Config[k]))
		}
		fmt.Fprintf(&b, " with %s", strings.Join(pairs, ", "))
	}
	if req.Position != "" {
		fmt.Fprintf(&b, " placed %s", req.Position)
	}
	return b.String()
}
