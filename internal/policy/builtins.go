package policy

import (
	"sync"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/types"

	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/internal/template"
	"github.com/josephgoksu/Guestflow/models"
)

const (
	builtinPlaceholders = "guestflow.placeholders"
	builtinStepAllowed  = "guestflow.step_allowed"
)

var registerOnce sync.Once

// RegisterBuiltins registers the Guestflow built-ins with OPA. Registration
// is global to the process and happens once.
func RegisterBuiltins() {
	registerOnce.Do(registerBuiltins)
}

func registerBuiltins() {
	// guestflow.placeholders(prompt) -> array<string>
	// Placeholder identifiers of a prompt, lower-cased, in order of first use.
	placeholders := &rego.Function{
		Name:    builtinPlaceholders,
		Decl:    types.NewFunction(types.Args(types.S), types.NewArray(nil, types.S)),
		Memoize: true,
	}
	rego.RegisterBuiltin1(placeholders, func(_ rego.BuiltinContext, a *ast.Term) (*ast.Term, error) {
		prompt, ok := a.Value.(ast.String)
		if !ok {
			return ast.ArrayTerm(), nil
		}
		idents := template.PlaceholdersOf(string(prompt))
		terms := make([]*ast.Term, len(idents))
		for i, id := range idents {
			terms[i] = ast.StringTerm(id)
		}
		return ast.ArrayTerm(terms...), nil
	})

	// guestflow.step_allowed(experience_type, step_type) -> boolean
	// False for unknown experience types.
	stepAllowed := &rego.Function{
		Name:    builtinStepAllowed,
		Decl:    types.NewFunction(types.Args(types.S, types.S), types.B),
		Memoize: true,
	}
	rego.RegisterBuiltin2(stepAllowed, func(_ rego.BuiltinContext, a, b *ast.Term) (*ast.Term, error) {
		expType, ok1 := a.Value.(ast.String)
		stepType, ok2 := b.Value.(ast.String)
		if !ok1 || !ok2 {
			return ast.BooleanTerm(false), nil
		}
		def, ok := registry.DefinitionFor(models.ExperienceType(expType))
		return ast.BooleanTerm(ok && def.Allows(models.StepType(stepType))), nil
	})
}

// BuiltinNames lists the custom built-ins available to policies.
func BuiltinNames() []string {
	return []string{builtinPlaceholders, builtinStepAllowed}
}
