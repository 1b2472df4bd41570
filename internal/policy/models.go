// Package policy evaluates experience documents against Rego policies
// using OPA. Policies are local .rego files; nothing leaves the machine.
package policy

import (
	"time"

	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/models"
)

// Decision is the outcome of evaluating the loaded policies against one
// experience. Deny messages block a save; warn messages never do.
type Decision struct {
	DecisionID  string    `json:"decisionId"`
	PolicyPath  string    `json:"policyPath"`
	Result      string    `json:"result"`
	Violations  []string  `json:"violations,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	Input       any       `json:"input,omitempty"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// Result values.
const (
	ResultAllow = "allow"
	ResultDeny  = "deny"
)

// IsAllowed reports whether no deny rule fired.
func (d *Decision) IsAllowed() bool {
	return d.Result == ResultAllow
}

// Input is what policies see as `input`.
type Input struct {
	Experience models.Experience    `json:"experience"`
	Steps      []models.Step        `json:"steps"`
	Definition *registry.Definition `json:"definition,omitempty"`
}

// NewInput builds policy input for an experience and its ordered steps.
// The registry definition is attached when the type is known.
func NewInput(exp models.Experience, steps []models.Step) *Input {
	in := &Input{Experience: exp, Steps: steps}
	if in.Steps == nil {
		in.Steps = []models.Step{}
	}
	if def, ok := registry.DefinitionFor(exp.Type); ok {
		in.Definition = &def
	}
	return in
}
