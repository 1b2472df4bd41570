// Package registry is the static catalog of experience types: which steps
// each type requires, recommends and allows, and what it outputs.
package registry

import (
	"slices"

	"github.com/josephgoksu/Guestflow/models"
)

// Position pins a required step to a place in the step order.
type Position string

const (
	PositionFirst        Position = "first"
	PositionLast         Position = "last"
	PositionBeforeReward Position = "before-reward"
)

// OutputType is what a finished experience hands back to the guest.
type OutputType string

const (
	OutputImage OutputType = "image"
	OutputGIF   OutputType = "gif"
	OutputVideo OutputType = "video"
	OutputData  OutputType = "data"
)

// StepRequirement names a step type, optionally constrained to a position
// and to config key/value pairs the step must carry.
type StepRequirement struct {
	StepType models.StepType `json:"stepType" yaml:"stepType"`
	Position Position        `json:"position,omitempty" yaml:"position,omitempty"`
	Config   map[string]any  `json:"config,omitempty" yaml:"config,omitempty"`
}

// Definition is the structural rule set of one experience type.
type Definition struct {
	Type             models.ExperienceType `json:"type" yaml:"type"`
	RequiredSteps    []StepRequirement     `json:"requiredSteps" yaml:"requiredSteps"`
	RecommendedSteps []StepRequirement     `json:"recommendedSteps" yaml:"recommendedSteps"`
	AllowedSteps     []models.StepType     `json:"allowedSteps" yaml:"allowedSteps"`
	OutputType       OutputType            `json:"outputType" yaml:"outputType"`
}

// Allows reports whether a step type may appear. An empty allow-list allows
// every type.
func (d Definition) Allows(t models.StepType) bool {
	return len(d.AllowedSteps) == 0 || slices.Contains(d.AllowedSteps, t)
}

// clone deep-copies d so callers can never reach the table's backing arrays.
func (d Definition) clone() Definition {
	out := d
	out.RequiredSteps = cloneRequirements(d.RequiredSteps)
	out.RecommendedSteps = cloneRequirements(d.RecommendedSteps)
	out.AllowedSteps = slices.Clone(d.AllowedSteps)
	return out
}

func cloneRequirements(in []StepRequirement) []StepRequirement {
	out := make([]StepRequirement, len(in))
	for i, r := range in {
		out[i] = r
		if r.Config != nil {
			out[i].Config = make(map[string]any, len(r.Config))
			for k, v := range r.Config {
				out[i].Config[k] = v
			}
		}
	}
	return out
}

// Registry is an immutable lookup table keyed by experience type.
type Registry struct {
	defs  map[models.ExperienceType]Definition
	order []models.ExperienceType
}

// New builds a registry from the given definitions. Later definitions for
// the same type replace earlier ones.
func New(defs []Definition) *Registry {
	r := &Registry{defs: make(map[models.ExperienceType]Definition, len(defs))}
	for _, d := range defs {
		if _, seen := r.defs[d.Type]; !seen {
			r.order = append(r.order, d.Type)
		}
		r.defs[d.Type] = d.clone()
	}
	return r
}

// DefinitionFor returns the definition for t, or false when t is unknown.
func (r *Registry) DefinitionFor(t models.ExperienceType) (Definition, bool) {
	d, ok := r.defs[t]
	if !ok {
		return Definition{}, false
	}
	return d.clone(), true
}

// Definitions returns every definition in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.defs[t].clone())
	}
	return out
}

// Types returns the registered type tags in registration order.
func (r *Registry) Types() []models.ExperienceType {
	return slices.Clone(r.order)
}

var defaultRegistry = New(builtinDefinitions())

// Default returns the registry of built-in experience types.
func Default() *Registry {
	return defaultRegistry
}

// DefinitionFor looks t up in the default registry.
func DefinitionFor(t models.ExperienceType) (Definition, bool) {
	return defaultRegistry.DefinitionFor(t)
}
