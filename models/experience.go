package models

import "time"

// ExperienceType is the immutable variant tag of an Experience.
type ExperienceType string

const (
	ExperiencePhoto   ExperienceType = "photo"
	ExperienceGIF     ExperienceType = "gif"
	ExperienceVideo   ExperienceType = "video"
	ExperienceAIPhoto ExperienceType = "ai_photo"
	ExperienceAIGIF   ExperienceType = "ai_gif"
	ExperienceAIVideo ExperienceType = "ai_video"
	ExperienceSurvey  ExperienceType = "survey"
	ExperienceWheel   ExperienceType = "wheel"
)

// Experience is a guest-facing flow definition.
type Experience struct {
	ID         string         `json:"id" yaml:"id" validate:"required"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty" validate:"max=200"`
	Type       ExperienceType `json:"type" yaml:"type" validate:"required"`
	StepsOrder []string       `json:"stepsOrder,omitempty" yaml:"stepsOrder,omitempty"`
	CreatedAt  time.Time      `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
	UpdatedAt  time.Time      `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

// Document bundles an Experience with its Steps, the unit the CLI and the
// HTTP API exchange.
type Document struct {
	Experience Experience `json:"experience" yaml:"experience" validate:"required"`
	Steps      []Step     `json:"steps" yaml:"steps" validate:"unique=ID,dive"`
}

// OrderedSteps returns the document's steps in stepsOrder order.
func (d Document) OrderedSteps() []Step {
	return OrderSteps(d.Experience.StepsOrder, d.Steps)
}

// OrderSteps arranges steps by the given id order. Steps named in order come
// first; steps not listed keep their relative input order after them. Ids in
// order that match no step are ignored.
func OrderSteps(order []string, steps []Step) []Step {
	if len(order) == 0 {
		out := make([]Step, len(steps))
		copy(out, steps)
		return out
	}

	byID := make(map[string]int, len(steps))
	for i, s := range steps {
		if _, dup := byID[s.ID]; !dup {
			byID[s.ID] = i
		}
	}

	used := make([]bool, len(steps))
	out := make([]Step, 0, len(steps))
	for _, id := range order {
		i, ok := byID[id]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		out = append(out, steps[i])
	}
	for i, s := range steps {
		if !used[i] {
			out = append(out, s)
		}
	}
	return out
}

// StepIDs returns the ids of steps in slice order.
func StepIDs(steps []Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}
