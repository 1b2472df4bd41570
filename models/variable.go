package models

import "strings"

// SourceType says where an AI-transform variable takes its value from.
type SourceType string

const (
	SourceCapture SourceType = "capture"
	SourceInput   SourceType = "input"
	SourceStatic  SourceType = "static"
	SourceEvent   SourceType = "event"
)

// NeedsSourceStep reports whether the source type binds to an earlier step.
func (t SourceType) NeedsSourceStep() bool {
	return t == SourceCapture || t == SourceInput
}

// AiTransformVariable binds one prompt placeholder to a value source. It
// belongs to exactly one ai-transform step.
type AiTransformVariable struct {
	Key               string     `json:"key" yaml:"key"`
	SourceType        SourceType `json:"sourceType" yaml:"sourceType"`
	SourceStepID      string     `json:"sourceStepId,omitempty" yaml:"sourceStepId,omitempty"`
	StaticValue       string     `json:"staticValue,omitempty" yaml:"staticValue,omitempty"`
	EventField        EventField `json:"eventField,omitempty" yaml:"eventField,omitempty"`
	PromptPlaceholder string     `json:"promptPlaceholder,omitempty" yaml:"promptPlaceholder,omitempty"`
	Required          bool       `json:"required" yaml:"required"`
}

// Placeholder returns the declared placeholder, defaulting to {{key}}.
func (v AiTransformVariable) Placeholder() string {
	if p := strings.TrimSpace(v.PromptPlaceholder); p != "" {
		return p
	}
	return "{{" + v.Key + "}}"
}
