package models

import (
	"encoding/json"
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// configDecoder decodes a config payload with the codec-specific decode func.
type configDecoder func(decode func(any) error) (StepConfig, error)

func decodeAs[T StepConfig]() configDecoder {
	return func(decode func(any) error) (StepConfig, error) {
		var cfg T
		if err := decode(&cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
}

var configDecoders = map[StepType]configDecoder{
	StepInfo:           decodeAs[InfoConfig](),
	StepCapture:        decodeAs[CaptureConfig](),
	StepMultipleChoice: decodeAs[MultipleChoiceConfig](),
	StepYesNo:          decodeAs[YesNoConfig](),
	StepOpinionScale:   decodeAs[OpinionScaleConfig](),
	StepShortText:      decodeAs[ShortTextConfig](),
	StepLongText:       decodeAs[LongTextConfig](),
	StepEmail:          decodeAs[EmailConfig](),
	StepAITransform:    decodeAs[AiTransformConfig](),
	StepReward:         decodeAs[RewardConfig](),
	StepWheel:          decodeAs[WheelConfig](),
}

// decodeStepConfig picks the concrete config for t. A nil decode means the
// payload was absent and the zero config is used.
func decodeStepConfig(t StepType, decode func(any) error) (StepConfig, error) {
	if decode == nil {
		decode = func(any) error { return nil }
	}
	dec, ok := configDecoders[t]
	if !ok {
		fields := map[string]any{}
		if err := decode(&fields); err != nil {
			return nil, err
		}
		return UnknownConfig{Type: t, Fields: fields}, nil
	}
	return dec(decode)
}

type stepWire struct {
	ID           string          `json:"id"`
	ExperienceID string          `json:"experienceId,omitempty"`
	Type         StepType        `json:"type"`
	Name         string          `json:"name,omitempty"`
	Config       json.RawMessage `json:"config,omitempty"`
}

// UnmarshalJSON decodes the config payload into the variant named by type.
func (s *Step) UnmarshalJSON(data []byte) error {
	var w stepWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var decode func(any) error
	if len(w.Config) > 0 && string(w.Config) != "null" {
		decode = func(v any) error { return json.Unmarshal(w.Config, v) }
	}
	cfg, err := decodeStepConfig(w.Type, decode)
	if err != nil {
		return fmt.Errorf("step %s: decode %s config: %w", w.ID, w.Type, err)
	}

	*s = Step{
		ID:           w.ID,
		ExperienceID: w.ExperienceID,
		Type:         w.Type,
		Name:         w.Name,
		Config:       cfg,
	}
	return nil
}

// UnmarshalYAML is the yaml.v3 counterpart of UnmarshalJSON.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var w struct {
		ID           string    `yaml:"id"`
		ExperienceID string    `yaml:"experienceId"`
		Type         StepType  `yaml:"type"`
		Name         string    `yaml:"name"`
		Config       yaml.Node `yaml:"config"`
	}
	if err := node.Decode(&w); err != nil {
		return err
	}

	var decode func(any) error
	if w.Config.Kind != 0 && w.Config.Tag != "!!null" {
		decode = w.Config.Decode
	}
	cfg, err := decodeStepConfig(w.Type, decode)
	if err != nil {
		return fmt.Errorf("step %s: decode %s config: %w", w.ID, w.Type, err)
	}

	*s = Step{
		ID:           w.ID,
		ExperienceID: w.ExperienceID,
		Type:         w.Type,
		Name:         w.Name,
		Config:       cfg,
	}
	return nil
}

// MarshalJSON writes the raw fields of an unrecognised config back out.
func (c UnknownConfig) MarshalJSON() ([]byte, error) {
	if c.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.Fields)
}

// MarshalYAML writes the raw fields of an unrecognised config back out.
func (c UnknownConfig) MarshalYAML() (any, error) {
	if c.Fields == nil {
		return map[string]any{}, nil
	}
	return c.Fields, nil
}

// ConfigFields flattens a step config into generic key/value form, the shape
// used for superset matching against registry requirements.
func ConfigFields(cfg StepConfig) map[string]any {
	fields := map[string]any{}
	if cfg == nil {
		return fields
	}
	if u, ok := cfg.(UnknownConfig); ok {
		for k, v := range u.Fields {
			fields[k] = v
		}
		return NormalizeFields(fields)
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return fields
	}
	_ = json.Unmarshal(b, &fields)
	return fields
}

// NormalizeFields passes values through JSON so that numbers, typed strings
// and nested values compare equal regardless of where they came from.
func NormalizeFields(in map[string]any) map[string]any {
	out := map[string]any{}
	if len(in) == 0 {
		return out
	}
	b, err := json.Marshal(in)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(b, &out)
	return out
}
