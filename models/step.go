package models

// StepType is the variant tag of a Step.
type StepType string

const (
	StepInfo           StepType = "info"
	StepCapture        StepType = "capture"
	StepMultipleChoice StepType = "multiple-choice"
	StepYesNo          StepType = "yes-no"
	StepOpinionScale   StepType = "opinion-scale"
	StepShortText      StepType = "short-text"
	StepLongText       StepType = "long-text"
	StepEmail          StepType = "email"
	StepAITransform    StepType = "ai-transform"
	StepReward         StepType = "reward"
	StepWheel          StepType = "wheel"
)

// QuestionStepTypes lists the step types that collect a guest answer.
func QuestionStepTypes() []StepType {
	return []StepType{
		StepMultipleChoice,
		StepYesNo,
		StepOpinionScale,
		StepShortText,
		StepLongText,
		StepEmail,
	}
}

// Step is an ordered unit of guest interaction within an Experience.
// Config holds the payload matching Type.
type Step struct {
	ID           string     `json:"id" yaml:"id" validate:"required"`
	ExperienceID string     `json:"experienceId,omitempty" yaml:"experienceId,omitempty"`
	Type         StepType   `json:"type" yaml:"type" validate:"required"`
	Name         string     `json:"name,omitempty" yaml:"name,omitempty"`
	Config       StepConfig `json:"config,omitempty" yaml:"config,omitempty" validate:"-"`
}

// AITransform returns the step's ai-transform config, if it is one.
func (s Step) AITransform() (AiTransformConfig, bool) {
	switch c := s.Config.(type) {
	case AiTransformConfig:
		return c, true
	case *AiTransformConfig:
		if c != nil {
			return *c, true
		}
	}
	return AiTransformConfig{}, false
}

// IsMultiSelect reports whether the step is a multiple-choice question that
// accepts more than one answer.
func (s Step) IsMultiSelect() bool {
	switch c := s.Config.(type) {
	case MultipleChoiceConfig:
		return c.AllowMultiple
	case *MultipleChoiceConfig:
		return c != nil && c.AllowMultiple
	}
	return false
}

// StepConfig is the sealed set of type-specific step payloads.
type StepConfig interface {
	StepType() StepType
	isStepConfig()
}

// CaptureMode selects what a capture step records.
type CaptureMode string

const (
	CapturePhoto CaptureMode = "photo"
	CaptureGIF   CaptureMode = "gif"
	CaptureVideo CaptureMode = "video"
)

type InfoConfig struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	MediaURL    string `json:"mediaUrl,omitempty" yaml:"mediaUrl,omitempty"`
	ButtonLabel string `json:"buttonLabel,omitempty" yaml:"buttonLabel,omitempty"`
}

type CaptureConfig struct {
	Mode      CaptureMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Countdown int         `json:"countdown,omitempty" yaml:"countdown,omitempty"`
	// FrameCount applies to gif captures only.
	FrameCount  int    `json:"frameCount,omitempty" yaml:"frameCount,omitempty"`
	MaxDuration int    `json:"maxDuration,omitempty" yaml:"maxDuration,omitempty"`
	OverlayURL  string `json:"overlayUrl,omitempty" yaml:"overlayUrl,omitempty"`
}

type ChoiceOption struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

type MultipleChoiceConfig struct {
	Title         string         `json:"title,omitempty" yaml:"title,omitempty"`
	Options       []ChoiceOption `json:"options,omitempty" yaml:"options,omitempty"`
	AllowMultiple bool           `json:"allowMultiple,omitempty" yaml:"allowMultiple,omitempty"`
	Required      bool           `json:"required,omitempty" yaml:"required,omitempty"`
}

type YesNoConfig struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	YesLabel string `json:"yesLabel,omitempty" yaml:"yesLabel,omitempty"`
	NoLabel  string `json:"noLabel,omitempty" yaml:"noLabel,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

type OpinionScaleConfig struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Min      int    `json:"min" yaml:"min"`
	Max      int    `json:"max" yaml:"max"`
	MinLabel string `json:"minLabel,omitempty" yaml:"minLabel,omitempty"`
	MaxLabel string `json:"maxLabel,omitempty" yaml:"maxLabel,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// TextFields is shared by the free-text question configs.
type TextFields struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

type ShortTextConfig struct {
	TextFields `yaml:",inline"`
}

type LongTextConfig struct {
	TextFields `yaml:",inline"`
}

type EmailConfig struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// AiTransformConfig drives one AI generation. Prompt is free-form text with
// {{identifier}} placeholders bound by Variables.
type AiTransformConfig struct {
	Model              string                `json:"model,omitempty" yaml:"model,omitempty"`
	Prompt             string                `json:"prompt" yaml:"prompt"`
	Variables          []AiTransformVariable `json:"variables,omitempty" yaml:"variables,omitempty"`
	ReferenceImageURLs []string              `json:"referenceImageUrls,omitempty" yaml:"referenceImageUrls,omitempty"`
	AspectRatio        string                `json:"aspectRatio,omitempty" yaml:"aspectRatio,omitempty"`
}

type RewardConfig struct {
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	AllowDownload bool   `json:"allowDownload,omitempty" yaml:"allowDownload,omitempty"`
	AllowShare    bool   `json:"allowShare,omitempty" yaml:"allowShare,omitempty"`
	ShareText     string `json:"shareText,omitempty" yaml:"shareText,omitempty"`
}

type WheelSegment struct {
	Label  string `json:"label" yaml:"label"`
	Weight int    `json:"weight,omitempty" yaml:"weight,omitempty"`
}

type WheelConfig struct {
	Title    string         `json:"title,omitempty" yaml:"title,omitempty"`
	Segments []WheelSegment `json:"segments,omitempty" yaml:"segments,omitempty"`
}

// UnknownConfig keeps the raw payload of a step whose type this build does
// not recognise, so the document survives a load/save round trip and the
// validator can still report it.
type UnknownConfig struct {
	Type   StepType       `json:"-" yaml:"-"`
	Fields map[string]any `json:"-" yaml:"-"`
}

func (InfoConfig) StepType() StepType           { return StepInfo }
func (CaptureConfig) StepType() StepType        { return StepCapture }
func (MultipleChoiceConfig) StepType() StepType { return StepMultipleChoice }
func (YesNoConfig) StepType() StepType          { return StepYesNo }
func (OpinionScaleConfig) StepType() StepType   { return StepOpinionScale }
func (ShortTextConfig) StepType() StepType      { return StepShortText }
func (LongTextConfig) StepType() StepType       { return StepLongText }
func (EmailConfig) StepType() StepType          { return StepEmail }
func (AiTransformConfig) StepType() StepType    { return StepAITransform }
func (RewardConfig) StepType() StepType         { return StepReward }
func (WheelConfig) StepType() StepType          { return StepWheel }
func (c UnknownConfig) StepType() StepType      { return c.Type }

func (InfoConfig) isStepConfig()           {}
func (CaptureConfig) isStepConfig()        {}
func (MultipleChoiceConfig) isStepConfig() {}
func (YesNoConfig) isStepConfig()          {}
func (OpinionScaleConfig) isStepConfig()   {}
func (ShortTextConfig) isStepConfig()      {}
func (LongTextConfig) isStepConfig()       {}
func (EmailConfig) isStepConfig()          {}
func (AiTransformConfig) isStepConfig()    {}
func (RewardConfig) isStepConfig()         {}
func (WheelConfig) isStepConfig()          {}
func (UnknownConfig) isStepConfig()        {}
