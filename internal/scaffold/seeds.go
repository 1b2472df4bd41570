package scaffold

import "github.com/josephgoksu/Guestflow/models"

// StepSeed is one step of a starter flow. Ref names the step inside the
// seed so ai-transform variables can point at it before real ids exist.
type StepSeed struct {
	Ref    string
	Name   string
	Config models.StepConfig
}

// Seeds maps an experience type to its starter steps, in run order.
type Seeds map[models.ExperienceType][]StepSeed

func mediaSeed(mode models.CaptureMode) []StepSeed {
	return []StepSeed{
		{Ref: "welcome", Name: "Welcome", Config: models.InfoConfig{Title: "Welcome!", ButtonLabel: "Start"}},
		{Ref: "capture", Name: "Capture", Config: models.CaptureConfig{Mode: mode, Countdown: 3}},
		{Ref: "reward", Name: "Your result", Config: models.RewardConfig{Title: "Here you go", AllowDownload: true, AllowShare: true}},
	}
}

func aiSeed(mode models.CaptureMode) []StepSeed {
	return []StepSeed{
		{Ref: "welcome", Name: "Welcome", Config: models.InfoConfig{Title: "Welcome!", ButtonLabel: "Start"}},
		{Ref: "capture", Name: "Capture", Config: models.CaptureConfig{Mode: mode, Countdown: 3}},
		{Ref: "style", Name: "Pick a style", Config: models.MultipleChoiceConfig{
			Title:    "Which style do you like?",
			Options:  []models.ChoiceOption{{Label: "Watercolor"}, {Label: "Comic book"}, {Label: "Oil painting"}},
			Required: true,
		}},
		{Ref: "transform", Name: "Transform", Config: models.AiTransformConfig{
			Prompt: "A {{style}} portrait of the guest at {{event_name}}",
			Variables: []models.AiTransformVariable{
				{Key: "style", SourceType: models.SourceInput, SourceStepID: "style", Required: true},
				{Key: "event_name", SourceType: models.SourceEvent, EventField: models.EventFieldName},
			},
		}},
		{Ref: "reward", Name: "Your result", Config: models.RewardConfig{Title: "Here you go", AllowDownload: true, AllowShare: true}},
	}
}

// DefaultSeeds returns the built-in starter flows. Every call returns fresh
// values.
func DefaultSeeds() Seeds {
	return Seeds{
		models.ExperiencePhoto:   mediaSeed(models.CapturePhoto),
		models.ExperienceGIF:     mediaSeed(models.CaptureGIF),
		models.ExperienceVideo:   mediaSeed(models.CaptureVideo),
		models.ExperienceAIPhoto: aiSeed(models.CapturePhoto),
		models.ExperienceAIGIF:   aiSeed(models.CaptureGIF),
		models.ExperienceAIVideo: aiSeed(models.CaptureVideo),
		models.ExperienceSurvey: {
			{Ref: "welcome", Name: "Welcome", Config: models.InfoConfig{Title: "Tell us about your visit"}},
			{Ref: "rating", Name: "Rating", Config: models.OpinionScaleConfig{Title: "How was it?", Min: 1, Max: 5, Required: true}},
			{Ref: "feedback", Name: "Feedback", Config: models.LongTextConfig{TextFields: models.TextFields{Title: "Anything else?", MaxLength: 500}}},
			{Ref: "email", Name: "Email", Config: models.EmailConfig{Title: "Where can we reach you?"}},
			{Ref: "reward", Name: "Thanks", Config: models.RewardConfig{Title: "Thank you!"}},
		},
		models.ExperienceWheel: {
			{Ref: "welcome", Name: "Welcome", Config: models.InfoConfig{Title: "Spin to win"}},
			{Ref: "wheel", Name: "Wheel", Config: models.WheelConfig{Segments: []models.WheelSegment{
				{Label: "Sticker", Weight: 5},
				{Label: "T-shirt", Weight: 2},
				{Label: "Try again", Weight: 3},
			}}},
			{Ref: "reward", Name: "Prize", Config: models.RewardConfig{Title: "Enjoy your prize"}},
		},
	}
}
