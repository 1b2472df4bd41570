package registry

import "github.com/josephgoksu/Guestflow/models"

func mediaAllowed(extra ...models.StepType) []models.StepType {
	allowed := []models.StepType{models.StepInfo, models.StepCapture}
	allowed = append(allowed, models.QuestionStepTypes()...)
	allowed = append(allowed, extra...)
	return append(allowed, models.StepReward)
}

func captureOf(mode models.CaptureMode) StepRequirement {
	return StepRequirement{
		StepType: models.StepCapture,
		Config:   map[string]any{"mode": string(mode)},
	}
}

var aiTransformBeforeReward = StepRequirement{
	StepType: models.StepAITransform,
	Position: PositionBeforeReward,
}

var infoAndReward = []StepRequirement{
	{StepType: models.StepInfo},
	{StepType: models.StepReward},
}

func builtinDefinitions() []Definition {
	surveyAllowed := []models.StepType{models.StepInfo}
	surveyAllowed = append(surveyAllowed, models.QuestionStepTypes()...)
	surveyAllowed = append(surveyAllowed, models.StepReward)

	return []Definition{
		{
			Type:             models.ExperiencePhoto,
			RequiredSteps:    []StepRequirement{captureOf(models.CapturePhoto)},
			RecommendedSteps: infoAndReward,
			AllowedSteps:     mediaAllowed(),
			OutputType:       OutputImage,
		},
		{
			Type:             models.ExperienceGIF,
			RequiredSteps:    []StepRequirement{captureOf(models.CaptureGIF)},
			RecommendedSteps: infoAndReward,
			AllowedSteps:     mediaAllowed(),
			OutputType:       OutputGIF,
		},
		{
			Type:             models.ExperienceVideo,
			RequiredSteps:    []StepRequirement{captureOf(models.CaptureVideo)},
			RecommendedSteps: infoAndReward,
			AllowedSteps:     mediaAllowed(),
			OutputType:       OutputVideo,
		},
		{
			Type:             models.ExperienceAIPhoto,
			RequiredSteps:    []StepRequirement{captureOf(models.CapturePhoto), aiTransformBeforeReward},
			RecommendedSteps: infoAndReward,
			AllowedSteps:     mediaAllowed(models.StepAITransform),
			OutputType:       OutputImage,
		},
		{
			Type:             models.ExperienceAIGIF,
			RequiredSteps:    []StepRequirement{captureOf(models.CaptureGIF), aiTransformBeforeReward},
			RecommendedSteps: infoAndReward,
			AllowedSteps:     mediaAllowed(models.StepAITransform),
			OutputType:       OutputGIF,
		},
		{
			Type:             models.ExperienceAIVideo,
			RequiredSteps:    []StepRequirement{captureOf(models.CaptureVideo), aiTransformBeforeReward},
			RecommendedSteps: infoAndReward,
			AllowedSteps:     mediaAllowed(models.StepAITransform),
			OutputType:       OutputVideo,
		},
		{
			Type:             models.ExperienceSurvey,
			RecommendedSteps: infoAndReward,
			AllowedSteps:     surveyAllowed,
			OutputType:       OutputData,
		},
		{
			Type:             models.ExperienceWheel,
			RequiredSteps:    []StepRequirement{{StepType: models.StepWheel}},
			RecommendedSteps: []StepRequirement{{StepType: models.StepInfo}},
			AllowedSteps:     []models.StepType{models.StepInfo, models.StepWheel, models.StepReward},
			OutputType:       OutputData,
		},
	}
}
