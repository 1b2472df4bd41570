// Package app provides the application layer that orchestrates validation,
// policy evaluation and prompt composition. The CLI and the HTTP API are thin
// adapters over ExperienceService.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josephgoksu/Guestflow/internal/logger"
	"github.com/josephgoksu/Guestflow/internal/policy"
	"github.com/josephgoksu/Guestflow/internal/prompt"
	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/internal/validation"
	"github.com/josephgoksu/Guestflow/models"
	"github.com/josephgoksu/Guestflow/types"
)

var (
	// ErrTypeImmutable is returned when an update tries to change the
	// experience type of an existing experience.
	ErrTypeImmutable = errors.New("experience type cannot be changed")

	// ErrInvalidExperience is returned by Submit when the updated experience
	// has validation errors and must not be saved.
	ErrInvalidExperience = errors.New("experience has validation errors")

	// ErrStepNotFound is returned by Compose for an unknown step id.
	ErrStepNotFound = errors.New("step not found")
)

// Options wires the dependencies of an ExperienceService. Every field is
// optional.
type Options struct {
	Registry *registry.Registry
	// Policy adds Rego deny/warn findings to every check when set.
	Policy *policy.Engine
	Logger *logger.Logger
	Now    func() time.Time
}

// ExperienceService is the single implementation behind `guestflow
// validate`, `guestflow compose`, `guestflow apply` and the HTTP API.
type ExperienceService struct {
	validator *validation.Validator
	policy    *policy.Engine
	log       *logger.Logger
	now       func() time.Time
}

// NewExperienceService creates the service.
func NewExperienceService(opts Options) *ExperienceService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ExperienceService{
		validator: validation.New(opts.Registry),
		policy:    opts.Policy,
		log:       opts.Logger,
		now:       opts.Now,
	}
}

// Update is a full or partial change to an experience. Nil fields are left
// unchanged; a non-nil empty Steps clears the steps.
type Update struct {
	Name       *string                `json:"name,omitempty" yaml:"name,omitempty"`
	Type       *models.ExperienceType `json:"type,omitempty" yaml:"type,omitempty"`
	Steps      []models.Step          `json:"steps,omitempty" yaml:"steps,omitempty"`
	StepsOrder []string               `json:"stepsOrder,omitempty" yaml:"stepsOrder,omitempty"`
}

// Check validates doc and merges policy findings into the result. The
// error is reserved for policy evaluation failures.
func (s *ExperienceService) Check(ctx context.Context, doc models.Document) (types.ValidationResult, error) {
	runID := uuid.NewString()
	steps := doc.OrderedSteps()

	result := s.validator.Validate(doc.Experience, steps)
	if s.policy != nil && s.policy.PolicyCount() > 0 {
		decision, err := s.policy.EvaluateExperience(ctx, doc.Experience, steps)
		if err != nil {
			s.log.Error("policy evaluation failed", "run_id", runID, "experience_id", doc.Experience.ID, "error", err)
			return result, fmt.Errorf("evaluate policies: %w", err)
		}
		mergeDecision(&result, decision)
		s.log.Debug("policy decision",
			"run_id", runID,
			"decision_id", decision.DecisionID,
			"result", decision.Result)
	}

	s.log.Debug("experience checked",
		"run_id", runID,
		"experience_id", doc.Experience.ID,
		"type", doc.Experience.Type,
		"steps", len(steps),
		"valid", result.Valid,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))
	return result, nil
}

func mergeDecision(result *types.ValidationResult, d *policy.Decision) {
	for _, msg := range d.Violations {
		result.AddError(types.ValidationError{Code: types.CodePolicyViolation, Message: msg})
	}
	for _, msg := range d.Warnings {
		result.AddWarning(types.ValidationWarning{Code: types.CodePolicyWarning, Message: msg})
	}
}

// Compose renders the final prompt of the ai-transform step stepID.
func (s *ExperienceService) Compose(ctx context.Context, doc models.Document, stepID string, session prompt.SessionValues, event models.EventMeta) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	runID := uuid.NewString()
	steps := doc.OrderedSteps()

	step, ok := findStep(steps, stepID)
	if !ok {
		return "", fmt.Errorf("compose %q: %w", stepID, ErrStepNotFound)
	}

	out, err := prompt.Render(step, steps, session, event)
	if err != nil {
		s.log.Debug("compose failed", "run_id", runID, "step_id", stepID, "error", err)
		return "", err
	}

	logger.SetLastPrompt(out)
	s.log.Debug("prompt composed",
		"run_id", runID,
		"experience_id", doc.Experience.ID,
		"step_id", stepID,
		"length", len(out))
	return out, nil
}

func findStep(steps []models.Step, id string) (models.Step, bool) {
	for _, st := range steps {
		if st.ID == id {
			return st, true
		}
	}
	return models.Step{}, false
}

// Submit applies update to current, re-validates and returns the document
// to persist. On ErrInvalidExperience the returned result explains why and
// current is returned unchanged.
func (s *ExperienceService) Submit(ctx context.Context, current models.Document, update Update) (models.Document, types.ValidationResult, error) {
	if update.Type != nil && *update.Type != current.Experience.Type {
		return current, types.NewValidationResult(), fmt.Errorf("%s to %s: %w", current.Experience.Type, *update.Type, ErrTypeImmutable)
	}

	next := current
	next.Experience.StepsOrder = append([]string(nil), current.Experience.StepsOrder...)
	next.Steps = append([]models.Step(nil), current.Steps...)

	if update.Name != nil {
		next.Experience.Name = *update.Name
	}
	if update.Steps != nil {
		next.Steps = append([]models.Step{}, update.Steps...)
		if update.StepsOrder == nil {
			next.Experience.StepsOrder = models.StepIDs(next.Steps)
		}
	}
	if update.StepsOrder != nil {
		next.Experience.StepsOrder = append([]string{}, update.StepsOrder...)
	}

	next.Steps = next.OrderedSteps()
	for i := range next.Steps {
		if next.Steps[i].ExperienceID == "" {
			next.Steps[i].ExperienceID = next.Experience.ID
		}
	}

	result, err := s.Check(ctx, next)
	if err != nil {
		return current, result, err
	}
	if !result.Valid {
		s.log.Info("update rejected", "experience_id", current.Experience.ID, "errors", len(result.Errors))
		return current, result, fmt.Errorf("%w: %d error(s)", ErrInvalidExperience, len(result.Errors))
	}

	now := s.now().UTC()
	if next.Experience.CreatedAt.IsZero() {
		next.Experience.CreatedAt = now
	}
	next.Experience.UpdatedAt = now
	s.log.Info("update accepted", "experience_id", next.Experience.ID, "warnings", len(result.Warnings))
	return next, result, nil
}
