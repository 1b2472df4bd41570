// Package scaffold builds starter experience documents.
package scaffold

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josephgoksu/Guestflow/models"
)

// ErrNoSeed is returned for experience types without a starter flow.
var ErrNoSeed = errors.New("no starter flow for experience type")

// Scaffolder turns seeds into documents.
type Scaffolder struct {
	seeds Seeds
	newID func() string
	now   func() time.Time
}

// New creates a scaffolder over seeds. A nil seeds uses DefaultSeeds.
func New(seeds Seeds) *Scaffolder {
	if seeds == nil {
		seeds = DefaultSeeds()
	}
	return &Scaffolder{seeds: seeds, newID: uuid.NewString, now: time.Now}
}

// Types lists the experience types the scaffolder can build.
func (s *Scaffolder) Types() []models.ExperienceType {
	out := make([]models.ExperienceType, 0, len(s.seeds))
	for t := range s.seeds {
		out = append(out, t)
	}
	return out
}

// Document builds a new experience of type t. Step ids are fresh uuids and
// variable references are rewritten to them.
func (s *Scaffolder) Document(t models.ExperienceType, name string) (models.Document, error) {
	seed, ok := s.seeds[t]
	if !ok {
		return models.Document{}, fmt.Errorf("%s: %w", t, ErrNoSeed)
	}

	expID := s.newID()
	ids := make(map[string]string, len(seed))
	for _, st := range seed {
		ids[st.Ref] = s.newID()
	}

	steps := make([]models.Step, 0, len(seed))
	for _, st := range seed {
		steps = append(steps, models.Step{
			ID:           ids[st.Ref],
			ExperienceID: expID,
			Type:         st.Config.StepType(),
			Name:         st.Name,
			Config:       relink(st.Config, ids),
		})
	}

	now := s.now().UTC()
	return models.Document{
		Experience: models.Experience{
			ID:         expID,
			Name:       name,
			Type:       t,
			StepsOrder: models.StepIDs(steps),
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Steps: steps,
	}, nil
}

// relink copies an ai-transform config with seed refs replaced by step ids.
func relink(cfg models.StepConfig, ids map[string]string) models.StepConfig {
	ai, ok := cfg.(models.AiTransformConfig)
	if !ok {
		return cfg
	}
	vars := make([]models.AiTransformVariable, len(ai.Variables))
	for i, v := range ai.Variables {
		if id, ok := ids[v.SourceStepID]; ok {
			v.SourceStepID = id
		}
		vars[i] = v
	}
	ai.Variables = vars
	return ai
}
