package server

import (
	"github.com/josephgoksu/Guestflow/internal/prompt"
	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/models"
)

// HealthResponse is the response for /api/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// TypesResponse is the response for /api/types
type TypesResponse struct {
	Types []registry.Definition `json:"types"`
}

// ComposeRequest is the payload for /api/compose
type ComposeRequest struct {
	Document models.Document      `json:"document"`
	StepID   string               `json:"stepId"`
	Session  prompt.SessionValues `json:"session"`
	Event    models.EventMeta     `json:"event"`
}

// ComposeResponse is the response for /api/compose
type ComposeResponse struct {
	StepID string `json:"stepId"`
	Prompt string `json:"prompt"`
}
