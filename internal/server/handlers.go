package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/josephgoksu/Guestflow/internal/app"
	"github.com/josephgoksu/Guestflow/internal/prompt"
	"github.com/josephgoksu/Guestflow/models"
	"github.com/josephgoksu/Guestflow/store"
	"github.com/josephgoksu/Guestflow/types"
)

// Error codes returned in APIError.Code besides the domain codes.
const (
	codeBadRequest = "BAD_REQUEST"
	codeNotFound   = "NOT_FOUND"
	codeInternal   = "INTERNAL"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, TypesResponse{Types: s.registry.Definitions()})
}

func (s *Server) handleGetType(w http.ResponseWriter, r *http.Request) {
	t := models.ExperienceType(r.PathValue("type"))
	def, ok := s.registry.DefinitionFor(t)
	if !ok {
		writeAPIError(w, http.StatusNotFound, types.NewAPIError(codeNotFound, "unknown experience type", map[string]any{"type": t}))
		return
	}
	writeAPIJSON(w, http.StatusOK, def)
}

// handleValidate accepts a document as JSON, or as YAML when the content
// type says so, and always answers 200 with the ValidationResult.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeAPIError(w, readErrorStatus(err), types.NewAPIError(codeBadRequest, err.Error(), nil))
		return
	}

	doc, err := store.Decode(body, requestFormat(r))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, types.NewAPIError(codeBadRequest, "invalid document: "+err.Error(), nil))
		return
	}

	result, err := s.svc.Check(r.Context(), doc)
	if err != nil {
		s.log.Error("check failed", "experience_id", doc.Experience.ID, "error", err)
		writeAPIError(w, http.StatusInternalServerError, types.NewAPIError(codeInternal, err.Error(), nil))
		return
	}
	writeAPIJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, types.NewAPIError(codeBadRequest, "invalid request body", nil))
		return
	}
	if req.StepID == "" {
		writeAPIError(w, http.StatusBadRequest, types.NewAPIError(codeBadRequest, "stepId is required", nil))
		return
	}
	if err := models.ValidateStruct(req.Document); err != nil {
		writeAPIError(w, http.StatusBadRequest, types.NewAPIError(codeBadRequest, err.Error(), nil))
		return
	}

	out, err := s.svc.Compose(r.Context(), req.Document, req.StepID, req.Session, req.Event)
	var resErr *prompt.ResolutionError
	switch {
	case err == nil:
		writeAPIJSON(w, http.StatusOK, ComposeResponse{StepID: req.StepID, Prompt: out})
	case errors.As(err, &resErr):
		writeAPIError(w, http.StatusUnprocessableEntity, types.NewAPIError(resErr.Code, resErr.Error(), map[string]any{
			"key":    resErr.Key,
			"stepId": resErr.StepID,
		}))
	case errors.Is(err, app.ErrStepNotFound):
		writeAPIError(w, http.StatusNotFound, types.NewAPIError(codeNotFound, err.Error(), nil))
	case errors.Is(err, prompt.ErrNotTransform):
		writeAPIError(w, http.StatusBadRequest, types.NewAPIError(codeBadRequest, err.Error(), nil))
	default:
		writeAPIError(w, http.StatusInternalServerError, types.NewAPIError(codeInternal, err.Error(), nil))
	}
}

func requestFormat(r *http.Request) string {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return "yaml"
	}
	return "json"
}

func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeAPIError(w http.ResponseWriter, status int, apiErr *types.APIError) {
	writeAPIJSON(w, status, apiErr)
}

// readErrorStatus maps a body read failure to 413 when the size limit was
// hit and 400 otherwise.
func readErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
