package server

import "net/http"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/types", s.handleListTypes)
	mux.HandleFunc("GET /api/types/{type}", s.handleGetType)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/compose", s.handleCompose)

	return s.loggingMiddleware(s.corsMiddleware(mux))
}
