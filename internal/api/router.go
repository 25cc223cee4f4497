package api

import "net/http"

// NewRouter wires the server's handlers onto a mux and wraps it with the
// request logging middleware.
func NewRouter(s *Server) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.Health)
	mux.HandleFunc("/api/containers", s.Containers)
	mux.HandleFunc("/api/items", s.Items)
	mux.HandleFunc("/api/placement", s.Placement)
	mux.HandleFunc("/api/search", s.Search)
	mux.HandleFunc("/api/retrieval-plan", s.RetrievalPlan)
	mux.HandleFunc("/api/retrieve", s.Retrieve)
	mux.HandleFunc("/api/waste/identify", s.IdentifyWaste)
	mux.HandleFunc("/api/waste/return-plan", s.ReturnPlan)
	mux.HandleFunc("/api/waste/complete-undocking", s.CompleteUndocking)
	mux.HandleFunc("/api/waste/manifest", s.Manifest)
	mux.HandleFunc("/api/simulate/day", s.SimulateDay)
	mux.HandleFunc("/api/logs", s.Logs)

	return loggingMiddleware(mux)
}
