package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/samasastudio/brutalcast/internal/models"
	"github.com/samasastudio/brutalcast/layout"
	"github.com/samasastudio/brutalcast/pipeline"
	"github.com/samasastudio/brutalcast/shared/monitoring"
	"github.com/samasastudio/brutalcast/shared/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Runner is the piece of the pipeline the HTTP layer needs.
type Runner interface {
	Run(ctx context.Context, cities []string, units models.Unit, userPrompt string) (*models.ComparisonResult, error)
}

// Server exposes the comparison pipeline over HTTP.
type Server struct {
	runner  Runner
	quota   *storage.Quota
	monitor *monitoring.Monitor
	router  *mux.Router
}

func New(runner Runner, quota *storage.Quota, monitor *monitoring.Monitor) *Server {
	s := &Server{
		runner:  runner,
		quota:   quota,
		monitor: monitor,
		router:  mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/v1/compare", s.handleCompare).Methods("POST")
	s.router.HandleFunc("/v1/ratelimit", s.handleRateLimit).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/status", s.handleStatus).Methods("GET")
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the API until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Serving API on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type compareRequest struct {
	Cities []string `json:"cities"`
	Units  string   `json:"units"`
	Prompt string   `json:"prompt"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cities := trimCities(req.Cities)
	if len(cities) == 0 {
		writeError(w, http.StatusBadRequest, "at least one city is required")
		return
	}

	units := models.Unit(req.Units)
	if req.Units == "" {
		units = models.UnitImperial
	}
	if !units.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown unit system %q", req.Units))
		return
	}

	log.Printf("[%s] comparing %v (%s)", requestID, cities, units)
	start := time.Now()

	result, err := s.runner.Run(r.Context(), cities, units, req.Prompt)
	if err != nil {
		s.monitor.RecordFailure(err, time.Since(start))
		status := http.StatusBadGateway
		var rateErr *pipeline.RateLimitError
		switch {
		case errors.Is(err, pipeline.ErrCredentialMissing):
			status = http.StatusPreconditionFailed
		case errors.As(err, &rateErr):
			status = http.StatusTooManyRequests
		}
		log.Printf("[%s] compare failed: %v", requestID, err)
		writeError(w, status, err.Error())
		return
	}
	s.monitor.RecordSuccess(fmt.Sprintf("compared %d cities, %d components", len(result.Weather), len(result.Layout.UIComponents)), time.Since(start))

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := layout.RenderReport(w, result, units); err != nil {
			log.Printf("[%s] report rendering failed: %v", requestID, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Remaining int    `json:"remaining"`
		Limited   bool   `json:"limited"`
		ResetAt   string `json:"resetAt,omitempty"`
	}{
		Remaining: s.quota.Remaining(),
		Limited:   s.quota.IsLimited(),
	}
	if reset := s.quota.ResetAt(); !reset.IsZero() {
		resp.ResetAt = reset.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", s.monitor.StatusSummary())
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "Service unhealthy - %s", s.monitor.StatusSummary())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, s.monitor.StatusSummary())
}

// trimCities drops whitespace and empty entries before the orchestrator
// sees the list.
func trimCities(cities []string) []string {
	var out []string
	for _, c := range cities {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
