package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/mkuznetsov/home-sentry/internal/domain/security"
	"github.com/mkuznetsov/home-sentry/internal/logger"
	"github.com/mkuznetsov/home-sentry/internal/service/panel"
)

// Service abstracts the panel operations the transport layer depends on.
type Service interface {
	Arm(ctx context.Context)
	Disarm(ctx context.Context)
	TriggerSensor(ctx context.Context, id int, forcedState string) error
	AcknowledgeSensor(ctx context.Context, id int) error
	ToggleAlarm(ctx context.Context)
	ClearLogs(ctx context.Context)
	SetSimulationEnabled(ctx context.Context, enabled bool)
	Status() *domain.Status
}

// Server wires the panel service into HTTP handlers.
type Server struct {
	// service provides the panel business logic.
	service Service
	// feed handles WebSocket upgrade requests; may be nil.
	feed http.Handler
	// webDir optionally points at static dashboard assets.
	webDir string
}

// NewServer creates an HTTP handler set around the provided service.
// feed, when non-nil, is mounted at /ws; webDir, when non-empty, is served
// at the root.
func NewServer(service Service, feed http.Handler, webDir string) *Server {
	return &Server{
		service: service,
		feed:    feed,
		webDir:  webDir,
	}
}

// triggerRequest is the optional body of a trigger command.
type triggerRequest struct {
	// State forces the sensor into a specific state instead of toggling.
	State string `json:"state,omitempty"`
}

// simulationRequest is the body of the simulation command.
type simulationRequest struct {
	// Enabled turns the random event driver on or off.
	Enabled bool `json:"enabled"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	// Error is the human-readable failure description.
	Error string `json:"error"`
}

// Router assembles the chi router with all panel routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/arm", s.handleArm)
		r.Post("/disarm", s.handleDisarm)
		r.Post("/sensors/{id}/trigger", s.handleTrigger)
		r.Post("/sensors/{id}/ack", s.handleAcknowledge)
		r.Post("/alarm/toggle", s.handleToggleAlarm)
		r.Post("/logs/clear", s.handleClearLogs)
		r.Put("/simulation", s.handleSimulation)
		r.Get("/state", s.handleState)
	})

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if s.feed != nil {
		r.Method(http.MethodGet, "/ws", s.feed)
	}

	if s.webDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.webDir)))
	}

	return r
}

// handleArm arms the panel.
func (s *Server) handleArm(w http.ResponseWriter, r *http.Request) {
	s.service.Arm(r.Context())
	s.writeStatus(w, r)
}

// handleDisarm disarms the panel and silences the alarm.
func (s *Server) handleDisarm(w http.ResponseWriter, r *http.Request) {
	s.service.Disarm(r.Context())
	s.writeStatus(w, r)
}

// handleTrigger injects a sensor event, optionally with a forced state.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sensorID(w, r)
	if !ok {
		return
	}

	var req triggerRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")

			return
		}
	}

	if err := s.service.TriggerSensor(r.Context(), id, req.State); err != nil {
		s.writeServiceError(w, err)

		return
	}

	s.writeStatus(w, r)
}

// handleAcknowledge resets a sensor to its normal state.
func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sensorID(w, r)
	if !ok {
		return
	}

	if err := s.service.AcknowledgeSensor(r.Context(), id); err != nil {
		s.writeServiceError(w, err)

		return
	}

	s.writeStatus(w, r)
}

// handleToggleAlarm flips the alarm directly.
func (s *Server) handleToggleAlarm(w http.ResponseWriter, r *http.Request) {
	s.service.ToggleAlarm(r.Context())
	s.writeStatus(w, r)
}

// handleClearLogs empties the journal.
func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	s.service.ClearLogs(r.Context())
	s.writeStatus(w, r)
}

// handleSimulation gates the random event driver.
func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")

		return
	}

	s.service.SetSimulationEnabled(r.Context(), req.Enabled)
	s.writeStatus(w, r)
}

// handleState returns the full panel status.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w, r)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// sensorID extracts and validates the {id} route parameter.
func (s *Server) sensorID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid sensor id")

		return 0, false
	}

	return id, true
}

// writeStatus responds with the current panel status as JSON.
func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, s.service.Status())
}

// writeServiceError maps service sentinel errors onto HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, panel.ErrSensorNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())

		return
	}

	s.writeError(w, http.StatusInternalServerError, err.Error())
}

// writeError responds with the JSON error envelope.
func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// writeJSON encodes the payload, logging encode failures.
func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WarnKV(ctx, "Failed to encode response", "error", err)
	}
}
