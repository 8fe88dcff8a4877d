// Package api serves the calculator registry over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/config"
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/logging"
	"github.com/rgehrsitz/fincalc/internal/usage"
)

// maxBodyBytes bounds evaluate request bodies
const maxBodyBytes = 1 << 20

// CalculatorSummary is one entry of the calculator list
type CalculatorSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CalculatorDetail describes a calculator and its inputs
type CalculatorDetail struct {
	CalculatorSummary
	Fields []calculator.Field `json:"fields"`
}

// EvaluateRequest carries field values plus optional extra rules and
// dependencies for one evaluation.
type EvaluateRequest struct {
	Values       map[string]any      `json:"values"`
	Rules        []domain.RuleSpec   `json:"rules" validate:"dive"`
	Dependencies map[string][]string `json:"dependencies"`
}

// EvaluateResponse is the engine state after applying the request values
type EvaluateResponse struct {
	Calculator string                              `json:"calculator"`
	State      calculator.State[calculator.Result] `json:"state"`
}

// Handler serves the calculator endpoints
type Handler struct {
	registry *calculator.Registry
	parser   *config.InputParser
	recorder usage.Recorder
	store    usage.Store
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires a handler; nil arguments fall back to the default
// registry, a no-op recorder and slog.Default.
func NewHandler(registry *calculator.Registry, recorder usage.Recorder, store usage.Store, logger *slog.Logger) *Handler {
	if registry == nil {
		registry = calculator.Default()
	}
	if recorder == nil {
		recorder = usage.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry: registry,
		parser:   config.NewInputParser(registry),
		recorder: recorder,
		store:    store,
		logger:   logger,
		validate: validator.New(),
	}
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/calculators", h.ListCalculators)
		r.Get("/calculators/{id}", h.GetCalculator)
		r.Post("/calculators/{id}/evaluate", h.Evaluate)
		r.Get("/usage", h.Usage)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			h.logger.Error("failed to write health check response", "error", err)
		}
	})
	return r
}

// ListCalculators handles GET /api/calculators
func (h *Handler) ListCalculators(w http.ResponseWriter, r *http.Request) {
	defs := h.registry.List()
	out := make([]CalculatorSummary, 0, len(defs))
	for _, d := range defs {
		out = append(out, summaryOf(d))
	}
	respondJSON(w, http.StatusOK, out)
}

// GetCalculator handles GET /api/calculators/{id}
func (h *Handler) GetCalculator(w http.ResponseWriter, r *http.Request) {
	def, ok := h.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, r, http.StatusNotFound, "calculator not found")
		return
	}
	respondJSON(w, http.StatusOK, CalculatorDetail{CalculatorSummary: summaryOf(def), Fields: def.Fields})
}

// Evaluate handles POST /api/calculators/{id}/evaluate. Input errors are part
// of a 200 response; malformed requests get 400.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	def, ok := h.registry.Get(id)
	if !ok {
		respondError(w, r, http.StatusNotFound, "calculator not found")
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request: every rule needs a field and an expression")
		return
	}

	run := domain.CalculatorRun{
		Name:         id,
		Calculator:   id,
		Values:       req.Values,
		Rules:        req.Rules,
		Dependencies: req.Dependencies,
	}
	file := &domain.CalculatorFile{Version: "1", Runs: []domain.CalculatorRun{run}}
	if err := h.parser.ValidateFile(file); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	run.Values = nil
	opts, err := config.EngineOptions(run)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	opts = append(opts,
		calculator.WithRecorder(h.recorder),
		calculator.WithLogger(logging.NewPrintf(h.logger)),
	)

	engine := def.NewEngine(opts...)
	state := engine.SetValues(req.Values)
	respondJSON(w, http.StatusOK, EvaluateResponse{Calculator: id, State: state})
}

// Usage handles GET /api/usage
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondJSON(w, http.StatusOK, []usage.Count{})
		return
	}
	counts, err := h.store.Counts(r.Context())
	if err != nil {
		h.logger.Error("failed to read usage counts", "error", err)
		respondError(w, r, http.StatusServiceUnavailable, "usage counts unavailable")
		return
	}
	respondJSON(w, http.StatusOK, usage.Ranked(counts))
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func summaryOf(d calculator.Definition) CalculatorSummary {
	return CalculatorSummary{ID: d.ID, Name: d.Name, Description: d.Description}
}
