package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/neurocram/internal/dates"
	"github.com/pavelanni/neurocram/internal/engine"
	"github.com/pavelanni/neurocram/internal/i18n"
	"github.com/pavelanni/neurocram/internal/llm"
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/plan"
	"github.com/pavelanni/neurocram/internal/report"
	"github.com/pavelanni/neurocram/internal/service"
)

const (
	maxBodyBytes = 1 << 20
	maxHorizon   = 365
)

// Coach produces study advice for a scored plan. *llm.Client implements it.
type Coach interface {
	Coach(ctx context.Context, p model.Plan, res model.IntelligenceResult, lang, note string) (*llm.Advice, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	svc    *service.Intelligence
	coach  Coach
	logger *slog.Logger
}

// New creates a new Handler. coach may be nil when no LLM is configured.
func New(svc *service.Intelligence, coach Coach, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, coach: coach, logger: logger}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Use(todayOverride)
		r.Post("/intelligence", h.handleIntelligence)
		r.Post("/forecast", h.handleForecast)
		r.Post("/summary", h.handleSummary)
		r.Post("/coach", h.handleCoach)
		r.Get("/cache/stats", h.handleCacheStats)
	})
}

type noData struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type forecastResponse struct {
	Today   dates.Day `json:"today"`
	Horizon int       `json:"horizon"`
	model.StressForecast
}

type coachRequest struct {
	Plan model.Plan `json:"plan"`
	Note string     `json:"note"`
}

type coachResponse struct {
	Lang   string      `json:"lang"`
	Advice *llm.Advice `json:"advice"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a localized error; detail carries the technical cause.
func respondError(w http.ResponseWriter, r *http.Request, status int, msgID string, detail error) {
	resp := errorResponse{Error: i18n.T(r.Context(), msgID)}
	if detail != nil {
		resp.Detail = detail.Error()
	}
	respondJSON(w, status, resp)
}

func respondNoData(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, noData{Status: "no_data", Message: i18n.T(r.Context(), "NoData")})
}

// todayOverride moves a ?today=YYYY-MM-DD query parameter into the request
// context.
func todayOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("today")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		d, err := dates.Parse(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "BadRequest", fmt.Errorf("today: %w", err))
			return
		}
		next.ServeHTTP(w, r.WithContext(model.ContextWithToday(r.Context(), d)))
	})
}

// decodePlan reads a plan body. YAML is accepted when the content type says
// so; everything else is read as JSON.
func decodePlan(r *http.Request) (model.Plan, error) {
	format := plan.FormatJSON
	if ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch ct {
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = plan.FormatYAML
		}
	}
	return plan.Decode(r.Body, format)
}

// analyze decodes the body and runs the service. It writes the response and
// returns ok == false when the caller has nothing left to do.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request, p model.Plan, horizon int) (model.IntelligenceResult, bool) {
	res, ok, err := h.svc.AnalyzeHorizon(r.Context(), p, dates.Day{}, horizon)
	switch {
	case errors.Is(err, plan.ErrInvalid):
		respondError(w, r, http.StatusUnprocessableEntity, "InvalidPlan", err)
		return res, false
	case err != nil:
		h.logger.Error("analyze failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "InternalError", nil)
		return res, false
	case !ok:
		respondNoData(w, r)
		return res, false
	}
	return res, true
}

func (h *Handler) readPlan(w http.ResponseWriter, r *http.Request) (model.Plan, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	p, err := decodePlan(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "BadRequest", err)
		return p, false
	}
	return p, true
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": engine.Version})
}

func (h *Handler) handleIntelligence(w http.ResponseWriter, r *http.Request) {
	p, ok := h.readPlan(w, r)
	if !ok {
		return
	}
	res, ok := h.analyze(w, r, p, 0)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	horizon := h.svc.Horizon()
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHorizon {
			respondError(w, r, http.StatusBadRequest, "BadRequest",
				fmt.Errorf("horizon must be an integer between 1 and %d", maxHorizon))
			return
		}
		horizon = n
	}
	p, ok := h.readPlan(w, r)
	if !ok {
		return
	}
	res, ok := h.analyze(w, r, p, horizon)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, forecastResponse{
		Today:          res.Today,
		Horizon:        horizon,
		StressForecast: res.StressForecast,
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := h.readPlan(w, r)
	if !ok {
		return
	}
	res, ok, err := h.svc.Analyze(r.Context(), p, dates.Day{})
	switch {
	case errors.Is(err, plan.ErrInvalid):
		respondError(w, r, http.StatusUnprocessableEntity, "InvalidPlan", err)
	case err != nil:
		h.logger.Error("analyze failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "InternalError", nil)
	case !ok:
		respondJSON(w, http.StatusOK, report.NoData(r.Context()))
	default:
		respondJSON(w, http.StatusOK, report.Build(r.Context(), res))
	}
}

func (h *Handler) handleCoach(w http.ResponseWriter, r *http.Request) {
	if h.coach == nil {
		respondError(w, r, http.StatusServiceUnavailable, "CoachUnavailable", nil)
		return
	}

	var req coachRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "BadRequest", err)
		return
	}
	plan.AssignIDs(&req.Plan)

	res, ok := h.analyze(w, r, req.Plan, 0)
	if !ok {
		return
	}
	lang := i18n.Lang(r.Context()).String()
	advice, err := h.coach.Coach(r.Context(), req.Plan, res, lang, req.Note)
	if err != nil {
		h.logger.Error("coach failed", "error", err)
		respondError(w, r, http.StatusBadGateway, "CoachFailed", nil)
		return
	}
	respondJSON(w, http.StatusOK, coachResponse{Lang: lang, Advice: advice})
}

func (h *Handler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats()
	if err != nil {
		h.logger.Error("cache stats failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "InternalError", nil)
		return
	}
	respondJSON(w, http.StatusOK, st)
}
