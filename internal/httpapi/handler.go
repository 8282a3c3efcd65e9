package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/apiclient"
	"github.com/kunalgharate/token-generation-admin-panel/internal/export"
	"github.com/kunalgharate/token-generation-admin-panel/internal/journal"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/stats"
	"github.com/kunalgharate/token-generation-admin-panel/internal/views"
)

// Backend is everything the console reads from and writes to.
type Backend interface {
	views.DashboardSource
	views.TokenSource
	views.PassengerSource
	views.ReportSource
}

type History interface {
	Recent(ctx context.Context, tokenID string, limit int) ([]journal.Entry, error)
}

type Options struct {
	Journal views.Recorder
	History History
	Clock   stats.Clock
}

type Handler struct {
	backend Backend
	journal views.Recorder
	history History
	clock   stats.Clock
	log     zerolog.Logger
}

type errorResponse struct {
	RequestID string        `json:"request_id,omitempty"`
	Error     responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusRequest struct {
	Status string `json:"status"`
}

const defaultHistoryLimit = 20

func NewHandler(backend Backend, log zerolog.Logger, options Options) *Handler {
	clock := options.Clock
	if clock == nil {
		clock = stats.SystemClock
	}
	return &Handler{
		backend: backend,
		journal: options.Journal,
		history: options.History,
		clock:   clock,
		log:     log,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", expvar.Handler())
	mux.HandleFunc("/console/dashboard", h.handleDashboard)
	mux.HandleFunc("/console/tokens", h.handleTokens)
	mux.HandleFunc("/console/tokens/", h.handleTokenActions)
	mux.HandleFunc("/console/passengers", h.handlePassengers)
	mux.HandleFunc("/console/reports", h.handleReports)
	mux.HandleFunc("/console/reports/export", h.handleReportExport)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view := views.NewDashboardView(h.backend, h.log)
	defer view.Close()

	err := view.Load(r.Context())
	if err != nil && !view.Loaded() {
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":         view.Stats(),
		"recent_tokens": view.RecentTokens(),
		"hourly_stats":  view.HourlyStats(),
	})
}

func (h *Handler) handleTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view := h.tokensView()
	defer view.Close()

	if err := view.Load(r.Context()); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	view.SetQuery(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tokens":  view.Filtered(),
		"summary": view.Summary(),
	})
}

func (h *Handler) handleTokenActions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/console/tokens/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	tokenID := parts[0]

	switch {
	case len(parts) == 1:
		h.handleUpdateStatus(w, r, tokenID)
	case len(parts) == 2 && parts[1] == "history":
		h.handleTokenHistory(w, r, tokenID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request, tokenID string) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload statusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	status := strings.TrimSpace(payload.Status)
	if !models.ValidTokenStatus(status) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "status must be one of pending, in_progress, completed, cancelled")
		return
	}

	view := h.tokensView()
	defer view.Close()
	if err := view.Load(r.Context()); err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	update, err := view.UpdateStatus(r.Context(), tokenID, status)
	if err != nil {
		switch {
		case errors.Is(err, views.ErrTokenNotFound):
			writeError(w, requestIDFromRequest(r), http.StatusNotFound, "not_found", "token not found")
		case update != nil:
			writeUpstreamError(w, r, err)
		default:
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	token, _ := view.Token(tokenID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"previous": update.Previous,
		"state":    update.State().String(),
		"summary":  view.Summary(),
	})
}

func (h *Handler) handleTokenHistory(w http.ResponseWriter, r *http.Request, tokenID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.history == nil {
		writeError(w, requestIDFromRequest(r), http.StatusNotFound, "journal_disabled", "status journal is not configured")
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	entries, err := h.history.Recent(r.Context(), tokenID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("token_id", tokenID).Msg("journal read failed")
		writeError(w, requestIDFromRequest(r), http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *Handler) handlePassengers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view := views.NewPassengersView(h.backend, h.log, views.Options{Clock: h.clock})
	defer view.Close()

	if err := view.Load(r.Context()); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	view.SetQuery(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"passengers": view.Filtered(),
		"summary":    view.Summary(),
	})
}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view, ok := h.loadReports(w, r)
	if !ok {
		return
	}
	defer view.Close()
	view.SetQuery(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filters": view.Filters().Query(),
		"rows":    view.Filtered(),
		"summary": view.Summary(),
	})
}

func (h *Handler) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "format must be one of xlsx, pdf, csv")
		return
	}
	view, ok := h.loadReports(w, r)
	if !ok {
		return
	}
	defer view.Close()
	view.SetQuery(r.URL.Query().Get("q"))

	now := h.clock()
	report := export.NewReport(view.Filters(), view.Filtered(), now)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename(now))
	if err := export.Write(w, format, report); err != nil {
		h.log.Error().Err(err).Str("format", string(format)).Msg("report export failed")
	}
}

// loadReports validates the filters in the query string and fetches rows. It
// writes the error response itself when it returns false.
func (h *Handler) loadReports(w http.ResponseWriter, r *http.Request) (*views.ReportsView, bool) {
	view := views.NewReportsView(h.backend, h.log)
	view.SetFilters(models.FiltersFromQuery(r.URL.Query()))
	err := view.Apply(r.Context())
	switch {
	case err == nil:
		return view, true
	case errors.Is(err, models.ErrInvalidStartDate), errors.Is(err, models.ErrInvalidEndDate), errors.Is(err, models.ErrInvalidDateRange):
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeUpstreamError(w, r, err)
	}
	view.Close()
	return nil, false
}

func (h *Handler) tokensView() *views.TokensView {
	return views.NewTokensView(h.backend, h.log, views.Options{Clock: h.clock, Journal: h.journal})
}

// writeUpstreamError maps a backend failure onto a console response.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFromRequest(r)
	var serverErr *apiclient.ServerError
	var networkErr *apiclient.NetworkError
	switch {
	case apiclient.IsUnauthorized(err):
		writeError(w, requestID, http.StatusUnauthorized, "unauthorized", "session rejected by backend, log in again")
	case errors.As(err, &serverErr):
		writeError(w, requestID, http.StatusBadGateway, "upstream_error", serverErr.Message())
	case errors.As(err, &networkErr) && networkErr.Timeout():
		writeError(w, requestID, http.StatusGatewayTimeout, "upstream_timeout", "backend did not respond in time")
	default:
		writeError(w, requestID, http.StatusBadGateway, "upstream_unreachable", "backend unreachable")
	}
}

func requestIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Request-ID"))
}

func writeError(w http.ResponseWriter, requestID string, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestID,
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
