package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/apiclient"
	"github.com/kunalgharate/token-generation-admin-panel/internal/journal"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
)

type fakeBackend struct {
	dashboardFn  func(ctx context.Context) (models.DashboardStats, error)
	recentFn     func(ctx context.Context) ([]models.Token, error)
	hourlyFn     func(ctx context.Context) ([]models.HourlyStat, error)
	tokensFn     func(ctx context.Context) ([]models.Token, error)
	updateFn     func(ctx context.Context, id, status string) (models.Token, bool, error)
	passengersFn func(ctx context.Context) ([]models.Passenger, error)
	reportsFn    func(ctx context.Context, filters models.ReportFilters) ([]models.ReportRow, error)
}

func (f fakeBackend) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	if f.dashboardFn == nil {
		return models.DashboardStats{}, nil
	}
	return f.dashboardFn(ctx)
}

func (f fakeBackend) RecentTokens(ctx context.Context) ([]models.Token, error) {
	if f.recentFn == nil {
		return []models.Token{}, nil
	}
	return f.recentFn(ctx)
}

func (f fakeBackend) HourlyStats(ctx context.Context) ([]models.HourlyStat, error) {
	if f.hourlyFn == nil {
		return []models.HourlyStat{}, nil
	}
	return f.hourlyFn(ctx)
}

func (f fakeBackend) Tokens(ctx context.Context) ([]models.Token, error) {
	if f.tokensFn == nil {
		return []models.Token{}, nil
	}
	return f.tokensFn(ctx)
}

func (f fakeBackend) UpdateTokenStatus(ctx context.Context, id, status string) (models.Token, bool, error) {
	if f.updateFn == nil {
		return models.Token{}, false, nil
	}
	return f.updateFn(ctx, id, status)
}

func (f fakeBackend) Passengers(ctx context.Context) ([]models.Passenger, error) {
	if f.passengersFn == nil {
		return []models.Passenger{}, nil
	}
	return f.passengersFn(ctx)
}

func (f fakeBackend) Reports(ctx context.Context, filters models.ReportFilters) ([]models.ReportRow, error) {
	if f.reportsFn == nil {
		return []models.ReportRow{}, nil
	}
	return f.reportsFn(ctx, filters)
}

type fakeJournal struct {
	entries []journal.Entry
}

func (f *fakeJournal) Record(ctx context.Context, entry journal.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournal) Recent(ctx context.Context, tokenID string, limit int) ([]journal.Entry, error) {
	var out []journal.Entry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].TokenID == tokenID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func fixedClock() time.Time {
	return time.Date(2024, 10, 20, 10, 0, 0, 0, time.UTC)
}

func newTestHandler(backend fakeBackend, j *fakeJournal) http.Handler {
	options := Options{Clock: fixedClock}
	if j != nil {
		options.Journal = j
		options.History = j
	}
	return LoggingMiddleware(zerolog.Nop(), NewHandler(backend, zerolog.Nop(), options).Routes())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(fakeBackend{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestTokensSearchAndSummary(t *testing.T) {
	backend := fakeBackend{tokensFn: func(ctx context.Context) ([]models.Token, error) {
		return []models.Token{
			{ID: "1", TokenNumber: "101", PassengerName: "Ravi", Status: models.StatusPending},
			{ID: "2", TokenNumber: "102", PassengerName: "Anita", Status: models.StatusCompleted},
		}, nil
	}}
	rec := httptest.NewRecorder()
	newTestHandler(backend, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/tokens?q=anita", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Tokens  []models.Token `json:"tokens"`
		Summary struct {
			Total     int `json:"total"`
			Pending   int `json:"pending"`
			Completed int `json:"completed"`
		} `json:"summary"`
	}
	decodeBody(t, rec, &body)
	if len(body.Tokens) != 1 || body.Tokens[0].ID != "2" {
		t.Fatalf("expected token 2, got %+v", body.Tokens)
	}
	if body.Summary.Total != 2 || body.Summary.Pending != 1 || body.Summary.Completed != 1 {
		t.Fatalf("expected summary over all tokens, got %+v", body.Summary)
	}
}

func TestUpdateStatusJournaled(t *testing.T) {
	backend := fakeBackend{
		tokensFn: func(ctx context.Context) ([]models.Token, error) {
			return []models.Token{{ID: "7", Status: models.StatusPending}}, nil
		},
		updateFn: func(ctx context.Context, id, status string) (models.Token, bool, error) {
			return models.Token{ID: "7", Status: status}, true, nil
		},
	}
	j := &fakeJournal{}
	handler := newTestHandler(backend, j)

	req := httptest.NewRequest(http.MethodPut, "/console/tokens/7", bytes.NewBufferString(`{"status":"completed"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Token    models.Token `json:"token"`
		Previous string       `json:"previous"`
		State    string       `json:"state"`
	}
	decodeBody(t, rec, &body)
	if body.Token.Status != models.StatusCompleted || body.Previous != models.StatusPending || body.State != "applied" {
		t.Fatalf("unexpected body %+v", body)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/tokens/7/history", nil))
	var history struct {
		Entries []journal.Entry `json:"entries"`
	}
	decodeBody(t, rec, &history)
	if len(history.Entries) != 1 || history.Entries[0].Outcome != journal.OutcomeApplied {
		t.Fatalf("expected one applied entry, got %+v", history.Entries)
	}
}

func TestUpdateStatusUpstreamFailure(t *testing.T) {
	backend := fakeBackend{
		tokensFn: func(ctx context.Context) ([]models.Token, error) {
			return []models.Token{{ID: "7", Status: models.StatusPending}}, nil
		},
		updateFn: func(ctx context.Context, id, status string) (models.Token, bool, error) {
			return models.Token{}, false, &apiclient.ServerError{Method: http.MethodPut, StatusCode: http.StatusConflict, ServerMessage: "token already closed"}
		},
	}
	req := httptest.NewRequest(http.MethodPut, "/console/tokens/7", bytes.NewBufferString(`{"status":"cancelled"}`))
	rec := httptest.NewRecorder()
	newTestHandler(backend, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body errorResponse
	decodeBody(t, rec, &body)
	if body.Error.Message != "token already closed" {
		t.Fatalf("expected server message, got %q", body.Error.Message)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	backend := fakeBackend{tokensFn: func(ctx context.Context) ([]models.Token, error) {
		return []models.Token{{ID: "7", Status: models.StatusPending}}, nil
	}}
	handler := newTestHandler(backend, nil)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "unknown status", path: "/console/tokens/7", body: `{"status":"archived"}`, status: http.StatusBadRequest},
		{name: "bad json", path: "/console/tokens/7", body: `{`, status: http.StatusBadRequest},
		{name: "unknown field", path: "/console/tokens/7", body: `{"status":"completed","x":1}`, status: http.StatusBadRequest},
		{name: "missing token", path: "/console/tokens/99", body: `{"status":"completed"}`, status: http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, tc.path, strings.NewReader(tc.body)))
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
	}
}

func TestReportsRejectsBadDate(t *testing.T) {
	called := false
	backend := fakeBackend{reportsFn: func(ctx context.Context, filters models.ReportFilters) ([]models.ReportRow, error) {
		called = true
		return nil, nil
	}}
	rec := httptest.NewRecorder()
	newTestHandler(backend, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/reports?start_date=20/10/2024", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if called {
		t.Fatalf("expected no backend call")
	}
}

func TestReportsForwardsFilters(t *testing.T) {
	var got models.ReportFilters
	backend := fakeBackend{reportsFn: func(ctx context.Context, filters models.ReportFilters) ([]models.ReportRow, error) {
		got = filters
		return []models.ReportRow{{TokenNumber: "1", VehicleNumber: "KA01", Status: models.StatusCompleted}}, nil
	}}
	rec := httptest.NewRecorder()
	newTestHandler(backend, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/reports?vehicle_number=KA01&start_date=2024-10-01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.VehicleNumber != "KA01" || got.StartDate != "2024-10-01" {
		t.Fatalf("unexpected filters %+v", got)
	}
}

func TestReportExportCSV(t *testing.T) {
	backend := fakeBackend{reportsFn: func(ctx context.Context, filters models.ReportFilters) ([]models.ReportRow, error) {
		return []models.ReportRow{{TokenNumber: "1", PassengerCount: 4, PassengersFilled: 2}}, nil
	}}
	rec := httptest.NewRecorder()
	newTestHandler(backend, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/reports/export?format=csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "2/4") {
		t.Fatalf("expected occupancy in csv, got %q", rec.Body.String())
	}
}

func TestUpstreamUnauthorized(t *testing.T) {
	backend := fakeBackend{passengersFn: func(ctx context.Context) ([]models.Passenger, error) {
		return nil, &apiclient.FetchError{Kind: apiclient.KindPassengers, Err: &apiclient.ServerError{StatusCode: http.StatusUnauthorized}}
	}}
	rec := httptest.NewRecorder()
	newTestHandler(backend, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/passengers", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDashboardAllFailed(t *testing.T) {
	fail := errors.New("dial tcp: connection refused")
	backend := fakeBackend{
		dashboardFn: func(ctx context.Context) (models.DashboardStats, error) { return models.DashboardStats{}, fail },
		recentFn:    func(ctx context.Context) ([]models.Token, error) { return nil, fail },
		hourlyFn:    func(ctx context.Context) ([]models.HourlyStat, error) { return nil, fail },
	}
	rec := httptest.NewRecorder()
	newTestHandler(backend, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/dashboard", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(fakeBackend{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/tokens/7/history", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
