package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/filter"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/stats"
)

type ReportSource interface {
	Reports(ctx context.Context, filters models.ReportFilters) ([]models.ReportRow, error)
}

type ReportsView struct {
	state
	source ReportSource
	log    zerolog.Logger

	filters models.ReportFilters
	rows    []models.ReportRow
	query   string
}

func NewReportsView(source ReportSource, log zerolog.Logger) *ReportsView {
	return &ReportsView{source: source, log: log, rows: []models.ReportRow{}}
}

func (v *ReportsView) SetFilters(filters models.ReportFilters) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = filters
}

func (v *ReportsView) Filters() models.ReportFilters {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filters
}

func (v *ReportsView) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
}

// Load fetches rows for the current filters.
func (v *ReportsView) Load(ctx context.Context) error {
	return v.Apply(ctx)
}

// Apply validates the current filters and refetches. Invalid dates are
// reported without contacting the backend.
func (v *ReportsView) Apply(ctx context.Context) error {
	filters := v.Filters()
	if err := filters.Validate(); err != nil {
		return err
	}

	if !v.startLoad() {
		return ErrClosed
	}
	defer v.finishLoad()

	rows, err := v.source.Reports(ctx, filters)
	if err != nil {
		v.log.Warn().Err(err).Msg("error fetching reports")
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed {
		v.rows = rows
	}
	return nil
}

// Clear resets every filter and refetches.
func (v *ReportsView) Clear(ctx context.Context) error {
	v.SetFilters(models.ReportFilters{})
	return v.Apply(ctx)
}

func (v *ReportsView) Rows() []models.ReportRow {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.ReportRow(nil), v.rows...)
}

func (v *ReportsView) Filtered() []models.ReportRow {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return filter.Reports(v.rows, v.query)
}

func (v *ReportsView) Summary() stats.ReportSummary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return stats.SummarizeReports(v.rows)
}
