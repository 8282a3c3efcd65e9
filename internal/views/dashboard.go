package views

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
)

type DashboardSource interface {
	Dashboard(ctx context.Context) (models.DashboardStats, error)
	RecentTokens(ctx context.Context) ([]models.Token, error)
	HourlyStats(ctx context.Context) ([]models.HourlyStat, error)
}

type DashboardView struct {
	state
	source DashboardSource
	log    zerolog.Logger

	stats  models.DashboardStats
	recent []models.Token
	hourly []models.HourlyStat
	loaded bool
}

func NewDashboardView(source DashboardSource, log zerolog.Logger) *DashboardView {
	return &DashboardView{source: source, log: log, recent: []models.Token{}, hourly: []models.HourlyStat{}}
}

// Load fetches stats, recent tokens and hourly stats one after another. A
// failure in one leaves that part at its previous value and does not stop the
// others; the returned error joins whatever failed.
func (v *DashboardView) Load(ctx context.Context) error {
	if !v.startLoad() {
		return ErrClosed
	}
	defer v.finishLoad()

	var errs []error

	stats, err := v.source.Dashboard(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("error fetching dashboard data")
		errs = append(errs, err)
	} else {
		v.apply(func() {
			v.stats = stats
			v.loaded = true
		})
	}

	recent, err := v.source.RecentTokens(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("error fetching recent tokens")
		errs = append(errs, err)
	} else {
		v.apply(func() { v.recent = recent })
	}

	hourly, err := v.source.HourlyStats(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("error fetching hourly stats")
		errs = append(errs, err)
	} else {
		v.apply(func() { v.hourly = hourly })
	}

	return errors.Join(errs...)
}

func (v *DashboardView) apply(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	fn()
}

func (v *DashboardView) Stats() models.DashboardStats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stats
}

// Loaded reports whether stats have been fetched successfully at least once.
func (v *DashboardView) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

func (v *DashboardView) RecentTokens() []models.Token {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Token(nil), v.recent...)
}

func (v *DashboardView) HourlyStats() []models.HourlyStat {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.HourlyStat(nil), v.hourly...)
}
