package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/filter"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/stats"
)

type PassengerSource interface {
	Passengers(ctx context.Context) ([]models.Passenger, error)
}

type PassengersView struct {
	state
	source PassengerSource
	clock  stats.Clock
	log    zerolog.Logger

	passengers []models.Passenger
	query      string
}

func NewPassengersView(source PassengerSource, log zerolog.Logger, opts Options) *PassengersView {
	return &PassengersView{source: source, clock: opts.clock(), log: log, passengers: []models.Passenger{}}
}

func (v *PassengersView) Load(ctx context.Context) error {
	if !v.startLoad() {
		return ErrClosed
	}
	defer v.finishLoad()

	passengers, err := v.source.Passengers(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("error fetching passengers")
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed {
		v.passengers = passengers
	}
	return nil
}

func (v *PassengersView) Passengers() []models.Passenger {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Passenger(nil), v.passengers...)
}

func (v *PassengersView) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
}

func (v *PassengersView) Filtered() []models.Passenger {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return filter.Passengers(v.passengers, v.query)
}

// Summary counts over the whole collection, not the filtered subset.
func (v *PassengersView) Summary() stats.PassengerSummary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return stats.SummarizePassengers(v.passengers, v.clock())
}
