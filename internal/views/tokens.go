package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/filter"
	"github.com/kunalgharate/token-generation-admin-panel/internal/journal"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/stats"
)

type TokenSource interface {
	Tokens(ctx context.Context) ([]models.Token, error)
	UpdateTokenStatus(ctx context.Context, id, status string) (models.Token, bool, error)
}

type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) error
}

type UpdateState int

const (
	UpdateIdle UpdateState = iota
	UpdateSubmitting
	UpdateApplied
	UpdateFailed
)

func (s UpdateState) String() string {
	switch s {
	case UpdateSubmitting:
		return "submitting"
	case UpdateApplied:
		return "applied"
	case UpdateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type TokensView struct {
	state
	source  TokenSource
	journal Recorder
	clock   stats.Clock
	log     zerolog.Logger

	tokens  []models.Token
	summary stats.TokenSummary
	query   string

	// generations holds the newest pending update per token id.
	generations map[string]uint64
	seq         uint64
}

func NewTokensView(source TokenSource, log zerolog.Logger, opts Options) *TokensView {
	return &TokensView{
		source:      source,
		journal:     opts.Journal,
		clock:       opts.clock(),
		log:         log,
		tokens:      []models.Token{},
		generations: make(map[string]uint64),
	}
}

// Load replaces the collection with a fresh fetch. Pending updates issued
// before the replacement no longer touch the new entries when they settle.
func (v *TokensView) Load(ctx context.Context) error {
	if !v.startLoad() {
		return ErrClosed
	}
	defer v.finishLoad()

	tokens, err := v.source.Tokens(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("error fetching tokens")
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.tokens = tokens
	v.generations = make(map[string]uint64)
	v.recompute()
	return nil
}

func (v *TokensView) Tokens() []models.Token {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Token(nil), v.tokens...)
}

// Token returns the current entry for id.
func (v *TokensView) Token(id string) (models.Token, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	idx := v.indexOf(id)
	if idx < 0 {
		return models.Token{}, false
	}
	return v.tokens[idx], true
}

func (v *TokensView) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
}

func (v *TokensView) Query() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.query
}

// Filtered is the collection narrowed by the current search query.
func (v *TokensView) Filtered() []models.Token {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return filter.Tokens(v.tokens, v.query)
}

func (v *TokensView) Summary() stats.TokenSummary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.summary
}

// Begin applies status to the token optimistically and returns the pending
// update. The collection reflects the new status before Begin returns.
func (v *TokensView) Begin(id, status string) (*StatusUpdate, error) {
	if !models.ValidTokenStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, ErrClosed
	}
	idx := v.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, id)
	}

	previous := v.tokens[idx].Status
	v.tokens[idx].Status = status
	v.seq++
	v.generations[id] = v.seq
	v.recompute()

	return &StatusUpdate{
		view:       v,
		TokenID:    id,
		Status:     status,
		Previous:   previous,
		generation: v.seq,
		state:      UpdateSubmitting,
	}, nil
}

// UpdateStatus applies status optimistically and submits it.
func (v *TokensView) UpdateStatus(ctx context.Context, id, status string) (*StatusUpdate, error) {
	update, err := v.Begin(id, status)
	if err != nil {
		return nil, err
	}
	return update, update.Commit(ctx)
}

// settle reconciles the collection with the outcome of u and reports the
// journal outcome. An update that is no longer the newest for its token
// leaves the collection alone.
func (v *TokensView) settle(u *StatusUpdate, server models.Token, echoed bool, err error) string {
	outcome := journal.OutcomeApplied
	if err != nil {
		outcome = journal.OutcomeFailed
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return outcome
	}
	if v.generations[u.TokenID] != u.generation {
		return journal.OutcomeSuperseded
	}
	delete(v.generations, u.TokenID)

	idx := v.indexOf(u.TokenID)
	if idx >= 0 {
		switch {
		case err != nil:
			v.tokens[idx].Status = u.Previous
		case echoed && server.Status != "":
			v.tokens[idx].Status = server.Status
		}
	}
	v.recompute()
	return outcome
}

func (v *TokensView) record(ctx context.Context, u *StatusUpdate, outcome string, err error) {
	if v.journal == nil {
		return
	}
	entry := journal.Entry{
		TokenID:    u.TokenID,
		FromStatus: u.Previous,
		ToStatus:   u.Status,
		Outcome:    outcome,
		CreatedAt:  v.clock(),
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	if jerr := v.journal.Record(context.WithoutCancel(ctx), entry); jerr != nil {
		v.log.Warn().Err(jerr).Str("token_id", u.TokenID).Msg("journal write failed")
	}
}

// recompute must be called with mu held.
func (v *TokensView) recompute() {
	v.summary = stats.SummarizeTokens(v.tokens, v.clock())
}

func (v *TokensView) indexOf(id string) int {
	for i := range v.tokens {
		if v.tokens[i].ID.String() == id {
			return i
		}
	}
	return -1
}

// StatusUpdate is one optimistic status change in flight.
type StatusUpdate struct {
	view       *TokensView
	generation uint64

	TokenID  string
	Status   string
	Previous string

	mu        sync.Mutex
	state     UpdateState
	committed bool
	err       error
}

func (u *StatusUpdate) State() UpdateState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Err is the submission failure, if any.
func (u *StatusUpdate) Err() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.err
}

// Commit sends the update to the backend and settles the view. It may be
// called once.
func (u *StatusUpdate) Commit(ctx context.Context) error {
	u.mu.Lock()
	if u.committed {
		u.mu.Unlock()
		return ErrAlreadyCommitted
	}
	u.committed = true
	u.mu.Unlock()

	server, echoed, err := u.view.source.UpdateTokenStatus(ctx, u.TokenID, u.Status)
	if err != nil {
		u.view.log.Warn().Err(err).Str("token_id", u.TokenID).Str("status", u.Status).Msg("error updating token status")
	}
	outcome := u.view.settle(u, server, echoed, err)

	u.mu.Lock()
	u.err = err
	if err != nil {
		u.state = UpdateFailed
	} else {
		u.state = UpdateApplied
	}
	u.mu.Unlock()

	u.view.record(ctx, u, outcome, err)
	return err
}
