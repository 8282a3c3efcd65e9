package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/payload"
)

type ResourceKind string

const (
	KindDashboard    ResourceKind = "dashboard"
	KindRecentTokens ResourceKind = "recent-tokens"
	KindHourlyStats  ResourceKind = "hourly-stats"
	KindPassengers   ResourceKind = "passengers"
	KindTokens       ResourceKind = "tokens"
	KindReports      ResourceKind = "reports"
)

const (
	loginPath  = "/api/auth/login"
	tokensPath = "/api/admin/tokens/"
)

var resourcePaths = map[ResourceKind]string{
	KindDashboard:    "/api/admin/dashboard",
	KindRecentTokens: "/api/admin/recent-tokens",
	KindHourlyStats:  "/api/admin/hourly-stats",
	KindPassengers:   "/api/admin/passengers",
	KindTokens:       "/api/admin/tokens",
	KindReports:      "/api/admin/reports",
}

// Fetch loads one named resource and returns the raw body. Every failure is a
// *FetchError.
func (c *Client) Fetch(ctx context.Context, kind ResourceKind, params url.Values) ([]byte, error) {
	path, ok := resourcePaths[kind]
	if !ok {
		return nil, &FetchError{Kind: kind, Err: ErrUnknownResource}
	}
	raw, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, &FetchError{Kind: kind, Err: err}
	}
	return raw, nil
}

func (c *Client) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	raw, err := c.Fetch(ctx, KindDashboard, nil)
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats, ok := payload.Object[models.DashboardStats](raw, "stats", "data")
	if !ok {
		c.log.Debug().Str("resource", string(KindDashboard)).Msg("payload normalized to zero stats")
	}
	return stats, nil
}

func (c *Client) RecentTokens(ctx context.Context) ([]models.Token, error) {
	raw, err := c.Fetch(ctx, KindRecentTokens, nil)
	if err != nil {
		return nil, err
	}
	return collection[models.Token](c.log, KindRecentTokens, raw, "recent_tokens", "tokens", "data"), nil
}

func (c *Client) HourlyStats(ctx context.Context) ([]models.HourlyStat, error) {
	raw, err := c.Fetch(ctx, KindHourlyStats, nil)
	if err != nil {
		return nil, err
	}
	return collection[models.HourlyStat](c.log, KindHourlyStats, raw, "hourly_stats", "stats", "data"), nil
}

func (c *Client) Tokens(ctx context.Context) ([]models.Token, error) {
	raw, err := c.Fetch(ctx, KindTokens, nil)
	if err != nil {
		return nil, err
	}
	return collection[models.Token](c.log, KindTokens, raw, "tokens", "data"), nil
}

func (c *Client) Passengers(ctx context.Context) ([]models.Passenger, error) {
	raw, err := c.Fetch(ctx, KindPassengers, nil)
	if err != nil {
		return nil, err
	}
	return collection[models.Passenger](c.log, KindPassengers, raw, "passengers", "data"), nil
}

func (c *Client) Reports(ctx context.Context, filters models.ReportFilters) ([]models.ReportRow, error) {
	raw, err := c.Fetch(ctx, KindReports, filters.Query())
	if err != nil {
		return nil, err
	}
	return collection[models.ReportRow](c.log, KindReports, raw, "reports", "rows", "data"), nil
}

// UpdateTokenStatus sends the status mutation. When the backend echoes the
// token back (bare or under "token"), echoed is true and the returned token
// carries the server's status. An echo must carry the requested id and a
// known token status; acknowledgements like {"status":"success"} are not
// echoes.
func (c *Client) UpdateTokenStatus(ctx context.Context, id, status string) (models.Token, bool, error) {
	raw, err := c.do(ctx, http.MethodPut, tokensPath+url.PathEscape(id), nil, models.StatusUpdateRequest{Status: status})
	if err != nil {
		return models.Token{}, false, err
	}
	token, ok := payload.Object[models.Token](raw, "token", "data")
	if !ok || token.ID.String() != id || !models.ValidTokenStatus(token.Status) {
		return models.Token{}, false, nil
	}
	return token, true, nil
}

// Login posts credentials and returns the raw response body. It never sends
// the current bearer token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) ([]byte, error) {
	return c.do(withoutAuth(ctx), http.MethodPost, loginPath, nil, req)
}

func collection[T any](log zerolog.Logger, kind ResourceKind, raw []byte, keys ...string) []T {
	items, err := payload.Collection[T](raw, keys...)
	if err != nil {
		log.Debug().Err(err).Str("resource", string(kind)).Msg("payload normalized to empty collection")
	}
	return items
}
