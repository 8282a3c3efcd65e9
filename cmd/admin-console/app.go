package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kunalgharate/token-generation-admin-panel/internal/apiclient"
	"github.com/kunalgharate/token-generation-admin-panel/internal/auth"
	"github.com/kunalgharate/token-generation-admin-panel/internal/config"
	"github.com/kunalgharate/token-generation-admin-panel/internal/journal"
	"github.com/kunalgharate/token-generation-admin-panel/internal/logger"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/render"
	"github.com/kunalgharate/token-generation-admin-panel/internal/session"
	"github.com/kunalgharate/token-generation-admin-panel/internal/telemetry"
	"github.com/kunalgharate/token-generation-admin-panel/internal/views"
)

const serviceName = "admin-console"

var errNotLoggedIn = errors.New("not logged in, run `admin-console login` first")

// app carries everything a command needs. It is populated once per
// invocation by the root command's pre-run hook.
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	log      zerolog.Logger
	session  *session.Session
	store    *session.FileStore
	client   *apiclient.Client
	journal  *journal.Journal
	out      *render.Printer
	shutdown func(context.Context) error
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Environment, cfg.LogLevel)
	a.out = render.NewPrinter(cmd.OutOrStdout())
	a.shutdown = telemetry.Setup(telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	}, a.log)

	a.session = session.New()
	a.store = session.NewFileStore(cfg.Session.File, cfg.Session.Key)
	switch err := a.store.Load(a.session); {
	case err == nil, errors.Is(err, session.ErrNoSession):
	case errors.Is(err, session.ErrSessionExpired):
		a.log.Info().Msg("stored session expired, discarding")
		if err := a.store.Clear(); err != nil {
			a.log.Warn().Err(err).Msg("remove expired session")
		}
	default:
		a.log.Warn().Err(err).Str("path", a.store.Path()).Msg("ignoring unreadable session")
	}

	client, err := apiclient.New(apiclient.Options{
		BaseURL:   cfg.API.BaseURL,
		DevOrigin: cfg.API.DevOrigin,
	}, a.session, a.log)
	if err != nil {
		return err
	}
	a.client = client

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		a.journal = j
	}

	a.log.Debug().
		Str("env", cfg.Environment).
		Str("base_url", client.BaseURL()).
		Bool("journal", a.journal != nil).
		Msg("console ready")
	return nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(context.WithoutCancel(ctx)))
	}
	return errors.Join(errs...)
}

// requireAdmin gates every backend command on a stored admin session.
func (a *app) requireAdmin() error {
	if !a.session.Authenticated() {
		return errNotLoggedIn
	}
	if a.session.User().Role != models.RoleAdmin {
		return &auth.Error{Reason: auth.ReasonAccessDenied, Message: auth.MessageAccessDenied}
	}
	return nil
}

func (a *app) authenticator() *auth.Authenticator {
	return auth.NewAuthenticator(a.client, a.session, a.log,
		auth.WithStore(a.store),
		auth.OnLogin(func(user models.User, token string) {
			a.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("logged in")
		}),
	)
}

func (a *app) viewOptions() views.Options {
	options := views.Options{}
	if a.journal != nil {
		options.Journal = a.journal
	}
	return options
}
