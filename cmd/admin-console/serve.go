package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kunalgharate/token-generation-admin-panel/internal/httpapi"
)

func newServeCommand(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console views as JSON on a local port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if port == 0 {
				port = a.cfg.Console.Port
			}

			options := httpapi.Options{}
			if a.journal != nil {
				options.Journal = a.journal
				options.History = a.journal
			}
			handler := httpapi.NewHandler(a.client, a.log, options)
			limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
				PerMinute:      a.cfg.Console.RatePerMinute,
				Burst:          a.cfg.Console.RateBurst,
				WritePerMinute: a.cfg.Console.WritePerMinute,
			})

			server := &http.Server{
				Addr:         fmt.Sprintf("%s:%d", a.cfg.Console.Host, port),
				Handler:      otelhttp.NewHandler(httpapi.LoggingMiddleware(a.log, limiter.Middleware(handler.Routes())), serviceName),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", server.Addr).Msg("admin console listening")
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				a.log.Error().Err(err).Msg("shutdown error")
				return err
			}
			a.log.Info().Msg("admin console stopped")
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (CONSOLE_PORT, default 8085)")
	return cmd
}
