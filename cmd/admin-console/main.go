package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kunalgharate/token-generation-admin-panel/internal/apiclient"
	"github.com/kunalgharate/token-generation-admin-panel/internal/auth"
	"github.com/kunalgharate/token-generation-admin-panel/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, &app{v: config.NewViper()}, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", userMessage(err))
		os.Exit(1)
	}
}

// userMessage prefers the text the backend or the login flow produced over
// the full wrapped error chain.
func userMessage(err error) string {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	var serverErr *apiclient.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message()
	}
	var networkErr *apiclient.NetworkError
	if errors.As(err, &networkErr) {
		if networkErr.Timeout() {
			return "backend did not respond in time"
		}
		return "backend unreachable: " + networkErr.Err.Error()
	}
	return err.Error()
}
