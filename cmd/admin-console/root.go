package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// run executes the command tree and always releases what init acquired.
// Cobra skips post-run hooks when RunE fails, so close happens here.
func run(ctx context.Context, a *app, args []string) error {
	root := newRootCommand(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close(ctx))
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin-console",
		Short:         "Admin console for the temple token queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("env", "", "environment: development or production (APP_ENV)")
	flags.String("base-url", "", "backend base URL, overrides the environment default (API_BASE_URL)")
	flags.String("log-level", "", "log level (LOG_LEVEL)")
	_ = a.v.BindPFlag("APP_ENV", flags.Lookup("env"))
	_ = a.v.BindPFlag("API_BASE_URL", flags.Lookup("base-url"))
	_ = a.v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newDashboardCommand(a),
		newTokensCommand(a),
		newPassengersCommand(a),
		newReportsCommand(a),
		newServeCommand(a),
	)
	return root
}
