package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kunalgharate/token-generation-admin-panel/internal/export"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/views"
)

const defaultHistoryLimit = 20

func newDashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's and overall statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			view := views.NewDashboardView(a.client, a.log)
			defer view.Close()
			if err := view.Load(cmd.Context()); err != nil && !view.Loaded() {
				return err
			}
			a.out.Dashboard(view.Stats(), view.RecentTokens(), view.HourlyStats())
			return nil
		},
	}
}

func newTokensCommand(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "List tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			view := views.NewTokensView(a.client, a.log, a.viewOptions())
			defer view.Close()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			view.SetQuery(query)
			a.out.Tokens(view.Filtered(), view.Summary())
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search token number, passenger name or vehicle number")
	cmd.AddCommand(newTokenUpdateCommand(a), newTokenHistoryCommand(a))
	return cmd
}

func newTokenUpdateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <token-id> <status>",
		Short: "Change a token's status (pending, in_progress, completed, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			id, status := args[0], args[1]
			if !models.ValidTokenStatus(status) {
				return fmt.Errorf("%w: %q", views.ErrInvalidStatus, status)
			}

			view := views.NewTokensView(a.client, a.log, a.viewOptions())
			defer view.Close()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			update, err := view.UpdateStatus(cmd.Context(), id, status)
			if err != nil {
				if update != nil {
					a.out.Messagef("Token %s kept at %s", id, models.StatusLabel(update.Previous))
				}
				return err
			}
			token, _ := view.Token(id)
			a.out.Messagef("Token %s: %s -> %s", id, models.StatusLabel(update.Previous), models.StatusLabel(token.Status))
			return nil
		},
	}
}

func newTokenHistoryCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <token-id>",
		Short: "Show status changes made from this machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.journal == nil {
				return fmt.Errorf("status journal is disabled, set JOURNAL_PATH")
			}
			entries, err := a.journal.Recent(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				a.out.Messagef("no recorded changes for token %s", args[0])
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s  %s -> %s  %s", e.CreatedAt.Local().Format(export.DisplayTimeLayout), models.StatusLabel(e.FromStatus), models.StatusLabel(e.ToStatus), e.Outcome)
				if e.Detail != "" {
					line += "  (" + e.Detail + ")"
				}
				a.out.Messagef("%s", line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "number of entries")
	return cmd
}

func newPassengersCommand(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "passengers",
		Short: "List passengers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			view := views.NewPassengersView(a.client, a.log, a.viewOptions())
			defer view.Close()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			view.SetQuery(query)
			a.out.Passengers(view.Filtered(), view.Summary())
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search name, phone or token number")
	return cmd
}

type reportFlags struct {
	filters models.ReportFilters
	query   string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.filters.StartDate, "start-date", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.filters.EndDate, "end-date", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.filters.VehicleNumber, "vehicle", "", "vehicle number")
	cmd.Flags().StringVar(&f.filters.TokenNumber, "token", "", "token number")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "search the fetched rows")
}

func (f *reportFlags) load(cmd *cobra.Command, a *app) (*views.ReportsView, error) {
	if err := a.requireAdmin(); err != nil {
		return nil, err
	}
	view := views.NewReportsView(a.client, a.log)
	view.SetFilters(f.filters)
	if err := view.Apply(cmd.Context()); err != nil {
		view.Close()
		return nil, err
	}
	view.SetQuery(f.query)
	return view, nil
}

func newReportsCommand(a *app) *cobra.Command {
	flags := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Show token reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := flags.load(cmd, a)
			if err != nil {
				return err
			}
			defer view.Close()
			a.out.Reports(view.Filtered(), view.Summary())
			return nil
		},
	}
	flags.register(cmd)
	cmd.AddCommand(newReportExportCommand(a))
	return cmd
}

func newReportExportCommand(a *app) *cobra.Command {
	flags := &reportFlags{}
	var formatName, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export token reports to xlsx, pdf or csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			view, err := flags.load(cmd, a)
			if err != nil {
				return err
			}
			defer view.Close()

			now := time.Now()
			if output == "" {
				output = format.Filename(now)
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			rows := view.Filtered()
			if err := export.Write(file, format, export.NewReport(view.Filters(), rows, now)); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			a.out.Messagef("Wrote %d rows to %s", len(rows), output)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&formatName, "format", "f", string(export.FormatXLSX), "xlsx, pdf or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default report-<timestamp>.<format>)")
	return cmd
}
