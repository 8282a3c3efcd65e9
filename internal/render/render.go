// Package render prints view state as terminal tables. Status cells are
// colored by tone when the writer is a color-capable terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kunalgharate/token-generation-admin-panel/internal/export"
	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/stats"
)

var toneColors = map[models.Tone]lipgloss.Color{
	models.TonePrimary: lipgloss.Color("4"),
	models.ToneInfo:    lipgloss.Color("6"),
	models.ToneSuccess: lipgloss.Color("2"),
	models.ToneWarning: lipgloss.Color("3"),
	models.ToneError:   lipgloss.Color("1"),
}

type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	cell     lipgloss.Style
	header   lipgloss.Style
	title    lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Padding(0, 1)
	return &Printer{
		w:        w,
		renderer: r,
		cell:     cell,
		header:   cell.Bold(true),
		title:    r.NewStyle().Bold(true).Underline(true),
	}
}

func (p *Printer) Messagef(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) User(user models.User) {
	name := user.Name
	if name == "" {
		name = user.Username
	}
	p.Messagef("%s (%s) role=%s", name, user.Email, user.Role)
}

func (p *Printer) Dashboard(s models.DashboardStats, recent []models.Token, hourly []models.HourlyStat) {
	p.section("Today")
	p.table([]string{"Metric", "Value", "Trend"}, [][]string{
		{"Tokens", itoa(s.Today.TodayTokens.Int()), trend(float64(s.Today.TodayTokensTrend))},
		{"Passengers", itoa(s.Today.TodayPassengers.Int()), trend(float64(s.Today.TodayPassengersTrend))},
		{"Queue entries", itoa(s.Today.TodayQueueEntries.Int()), trend(float64(s.Today.TodayQueueEntriesTrend))},
		{"Completed", itoa(s.Today.TodayCompleted.Int()), trend(float64(s.Today.TodayCompletedTrend))},
	}, -1, nil)

	p.section("Totals")
	p.table([]string{"Metric", "Value"}, [][]string{
		{"Vehicles", itoa(s.Total.TotalVehicles.Int())},
		{"Tokens", itoa(s.Total.TotalTokens.Int())},
		{"Passengers", itoa(s.Total.TotalPassengers.Int())},
		{"Queue entries", itoa(s.Total.TotalQueueEntries.Int())},
	}, -1, nil)

	if len(recent) > 0 {
		p.section("Recent tokens")
		p.tokenTable(recent)
	}
	if len(hourly) > 0 {
		p.section("Hourly")
		rows := make([][]string, 0, len(hourly))
		for _, h := range hourly {
			rows = append(rows, []string{h.Hour.String(), itoa(h.Tokens.Int()), itoa(h.Passengers.Int())})
		}
		p.table([]string{"Hour", "Tokens", "Passengers"}, rows, -1, nil)
	}
}

func (p *Printer) Tokens(tokens []models.Token, summary stats.TokenSummary) {
	p.Messagef("total=%d today=%d pending=%d in_progress=%d completed=%d cancelled=%d",
		summary.Total, summary.Today, summary.Pending, summary.InProgress, summary.Completed, summary.Cancelled)
	p.tokenTable(tokens)
}

func (p *Printer) Passengers(passengers []models.Passenger, summary stats.PassengerSummary) {
	p.Messagef("total=%d today=%d active=%d completed=%d", summary.Total, summary.Today, summary.Active, summary.Completed)
	rows := make([][]string, 0, len(passengers))
	statuses := make([]string, 0, len(passengers))
	for _, ps := range passengers {
		rows = append(rows, []string{
			ps.ID.String(),
			dash(ps.Name),
			dash(ps.Phone.String()),
			dash(ps.TokenNumber.String()),
			models.StatusLabel(ps.Status),
			export.FormatTime(ps.CreatedAt),
		})
		statuses = append(statuses, ps.Status)
	}
	p.table([]string{"ID", "Name", "Phone", "Token", "Status", "Created"}, rows, 4, statuses)
}

func (p *Printer) Reports(rows []models.ReportRow, summary stats.ReportSummary) {
	p.Messagef("rows=%d passengers=%d/%d completed=%d", summary.Rows, summary.PassengersFilled, summary.Passengers, summary.Completed)
	cells := make([][]string, 0, len(rows))
	statuses := make([]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, export.Cells(row))
		statuses = append(statuses, row.Status)
	}
	p.table(export.Headers, cells, 3, statuses)
}

func (p *Printer) tokenTable(tokens []models.Token) {
	rows := make([][]string, 0, len(tokens))
	statuses := make([]string, 0, len(tokens))
	for _, t := range tokens {
		rows = append(rows, []string{
			t.ID.String(),
			dash(t.TokenNumber.String()),
			dash(t.PassengerName),
			dash(t.VehicleNumber),
			itoa(t.PassengerCount.Int()),
			models.StatusLabel(t.Status),
			export.FormatTime(t.CreatedAt),
		})
		statuses = append(statuses, t.Status)
	}
	p.table([]string{"ID", "Token", "Passenger", "Vehicle", "Count", "Status", "Created"}, rows, 5, statuses)
}

// table prints rows; statusCol, when non-negative, is colored by the tone of
// statuses[row].
func (p *Printer) table(headers []string, rows [][]string, statusCol int, statuses []string) {
	if len(rows) == 0 {
		p.Messagef("no records")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.renderer.NewStyle().Faint(true)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			if col == statusCol && row >= 0 && row < len(statuses) {
				if color, ok := toneColors[models.ToneFor(statuses[row])]; ok {
					return p.cell.Foreground(color)
				}
			}
			return p.cell
		})
	fmt.Fprintln(p.w, t.String())
}

func (p *Printer) section(name string) {
	fmt.Fprintln(p.w, p.title.Render(name))
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}

func trend(value float64) string {
	if value == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", value)
}

func dash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
