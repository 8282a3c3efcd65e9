// Package export writes report rows to downloadable files.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
	"github.com/kunalgharate/token-generation-admin-panel/internal/stats"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
)

const (
	DisplayTimeLayout = "02/01/2006 15:04"
	placeholder       = "-"
)

var ErrUnknownFormat = errors.New("unknown export format")

var Headers = []string{
	"Token",
	"Vehicle",
	"Passengers",
	"Status",
	"Queue #",
	"Queue Status",
	"Created By",
	"Created At",
}

type Report struct {
	Filters     models.ReportFilters
	Rows        []models.ReportRow
	Summary     stats.ReportSummary
	GeneratedAt time.Time
}

func NewReport(filters models.ReportFilters, rows []models.ReportRow, now time.Time) Report {
	return Report{Filters: filters, Rows: rows, Summary: stats.SummarizeReports(rows), GeneratedAt: now}
}

func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatCSV, "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Filename is the suggested download name for a report generated at t.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("report-%s.%s", t.Format("20060102-1504"), f)
}

func Write(w io.Writer, format Format, report Report) error {
	var data []byte
	var err error
	switch format {
	case FormatXLSX:
		data, err = NewExcelGenerator().Generate(report)
	case FormatPDF:
		data, err = NewPDFGenerator().Generate(report)
	case FormatCSV:
		return WriteCSV(w, report)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("generate %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

// Cells renders one row in Headers order.
func Cells(row models.ReportRow) []string {
	return []string{
		orPlaceholder(row.TokenNumber.String()),
		orPlaceholder(row.VehicleNumber),
		Occupancy(row),
		models.StatusLabel(row.Status),
		orPlaceholder(row.QueueNumber.String()),
		queueStatus(row.QueueStatus),
		orPlaceholder(row.CreatedBy),
		FormatTime(row.CreatedAt),
	}
}

// Occupancy renders filled seats over the vehicle's passenger count.
func Occupancy(row models.ReportRow) string {
	return fmt.Sprintf("%d/%d", row.PassengersFilled.Int(), row.PassengerCount.Int())
}

func FormatTime(ts models.Timestamp) string {
	if !ts.Valid {
		return placeholder
	}
	return ts.Time.Local().Format(DisplayTimeLayout)
}

func queueStatus(status string) string {
	if strings.TrimSpace(status) == "" {
		return placeholder
	}
	return models.StatusLabel(status)
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

// filterLines describes the applied filters, one line each.
func filterLines(filters models.ReportFilters) []string {
	lines := []string{}
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", label, value))
		}
	}
	add("Start date", filters.StartDate)
	add("End date", filters.EndDate)
	add("Vehicle", filters.VehicleNumber)
	add("Token", filters.TokenNumber)
	if len(lines) == 0 {
		lines = append(lines, "Filters: none")
	}
	return lines
}
