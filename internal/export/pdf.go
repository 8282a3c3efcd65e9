package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

var columnWidths = []float64{28, 36, 28, 32, 24, 32, 45, 42}

type PDFGenerator struct {
	fontName string
}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{fontName: "Helvetica"}
}

func (g *PDFGenerator) Generate(report Report) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Token Report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", report.GeneratedAt.Format(DisplayTimeLayout)), "", 1, "C", false, 0, "")
	for _, line := range filterLines(report.Filters) {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Rows: %d   Passengers: %d/%d   Completed: %d",
		report.Summary.Rows,
		report.Summary.PassengersFilled,
		report.Summary.Passengers,
		report.Summary.Completed,
	), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	drawTableRow(pdf, g.fontName, Headers, true)
	for _, row := range report.Rows {
		cells := Cells(row)
		for i := range cells {
			cells[i] = tr(cells[i])
		}
		drawTableRow(pdf, g.fontName, cells, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i == 2 || i == 4 {
			align = "R"
		}
		pdf.CellFormat(columnWidths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
