package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	rowsSheet    = "Tokens"
)

type ExcelGenerator struct{}

func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

func (g *ExcelGenerator) Generate(report Report) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, report)

	if _, err := file.NewSheet(rowsSheet); err != nil {
		return nil, err
	}
	if err := g.writeRows(file, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeSummary(file *excelize.File, report Report) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Generated")
	set("B1", report.GeneratedAt.Format(DisplayTimeLayout))
	set("A2", "Rows")
	set("B2", report.Summary.Rows)
	set("A3", "Passengers")
	set("B3", report.Summary.Passengers)
	set("A4", "Passengers filled")
	set("B4", report.Summary.PassengersFilled)
	set("A5", "Completed")
	set("B5", report.Summary.Completed)

	for i, line := range filterLines(report.Filters) {
		set(fmt.Sprintf("A%d", 7+i), line)
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 20)
}

func (g *ExcelGenerator) writeRows(file *excelize.File, report Report) error {
	for i, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = file.SetCellValue(rowsSheet, cell, header)
	}

	for r, row := range report.Rows {
		for c, value := range Cells(row) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			_ = file.SetCellValue(rowsSheet, cell, value)
		}
	}

	_ = file.SetColWidth(rowsSheet, "A", "B", 16)
	_ = file.SetColWidth(rowsSheet, "C", "F", 14)
	_ = file.SetColWidth(rowsSheet, "G", "G", 20)
	_ = file.SetColWidth(rowsSheet, "H", "H", 18)
	return nil
}
