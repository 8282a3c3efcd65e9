package export

import (
	"encoding/csv"
	"io"
)

func WriteCSV(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := writer.Write(Cells(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
