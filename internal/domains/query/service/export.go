package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"portfolio-backend/internal/domains/query"
)

const exportSheet = "Service queries"

// WriteWorkbook renders queries as an XLSX sheet, one row per query.
func WriteWorkbook(w io.Writer, queries []query.ServiceQuery) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"ID", "Name", "Email", "Subject", "Message", "Received At"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(exportSheet, "A1", "F1", headerStyle)
	}

	for i, q := range queries {
		row := i + 2
		values := []any{q.ID, q.Name, q.Email, q.Subject, q.Message, q.CreatedAt.UTC().Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(exportSheet, cell, v)
		}
	}

	f.SetColWidth(exportSheet, "B", "D", 28)
	f.SetColWidth(exportSheet, "E", "E", 80)
	f.SetColWidth(exportSheet, "F", "F", 20)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
