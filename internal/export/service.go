package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/apdesk/invoicelines/internal/invoice"
)

const sheetName = "Invoice Lines"

// Service produces XLSX bytes from projected rows.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteWorkbook returns an XLSX workbook (as bytes) with one sheet holding
// the header row and one row per invoice line item.
func (s *Service) WriteWorkbook(headers []string, rows [][]any, layout invoice.Layout) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14}) // m/d/yy
	if err != nil {
		return nil, err
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if t, ok := v.(time.Time); ok {
				_ = f.SetCellValue(sheetName, cell, t)
				_ = f.SetCellStyle(sheetName, cell, cell, dateStyle)
				continue
			}
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	applyColumnWidths(f, layout)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"sheet", sheetName,
		"layout", layout.String(),
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func applyColumnWidths(f *excelize.File, layout invoice.Layout) {
	widths := []float64{12, 18, 12, 10, 18, 18, 12, 20, 70, 6, 70, 10, 12, 16, 8, 18, 16, 20, 18}
	if layout == invoice.LayoutTaxed {
		widths = []float64{12, 18, 12, 10, 18, 18, 12, 20, 70, 6, 70, 10, 12, 16, 12, 18, 16, 20, 18, 14, 18}
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, w)
	}
}
