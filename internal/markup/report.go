package markup

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Findings"

// WriteText lists findings one per line.
func WriteText(w io.Writer, findings []Finding) error {
	for _, f := range findings {
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteXLSX writes findings as a spreadsheet, one row per finding.
func WriteXLSX(w io.Writer, findings []Finding) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	header := []any{"Source", "Severity", "Rule", "Element", "Message"}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, finding := range findings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{finding.Source, string(finding.Severity), finding.Rule, finding.Element, finding.Message}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.AutoFilter(reportSheet, fmt.Sprintf("A1:E%d", len(findings)+1), nil); err != nil {
		return fmt.Errorf("add filter: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
