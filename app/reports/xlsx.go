package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DetailedXLSX renders the detailed report as a workbook for people
// who want formulas instead of a CSV import.
func DetailedXLSX(rows []Row, includeFine bool) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Report"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range detailedHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, r := range rows {
		total := r.Amount
		if includeFine {
			total += r.Fine
		}
		voided := ""
		if r.IsVoided() {
			voided = "Y"
		}
		values := []interface{}{
			r.Date, r.ReceiptNo, r.AdmNo, r.Name, r.Class, r.FeeHead,
			r.Amount, r.Fine, total, r.Mode, voided,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}
	return f, nil
}
