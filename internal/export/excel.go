// Package export renders the project register as an XLSX workbook.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"civicworks/internal/models"
	"civicworks/internal/timeline"
)

// ProjectRow pairs a project with its paid-to-date total.
type ProjectRow struct {
	Project models.Project
	Paid    float64
}

var registerHeader = []string{
	"ID", "Name", "Division", "Category", "Agency",
	"Approved Amount", "Paid Amount", "Physical %", "Financial %",
	"Status", "Completion Date", "Revised Completion", "Work Status", "DLP Status",
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02-01-2006")
}

// ProjectRegister builds the workbook; the caller owns closing it.
func ProjectRegister(rows []ProjectRow, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Projects"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range registerHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		p := row.Project
		report := timeline.Compute(timeline.Input{
			CompletionDate:        p.CompletionDate,
			RevisedCompletionDate: p.RevisedCompletionDate,
			DLP:                   p.DLP,
			Status:                p.Status,
		}, now)

		values := []interface{}{
			p.ID, p.Name, p.Division, p.Category, p.Agency,
			p.ApprovedAmount, row.Paid, p.PhysicalProgress, p.FinancialProgress,
			string(p.Status), fmtDate(p.CompletionDate), fmtDate(p.RevisedCompletionDate),
			string(report.Work.Status), string(report.DLP.Status),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// Filename returns the attachment name for a register exported at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("project-register-%s.xlsx", t.Format("20060102"))
}
