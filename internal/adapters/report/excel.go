// Package report はステータスログの Excel レポートを生成します。
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/stafftrack/stafftrack/internal/core/statuslog"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName    = "Status Report"
	timeLayout   = "2006-01-02 15:04:05"
	maxColWidth  = 50
	headerFill   = "4472C4"
	headerColor  = "FFFFFF"
	activeLabel  = "Active"
	noValueLabel = "N/A"
)

var headers = []string{
	"Employee", "Status", "Start Time", "End Time",
	"Planned End", "Duration (hours)", "Overdue (hours)", "Notes",
}

// BuildWorkbook はログ一覧からレポート用ワークブックを構築します。
// オープンログの継続時間は now までとして計算されます。
func BuildWorkbook(logs []*statuslog.Log, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: headerColor},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("report: header style: %w", err)
	}

	widths := make([]int, len(headers))
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("report: header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("report: header value: %w", err)
		}
		widths[col] = len(header)
	}

	firstHeader, _ := excelize.CoordinatesToCellName(1, 1)
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, firstHeader, lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("report: header cell style: %w", err)
	}

	for i, log := range logs {
		row := i + 2

		endValue := activeLabel
		if log.EndTime != nil {
			endValue = log.EndTime.Format(timeLayout)
		}

		plannedValue := noValueLabel
		if log.PlannedEndTime != nil {
			plannedValue = log.PlannedEndTime.Format(timeLayout)
		}

		durationHours := roundHours(float64(log.ElapsedSeconds(now)) / 3600)

		overdueHours := roundHours(float64(log.OverdueDuration) / 3600)
		if overdueHours <= 0 {
			overdueHours = 0
		}

		values := []any{
			log.EmployeeName,
			log.Status.Name,
			log.StartTime.Format(timeLayout),
			endValue,
			plannedValue,
			durationHours,
			overdueHours,
			log.Notes,
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("report: data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("report: data value: %w", err)
			}
			if width := len(fmt.Sprint(value)); width > widths[col] {
				widths[col] = width
			}
		}
	}

	for col := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("report: column name: %w", err)
		}
		width := widths[col] + 2
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheetName, name, name, float64(width)); err != nil {
			return nil, fmt.Errorf("report: column width: %w", err)
		}
	}

	return f, nil
}

// Filename はダウンロード時のファイル名を返します。
func Filename(now time.Time) string {
	return fmt.Sprintf("employee_status_report_%s.xlsx", now.Format("20060102_150405"))
}

func roundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
