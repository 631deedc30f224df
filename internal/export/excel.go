// Package export builds the xlsx workbooks served by the
// export-excel endpoints. Each builder takes an already-scoped
// collection; nothing here widens visibility.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/danmakarov/beauty-salon-api/internal/model"
)

// Services builds the service catalog workbook.
func Services(items []model.Service) (*excelize.File, error) {
	rows := make([][]any, 0, len(items))
	for _, s := range items {
		rows = append(rows, []any{s.Name, s.Price, s.DurationMin})
	}
	return build("Services", []string{"Name", "Price", "Duration (min)"}, rows)
}

// Masters builds the staff roster workbook. serviceNames maps master
// id to a comma-joined list of the services they perform.
func Masters(items []model.Master, serviceNames map[uint64]string) (*excelize.File, error) {
	rows := make([][]any, 0, len(items))
	for _, m := range items {
		rows = append(rows, []any{m.Name, m.Specialization, serviceNames[m.ID]})
	}
	return build("Masters", []string{"Name", "Specialization", "Services"}, rows)
}

// Appointments builds the bookings workbook with date and time split
// into separate columns.
func Appointments(items []model.AppointmentDetail) (*excelize.File, error) {
	rows := make([][]any, 0, len(items))
	for _, a := range items {
		rows = append(rows, []any{
			a.ClientName, a.ServiceName, a.MasterName,
			a.StartsAt.Format("02.01.2006"), a.StartsAt.Format("15:04"),
		})
	}
	return build("Appointments", []string{"Client", "Service", "Master", "Date", "Time"}, rows)
}

// build assembles one sheet: bold header row, data rows, and column
// widths sized to the longest cell plus padding.
func build(sheet string, headers []string, rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	widths := make([]int, len(headers))
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return nil, err
		}
		widths[col] = len(h)
	}

	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
			if n := len(fmt.Sprint(v)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, float64(w+2)); err != nil {
			return nil, err
		}
	}
	return f, nil
}
