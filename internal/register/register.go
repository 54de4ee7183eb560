// Package register exports FIRs as a spreadsheet in the layout of the station's FIR register.
package register

import (
	"io"
	"log/slog"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "FIR Register"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var columns = []struct {
	header string
	width  float64
}{
	{"FIR Number", 24},
	{"Registered", 20},
	{"Complainant", 24},
	{"Contact", 14},
	{"Incident Type", 16},
	{"Incident Date", 14},
	{"Location", 24},
	{"Legal Sections", 40},
	{"Accused", 24},
	{"Status", 10},
}

// Write renders one row per FIR below a bold header row.
func Write(w io.Writer, firs []models.FIR) (err error) {
	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, errors.Wrap(f.Close(), "close workbook"))
	}()

	if err = f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{ //nolint:exhaustruct // only the font differs
		Font: &excelize.Font{Bold: true}, //nolint:exhaustruct // bold only
	})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}

	header := make([]any, 0, len(columns))
	for i, c := range columns {
		header = append(header, c.header)
		var col string
		if col, err = excelize.ColumnNumberToName(i + 1); err != nil {
			return errors.Wrap(err, "column name", slog.Int("column", i+1))
		}
		if err = f.SetColWidth(SheetName, col, col, c.width); err != nil {
			return errors.Wrap(err, "set column width", slog.String("column", col))
		}
	}
	if err = f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err = f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return errors.Wrap(err, "style header")
	}

	for i, fir := range firs {
		var cell string
		if cell, err = excelize.CoordinatesToCellName(1, i+2); err != nil { //nolint:mnd // below the header row
			return errors.Wrap(err, "cell name", slog.Int("row", i+2))
		}
		row := []any{
			fir.FIRNumber,
			fir.CreatedAt.Format("2006-01-02 15:04"),
			fir.ComplainantName,
			fir.ContactNumber,
			fir.IncidentType,
			fir.IncidentDate,
			fir.Location,
			sectionList(fir.LegalSections),
			accusedList(fir.AccusedList),
			string(fir.Status),
		}
		if err = f.SetSheetRow(SheetName, cell, &row); err != nil {
			return errors.Wrap(err, "write FIR row", slog.String("fir_number", fir.FIRNumber))
		}
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func sectionList(sections []models.FIRSection) string {
	numbers := make([]string, 0, len(sections))
	for _, s := range sections {
		numbers = append(numbers, s.SectionNumber+" ("+s.Title+")")
	}
	return strings.Join(numbers, ", ")
}

func accusedList(accused []models.Accused) string {
	names := make([]string, 0, len(accused))
	for _, a := range accused {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
