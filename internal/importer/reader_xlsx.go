package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first worksheet of an Excel workbook.
type XLSXReader struct{}

// Format returns the reader name.
func (r *XLSXReader) Format() string { return "xlsx" }

// Read returns raw cell values; numeric cells formatted as dates become
// native date cells.
func (r *XLSXReader) Read(in io.Reader) ([][]Cell, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dates := dateStyles{file: f, known: make(map[int]bool)}
	out := make([][]Cell, len(rows))
	for ri, row := range rows {
		cells := make([]Cell, len(row))
		for ci, v := range row {
			cells[ci] = Cell{Text: v}
			serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				continue
			}
			styleID, err := f.GetCellStyle(sheet, axis)
			if err != nil || !dates.isDate(styleID) {
				continue
			}
			tm, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			cells[ci] = Cell{Text: tm.Format(isoDate), Time: tm}
		}
		out[ri] = cells
	}
	return out, nil
}

// dateStyles caches whether a style ID carries a date number format.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d dateStyles) isDate(styleID int) bool {
	if v, ok := d.known[styleID]; ok {
		return v
	}
	v := false
	if style, err := d.file.GetStyle(styleID); err == nil && style != nil {
		v = isBuiltinDateFormat(style.NumFmt)
		if !v && style.CustomNumFmt != nil {
			v = isCustomDateFormat(*style.CustomNumFmt)
		}
	}
	d.known[styleID] = v
	return v
}

// isBuiltinDateFormat covers the built-in date IDs, including the CJK locale
// ranges Korean workbooks use. Time-only formats are excluded.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

var numFmtLiteral = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

func isCustomDateFormat(format string) bool {
	f := strings.ToLower(numFmtLiteral.ReplaceAllString(format, ""))
	return strings.ContainsAny(f, "yd")
}
