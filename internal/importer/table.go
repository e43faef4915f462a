package importer

import (
	"errors"
	"strings"
)

const (
	// headerSearchRows is how many leading rows may hold the header.
	headerSearchRows = 5
	// headerMinCells is the number of non-empty cells a header row needs.
	headerMinCells = 3
)

var (
	ErrTooFewRows = errors.New("file has fewer than 2 rows")
	ErrNoHeader   = errors.New("no header row with at least 3 columns in the first 5 rows")
	ErrNoDataRows = errors.New("no data rows after the header row")
)

// Table is a bank export split into its header row and the data rows below it.
type Table struct {
	Headers   []string
	Rows      [][]Cell
	HeaderRow int // 0-based physical row of the header
}

// LocateHeader treats the first of the leading rows with enough non-empty
// cells as the header. Rows above it are discarded.
func LocateHeader(rows [][]Cell) (Table, error) {
	if len(rows) < 2 {
		return Table{}, ErrTooFewRows
	}

	limit := min(headerSearchRows, len(rows))
	for i := 0; i < limit; i++ {
		if nonEmpty(rows[i]) < headerMinCells {
			continue
		}
		data := rows[i+1:]
		if len(data) == 0 {
			return Table{}, ErrNoDataRows
		}
		headers := make([]string, len(rows[i]))
		for j, c := range rows[i] {
			headers[j] = strings.TrimSpace(c.Text)
		}
		return Table{Headers: headers, Rows: data, HeaderRow: i}, nil
	}
	return Table{}, ErrNoHeader
}

func nonEmpty(row []Cell) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c.Text) != "" {
			n++
		}
	}
	return n
}

// columnIndex maps each header to its first position.
func (t Table) columnIndex() map[string]int {
	idx := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if h == "" {
			continue
		}
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}
