package importer

import "time"

const isoDate = "2006-01-02"

// Cell is one spreadsheet cell. Time is set only for native date cells.
type Cell struct {
	Text string
	Time time.Time
}

// IsDate reports whether the cell carried a native date value.
func (c Cell) IsDate() bool {
	return !c.Time.IsZero()
}

// TextCells wraps plain strings as cells.
func TextCells(values ...string) []Cell {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Text: v}
	}
	return cells
}
