package importer

import (
	"strings"

	"github.com/bankbook-dev/bankbook/internal/model"
	"github.com/bankbook-dev/bankbook/internal/template"
)

// ExtractStats counts what happened to the data rows of a table.
type ExtractStats struct {
	DataRows int
	Retained int
	Dropped  int
}

// Extract turns data rows into parsed transactions using mapping. A row is
// kept only when it has a date and a nonzero deposit or withdrawal; every
// other row is dropped without error.
func Extract(t Table, mapping template.ColumnMapping) ([]model.ParsedTransaction, ExtractStats) {
	idx := t.columnIndex()
	cell := func(row []Cell, header string) Cell {
		if header == "" {
			return Cell{}
		}
		i, ok := idx[header]
		if !ok || i >= len(row) {
			return Cell{}
		}
		return row[i]
	}

	stats := ExtractStats{DataRows: len(t.Rows)}
	var txns []model.ParsedTransaction
	for _, row := range t.Rows {
		date := ParseDate(cell(row, mapping.Date))
		deposit := ParseAmount(cell(row, mapping.Deposit).Text)
		withdrawal := ParseAmount(cell(row, mapping.Withdrawal).Text)
		if date == "" || (deposit.IsZero() && withdrawal.IsZero()) {
			stats.Dropped++
			continue
		}

		txns = append(txns, model.ParsedTransaction{
			RowIndex:    len(txns) + 1,
			Date:        date,
			Description: strings.TrimSpace(cell(row, mapping.Description).Text),
			Deposit:     deposit,
			Withdrawal:  withdrawal,
			Balance:     ParseAmount(cell(row, mapping.Balance).Text),
			Raw:         rawRecord(t.Headers, row),
		})
	}
	stats.Retained = len(txns)
	return txns, stats
}

func rawRecord(headers []string, row []Cell) map[string]string {
	raw := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if _, ok := raw[h]; ok {
			continue
		}
		if i < len(row) {
			raw[h] = row[i].Text
		} else {
			raw[h] = ""
		}
	}
	return raw
}
