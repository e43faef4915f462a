package classify

import (
	"github.com/shopspring/decimal"

	"github.com/bankbook-dev/bankbook/internal/model"
)

// Summary aggregates a classified import.
type Summary struct {
	Total        int
	Income       int
	Expense      int
	High         int
	Medium       int
	Low          int
	Learned      int
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
}

// Summarize counts rows by type, confidence tier and source, and totals the
// amounts of every row.
func Summarize(rows []model.ClassifiedTransaction) Summary {
	s := Summary{Total: len(rows), IncomeTotal: decimal.Zero, ExpenseTotal: decimal.Zero}
	for _, r := range rows {
		if r.Type == model.TypeIncome {
			s.Income++
			s.IncomeTotal = s.IncomeTotal.Add(r.Amount)
		} else {
			s.Expense++
			s.ExpenseTotal = s.ExpenseTotal.Add(r.Amount)
		}
		switch r.Confidence {
		case model.ConfidenceHigh:
			s.High++
		case model.ConfidenceMedium:
			s.Medium++
		default:
			s.Low++
		}
		if r.IsLearned {
			s.Learned++
		}
	}
	return s
}
