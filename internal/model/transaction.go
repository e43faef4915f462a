package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money for a bank row.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// AccountType returns the chart-of-accounts type that a transaction of this
// direction is booked against.
func (t TransactionType) AccountType() AccountType {
	if t == TypeIncome {
		return AccountTypeRevenue
	}
	return AccountTypeExpense
}

// Confidence is the trust tier attached to a classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Source records which classification tier produced a suggestion.
type Source string

const (
	SourceLearned Source = "learned"
	SourcePattern Source = "pattern"
	SourceDefault Source = "default"
)

// ParsedTransaction is one retained data row of an uploaded bank export.
type ParsedTransaction struct {
	RowIndex    int    // 1-based among retained rows
	Date        string // YYYY-MM-DD
	Description string
	Deposit     decimal.Decimal
	Withdrawal  decimal.Decimal
	Balance     decimal.Decimal
	Raw         map[string]string // header -> cell text
}

// Type infers the direction: any deposit makes the row income.
func (p ParsedTransaction) Type() TransactionType {
	if p.Deposit.IsPositive() {
		return TypeIncome
	}
	return TypeExpense
}

// Amount returns the nonzero side matching Type.
func (p ParsedTransaction) Amount() decimal.Decimal {
	if p.Type() == TypeIncome {
		return p.Deposit
	}
	return p.Withdrawal
}

// ClassifiedTransaction is a ParsedTransaction plus its suggested booking.
type ClassifiedTransaction struct {
	ParsedTransaction

	Type           TransactionType
	Amount         decimal.Decimal
	AccountID      string
	AccountName    string
	ProjectID      string
	ProjectName    string
	FundSourceID   string
	FundSourceName string
	Confidence     Confidence
	Source         Source
	IsLearned      bool
}

// Transaction is a committed ledger row.
type Transaction struct {
	ID           string
	TenantID     string
	Date         string
	Type         TransactionType
	Amount       decimal.Decimal
	Description  string
	AccountID    string
	ProjectID    string
	FundSourceID string
	BatchID      string
	CreatedAt    time.Time
}
