package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID          string
	Code        string
	Name        string
	Type        AccountType
	ParentID    string // "" = top-level
	Description string
}

// Project is a row in projects.csv.
type Project struct {
	ID   string
	Name string
}

// FundSource is a row in fund-sources.csv.
type FundSource struct {
	ID   string
	Name string
}
