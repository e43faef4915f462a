package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bankbook-dev/bankbook/internal/model"
)

const (
	numFields = 6
	colID     = 0
	colCode   = 1
	colName   = 2
	colType   = 3
	colParent = 4
	colDesc   = 5
)

var accountHeader = []string{"account_id", "code", "account_name", "account_type", "parent_id", "description"}

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	records, err := readRecords(r, numFields)
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	var accounts []model.Account
	for i, rec := range records {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(accountHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colParent] = acct.ParentID
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return model.Account{}, fmt.Errorf("missing account_id")
	}

	acctType := model.AccountType(record[colType])
	switch acctType {
	case model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity,
		model.AccountTypeRevenue, model.AccountTypeExpense:
	default:
		return model.Account{}, fmt.Errorf("unknown account_type %q", record[colType])
	}

	return model.Account{
		ID:          record[colID],
		Code:        record[colCode],
		Name:        record[colName],
		Type:        acctType,
		ParentID:    record[colParent],
		Description: record[colDesc],
	}, nil
}

// ReadProjects reads projects.csv (project_id, project_name).
func ReadProjects(r io.Reader) ([]model.Project, error) {
	records, err := readRecords(r, 2)
	if err != nil {
		return nil, fmt.Errorf("reading projects CSV: %w", err)
	}
	var projects []model.Project
	for _, rec := range records {
		projects = append(projects, model.Project{ID: rec[0], Name: rec[1]})
	}
	return projects, nil
}

// ReadFundSources reads fund-sources.csv (fund_source_id, fund_source_name).
func ReadFundSources(r io.Reader) ([]model.FundSource, error) {
	records, err := readRecords(r, 2)
	if err != nil {
		return nil, fmt.Errorf("reading fund sources CSV: %w", err)
	}
	var sources []model.FundSource
	for _, rec := range records {
		sources = append(sources, model.FundSource{ID: rec[0], Name: rec[1]})
	}
	return sources, nil
}

// WriteNamed writes a two-column id,name CSV such as projects.csv.
func WriteNamed(w io.Writer, header [2]string, rows [][2]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header[:]); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row[:]); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// readRecords returns the data rows of a CSV with a header row.
func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}
