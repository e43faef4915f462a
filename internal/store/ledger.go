package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankbook-dev/bankbook/internal/id"
	"github.com/bankbook-dev/bankbook/internal/model"
)

// CommitParams holds one transaction to append to a tenant's ledger.
type CommitParams struct {
	Date         string
	Type         model.TransactionType
	Amount       decimal.Decimal
	Description  string
	AccountID    string
	ProjectID    string
	FundSourceID string
	BatchID      string

	// AllowDuplicate commits even when an identical transaction exists.
	AllowDuplicate bool
}

func (p CommitParams) validate() error {
	if _, err := time.Parse(time.DateOnly, p.Date); err != nil {
		return ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", p.Date)}
	}
	if p.Type != model.TypeIncome && p.Type != model.TypeExpense {
		return ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", p.Type)}
	}
	if !p.Amount.IsPositive() {
		return ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if p.AccountID == "" {
		return ValidationError{Field: "account", Reason: "no account selected"}
	}
	return nil
}

// Commit validates and inserts a transaction, returning its ID. It returns
// ErrDuplicate when the tenant already has a transaction with the same date,
// type, amount and description in another batch. Identical rows of one batch
// are distinct statement lines and are all committed.
func (s *Store) Commit(ctx context.Context, tenant string, p CommitParams) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	amount := p.Amount.String()

	if !p.AllowDuplicate {
		var one int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM transactions
			 WHERE tenant_id = ? AND date = ? AND type = ? AND amount = ? AND description = ?
			   AND (? = '' OR batch_id <> ?)
			 LIMIT 1`,
			tenant, p.Date, string(p.Type), amount, p.Description, p.BatchID, p.BatchID,
		).Scan(&one)
		switch {
		case err == nil:
			return "", ErrDuplicate
		case !errors.Is(err, sql.ErrNoRows):
			return "", fmt.Errorf("checking duplicate: %w", err)
		}
	}

	txnID := id.NewTransactionID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (id, tenant_id, date, type, amount, description, account_id, project_id, fund_source_id, batch_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txnID, tenant, p.Date, string(p.Type), amount, p.Description,
		p.AccountID, p.ProjectID, p.FundSourceID, p.BatchID, formatTime(s.now()),
	)
	if err != nil {
		return "", fmt.Errorf("inserting transaction: %w", err)
	}
	return txnID, nil
}

// Transactions returns a tenant's ledger ordered by date. A non-empty batchID
// restricts the result to that batch.
func (s *Store) Transactions(ctx context.Context, tenant, batchID string) ([]model.Transaction, error) {
	query := `SELECT id, tenant_id, date, type, amount, description, account_id, project_id, fund_source_id, batch_id, created_at
		FROM transactions WHERE tenant_id = ?`
	args := []any{tenant}
	if batchID != "" {
		query += ` AND batch_id = ?`
		args = append(args, batchID)
	}
	query += ` ORDER BY date, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		var (
			t                 model.Transaction
			typ, amount, when string
		)
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Date, &typ, &amount, &t.Description,
			&t.AccountID, &t.ProjectID, &t.FundSourceID, &t.BatchID, &when); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Type = model.TransactionType(typ)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s: parsing amount %q: %w", t.ID, amount, err)
		}
		if t.CreatedAt, err = parseTime(when); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
