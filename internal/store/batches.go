package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bankbook-dev/bankbook/internal/model"
)

const batchColumns = `id, tenant_id, file_name, total, success, duplicate, failed, transaction_ids, errors, created_at, undone_at`

// RecordBatch stores a batch row. Confirm records the batch before committing
// its transactions so a partly committed import is always undoable. A zero
// CreatedAt is set to the current time.
func (s *Store) RecordBatch(ctx context.Context, b model.ImportBatch) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	idsJSON, errsJSON, err := encodeOutcome(b)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO import_batches (`+batchColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		b.ID, b.TenantID, b.FileName, b.Total, b.Success, b.Duplicate, b.Failed,
		idsJSON, errsJSON, formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting batch %s: %w", b.ID, err)
	}
	return nil
}

// FinishBatch writes the counts, transaction IDs and row errors of a recorded
// batch. It returns ErrBatchNotFound if the batch was never recorded.
func (s *Store) FinishBatch(ctx context.Context, b model.ImportBatch) error {
	idsJSON, errsJSON, err := encodeOutcome(b)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE import_batches
		 SET total = ?, success = ?, duplicate = ?, failed = ?, transaction_ids = ?, errors = ?
		 WHERE tenant_id = ? AND id = ?`,
		b.Total, b.Success, b.Duplicate, b.Failed, idsJSON, errsJSON, b.TenantID, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating batch %s: %w", b.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating batch %s: %w", b.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, b.ID)
	}
	return nil
}

func encodeOutcome(b model.ImportBatch) (string, string, error) {
	txnIDs := b.TransactionIDs
	if txnIDs == nil {
		txnIDs = []string{}
	}
	rowErrs := b.Errors
	if rowErrs == nil {
		rowErrs = []model.RowError{}
	}
	idsJSON, err := json.Marshal(txnIDs)
	if err != nil {
		return "", "", fmt.Errorf("encoding transaction ids: %w", err)
	}
	errsJSON, err := json.Marshal(rowErrs)
	if err != nil {
		return "", "", fmt.Errorf("encoding row errors: %w", err)
	}
	return string(idsJSON), string(errsJSON), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(row scanner) (model.ImportBatch, error) {
	var (
		b                 model.ImportBatch
		idsJSON, errsJSON string
		created           string
		undone            sql.NullString
	)
	if err := row.Scan(&b.ID, &b.TenantID, &b.FileName, &b.Total, &b.Success, &b.Duplicate, &b.Failed,
		&idsJSON, &errsJSON, &created, &undone); err != nil {
		return model.ImportBatch{}, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &b.TransactionIDs); err != nil {
		return model.ImportBatch{}, fmt.Errorf("batch %s: decoding transaction ids: %w", b.ID, err)
	}
	if err := json.Unmarshal([]byte(errsJSON), &b.Errors); err != nil {
		return model.ImportBatch{}, fmt.Errorf("batch %s: decoding row errors: %w", b.ID, err)
	}
	var err error
	if b.CreatedAt, err = parseTime(created); err != nil {
		return model.ImportBatch{}, err
	}
	if undone.Valid {
		t, err := parseTime(undone.String)
		if err != nil {
			return model.ImportBatch{}, err
		}
		b.UndoneAt = &t
	}
	return b, nil
}

// GetBatch returns one of a tenant's batches or ErrBatchNotFound.
func (s *Store) GetBatch(ctx context.Context, tenant, batchID string) (model.ImportBatch, error) {
	return getBatch(ctx, s.db, tenant, batchID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getBatch(ctx context.Context, q queryRower, tenant, batchID string) (model.ImportBatch, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+batchColumns+` FROM import_batches WHERE tenant_id = ? AND id = ?`, tenant, batchID)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ImportBatch{}, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("loading batch %s: %w", batchID, err)
	}
	return b, nil
}

// ListBatches returns a tenant's batches, newest first.
func (s *Store) ListBatches(ctx context.Context, tenant string) ([]model.ImportBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+batchColumns+` FROM import_batches WHERE tenant_id = ? ORDER BY created_at DESC, id DESC`, tenant)
	if err != nil {
		return nil, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var result []model.ImportBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// UndoBatch deletes every transaction of a batch and marks it undone, in one
// SQL transaction. It returns the number of deleted transactions.
func (s *Store) UndoBatch(ctx context.Context, tenant, batchID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning undo: %w", err)
	}
	defer tx.Rollback()

	b, err := getBatch(ctx, tx, tenant, batchID)
	if err != nil {
		return 0, err
	}
	if b.Undone() {
		return 0, fmt.Errorf("%w: %s", ErrBatchUndone, batchID)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE tenant_id = ? AND batch_id = ?`, tenant, batchID)
	if err != nil {
		return 0, fmt.Errorf("deleting batch transactions: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted transactions: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE import_batches SET undone_at = ? WHERE tenant_id = ? AND id = ?`,
		formatTime(s.now()), tenant, batchID); err != nil {
		return 0, fmt.Errorf("marking batch undone: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing undo: %w", err)
	}
	return int(deleted), nil
}
