package store

import (
	"context"
	"fmt"

	"github.com/bankbook-dev/bankbook/internal/classify"
	"github.com/bankbook-dev/bankbook/internal/model"
)

// Upsert records a confirmed description -> account mapping for a tenant.
// A new key starts at confidence 1.0 and usage 1; an existing key is
// overwritten, reset to confidence 1.0 and its usage incremented.
func (s *Store) Upsert(ctx context.Context, tenant, description, accountID, projectID, fundSourceID string) error {
	norm := classify.Normalize(description)
	if norm == "" {
		return ValidationError{Field: "description", Reason: "nothing left after normalisation"}
	}
	if accountID == "" {
		return ValidationError{Field: "account", Reason: "no account selected"}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learned_classifications
		 (tenant_id, normalized_description, description, account_id, project_id, fund_source_id, confidence, usage_count, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 1.0, 1, ?)
		 ON CONFLICT(tenant_id, normalized_description) DO UPDATE SET
		   description = excluded.description,
		   account_id = excluded.account_id,
		   project_id = excluded.project_id,
		   fund_source_id = excluded.fund_source_id,
		   confidence = 1.0,
		   usage_count = learned_classifications.usage_count + 1,
		   updated_at = excluded.updated_at`,
		tenant, norm, description, accountID, projectID, fundSourceID, formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("upserting learned classification: %w", err)
	}
	return nil
}

// ListLearned returns a tenant's learned classifications, most used first.
func (s *Store) ListLearned(ctx context.Context, tenant string) ([]model.LearnedClassification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tenant_id, normalized_description, description, account_id, project_id, fund_source_id,
		        confidence, usage_count, updated_at
		 FROM learned_classifications WHERE tenant_id = ?
		 ORDER BY usage_count DESC, normalized_description`, tenant)
	if err != nil {
		return nil, fmt.Errorf("querying learned classifications: %w", err)
	}
	defer rows.Close()

	var result []model.LearnedClassification
	for rows.Next() {
		var (
			l       model.LearnedClassification
			updated string
		)
		if err := rows.Scan(&l.TenantID, &l.NormalizedDescription, &l.Description, &l.AccountID,
			&l.ProjectID, &l.FundSourceID, &l.Confidence, &l.UsageCount, &updated); err != nil {
			return nil, fmt.Errorf("scanning learned classification: %w", err)
		}
		if l.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// Snapshot returns a tenant's learned classifications keyed by normalised
// description.
func (s *Store) Snapshot(ctx context.Context, tenant string) (classify.Learned, error) {
	list, err := s.ListLearned(ctx, tenant)
	if err != nil {
		return nil, err
	}
	snap := make(classify.Learned, len(list))
	for _, l := range list {
		snap[l.NormalizedDescription] = l
	}
	return snap, nil
}

// ForgetLearned removes the learned classification for a description.
func (s *Store) ForgetLearned(ctx context.Context, tenant, description string) error {
	norm := classify.Normalize(description)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM learned_classifications WHERE tenant_id = ? AND normalized_description = ?`,
		tenant, norm)
	if err != nil {
		return fmt.Errorf("deleting learned classification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting deleted classifications: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrLearnedNotFound, description)
	}
	return nil
}
