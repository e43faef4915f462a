package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankbook-dev/bankbook/internal/model"
)

func commitBatch(t *testing.T, s *Store, batchID string, descriptions ...string) model.ImportBatch {
	t.Helper()
	ctx := context.Background()
	b := model.ImportBatch{ID: batchID, TenantID: tenant, FileName: "kb.csv"}
	require.NoError(t, s.RecordBatch(ctx, b))
	b.Total = len(descriptions)
	for _, desc := range descriptions {
		p := pension()
		p.Description = desc
		p.BatchID = batchID
		txnID, err := s.Commit(ctx, tenant, p)
		require.NoError(t, err)
		b.TransactionIDs = append(b.TransactionIDs, txnID)
		b.Success++
	}
	require.NoError(t, s.FinishBatch(ctx, b))
	return b
}

func TestRecordAndGetBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := model.ImportBatch{
		ID:             "imp-20240305-aaaaaaaa",
		TenantID:       tenant,
		FileName:       "kb.csv",
		Total:          3,
		Success:        1,
		Duplicate:      1,
		Failed:         1,
		TransactionIDs: []string{"txn-1"},
		Errors:         []model.RowError{{RowIndex: 3, Error: "invalid account: no account selected"}},
	}
	require.NoError(t, s.RecordBatch(ctx, b))

	got, err := s.GetBatch(ctx, tenant, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "kb.csv", got.FileName)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Success)
	assert.Equal(t, 1, got.Duplicate)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, []string{"txn-1"}, got.TransactionIDs)
	assert.Equal(t, b.Errors, got.Errors)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.Undone())
}

func TestFinishBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := model.ImportBatch{ID: "imp-20240305-aaaaaaaa", TenantID: tenant, FileName: "kb.csv"}
	require.NoError(t, s.RecordBatch(ctx, b))

	pending, err := s.GetBatch(ctx, tenant, b.ID)
	require.NoError(t, err)
	assert.Zero(t, pending.Total)
	assert.Empty(t, pending.TransactionIDs)

	b.Total = 2
	b.Success = 1
	b.Failed = 1
	b.TransactionIDs = []string{"txn-1"}
	b.Errors = []model.RowError{{RowIndex: 2, Error: "invalid date: \"\" is not YYYY-MM-DD"}}
	require.NoError(t, s.FinishBatch(ctx, b))

	got, err := s.GetBatch(ctx, tenant, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Success)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, []string{"txn-1"}, got.TransactionIDs)
	assert.Equal(t, b.Errors, got.Errors)
	assert.True(t, pending.CreatedAt.Equal(got.CreatedAt))
}

func TestFinishBatch_NotRecorded(t *testing.T) {
	s := newTestStore(t)
	b := model.ImportBatch{ID: "imp-20240305-aaaaaaaa", TenantID: tenant}

	err := s.FinishBatch(context.Background(), b)

	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestGetBatch_OtherTenant(t *testing.T) {
	s := newTestStore(t)
	commitBatch(t, s, "imp-20240305-aaaaaaaa", "a")

	_, err := s.GetBatch(context.Background(), "tenant-b", "imp-20240305-aaaaaaaa")

	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestListBatches_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	commitBatch(t, s, "imp-20240305-aaaaaaaa", "a")
	commitBatch(t, s, "imp-20240305-bbbbbbbb", "b")

	list, err := s.ListBatches(context.Background(), tenant)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "imp-20240305-bbbbbbbb", list[0].ID)
	assert.Equal(t, "imp-20240305-aaaaaaaa", list[1].ID)
}

func TestUndoBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := commitBatch(t, s, "imp-20240305-aaaaaaaa", "a", "b")
	commitBatch(t, s, "imp-20240305-bbbbbbbb", "c")

	deleted, err := s.UndoBatch(ctx, tenant, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	txns, err := s.Transactions(ctx, tenant, "")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "c", txns[0].Description)

	got, err := s.GetBatch(ctx, tenant, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Undone())

	_, err = s.UndoBatch(ctx, tenant, first.ID)
	assert.ErrorIs(t, err, ErrBatchUndone)

	txns, err = s.Transactions(ctx, tenant, "")
	require.NoError(t, err)
	assert.Len(t, txns, 1, "second undo must not delete anything")
}

func TestUndoBatch_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UndoBatch(context.Background(), tenant, "imp-20240305-cccccccc")

	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestUndoBatch_AllowsRecommit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := commitBatch(t, s, "imp-20240305-aaaaaaaa", "a")

	_, err := s.UndoBatch(ctx, tenant, b.ID)
	require.NoError(t, err)

	p := pension()
	p.Description = "a"
	_, err = s.Commit(ctx, tenant, p)
	assert.NoError(t, err, "undone rows no longer count as duplicates")
}
