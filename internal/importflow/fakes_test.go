package importflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/bankbook-dev/bankbook/internal/accounts"
	"github.com/bankbook-dev/bankbook/internal/classify"
	"github.com/bankbook-dev/bankbook/internal/model"
	"github.com/bankbook-dev/bankbook/internal/store"
)

type mockLedger struct {
	commits   []store.CommitParams
	seen      map[string]string // duplicate key -> first batch
	failOn    map[string]error  // description -> error
	recordErr error
	finishErr error
	batches   map[string]model.ImportBatch
	undone    []string
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		seen:    make(map[string]string),
		failOn:  make(map[string]error),
		batches: make(map[string]model.ImportBatch),
	}
}

func (m *mockLedger) Commit(_ context.Context, _ string, p store.CommitParams) (string, error) {
	if err, ok := m.failOn[p.Description]; ok {
		return "", err
	}
	if p.AccountID == "" {
		return "", store.ValidationError{Field: "account", Reason: "no account selected"}
	}
	key := p.Date + "|" + string(p.Type) + "|" + p.Amount.String() + "|" + p.Description
	if first, ok := m.seen[key]; ok && first != p.BatchID && !p.AllowDuplicate {
		return "", store.ErrDuplicate
	}
	if _, ok := m.seen[key]; !ok {
		m.seen[key] = p.BatchID
	}
	m.commits = append(m.commits, p)
	return fmt.Sprintf("txn-%d", len(m.commits)), nil
}

func (m *mockLedger) RecordBatch(_ context.Context, b model.ImportBatch) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.batches[b.ID] = b
	return nil
}

func (m *mockLedger) FinishBatch(_ context.Context, b model.ImportBatch) error {
	if m.finishErr != nil {
		return m.finishErr
	}
	if _, ok := m.batches[b.ID]; !ok {
		return store.ErrBatchNotFound
	}
	m.batches[b.ID] = b
	return nil
}

func (m *mockLedger) UndoBatch(_ context.Context, _ string, batchID string) (int, error) {
	if _, ok := m.batches[batchID]; !ok {
		return 0, store.ErrBatchNotFound
	}
	for _, u := range m.undone {
		if u == batchID {
			return 0, store.ErrBatchUndone
		}
	}
	m.undone = append(m.undone, batchID)
	kept := m.commits[:0]
	deleted := 0
	for _, c := range m.commits {
		if c.BatchID == batchID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	m.commits = kept
	for key, first := range m.seen {
		if first == batchID {
			delete(m.seen, key)
		}
	}
	return deleted, nil
}

type upsert struct {
	description, accountID, projectID, fundSourceID string
}

type mockLearning struct {
	upserts  []upsert
	snapshot classify.Learned
	err      error
}

func (m *mockLearning) Upsert(_ context.Context, _ string, description, accountID, projectID, fundSourceID string) error {
	if m.err != nil {
		return m.err
	}
	m.upserts = append(m.upserts, upsert{description, accountID, projectID, fundSourceID})
	return nil
}

func (m *mockLearning) Snapshot(context.Context, string) (classify.Learned, error) {
	return m.snapshot, nil
}

var errBoom = errors.New("boom")

func testDirectory(t *testing.T) *accounts.Directory {
	t.Helper()
	f, err := os.Open("../../testdata/chart-of-accounts.csv")
	require.NoError(t, err)
	defer f.Close()
	accts, err := accounts.ReadAccounts(f)
	require.NoError(t, err)

	f, err = os.Open("../../testdata/projects.csv")
	require.NoError(t, err)
	defer f.Close()
	projects, err := accounts.ReadProjects(f)
	require.NoError(t, err)

	f, err = os.Open("../../testdata/fund-sources.csv")
	require.NoError(t, err)
	defer f.Close()
	sources, err := accounts.ReadFundSources(f)
	require.NoError(t, err)

	return accounts.NewDirectory(accts, projects, sources)
}

func testOptions(t *testing.T, ledger Ledger, learning LearningStore) (Options, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts := Options{
		Tenant:    "tenant-a",
		Directory: testDirectory(t),
		Ledger:    ledger,
		Logger:    logger,
	}
	if learning != nil {
		opts.Learning = learning
	}
	return opts, hook
}

func uploadKB(t *testing.T, s *Session) {
	t.Helper()
	f, err := os.Open("../../testdata/kb_statement.csv")
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, s.Upload(context.Background(), "kb_statement.csv", f))
}

func ptr(s string) *string { return &s }
