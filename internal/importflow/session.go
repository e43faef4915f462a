// Package importflow drives one bank statement import through upload,
// column mapping, classification, confirmation and undo.
package importflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bankbook-dev/bankbook/internal/classify"
	"github.com/bankbook-dev/bankbook/internal/id"
	"github.com/bankbook-dev/bankbook/internal/importer"
	"github.com/bankbook-dev/bankbook/internal/model"
	"github.com/bankbook-dev/bankbook/internal/store"
	"github.com/bankbook-dev/bankbook/internal/template"
)

// State is a step of the import wizard.
type State string

const (
	StateUpload   State = "upload"
	StateMapping  State = "mapping"
	StateClassify State = "classify"
	StateConfirm  State = "confirm"
	StateResult   State = "result"
	StateUndone   State = "undone"
)

// maxRowErrors bounds the error detail kept on a batch.
const maxRowErrors = 100

// Ledger commits transactions and records and undoes batches.
type Ledger interface {
	Commit(ctx context.Context, tenant string, p store.CommitParams) (string, error)
	RecordBatch(ctx context.Context, b model.ImportBatch) error
	FinishBatch(ctx context.Context, b model.ImportBatch) error
	UndoBatch(ctx context.Context, tenant, batchID string) (int, error)
}

// LearningStore remembers confirmed classifications.
type LearningStore interface {
	Upsert(ctx context.Context, tenant, description, accountID, projectID, fundSourceID string) error
	Snapshot(ctx context.Context, tenant string) (classify.Learned, error)
}

// Options configures a Session.
type Options struct {
	Tenant    string
	Registry  *importer.Registry
	Directory classify.Directory
	Ledger    Ledger
	Learning  LearningStore // optional
	Classify  classify.Options

	// AllowDuplicates commits rows even when an identical transaction exists.
	AllowDuplicates bool

	Logger logrus.FieldLogger
	Now    func() time.Time
}

// Override replaces parts of a row's suggested booking. Nil fields keep the
// suggestion; an empty project or fund source clears it.
type Override struct {
	AccountID    *string
	ProjectID    *string
	FundSourceID *string
}

// Row is a classified row with the user's edits applied.
type Row struct {
	model.ClassifiedTransaction
	Selected bool
	Edited   bool
}

// ConfirmOptions controls Confirm.
type ConfirmOptions struct {
	Learn bool
}

// Session holds the state of one import. It is not safe for concurrent use.
type Session struct {
	opts  Options
	log   logrus.FieldLogger
	state State

	fileName  string
	table     importer.Table
	detection template.Detection
	mapping   template.ColumnMapping
	parsed    []model.ParsedTransaction
	stats     importer.ExtractStats

	classified []model.ClassifiedTransaction
	selected   map[int]bool
	overrides  map[int]Override

	batch *model.ImportBatch
}

// NewSession starts an import in the upload state.
func NewSession(opts Options) *Session {
	if opts.Registry == nil {
		opts.Registry = importer.DefaultRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Session{
		opts:  opts,
		log:   opts.Logger.WithField("tenant", opts.Tenant),
		state: StateUpload,
	}
}

// State returns the current step.
func (s *Session) State() State { return s.state }

// FileName returns the uploaded file's name.
func (s *Session) FileName() string { return s.fileName }

// Headers returns the header row of the uploaded file.
func (s *Session) Headers() []string { return s.table.Headers }

// Detection returns the template detected at upload.
func (s *Session) Detection() template.Detection { return s.detection }

// Mapping returns the column mapping in effect.
func (s *Session) Mapping() template.ColumnMapping { return s.mapping }

// Parsed returns the rows extracted with the current mapping.
func (s *Session) Parsed() []model.ParsedTransaction { return s.parsed }

// ExtractStats reports retained and dropped data rows.
func (s *Session) ExtractStats() importer.ExtractStats { return s.stats }

// Batch returns the confirmed batch, or nil before Confirm.
func (s *Session) Batch() *model.ImportBatch { return s.batch }

func (s *Session) allow(op string, states ...State) error {
	if slices.Contains(states, s.state) {
		return nil
	}
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, op, s.state)
}

// Upload reads a bank export, locates its header row, detects the bank
// template and extracts rows with the suggested mapping. On a FormatError the
// session keeps its current state.
func (s *Session) Upload(ctx context.Context, fileName string, r io.Reader) error {
	if err := s.allow("upload", StateUpload, StateMapping, StateClassify); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rd, err := s.opts.Registry.ForFile(fileName)
	if err != nil {
		return &FormatError{FileName: fileName, Err: err}
	}
	rows, err := rd.Read(r)
	if err != nil {
		return &FormatError{FileName: fileName, Err: err}
	}
	table, err := importer.LocateHeader(rows)
	if err != nil {
		return &FormatError{FileName: fileName, Err: err}
	}

	s.fileName = fileName
	s.table = table
	s.detection = template.Detect(table.Headers)
	s.mapping = s.detection.Mapping
	s.extract()
	s.state = StateMapping

	s.log.WithFields(logrus.Fields{
		"file":     fileName,
		"template": s.detection.Template.ID,
		"matched":  s.detection.Matched,
		"rows":     s.stats.DataRows,
		"retained": s.stats.Retained,
		"dropped":  s.stats.Dropped,
	}).Info("uploaded bank export")
	return nil
}

func (s *Session) extract() {
	s.parsed, s.stats = importer.Extract(s.table, s.mapping)
	s.classified = nil
	s.selected = nil
	s.overrides = nil
}

// SetMapping replaces the column mapping and re-extracts the rows. Any
// classification is discarded.
func (s *Session) SetMapping(m template.ColumnMapping) error {
	if err := s.allow("set mapping", StateMapping, StateClassify); err != nil {
		return err
	}
	if unknown := m.Unknown(s.table.Headers); len(unknown) > 0 {
		return &MappingValidationError{Unknown: unknown}
	}

	s.mapping = m
	s.extract()
	s.state = StateMapping

	s.log.WithFields(logrus.Fields{
		"file":     s.fileName,
		"retained": s.stats.Retained,
		"dropped":  s.stats.Dropped,
	}).Debug("column mapping changed")
	return nil
}

// Classify suggests an account for every extracted row and selects them all.
// It can be repeated; prior suggestions and edits are discarded.
func (s *Session) Classify(ctx context.Context) error {
	if err := s.allow("classify", StateMapping, StateClassify); err != nil {
		return err
	}
	if missing := s.mapping.Missing(); len(missing) > 0 {
		return &MappingValidationError{Missing: missing}
	}

	var learned classify.Learned
	if s.opts.Learning != nil {
		var err error
		learned, err = s.opts.Learning.Snapshot(ctx, s.opts.Tenant)
		if err != nil {
			return fmt.Errorf("loading learned classifications: %w", err)
		}
	}

	c := classify.New(s.opts.Directory, learned, s.opts.Classify)
	classified, err := c.ClassifyAll(ctx, s.parsed)
	if err != nil {
		return fmt.Errorf("classifying rows: %w", err)
	}

	s.classified = classified
	s.selected = make(map[int]bool, len(classified))
	for _, ct := range classified {
		s.selected[ct.RowIndex] = true
	}
	s.overrides = make(map[int]Override)
	s.state = StateClassify

	sum := classify.Summarize(classified)
	s.log.WithFields(logrus.Fields{
		"file":    s.fileName,
		"rows":    sum.Total,
		"high":    sum.High,
		"medium":  sum.Medium,
		"low":     sum.Low,
		"learned": sum.Learned,
	}).Info("classified rows")
	return nil
}

// Summary aggregates the classifier's suggestions for every row.
func (s *Session) Summary() classify.Summary {
	return classify.Summarize(s.classified)
}

func (s *Session) find(rowIndex int) (int, error) {
	for i, ct := range s.classified {
		if ct.RowIndex == rowIndex {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", ErrUnknownRow, rowIndex)
}

// Select includes a row in the next Confirm.
func (s *Session) Select(rowIndex int) error {
	return s.setSelected(rowIndex, true)
}

// Deselect excludes a row from the next Confirm.
func (s *Session) Deselect(rowIndex int) error {
	return s.setSelected(rowIndex, false)
}

func (s *Session) setSelected(rowIndex int, on bool) error {
	if err := s.allow("select", StateClassify); err != nil {
		return err
	}
	if _, err := s.find(rowIndex); err != nil {
		return err
	}
	s.selected[rowIndex] = on
	return nil
}

// Edit layers an override on top of a row's suggestion. Successive edits of
// the same row merge.
func (s *Session) Edit(rowIndex int, o Override) error {
	if err := s.allow("edit", StateClassify); err != nil {
		return err
	}
	if _, err := s.find(rowIndex); err != nil {
		return err
	}

	dir := s.opts.Directory
	if o.AccountID != nil {
		if _, ok := dir.Account(*o.AccountID); !ok {
			return fmt.Errorf("%w: account %q", ErrUnknownReference, *o.AccountID)
		}
	}
	if o.ProjectID != nil && *o.ProjectID != "" {
		if _, ok := dir.Project(*o.ProjectID); !ok {
			return fmt.Errorf("%w: project %q", ErrUnknownReference, *o.ProjectID)
		}
	}
	if o.FundSourceID != nil && *o.FundSourceID != "" {
		if _, ok := dir.FundSource(*o.FundSourceID); !ok {
			return fmt.Errorf("%w: fund source %q", ErrUnknownReference, *o.FundSourceID)
		}
	}

	cur := s.overrides[rowIndex]
	if o.AccountID != nil {
		cur.AccountID = o.AccountID
	}
	if o.ProjectID != nil {
		cur.ProjectID = o.ProjectID
	}
	if o.FundSourceID != nil {
		cur.FundSourceID = o.FundSourceID
	}
	s.overrides[rowIndex] = cur
	return nil
}

// Rows returns every classified row with edits applied. The suggestions
// themselves are never modified.
func (s *Session) Rows() []Row {
	rows := make([]Row, len(s.classified))
	for i, ct := range s.classified {
		o, edited := s.overrides[ct.RowIndex]
		rows[i] = Row{
			ClassifiedTransaction: s.apply(ct, o),
			Selected:              s.selected[ct.RowIndex],
			Edited:                edited,
		}
	}
	return rows
}

func (s *Session) apply(ct model.ClassifiedTransaction, o Override) model.ClassifiedTransaction {
	dir := s.opts.Directory
	if o.AccountID != nil {
		ct.AccountID = *o.AccountID
		ct.AccountName = ""
		if a, ok := dir.Account(ct.AccountID); ok {
			ct.AccountName = a.Name
		}
	}
	if o.ProjectID != nil {
		ct.ProjectID = *o.ProjectID
		ct.ProjectName = ""
		if p, ok := dir.Project(ct.ProjectID); ok {
			ct.ProjectName = p.Name
		}
	}
	if o.FundSourceID != nil {
		ct.FundSourceID = *o.FundSourceID
		ct.FundSourceName = ""
		if f, ok := dir.FundSource(ct.FundSourceID); ok {
			ct.FundSourceName = f.Name
		}
	}
	return ct
}

// Confirm commits every selected row under one new batch ID. The batch is
// recorded before any row is committed; if that fails nothing is committed and
// the session stays in classify. Row failures are collected on the batch and do
// not stop the remaining rows. With Learn set, each confirmed row's final
// booking is remembered for its description.
func (s *Session) Confirm(ctx context.Context, opts ConfirmOptions) (*model.ImportBatch, error) {
	if err := s.allow("confirm", StateClassify); err != nil {
		return nil, err
	}
	s.state = StateConfirm

	now := s.opts.Now()
	batch := &model.ImportBatch{
		ID:        id.NewBatchID(now),
		TenantID:  s.opts.Tenant,
		FileName:  s.fileName,
		CreatedAt: now,
	}
	log := s.log.WithFields(logrus.Fields{"file": s.fileName, "batch": batch.ID})

	if err := s.opts.Ledger.RecordBatch(ctx, *batch); err != nil {
		s.state = StateClassify
		return nil, fmt.Errorf("recording batch %s: %w", batch.ID, err)
	}

	var confirmed []Row
	for _, row := range s.Rows() {
		if !row.Selected {
			continue
		}
		batch.Total++

		txnID, err := s.opts.Ledger.Commit(ctx, s.opts.Tenant, store.CommitParams{
			Date:           row.Date,
			Type:           row.Type,
			Amount:         row.Amount,
			Description:    row.Description,
			AccountID:      row.AccountID,
			ProjectID:      row.ProjectID,
			FundSourceID:   row.FundSourceID,
			BatchID:        batch.ID,
			AllowDuplicate: s.opts.AllowDuplicates,
		})
		switch {
		case err == nil:
			batch.Success++
			batch.TransactionIDs = append(batch.TransactionIDs, txnID)
			confirmed = append(confirmed, row)
		case errors.Is(err, store.ErrDuplicate):
			batch.Duplicate++
			confirmed = append(confirmed, row)
		default:
			batch.Failed++
			if len(batch.Errors) < maxRowErrors {
				batch.Errors = append(batch.Errors, model.RowError{RowIndex: row.RowIndex, Error: err.Error()})
			}
			log.WithError(err).WithField("row", row.RowIndex).Warn("row not committed")
		}
	}

	if opts.Learn && s.opts.Learning != nil {
		s.learn(ctx, log, confirmed)
	}

	s.batch = batch
	s.state = StateResult
	if err := s.opts.Ledger.FinishBatch(ctx, *batch); err != nil {
		log.WithError(err).Error("batch results not saved")
		return batch, fmt.Errorf("saving results of batch %s: %w", batch.ID, err)
	}

	log.WithFields(logrus.Fields{
		"total":     batch.Total,
		"success":   batch.Success,
		"duplicate": batch.Duplicate,
		"failed":    batch.Failed,
	}).Info("import confirmed")
	return batch, nil
}

func (s *Session) learn(ctx context.Context, log logrus.FieldLogger, rows []Row) {
	learned := 0
	for _, row := range rows {
		if row.AccountID == "" || classify.Normalize(row.Description) == "" {
			continue
		}
		err := s.opts.Learning.Upsert(ctx, s.opts.Tenant, row.Description, row.AccountID, row.ProjectID, row.FundSourceID)
		if err != nil {
			log.WithError(err).WithField("row", row.RowIndex).Warn("classification not learned")
			continue
		}
		learned++
	}
	log.WithField("learned", learned).Debug("learned classifications")
}

// Undo deletes every transaction of the confirmed batch. It succeeds once;
// later calls return store.ErrBatchUndone.
func (s *Session) Undo(ctx context.Context) (int, error) {
	if s.state == StateUndone {
		return 0, fmt.Errorf("undoing batch %s: %w", s.batch.ID, store.ErrBatchUndone)
	}
	if err := s.allow("undo", StateResult); err != nil {
		return 0, err
	}
	deleted, err := s.opts.Ledger.UndoBatch(ctx, s.opts.Tenant, s.batch.ID)
	if err != nil {
		return 0, fmt.Errorf("undoing batch %s: %w", s.batch.ID, err)
	}
	s.state = StateUndone

	s.log.WithFields(logrus.Fields{"batch": s.batch.ID, "deleted": deleted}).Info("import undone")
	return deleted, nil
}
