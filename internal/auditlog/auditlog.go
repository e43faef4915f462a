// Package auditlog appends import actions to logs/import-log.csv.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Actions recorded in the log.
const (
	ActionUpload  = "upload"
	ActionConfirm = "confirm"
	ActionUndo    = "undo"
	ActionForget  = "forget"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	Tenant    string
	Action    string
	File      string
	BatchID   string
	Details   string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,tenant,action,file,batch_id,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/import-log.csv"
	colTimestamp = 0
	colTenant    = 1
	colAction    = 2
	colFile      = 3
	colBatchID   = 4
	colDetails   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colTenant] = e.Tenant
	row[colAction] = e.Action
	row[colFile] = e.File
	row[colBatchID] = e.BatchID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Tenant:    record[colTenant],
		Action:    record[colAction],
		File:      record[colFile],
		BatchID:   record[colBatchID],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <repoRoot>/logs/import-log.csv, creating the file
// and header if needed.
func Append(repoRoot string, entries ...Entry) error {
	if err := os.MkdirAll(filepath.Join(repoRoot, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filter selects log entries. Empty fields match everything.
type Filter struct {
	Tenant  string
	BatchID string
	Action  string
}

func (f Filter) match(e Entry) bool {
	return (f.Tenant == "" || e.Tenant == f.Tenant) &&
		(f.BatchID == "" || e.BatchID == f.BatchID) &&
		(f.Action == "" || e.Action == f.Action)
}

// History returns the entries of <repoRoot>/logs/import-log.csv selected by f,
// oldest first. A missing log has no history.
func History(repoRoot string, f Filter) ([]Entry, error) {
	file, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer file.Close()

	return scanEntries(file, f)
}

func scanEntries(r io.Reader, f Filter) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.ReuseRecord = true

	var entries []Entry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading import log: %w", err)
		}
		if line == 1 {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("import log line %d: %w", line, err)
		}
		if f.match(e) {
			entries = append(entries, e)
		}
	}
}
