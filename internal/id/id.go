package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	batchPrefix = "imp"
	txnPrefix   = "txn"
	dayLayout   = "20060102"
)

// FormatBatchID returns a batch ID like "imp-20240305-1a2b3c4d".
func FormatBatchID(day time.Time, suffix string) string {
	return fmt.Sprintf("%s-%s-%s", batchPrefix, day.Format(dayLayout), suffix)
}

// NewBatchID returns a fresh batch ID for the given day with a random suffix.
func NewBatchID(day time.Time) string {
	return FormatBatchID(day, shortUUID())
}

// ParseBatchID parses "imp-20240305-1a2b3c4d" into its day and suffix.
func ParseBatchID(id string) (day time.Time, suffix string, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 || parts[0] != batchPrefix || parts[2] == "" {
		return time.Time{}, "", fmt.Errorf("invalid batch ID format: %q", id)
	}

	day, err = time.Parse(dayLayout, parts[1])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid date in batch ID %q: %w", id, err)
	}

	return day, parts[2], nil
}

// NewTransactionID returns a ledger transaction ID like "txn-<uuid>".
func NewTransactionID() string {
	return txnPrefix + "-" + uuid.NewString()
}

func shortUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
