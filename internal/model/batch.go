package model

import "time"

// RowError is a per-row failure recorded during commit.
type RowError struct {
	RowIndex int    `json:"row_index"`
	Error    string `json:"error"`
}

// ImportBatch summarises one confirmed import.
type ImportBatch struct {
	ID             string
	TenantID       string
	FileName       string
	Total          int
	Success        int
	Duplicate      int
	Failed         int
	TransactionIDs []string
	Errors         []RowError
	CreatedAt      time.Time
	UndoneAt       *time.Time
}

// Undone reports whether the batch has already been rolled back.
func (b ImportBatch) Undone() bool {
	return b.UndoneAt != nil
}
