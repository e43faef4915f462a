package model

import "time"

// LearnedClassification is a user-confirmed description -> account mapping.
// Unique per (TenantID, NormalizedDescription).
type LearnedClassification struct {
	TenantID              string
	NormalizedDescription string
	Description           string // as last confirmed
	AccountID             string
	ProjectID             string
	FundSourceID          string
	Confidence            float64
	UsageCount            int
	UpdatedAt             time.Time
}
