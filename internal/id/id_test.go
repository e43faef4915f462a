package id

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBatchID(t *testing.T) {
	tests := []struct {
		day    time.Time
		suffix string
		want   string
	}{
		{time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), "1a2b3c4d", "imp-20240305-1a2b3c4d"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "ffffffff", "imp-20251231-ffffffff"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBatchID(tt.day, tt.suffix))
	}
}

func TestNewBatchID(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	a := NewBatchID(day)
	b := NewBatchID(day)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "imp-20240305-"))
	assert.Len(t, a, len("imp-20240305-")+8)
}

func TestParseBatchID(t *testing.T) {
	day, suffix, err := ParseBatchID("imp-20240305-1a2b3c4d")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), day)
	assert.Equal(t, "1a2b3c4d", suffix)
}

func TestParseBatchID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"imp-20240305",
		"exp-20240305-1a2b3c4d",
		"imp-2024035-1a2b3c4d",
		"imp-20240305-",
	}
	for _, input := range badInputs {
		_, _, err := ParseBatchID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestNewTransactionID(t *testing.T) {
	got := NewTransactionID()

	require.True(t, strings.HasPrefix(got, "txn-"))
	_, err := uuid.Parse(strings.TrimPrefix(got, "txn-"))
	assert.NoError(t, err)
}
