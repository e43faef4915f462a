package importflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bankbook-dev/bankbook/internal/template"
)

var (
	ErrInvalidTransition = errors.New("invalid import step")
	ErrUnknownRow        = errors.New("unknown row")
	ErrUnknownReference  = errors.New("unknown reference")
)

// FormatError means an uploaded file cannot be read as a bank export.
type FormatError struct {
	FileName string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.FileName, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// MappingValidationError lists required fields with no column and mapped
// columns that are not in the file.
type MappingValidationError struct {
	Missing []template.Field
	Unknown []string
}

func (e *MappingValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		names := make([]string, len(e.Missing))
		for i, f := range e.Missing {
			names[i] = string(f)
		}
		parts = append(parts, "unmapped fields: "+strings.Join(names, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "columns not in file: "+strings.Join(e.Unknown, ", "))
	}
	return "invalid column mapping: " + strings.Join(parts, "; ")
}
