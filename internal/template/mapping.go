package template

import (
	"fmt"
	"strings"
)

// ColumnMapping resolves each canonical field to a header of the uploaded
// file. An empty value means the field is unresolved.
type ColumnMapping struct {
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
	Deposit     string `json:"deposit" yaml:"deposit"`
	Withdrawal  string `json:"withdrawal" yaml:"withdrawal"`
	Balance     string `json:"balance" yaml:"balance"`
}

// MapColumns picks, for each field independently, the first header in file
// order whose normalised form equals one of the template's synonyms.
func MapColumns(t BankTemplate, headers []string) ColumnMapping {
	var m ColumnMapping
	for _, f := range Fields {
		m.Set(f, firstMatch(t.Synonyms[f], headers))
	}
	return m
}

func firstMatch(synonyms []string, headers []string) string {
	for _, h := range headers {
		n := NormalizeHeader(h)
		if n == "" {
			continue
		}
		for _, s := range synonyms {
			if n == NormalizeHeader(s) {
				return h
			}
		}
	}
	return ""
}

// Get returns the header mapped to f.
func (m ColumnMapping) Get(f Field) string {
	switch f {
	case FieldDate:
		return m.Date
	case FieldDescription:
		return m.Description
	case FieldDeposit:
		return m.Deposit
	case FieldWithdrawal:
		return m.Withdrawal
	case FieldBalance:
		return m.Balance
	}
	return ""
}

// Set assigns header to f.
func (m *ColumnMapping) Set(f Field, header string) {
	switch f {
	case FieldDate:
		m.Date = header
	case FieldDescription:
		m.Description = header
	case FieldDeposit:
		m.Deposit = header
	case FieldWithdrawal:
		m.Withdrawal = header
	case FieldBalance:
		m.Balance = header
	}
}

// Missing lists the required fields left unresolved. Deposit and withdrawal
// are reported together only when neither is mapped.
func (m ColumnMapping) Missing() []Field {
	var missing []Field
	if m.Date == "" {
		missing = append(missing, FieldDate)
	}
	if m.Description == "" {
		missing = append(missing, FieldDescription)
	}
	if m.Deposit == "" && m.Withdrawal == "" {
		missing = append(missing, FieldDeposit, FieldWithdrawal)
	}
	return missing
}

// Usable reports whether the mapping can drive classification.
func (m ColumnMapping) Usable() bool {
	return len(m.Missing()) == 0
}

// Unknown returns mapped headers that are not present in headers.
func (m ColumnMapping) Unknown(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var unknown []string
	for _, f := range Fields {
		if h := m.Get(f); h != "" && !present[h] {
			unknown = append(unknown, h)
		}
	}
	return unknown
}

// ParseField converts a user-supplied field name.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}
