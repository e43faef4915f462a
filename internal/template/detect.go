package template

import "strings"

// detectThreshold is how many of the four required fields a template must
// recognise to be selected.
const detectThreshold = 3

// Detection is the outcome of matching a header row against the catalog.
type Detection struct {
	Template BankTemplate
	Matched  int // required fields recognised; 0 for the generic fallback
	Mapping  ColumnMapping
}

// NormalizeHeader lower-cases and trims a header cell.
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Detect selects the first catalog template recognising at least three of the
// required fields, falling back to generic, and derives a column mapping from it.
func Detect(headers []string) Detection {
	normalized := make(map[string]bool, len(headers))
	for _, h := range headers {
		if n := NormalizeHeader(h); n != "" {
			normalized[n] = true
		}
	}

	for _, t := range catalog {
		if t.ID == GenericID {
			continue
		}
		matched := 0
		for _, f := range requiredFields {
			if hasSynonym(t.Synonyms[f], normalized) {
				matched++
			}
		}
		if matched >= detectThreshold {
			return Detection{Template: t, Matched: matched, Mapping: MapColumns(t, headers)}
		}
	}

	g := Generic()
	return Detection{Template: g, Mapping: MapColumns(g, headers)}
}

func hasSynonym(synonyms []string, headers map[string]bool) bool {
	for _, s := range synonyms {
		if headers[NormalizeHeader(s)] {
			return true
		}
	}
	return false
}
