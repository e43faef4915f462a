package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Tried in order; the first match wins.
var (
	reDateYMD     = regexp.MustCompile(`(\d{4})[-./](\d{1,2})[-./](\d{1,2})`)
	reDateCompact = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})(?:\D|$)`)
	reDateDMY     = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
)

// wonSuffix is the local currency unit some banks append to amounts.
const wonSuffix = "원"

// ParseDate returns the cell as YYYY-MM-DD, or "" when it is not a date.
func ParseDate(c Cell) string {
	if c.IsDate() {
		return c.Time.Format(isoDate)
	}
	s := strings.TrimSpace(c.Text)
	if s == "" {
		return ""
	}
	if m := reDateYMD.FindStringSubmatch(s); m != nil {
		return formatDate(m[1], m[2], m[3])
	}
	if m := reDateCompact.FindStringSubmatch(s); m != nil {
		return formatDate(m[1], m[2], m[3])
	}
	if m := reDateDMY.FindStringSubmatch(s); m != nil {
		return formatDate(m[3], m[2], m[1])
	}
	return ""
}

func formatDate(year, month, day string) string {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%s-%02d-%02d", year, m, d)
}

// ParseAmount strips currency symbols, thousands separators, whitespace and the
// won suffix, and returns the absolute value. Anything unparsable is zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimSuffix(cleaned, wonSuffix)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}
