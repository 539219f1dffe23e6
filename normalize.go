package darf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultSentinelDate is substituted when a date string matches none of the
// known shapes, so date fields handed downstream are never empty.
const DefaultSentinelDate = "2024-01-01"

var nonCurrencyRe = regexp.MustCompile(`[^0-9,]`)

// ParseCurrency parses a Brazilian-formatted amount ("1.234,56", optionally
// prefixed with "R$") into a float. Everything except digits and the comma
// is stripped, the comma becomes the decimal point, and the remainder is
// parsed as a float.
func ParseCurrency(s string) (float64, error) {
	cleaned := nonCurrencyRe.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	return v, nil
}

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency renders v with pt-BR thousands separators and exactly two
// fraction digits. For any value with at most two decimal digits it is the
// inverse of ParseCurrency.
func FormatCurrency(v float64) string {
	return brPrinter.Sprint(number.Decimal(v, number.Scale(2)))
}

var (
	dayMonthYearRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	quarterRe      = regexp.MustCompile(`(?i)^([1-4])\s*TRI\s*/\s*(\d{4})$`)
	monthYearRe    = regexp.MustCompile(`^(\d{2})/(\d{4})$`)
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// quarterEndMonth maps a quarter number to its closing month.
var quarterEndMonth = map[string]string{"1": "03", "2": "06", "3": "09", "4": "12"}

// NormalizeDate converts the date shapes found in DARF and Situação Fiscal
// documents to YYYY-MM-DD. The shapes are tried in order, first match wins:
//
//	DD/MM/YYYY   field reorder
//	n TRI/YYYY   quarter form, closing month, day fixed to 31
//	MM/YYYY      day fixed to 01
//	YYYY-MM-DD   returned unchanged
//
// When nothing matches (including empty input) the sentinel date is
// returned and ok is false. The function is pure and idempotent on its own
// output.
func NormalizeDate(s string) (normalized string, ok bool) {
	s = strings.TrimSpace(s)
	if m := dayMonthYearRe.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1], true
	}
	if m := quarterRe.FindStringSubmatch(s); m != nil {
		// The source system closes every quarter on day 31, even for
		// 30-day months. Kept verbatim.
		return m[2] + "-" + quarterEndMonth[m[1]] + "-31", true
	}
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		return m[2] + "-" + m[1] + "-01", true
	}
	if isoDateRe.MatchString(s) {
		return s, true
	}
	return DefaultSentinelDate, false
}

// normalizeDateField applies NormalizeDate, substituting sentinel and
// logging when the input matches no known shape. Both the local pipeline
// and the remote-backend adapter feed their dates through here.
func normalizeDateField(logger *log.Logger, sentinel, field, s string) string {
	out, ok := NormalizeDate(s)
	if !ok {
		if sentinel != "" {
			out = sentinel
		}
		logger.Warn("unrecognized date format, substituting sentinel",
			"field", field, "value", s, "sentinel", out)
	}
	return out
}

// parseAmountField applies ParseCurrency, substituting zero and logging on
// failure so a single malformed amount never aborts the document.
func parseAmountField(logger *log.Logger, field, s string) float64 {
	v, err := ParseCurrency(s)
	if err != nil {
		logger.Warn("malformed amount, substituting zero", "field", field, "value", s)
		return 0
	}
	return v
}
