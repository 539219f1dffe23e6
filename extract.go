package darf

import (
	"regexp"
)

// numberPattern matches a Brazilian-formatted currency amount (grouped or
// plain) or an explicit zero, as one capture group.
const numberPattern = `((?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}|0)`

// numberSep separates the four amount columns; the reports sometimes
// repeat the "R$" prefix between them.
const numberSep = `\s+(?:R\$\s*)?`

var codeRegexps = buildCodeRegexps(chargeCodes)

// buildCodeRegexps compiles one extraction regex per table entry: the
// literal code, a non-greedy gap, the label pattern, then the four amount
// columns (principal, fine, interest, total) in document order.
func buildCodeRegexps(entries []CodeEntry) map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(entries))
	for _, e := range entries {
		expr := `(?s)\b` + e.Code + `\b.*?(?:` + e.Pattern + `).*?` +
			numberPattern + numberSep + numberPattern + numberSep +
			numberPattern + numberSep + numberPattern
		res[e.Code] = regexp.MustCompile(expr)
	}
	return res
}

// Context markers resolved backward from each match: the assessment-period
// label, the due-date label, and the CNO registration.
var (
	periodRe = regexp.MustCompile(`(?i)(?:\bPA\b|per[íi]odo(?:\s+de)?\s+apura[çc][ãa]o)[.:\s]+(\d{1,2}\s*TRI\s*/\s*\d{4}|\d{2}/\d{2}/\d{4}|\d{2}/\d{4})`)
	dueRe    = regexp.MustCompile(`(?i)(?:data\s+de\s+)?venc(?:imento|to)\.?[.:\s]+(\d{2}/\d{2}/\d{4})`)
	cnoRe    = regexp.MustCompile(`(?i)\bCNO\b[.:\s]*(\d[\d./-]*\d)`)
)

// rawMatch is one occurrence of a known charge code with its four amount
// columns still in document form.
type rawMatch struct {
	entry  CodeEntry
	values [4]string
	end    int
}

// ExtractCharges scans reconstructed document text for every code in the
// charge table and assembles one Charge per occurrence. A code that never
// matches simply contributes nothing; a document referencing no known code
// yields an empty slice, not an error.
func (p *Parser) ExtractCharges(text string) []Charge {
	var charges []Charge
	for _, entry := range chargeCodes {
		re := codeRegexps[entry.Code]
		for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
			m := rawMatch{entry: entry, end: idx[1]}
			for g := 0; g < 4; g++ {
				m.values[g] = text[idx[2+2*g]:idx[3+2*g]]
			}
			charges = append(charges, p.assembleCharge(text, m))
		}
	}
	return charges
}

// assembleCharge resolves the period, due-date and CNO context preceding
// the match and normalizes the four amounts. Period and due date stay
// empty when no marker precedes the match; the line-item assembler applies
// the fallback chain.
func (p *Parser) assembleCharge(text string, m rawMatch) Charge {
	prefix := text[:m.end]

	c := Charge{
		Code:      m.entry.Code,
		TaxType:   m.entry.TaxType,
		Principal: parseAmountField(p.log, "principal", m.values[0]),
		Fine:      parseAmountField(p.log, "multa", m.values[1]),
		Interest:  parseAmountField(p.log, "juros", m.values[2]),
		Total:     parseAmountField(p.log, "total", m.values[3]),
	}

	if raw := lastSubmatch(periodRe, prefix); raw != "" {
		c.Period = normalizeDateField(p.log, p.cfg.SentinelDate, "periodo_apuracao", raw)
	}
	if raw := lastSubmatch(dueRe, prefix); raw != "" {
		c.DueDate = normalizeDateField(p.log, p.cfg.SentinelDate, "vencimento", raw)
	}
	if m.entry.Code == cnoCode {
		c.CNO = lastSubmatch(cnoRe, prefix)
	}
	return c
}

// lastSubmatch returns the first capture group of the last occurrence of
// re in text, or "" when there is none. Matches are resolved positionally:
// the marker nearest before the charge block wins.
func lastSubmatch(re *regexp.Regexp, text string) string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}
