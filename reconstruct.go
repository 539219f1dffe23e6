package darf

import (
	"regexp"
	"strings"
)

// DefaultGapThreshold is the vertical distance, in text-space units, above
// which two consecutive tokens are placed on separate lines.
const DefaultGapThreshold = 5

var (
	whitespaceRunRe = regexp.MustCompile(`\s{3,}`)
	brokenIndentRe  = regexp.MustCompile(`\n\s+`)
)

// ReconstructText rebuilds line-oriented text from positioned tokens. A
// line break is emitted whenever the vertical distance between consecutive
// tokens exceeds gapThreshold; otherwise tokens are joined with a space.
// The result approximates the original layout from position data alone, so
// tightly spaced columns can produce false line breaks.
//
// gapThreshold <= 0 selects DefaultGapThreshold. Empty input yields "".
func ReconstructText(tokens []Token, gapThreshold float64) string {
	if len(tokens) == 0 {
		return ""
	}
	if gapThreshold <= 0 {
		gapThreshold = DefaultGapThreshold
	}

	var b strings.Builder
	prevY := tokens[0].Y
	for i, tok := range tokens {
		if i > 0 {
			diff := tok.Y - prevY
			if diff > gapThreshold || diff < -gapThreshold {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(tok.Text)
		prevY = tok.Y
	}

	text := whitespaceRunRe.ReplaceAllString(b.String(), "\n")
	text = brokenIndentRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
