package darf

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParserDefaults(t *testing.T) {
	p := NewParser()
	require.NotNil(t, p)
	assert.InDelta(t, DefaultGapThreshold, p.cfg.GapThreshold, 1e-9)
	assert.Equal(t, DefaultSentinelDate, p.cfg.SentinelDate)
	assert.NotNil(t, p.log)
}

func TestConfiguredSentinelDate(t *testing.T) {
	got := normalizeDateField(log.New(io.Discard), "1900-01-01", "periodo", "sem data")
	assert.Equal(t, "1900-01-01", got)
}

func TestExtractFromTokens(t *testing.T) {
	tokens := []Token{
		{Text: "1646 CP-PATRONAL PATRONAL", Y: 700},
		{Text: "CNO 12.345.678/0001", Y: 696},
		{Text: "PA 03/2024 Vencimento 15/04/2024", Y: 680},
		{Text: "1.234,56 123,45 12,34 1.370,35", Y: 676},
	}

	ext := testParser().ExtractFromTokens(tokens)
	require.NotNil(t, ext)
	assert.NotEmpty(t, ext.RawText)
	require.Len(t, ext.Charges, 1)

	c := ext.Charges[0]
	assert.Equal(t, "1646", c.Code)
	assert.Equal(t, "12.345.678/0001", c.CNO)
	assert.Equal(t, "2024-03-01", c.Period)
	assert.Equal(t, "2024-04-15", c.DueDate)
	assert.InDelta(t, 1370.35, c.Total, 1e-9)
}

func TestExtractFromTokensEmpty(t *testing.T) {
	ext := testParser().ExtractFromTokens(nil)
	require.NotNil(t, ext)
	assert.Empty(t, ext.RawText)
	assert.Empty(t, ext.Charges)
}
