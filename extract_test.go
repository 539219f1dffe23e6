package darf

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser() *Parser {
	return NewParserWith(Config{Logger: log.New(io.Discard)})
}

func TestExtractChargesSyntheticDocuments(t *testing.T) {
	for _, entry := range chargeCodes {
		t.Run(entry.Code, func(t *testing.T) {
			doc := fmt.Sprintf(
				"Pendência - Débito (SIEF)\nPA 03/2024 Vencimento 15/04/2024\n%s %s 1.234,56 123,45 12,34 1.370,35",
				entry.Code, entry.TaxType,
			)

			charges := testParser().ExtractCharges(doc)
			require.Len(t, charges, 1)

			c := charges[0]
			assert.Equal(t, entry.Code, c.Code)
			assert.Equal(t, entry.TaxType, c.TaxType)
			assert.Equal(t, "2024-03-01", c.Period)
			assert.Equal(t, "2024-04-15", c.DueDate)
			assert.InDelta(t, 1234.56, c.Principal, 1e-9)
			assert.InDelta(t, 123.45, c.Fine, 1e-9)
			assert.InDelta(t, 12.34, c.Interest, 1e-9)
			assert.InDelta(t, 1370.35, c.Total, 1e-9)
		})
	}
}

func TestExtractChargesEndToEnd(t *testing.T) {
	doc := "1646 CP-PATRONAL PATRONAL CNO 12.345.678/0001 PA 03/2024 Vencimento 15/04/2024 1.234,56 123,45 12,34 1.370,35"

	charges := testParser().ExtractCharges(doc)
	require.Len(t, charges, 1)

	c := charges[0]
	assert.Equal(t, "1646", c.Code)
	assert.Equal(t, "CP-PATRONAL", c.TaxType)
	assert.Equal(t, "12.345.678/0001", c.CNO)
	assert.Equal(t, "2024-03-01", c.Period)
	assert.Equal(t, "2024-04-15", c.DueDate)
	assert.InDelta(t, 1234.56, c.Principal, 1e-9)
	assert.InDelta(t, 123.45, c.Fine, 1e-9)
	assert.InDelta(t, 12.34, c.Interest, 1e-9)
	assert.InDelta(t, 1370.35, c.Total, 1e-9)
}

func TestExtractChargesNoKnownCodes(t *testing.T) {
	charges := testParser().ExtractCharges("Certidão emitida. Não constam pendências para o contribuinte.")
	assert.Empty(t, charges)
}

func TestExtractChargesRepeatedCode(t *testing.T) {
	doc := "PA 01/2024 Vencimento 15/02/2024 2172 COFINS 100,00 10,00 1,00 111,00\n" +
		"PA 02/2024 Vencimento 15/03/2024 2172 COFINS 200,00 20,00 2,00 222,00"

	charges := testParser().ExtractCharges(doc)
	require.Len(t, charges, 2)

	assert.Equal(t, "2024-01-01", charges[0].Period)
	assert.Equal(t, "2024-02-15", charges[0].DueDate)
	assert.InDelta(t, 111.00, charges[0].Total, 1e-9)

	// The nearest preceding markers win for the second occurrence.
	assert.Equal(t, "2024-02-01", charges[1].Period)
	assert.Equal(t, "2024-03-15", charges[1].DueDate)
	assert.InDelta(t, 222.00, charges[1].Total, 1e-9)
}

func TestExtractChargesQuarterlyPeriod(t *testing.T) {
	doc := "PA 2 TRI/2024 Vencimento 31/07/2024 2372 CSLL 500,00 0 0 500,00"

	charges := testParser().ExtractCharges(doc)
	require.Len(t, charges, 1)

	assert.Equal(t, "2024-06-31", charges[0].Period)
	assert.InDelta(t, 0, charges[0].Fine, 1e-9)
	assert.InDelta(t, 0, charges[0].Interest, 1e-9)
	assert.InDelta(t, 500.00, charges[0].Total, 1e-9)
}

func TestExtractChargesWithoutContextMarkers(t *testing.T) {
	doc := "2089 IRPJ 1.000,00 0,00 0,00 1.000,00"

	charges := testParser().ExtractCharges(doc)
	require.Len(t, charges, 1)

	// No PA or Vencimento label precedes the block; the line-item
	// assembler applies the sentinel fallback.
	assert.Empty(t, charges[0].Period)
	assert.Empty(t, charges[0].DueDate)
}

func TestExtractChargesCNOOnlyForEmployerContribution(t *testing.T) {
	doc := "CNO 12.345.678/0001 PA 03/2024 Vencimento 15/04/2024 8109 PIS 10,00 1,00 0,10 11,10"

	charges := testParser().ExtractCharges(doc)
	require.Len(t, charges, 1)
	assert.Empty(t, charges[0].CNO)
}

func TestExtractChargesCurrencyPrefixBetweenColumns(t *testing.T) {
	doc := "PA 03/2024 Vencimento 15/04/2024 6912 PIS R$ 1.234,56 R$ 123,45 R$ 12,34 R$ 1.370,35"

	charges := testParser().ExtractCharges(doc)
	require.Len(t, charges, 1)
	assert.InDelta(t, 1234.56, charges[0].Principal, 1e-9)
	assert.InDelta(t, 1370.35, charges[0].Total, 1e-9)
}
