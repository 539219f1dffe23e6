package darf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []LineItem {
	return []LineItem{
		{TaxType: "PIS", OriginalValue: 100, CurrentBalance: 110},
		{TaxType: "PIS", OriginalValue: 50, CurrentBalance: 55},
		{TaxType: "COFINS", OriginalValue: 200, CurrentBalance: 220},
		{TaxType: "ICMS", OriginalValue: 30, CurrentBalance: 33},
	}
}

func TestAggregateDefaultsToAllIncluded(t *testing.T) {
	agg := Aggregate(sampleItems(), nil)

	assert.InDelta(t, 380, agg.TotalAll, 1e-9)
	assert.InDelta(t, 380, agg.TotalIncluded, 1e-9)
	require.Len(t, agg.ByType, 3)

	for _, g := range agg.ByType {
		assert.True(t, g.Included, "group %s", g.TaxType)
	}
}

func TestAggregateFilteredTotals(t *testing.T) {
	flags := DefaultInclusionFlags()
	flags.COFINS = false

	agg := Aggregate(sampleItems(), &flags)

	// The unconditional total ignores flags; the filtered total drops the
	// excluded category only.
	assert.InDelta(t, 380, agg.TotalAll, 1e-9)
	assert.InDelta(t, 180, agg.TotalIncluded, 1e-9)

	byType := make(map[string]TaxTypeAggregate)
	for _, g := range agg.ByType {
		byType[g.TaxType] = g
	}

	pis := byType["PIS"]
	assert.Equal(t, 2, pis.Count)
	assert.InDelta(t, 150, pis.OriginalTotal, 1e-9)
	assert.InDelta(t, 165, pis.CurrentTotal, 1e-9)
	assert.True(t, pis.Included)

	cofins := byType["COFINS"]
	assert.Equal(t, 1, cofins.Count)
	assert.InDelta(t, 200, cofins.OriginalTotal, 1e-9)
	assert.False(t, cofins.Included)

	// Types outside the charge table fall under Outros.
	assert.True(t, byType["ICMS"].Included)
}

func TestAggregateOutrosFlag(t *testing.T) {
	flags := DefaultInclusionFlags()
	flags.Outros = false

	agg := Aggregate(sampleItems(), &flags)
	assert.InDelta(t, 350, agg.TotalIncluded, 1e-9)
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := Aggregate(nil, nil)
	assert.Empty(t, agg.ByType)
	assert.Zero(t, agg.TotalAll)
	assert.Zero(t, agg.TotalIncluded)
}

func TestInclusionFlagsAbsentFieldsStayIncluded(t *testing.T) {
	// Review UIs send only the boxes the user touched; unmarshalling over
	// the defaults must keep everything else included.
	flags := DefaultInclusionFlags()
	require.NoError(t, json.Unmarshal([]byte(`{"include_cofins":false}`), &flags))

	assert.False(t, flags.COFINS)
	assert.True(t, flags.PIS)
	assert.True(t, flags.CPPatronal)
	assert.True(t, flags.Outros)
}

func TestInclusionFlagsPredicateIsStable(t *testing.T) {
	flags := DefaultInclusionFlags()
	flags.CSLL = false

	for i := 0; i < 3; i++ {
		assert.False(t, flags.Include("CSLL"))
		assert.True(t, flags.Include("IRPJ"))
		assert.True(t, flags.Include("ALGO-NOVO"))
	}
}
