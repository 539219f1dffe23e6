package darf

// InclusionFlags controls which tax-pendency categories count toward the
// filtered aggregate total. Categories are the six tax types of the charge
// table plus Outros for anything outside it (remote payloads may carry
// types the table does not know). Every category defaults to included:
// unmarshalling a request body over DefaultInclusionFlags leaves absent
// fields true.
type InclusionFlags struct {
	PIS         bool `json:"include_pis"`
	COFINS      bool `json:"include_cofins"`
	IRPJ        bool `json:"include_irpj"`
	CSLL        bool `json:"include_csll"`
	CPTerceiros bool `json:"include_cp_terceiros"`
	CPPatronal  bool `json:"include_cp_patronal"`
	Outros      bool `json:"include_outros"`
}

// DefaultInclusionFlags returns flags with every category included.
func DefaultInclusionFlags() InclusionFlags {
	return InclusionFlags{
		PIS:         true,
		COFINS:      true,
		IRPJ:        true,
		CSLL:        true,
		CPTerceiros: true,
		CPPatronal:  true,
		Outros:      true,
	}
}

// Include reports whether a line item of the given tax type counts under
// f. Pure: the same input always yields the same answer, which keeps
// aggregation deterministic.
func (f InclusionFlags) Include(taxType string) bool {
	switch taxType {
	case "PIS":
		return f.PIS
	case "COFINS":
		return f.COFINS
	case "IRPJ":
		return f.IRPJ
	case "CSLL":
		return f.CSLL
	case "CP-TERCEIROS":
		return f.CPTerceiros
	case "CP-PATRONAL":
		return f.CPPatronal
	default:
		return f.Outros
	}
}

// TaxTypeAggregate accumulates the line items of one tax type.
type TaxTypeAggregate struct {
	TaxType       string  `json:"tributo"`
	Count         int     `json:"count"`
	OriginalTotal float64 `json:"total_original"`
	CurrentTotal  float64 `json:"total_atual"`

	// Included is true when at least one contributing item is included
	// under the active flags.
	Included bool `json:"included"`
}

// Aggregation is the result of grouping line items under a set of flags.
// TotalAll sums every item's original value regardless of flags;
// TotalIncluded sums only the items whose category flag is set.
type Aggregation struct {
	ByType        []TaxTypeAggregate `json:"by_type"`
	TotalAll      float64            `json:"total_all"`
	TotalIncluded float64            `json:"total_included"`
}

// Aggregate groups line items by tax type and computes per-type and grand
// totals. A nil flags value includes every category.
func Aggregate(items []LineItem, flags *InclusionFlags) Aggregation {
	f := DefaultInclusionFlags()
	if flags != nil {
		f = *flags
	}

	byType := make(map[string]*TaxTypeAggregate)
	var order []string
	var agg Aggregation

	for _, item := range items {
		g, ok := byType[item.TaxType]
		if !ok {
			g = &TaxTypeAggregate{TaxType: item.TaxType}
			byType[item.TaxType] = g
			order = append(order, item.TaxType)
		}
		g.Count++
		g.OriginalTotal += item.OriginalValue
		g.CurrentTotal += item.CurrentBalance

		agg.TotalAll += item.OriginalValue
		if f.Include(item.TaxType) {
			g.Included = true
			agg.TotalIncluded += item.OriginalValue
		}
	}

	agg.ByType = make([]TaxTypeAggregate, 0, len(order))
	for _, t := range order {
		agg.ByType = append(agg.ByType, *byType[t])
	}
	return agg
}
