package darf

import (
	"time"
)

// Token is a single positioned text fragment recovered from a document's
// text layer. Y is the vertical coordinate reported by the extractor; the
// horizontal position is not needed for line reconstruction.
type Token struct {
	Text string
	Y    float64
}

// Charge represents one tax charge extracted from a DARF or Situação
// Fiscal document. Period and DueDate are normalized to YYYY-MM-DD.
// Total is taken from the document itself, not computed from the other
// three amounts.
type Charge struct {
	Code      string  `json:"codigo"`
	TaxType   string  `json:"tributo"`
	Period    string  `json:"periodo_apuracao"`
	DueDate   string  `json:"vencimento"`
	Principal float64 `json:"principal"`
	Fine      float64 `json:"multa"`
	Interest  float64 `json:"juros"`
	Total     float64 `json:"total"`

	// CNO is the works-registration identifier, present only for the
	// employer-contribution code.
	CNO string `json:"cno,omitempty"`
}

// StatusPending marks a line item that has not yet entered the billing
// workflow.
const StatusPending = "pendente"

// LineItem is the billing-facing form of a Charge, ready to be attached
// to an order by the consuming system.
type LineItem struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id,omitempty"`
	Code           string    `json:"codigo"`
	TaxType        string    `json:"tributo"`
	StartPeriod    string    `json:"periodo_inicio"`
	EndPeriod      string    `json:"periodo_fim"`
	DueDate        string    `json:"vencimento"`
	OriginalValue  float64   `json:"valor_original"`
	CurrentBalance float64   `json:"saldo_atual"`
	Fine           float64   `json:"multa"`
	Interest       float64   `json:"juros"`
	Status         string    `json:"status"`
	CNO            string    `json:"cno,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Extraction is the result of parsing a single document.
type Extraction struct {
	Charges []Charge `json:"charges"`

	// Barcode is the ITF payment barcode digit string, when barcode
	// decoding is enabled and a barcode was found.
	Barcode string `json:"barcode,omitempty"`

	// Raw reconstructed text, kept for debugging.
	RawText string `json:"-"`
}
