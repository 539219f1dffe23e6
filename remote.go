package darf

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
)

// remoteCharge is the payload shape returned by the external extraction
// backend, already close to a Charge but with locale-formatted strings.
type remoteCharge struct {
	Codigo      string `json:"codigo"`
	Denominacao string `json:"denominacao"`
	Periodo     string `json:"periodo"`
	Vencimento  string `json:"vencimento"`
	Principal   string `json:"principal"`
	Multa       string `json:"multa"`
	Juros       string `json:"juros"`
	Total       string `json:"total"`
	CNO         string `json:"cno,omitempty"`
}

// RemoteExtractor forwards documents to an HTTP extraction backend and
// adapts its response to the canonical Charge shape, feeding every date
// and amount through the same normalizers as the local pipeline so
// downstream consumers see one shape regardless of origin.
type RemoteExtractor struct {
	client   *resty.Client
	log      *log.Logger
	sentinel string
}

// NewRemoteExtractor creates a client for the backend at baseURL. A nil
// logger selects log.Default().
func NewRemoteExtractor(baseURL string, logger *log.Logger) *RemoteExtractor {
	if logger == nil {
		logger = log.Default()
	}
	return &RemoteExtractor{
		client:   resty.New().SetBaseURL(baseURL),
		log:      logger,
		sentinel: DefaultSentinelDate,
	}
}

// Extract sends the raw document to the backend and returns normalized
// charges. Network failures and non-success statuses are returned to the
// caller as hard errors; content anomalies in the payload are absorbed
// with sentinel and zero substitution, like the local path.
func (r *RemoteExtractor) Extract(ctx context.Context, doc []byte) ([]Charge, error) {
	var payload []remoteCharge
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/pdf").
		SetBody(doc).
		SetResult(&payload).
		Post("/extract")
	if err != nil {
		return nil, fmt.Errorf("extraction backend unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("extraction backend returned %s", resp.Status())
	}

	charges := make([]Charge, 0, len(payload))
	for _, rc := range payload {
		charges = append(charges, r.adapt(rc))
	}
	return charges, nil
}

func (r *RemoteExtractor) adapt(rc remoteCharge) Charge {
	return Charge{
		Code:      rc.Codigo,
		TaxType:   rc.Denominacao,
		Period:    normalizeDateField(r.log, r.sentinel, "periodo", rc.Periodo),
		DueDate:   normalizeDateField(r.log, r.sentinel, "vencimento", rc.Vencimento),
		Principal: parseAmountField(r.log, "principal", rc.Principal),
		Fine:      parseAmountField(r.log, "multa", rc.Multa),
		Interest:  parseAmountField(r.log, "juros", rc.Juros),
		Total:     parseAmountField(r.log, "total", rc.Total),
		CNO:       rc.CNO,
	}
}
