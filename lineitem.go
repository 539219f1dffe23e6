package darf

import (
	"time"

	"github.com/google/uuid"
)

// LineItems converts extracted charges into billing line items attached to
// orderID. Start and end period both take the single extracted period,
// falling back to the due date and then to the sentinel date, so neither
// is ever empty. A fresh identifier is generated per item and timestamps
// are set to the current instant.
//
// An empty charge slice yields an empty slice: a document in which nothing
// was recognized is not an error.
func LineItems(charges []Charge, orderID string) []LineItem {
	items := make([]LineItem, 0, len(charges))
	now := time.Now().UTC()

	for _, c := range charges {
		period := c.Period
		if period == "" {
			period = c.DueDate
		}
		if period == "" {
			period = DefaultSentinelDate
		}
		due := c.DueDate
		if due == "" {
			due = DefaultSentinelDate
		}

		items = append(items, LineItem{
			ID:             uuid.NewString(),
			OrderID:        orderID,
			Code:           c.Code,
			TaxType:        c.TaxType,
			StartPeriod:    period,
			EndPeriod:      period,
			DueDate:        due,
			OriginalValue:  c.Principal,
			CurrentBalance: c.Total,
			Fine:           c.Fine,
			Interest:       c.Interest,
			Status:         StatusPending,
			CNO:            c.CNO,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return items
}
