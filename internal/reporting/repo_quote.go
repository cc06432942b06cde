package reporting

import (
	"context"
	"time"

	"tsmartwarehouse/internal/quote"
)

// QuoteRepoAdapter bridges the quote repository to the reporting contract.
// Quote rows are append-only, which keeps summaries reproducible.
type QuoteRepoAdapter struct {
	Quotes quote.Repository
}

func (a QuoteRepoAdapter) ListQuotes(ctx context.Context, companyID string, from, to time.Time, warehouseID string) ([]quote.Quote, error) {
	return a.Quotes.List(ctx, companyID, from, to, warehouseID)
}
