package lineitem

import "context"

// Repository defines read access to invoice line items
type Repository interface {
	// ListWithBasketContext returns every line item in the historical corpus
	// joined with its invoice's customer reference.
	ListWithBasketContext(ctx context.Context) ([]*LineItem, error)
}
