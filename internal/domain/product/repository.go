package product

import "context"

// Repository defines read access to the product catalog
type Repository interface {
	// ListByIDs returns the products with the given ids. Unknown ids are
	// silently omitted from the result.
	ListByIDs(ctx context.Context, ids []string) ([]*Product, error)
}
