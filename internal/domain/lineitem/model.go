package lineitem

// LineItem is a read model over invoice line items carrying just enough
// context to place the purchased product into a basket: the product, the
// parent invoice, and the invoice's customer when one exists.
type LineItem struct {
	// ProductID is the purchased product
	ProductID string `db:"product_id" json:"product_id"`

	// InvoiceID is the parent invoice
	InvoiceID string `db:"invoice_id" json:"invoice_id"`

	// CustomerID is the invoice's customer; nil for anonymous sales
	CustomerID *string `db:"customer_id" json:"customer_id,omitempty"`
}

// BasketKey returns the grouping key for basket construction: the customer
// when known, otherwise the invoice itself forms a distinct basket.
func (li *LineItem) BasketKey() string {
	if li.CustomerID != nil && *li.CustomerID != "" {
		return "customer:" + *li.CustomerID
	}
	return "invoice:" + li.InvoiceID
}
