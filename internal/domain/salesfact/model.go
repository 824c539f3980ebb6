package salesfact

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesFact is a read model over the invoice tables: one qualifying sale for
// one customer. Facts are never written by this system; they are owned by
// the surrounding CRUD product.
type SalesFact struct {
	// CustomerID is the customer who made the purchase
	CustomerID string `db:"customer_id" json:"customer_id"`

	// BranchID is the branch that issued the invoice
	BranchID *string `db:"branch_id" json:"branch_id,omitempty"`

	// Date is the invoice date
	Date time.Time `db:"date" json:"date"`

	// Amount is the invoice monetary total
	Amount decimal.Decimal `db:"amount" json:"amount"`
}
