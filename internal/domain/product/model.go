package product

// Product is a read model over the product catalog, used to denormalize
// name and type snapshots onto association pairs.
type Product struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Type string `db:"type" json:"type"`
}
