package productpair

import (
	"time"

	"github.com/vendalytics/vendalytics/internal/types"
)

// ProductPair is one persisted row of the association table: the ordered
// pair (A, B) with its co-occurrence statistics and product snapshots taken
// at calculation time. The whole table is replaced on every recalculation.
type ProductPair struct {
	// ID is the unique identifier for the pair row
	ID string `db:"id" json:"id"`

	// ProductAID is the antecedent product
	ProductAID string `db:"product_a_id" json:"product_a_id"`

	// ProductBID is the consequent product
	ProductBID string `db:"product_b_id" json:"product_b_id"`

	// ProductAName is the antecedent's name snapshot
	ProductAName string `db:"product_a_name" json:"product_a_name"`

	// ProductAType is the antecedent's type snapshot
	ProductAType string `db:"product_a_type" json:"product_a_type"`

	// ProductBName is the consequent's name snapshot
	ProductBName string `db:"product_b_name" json:"product_b_name"`

	// ProductBType is the consequent's type snapshot
	ProductBType string `db:"product_b_type" json:"product_b_type"`

	// SupportCount is the number of baskets containing both products
	SupportCount int `db:"support_count" json:"support_count"`

	// BasketsWithA is the number of baskets containing the antecedent
	BasketsWithA int `db:"baskets_with_a" json:"baskets_with_a"`

	// BasketsWithB is the number of baskets containing the consequent
	BasketsWithB int `db:"baskets_with_b" json:"baskets_with_b"`

	// TotalBaskets is the basket population size at calculation time
	TotalBaskets int `db:"total_baskets" json:"total_baskets"`

	// Confidence is P(B|A) estimated from baskets
	Confidence float64 `db:"confidence" json:"confidence"`

	// Lift is confidence over the base probability of B
	Lift float64 `db:"lift" json:"lift"`

	// CalculatedAt is when the recalculation ran
	CalculatedAt time.Time `db:"calculated_at" json:"calculated_at"`

	types.BaseModel
}
