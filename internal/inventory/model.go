package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable or purchasable item. Only goods with
// TrackInventory set participate in stock movements; services never do.
type Product struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	IsGood         bool            `json:"is_good"`
	TrackInventory bool            `json:"track_inventory"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Tracked reports whether document posting should move stock for this
// product.
func (p Product) Tracked() bool {
	return p.IsGood && p.TrackInventory
}
