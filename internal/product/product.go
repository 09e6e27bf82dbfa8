package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64            `json:"id"`
	ProductName string           `json:"productName"`
	ServiceName string           `json:"serviceName"`
	SubService  string           `json:"subService,omitempty"`
	Scheme      string           `json:"scheme,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	// NetPayable is the post-discount override; nil means no discount.
	NetPayable *decimal.Decimal `json:"netPayable,omitempty"`
	Active     bool             `json:"active"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// EffectivePrice is the amount snapshotted onto a booking at creation:
// net payable when present, list price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.NetPayable != nil {
		return *p.NetPayable
	}
	return p.Price
}
