package order

import (
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Pricing holds the shop's fee and tax rules
type Pricing struct {
	TaxRate               decimal.Decimal
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

// Totals is a priced order summary
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// Quote prices a subtotal for a fulfillment type. Delivery is free for
// pickup and for subtotals at or above the free-delivery threshold; tax
// applies to the subtotal only.
func (p Pricing) Quote(subtotal decimal.Decimal, fulfillment FulfillmentType) Totals {
	subtotal = shared.RoundMoney(subtotal)
	fee := decimal.Zero
	if fulfillment == FulfillmentDelivery {
		fee = p.DeliveryFee
		if p.FreeDeliveryThreshold.IsPositive() && subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
			fee = decimal.Zero
		}
	}
	tax := shared.RoundMoney(subtotal.Mul(p.TaxRate))
	fee = shared.RoundMoney(fee)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}
