package commerce

import (
	"fmt"

	"github.com/ramenshop/backend/internal/domain/order"
	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// PricingFromConfig parses the fee and tax settings
func PricingFromConfig(cfg config.CommerceConfig) (order.Pricing, error) {
	tax, err := parseAmount("commerce.tax_rate", cfg.TaxRate)
	if err != nil {
		return order.Pricing{}, err
	}
	if tax.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return order.Pricing{}, fmt.Errorf("commerce.tax_rate must be a fraction below 1, got %s", cfg.TaxRate)
	}
	fee, err := parseAmount("commerce.delivery_fee", cfg.DeliveryFee)
	if err != nil {
		return order.Pricing{}, err
	}
	threshold, err := parseAmount("commerce.free_delivery_threshold", cfg.FreeDeliveryThreshold)
	if err != nil {
		return order.Pricing{}, err
	}
	return order.Pricing{TaxRate: tax, DeliveryFee: fee, FreeDeliveryThreshold: threshold}, nil
}

func parseAmount(key, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative", key)
	}
	return d, nil
}
