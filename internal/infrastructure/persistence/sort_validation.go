package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func withCommon(fields ...string) map[string]bool {
	m := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// Allowed sort fields per table
var (
	UserSortFields           = withCommon("email", "full_name", "role", "status", "last_login_at")
	ProductSortFields        = withCommon("name", "slug", "category", "price", "sort_order", "available", "featured")
	RecipeSortFields         = withCommon("title", "slug", "prep_minutes", "cook_minutes", "published")
	ClassSortFields          = withCommon("title", "starts_at", "price", "capacity", "status")
	BookingSortFields        = withCommon("seats", "total", "status")
	OrderSortFields          = withCommon("number", "status", "fulfillment_type", "total", "placed_at", "pickup_at")
	ProductionItemSortFields = withCommon("name", "sku", "category", "par_level_cases", "shelf_life_days")
	ProductionLogSortFields  = withCommon("produced_at", "total_portions", "batch_code", "expires_at")
	TimeEntrySortFields      = withCommon("clock_in", "clock_out", "worked_minutes", "total_hours", "pay")
	ShiftSortFields          = withCommon("starts_at", "ends_at", "station", "published")
	ContactSortFields        = withCommon("name", "email", "subject", "status")
)
