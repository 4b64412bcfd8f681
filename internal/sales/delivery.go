//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sales

import "database/sql"

// DeliveryCategory buckets a delivery speed.
type DeliveryCategory string

// Delivery categories, fastest first.
const (
	DeliveryFast     DeliveryCategory = "Fast"
	DeliveryStandard DeliveryCategory = "Standard"
	DeliverySlow     DeliveryCategory = "Slow"
	DeliveryVerySlow DeliveryCategory = "Very Slow"
	DeliveryUnknown  DeliveryCategory = "Unknown"
)

// DeliveryCategories lists every category in display order.
var DeliveryCategories = []DeliveryCategory{
	DeliveryFast,
	DeliveryStandard,
	DeliverySlow,
	DeliveryVerySlow,
	DeliveryUnknown,
}

// CategorizeDeliverySpeed maps a delivery speed in days to its category.
// Upper bounds are inclusive: 3 is Fast, 7 is Standard, 14 is Slow.
func CategorizeDeliverySpeed(days sql.Null[int]) DeliveryCategory {
	if !days.Valid {
		return DeliveryUnknown
	}
	switch d := days.V; {
	case d <= 3:
		return DeliveryFast
	case d <= 7:
		return DeliveryStandard
	case d <= 14:
		return DeliverySlow
	default:
		return DeliveryVerySlow
	}
}

// Days wraps a known delivery speed.
func Days(d int) sql.Null[int] {
	return sql.Null[int]{V: d, Valid: true}
}
