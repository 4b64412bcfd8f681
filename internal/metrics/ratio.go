//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Ratio is a growth rate or average that may be undefined. The zero value is
// undefined and encodes as JSON null.
type Ratio struct {
	Value float64
	Valid bool
}

// Defined wraps a computed value.
func Defined(v float64) Ratio {
	return Ratio{Value: v, Valid: true}
}

// ratioOf turns a (value, error) pair into a Ratio. Only ErrDivisionUndefined
// is expected here; any error yields an undefined ratio.
func ratioOf(v float64, err error) Ratio {
	if err != nil {
		return Ratio{}
	}
	return Defined(v)
}

// Percent formats the ratio as a percentage, or "n/a".
func (r Ratio) Percent() string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", r.Value*100)
}

// String formats the ratio with four decimals, or "n/a".
func (r Ratio) String() string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", r.Value)
}

// MarshalJSON encodes the value, or null when undefined.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes a number or null.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid ratio: %w", err)
	}
	*r = Defined(v)
	return nil
}

// IsUndefined reports whether err marks an undefined metric.
func IsUndefined(err error) bool {
	return errors.Is(err, ErrDivisionUndefined)
}
