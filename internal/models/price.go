package models

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice normalizes a price given as a number, a numeric string or a
// decimal. Strings may carry surrounding whitespace and quote characters,
// which some callers pass through from query strings.
func ParsePrice(v any) (decimal.Decimal, error) {
	switch p := v.(type) {
	case decimal.Decimal:
		return p, nil
	case *decimal.Decimal:
		if p == nil {
			return decimal.Zero, invalidPrice(v)
		}
		return *p, nil
	case string:
		return parsePriceString(p)
	case json.Number:
		return parsePriceString(p.String())
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return decimal.Zero, invalidPrice(v)
		}
		return decimal.NewFromFloat(p), nil
	case float32:
		if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) {
			return decimal.Zero, invalidPrice(v)
		}
		return decimal.NewFromFloat32(p), nil
	case int:
		return decimal.NewFromInt(int64(p)), nil
	case int32:
		return decimal.NewFromInt32(p), nil
	case int64:
		return decimal.NewFromInt(p), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(p)), 0), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(p), 0), nil
	default:
		return decimal.Zero, invalidPrice(v)
	}
}

func parsePriceString(s string) (decimal.Decimal, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), `"'`)
	if trimmed == "" {
		return decimal.Zero, invalidPrice(s)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, invalidPrice(s)
	}
	return d, nil
}

func invalidPrice(v any) error {
	return &DataValidationError{
		Message: fmt.Sprintf("Invalid attribute: price %v (%T) is not a decimal number", v, v),
	}
}
