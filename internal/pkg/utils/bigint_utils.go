package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a base-unit amount into a decimal value using the given
// number of decimals.
// Example: amount=2500000000000000000, decimals=18 => 2.5
func ToDecimal(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// ToFloat is ToDecimal followed by a float64 conversion.
func ToFloat(amount *big.Int, decimals uint8) float64 {
	f, _ := ToDecimal(amount, decimals).Float64()
	return f
}

// FormatBigInt converts a base-unit amount to a human-readable string
// without trailing zeros.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return ToDecimal(amount, decimals).String()
}

// ParseHexBig parses a "0x"-prefixed hex quantity. Unlike hexutil.DecodeBig
// it accepts leading zeros, which token balance endpoints return
// (0x000...0de0b6b3a7640000).
func ParseHexBig(s string) (*big.Int, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if raw == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(raw, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return v, nil
}
