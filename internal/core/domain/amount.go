package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseUnits converts a decimal string amount into integer base units for
// a token with the given number of decimals ("1.5" with 6 decimals ->
// 1500000). It rejects negative amounts and excess fractional digits.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("negative amount %q", amount)
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %q exceeds %d decimal places", amount, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	units, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	return units, nil
}

// FormatUnits renders integer base units as a decimal string, trimming
// trailing fractional zeros (1500000 with 6 decimals -> "1.5").
func FormatUnits(units *big.Int, decimals int) string {
	if units == nil {
		return "0"
	}
	neg := units.Sign() < 0
	s := new(big.Int).Abs(units).String()
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole := s[:len(s)-decimals]
	frac := strings.TrimRight(s[len(s)-decimals:], "0")

	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ComputeFee returns amount*rateBps/10000 + fixed, truncating toward zero.
// Fees are always computed on the settlement token amount.
func ComputeFee(amount *big.Int, rateBps int64, fixed *big.Int) *big.Int {
	fee := new(big.Int).Mul(amount, big.NewInt(rateBps))
	fee.Quo(fee, big.NewInt(10000))
	if fixed != nil {
		fee.Add(fee, fixed)
	}
	return fee
}
