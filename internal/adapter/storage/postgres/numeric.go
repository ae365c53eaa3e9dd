package postgres

import (
	"fmt"
	"math/big"
)

// Amount columns are NUMERIC(78,0) holding integer base units. They are
// selected as text and parsed into big.Int, and written back as decimal
// strings.

func bigFromNumeric(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid numeric value %q", s)
	}
	return n, nil
}

func bigToNumeric(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

func nullableBigFromNumeric(s *string) (*big.Int, error) {
	if s == nil {
		return nil, nil
	}
	return bigFromNumeric(*s)
}

func nullableBigToNumeric(n *big.Int) *string {
	if n == nil {
		return nil
	}
	s := n.String()
	return &s
}
