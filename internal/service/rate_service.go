package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"crypto-settlement-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// ConfigRateProvider implements ports.RateProvider from a static rate
// table. Pairs are keyed "CURRENCY/token", rates are decimal strings.
type ConfigRateProvider struct {
	rates    map[string]*big.Rat
	decimals map[string]int
	log      zerolog.Logger
}

// NewConfigRateProvider creates a rate provider. decimals maps token codes
// to their base-unit precision.
func NewConfigRateProvider(rates map[string]string, decimals map[string]int, log zerolog.Logger) (*ConfigRateProvider, error) {
	parsed := make(map[string]*big.Rat, len(rates))
	for pair, rate := range rates {
		r, ok := new(big.Rat).SetString(rate)
		if !ok || r.Sign() <= 0 {
			return nil, fmt.Errorf("invalid rate for pair %s: %s", pair, rate)
		}
		parsed[strings.ToUpper(pair)] = r
	}
	return &ConfigRateProvider{
		rates:    parsed,
		decimals: decimals,
		log:      log.With().Str("component", "rate_provider").Logger(),
	}, nil
}

// Convert turns a fiat amount into token base units, truncating toward
// zero. When currency equals the token code no rate is applied.
func (p *ConfigRateProvider) Convert(_ context.Context, currency, token, amount string) (*big.Int, error) {
	decimals, ok := p.decimals[token]
	if !ok {
		return nil, apperror.ErrUnsupportedToken(token)
	}

	value, ok := new(big.Rat).SetString(amount)
	if !ok || value.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	if !strings.EqualFold(currency, token) {
		pair := strings.ToUpper(currency + "/" + token)
		rate, ok := p.rates[pair]
		if !ok {
			return nil, apperror.ErrNoRateAvailable(pair)
		}
		value.Mul(value, rate)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	value.Mul(value, new(big.Rat).SetInt(scale))
	return new(big.Int).Quo(value.Num(), value.Denom()), nil
}
