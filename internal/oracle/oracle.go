// Package oracle converts token amounts into a reference unit. The static
// table here is an approximation standing in for a real price feed; the
// ValueOracle interface is the seam where one would plug in.
package oracle

import (
	"github.com/shopspring/decimal"

	"github.com/chainsim/dex-api/internal/models"
)

// ValueOracle values token amounts in reference units.
type ValueOracle interface {
	TokenValue(tokenID uint, amount decimal.Decimal) decimal.Decimal
	PoolValue(pool *models.Pool) decimal.Decimal
}

// Static is a ValueOracle backed by a fixed conversion table of reference
// units per smallest unit. The reference token converts 1:1; tokens absent
// from the table value at zero.
type Static struct {
	referenceTokenID uint
	rates            map[uint]decimal.Decimal
}

// NewStatic creates a static oracle from a conversion table
func NewStatic(referenceTokenID uint, rates map[uint]decimal.Decimal) *Static {
	if rates == nil {
		rates = map[uint]decimal.Decimal{}
	}
	return &Static{referenceTokenID: referenceTokenID, rates: rates}
}

// TokenValue converts an amount of a token into reference units
func (o *Static) TokenValue(tokenID uint, amount decimal.Decimal) decimal.Decimal {
	if tokenID == o.referenceTokenID {
		return amount
	}
	rate, ok := o.rates[tokenID]
	if !ok {
		return decimal.Zero
	}
	return amount.Mul(rate)
}

// PoolValue values both reserves of a pool in reference units
func (o *Static) PoolValue(pool *models.Pool) decimal.Decimal {
	return o.TokenValue(pool.Token0ID, pool.Reserve0).
		Add(o.TokenValue(pool.Token1ID, pool.Reserve1))
}
