// Package amm implements the constant-product pricing and LP accounting
// math. All amounts are integer-valued decimals in smallest units; the
// arithmetic runs on math/big integers so division floors exactly instead
// of rounding at decimal precision. Percentages returned for display are
// the only non-integer values.
package amm

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// BpsDenominator is the fee denominator: fees are expressed in basis
// points of 10000.
const BpsDenominator = 10_000

var (
	bpsDen  = big.NewInt(BpsDenominator)
	hundred = decimal.NewFromInt(100)
)

// FeeAmount returns floor(amountIn * feeBps / 10000).
func FeeAmount(amountIn decimal.Decimal, feeBps int64) decimal.Decimal {
	fee := new(big.Int).Mul(amountIn.BigInt(), big.NewInt(feeBps))
	fee.Quo(fee, bpsDen)
	return decimal.NewFromBigInt(fee, 0)
}

// AmountOut prices a trade against x*y=k reserves:
//
//	k      = reserveIn * reserveOut
//	newIn  = reserveIn + amountInAfterFee
//	newOut = floor(k / newIn)
//	out    = reserveOut - newOut
func AmountOut(reserveIn, reserveOut, amountInAfterFee decimal.Decimal) decimal.Decimal {
	rIn := reserveIn.BigInt()
	rOut := reserveOut.BigInt()
	k := new(big.Int).Mul(rIn, rOut)
	newIn := new(big.Int).Add(rIn, amountInAfterFee.BigInt())
	if newIn.Sign() <= 0 {
		return decimal.Zero
	}
	newOut := new(big.Int).Quo(k, newIn)
	return decimal.NewFromBigInt(new(big.Int).Sub(rOut, newOut), 0)
}

// PriceImpact returns the percentage deviation of the execution price from
// the pre-trade spot price, rounded to 4 places. Display only.
//
//	spot = reserveIn / reserveOut
//	exec = amountInAfterFee / amountOut
func PriceImpact(reserveIn, reserveOut, amountInAfterFee, amountOut decimal.Decimal) decimal.Decimal {
	if reserveOut.IsZero() || amountOut.IsZero() {
		return decimal.Zero
	}
	spot := reserveIn.DivRound(reserveOut, 18)
	if spot.IsZero() {
		return decimal.Zero
	}
	exec := amountInAfterFee.DivRound(amountOut, 18)
	return exec.Sub(spot).Abs().DivRound(spot, 18).Mul(hundred).Round(4)
}

// InitialLiquidity returns the geometric mean floor(sqrt(amount0*amount1))
// minted on a pool's first deposit.
func InitialLiquidity(amount0, amount1 decimal.Decimal) decimal.Decimal {
	prod := new(big.Int).Mul(amount0.BigInt(), amount1.BigInt())
	if prod.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Sqrt(prod), 0)
}

// MintAmount returns the LP tokens minted for a deposit. The first deposit
// mints the geometric mean of the amounts; later deposits are limited by
// the worse of the two share ratios so an unbalanced deposit cannot dilute
// existing providers:
//
//	min(floor(amount0*supply/reserve0), floor(amount1*supply/reserve1))
func MintAmount(amount0, amount1, reserve0, reserve1, supply decimal.Decimal) decimal.Decimal {
	if supply.IsZero() {
		return InitialLiquidity(amount0, amount1)
	}
	s := supply.BigInt()
	m0 := new(big.Int).Mul(amount0.BigInt(), s)
	m0.Quo(m0, reserve0.BigInt())
	m1 := new(big.Int).Mul(amount1.BigInt(), s)
	m1.Quo(m1, reserve1.BigInt())
	if m1.Cmp(m0) < 0 {
		m0 = m1
	}
	return decimal.NewFromBigInt(m0, 0)
}

// BurnAmounts returns the proportional reserve share released for burning
// lpAmount: floor(lpAmount * reserve_i / supply) per side.
func BurnAmounts(lpAmount, reserve0, reserve1, supply decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if supply.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	s := supply.BigInt()
	lp := lpAmount.BigInt()
	out0 := new(big.Int).Mul(lp, reserve0.BigInt())
	out0.Quo(out0, s)
	out1 := new(big.Int).Mul(lp, reserve1.BigInt())
	out1.Quo(out1, s)
	return decimal.NewFromBigInt(out0, 0), decimal.NewFromBigInt(out1, 0)
}
