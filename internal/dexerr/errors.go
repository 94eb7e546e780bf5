// Package dexerr defines the domain error taxonomy shared by the DEX
// engines. Services return these sentinels (optionally wrapped with
// fmt.Errorf("%w: ...")) and handlers map them to transport status codes
// with Status.
package dexerr

import (
	"errors"
	"net/http"
)

var (
	ErrTokenNotFound         = errors.New("token not found")
	ErrDuplicatePool         = errors.New("pool already exists for token pair")
	ErrPoolNotFound          = errors.New("pool not found")
	ErrInvalidToken          = errors.New("invalid token for pool")
	ErrInvalidReserves       = errors.New("reserves must be positive")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrZeroLiquidity         = errors.New("liquidity minted is zero")
	ErrInsufficientLPBalance = errors.New("lp amount exceeds position balance")
	ErrExceedsSupply         = errors.New("lp amount exceeds pool supply")
	ErrSlippageExceeded      = errors.New("amount out below minimum")
	ErrDuplicateTxHash       = errors.New("transaction hash already recorded")

	// ErrArithmeticOverflow signals a violated arithmetic invariant. It
	// should be unreachable with arbitrary-precision amounts.
	ErrArithmeticOverflow = errors.New("arithmetic invariant violated")
)

// Status maps a domain error to an HTTP status code. Unknown errors map to
// 500 so they are never silently downgraded.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrTokenNotFound),
		errors.Is(err, ErrPoolNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicatePool),
		errors.Is(err, ErrDuplicateTxHash):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidReserves),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrZeroLiquidity),
		errors.Is(err, ErrInsufficientLPBalance),
		errors.Is(err, ErrExceedsSupply),
		errors.Is(err, ErrSlippageExceeded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
