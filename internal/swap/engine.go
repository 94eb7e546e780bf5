package swap

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chainsim/dex-api/internal/amm"
	"github.com/chainsim/dex-api/internal/dexerr"
	"github.com/chainsim/dex-api/internal/models"
	"github.com/chainsim/dex-api/internal/pool"
)

// QuoteRequest asks for the price of a swap without executing it.
type QuoteRequest struct {
	PoolID    string          `json:"pool_id" binding:"required"`
	TokenInID uint            `json:"token_in_id" binding:"required"`
	AmountIn  decimal.Decimal `json:"amount_in" binding:"required"`
}

// QuoteResult is the priced outcome of a prospective swap. A quote is a
// snapshot: the pool may move before the swap executes, so Swap
// re-validates everything under the pool lock.
type QuoteResult struct {
	PoolID           string          `json:"pool_id"`
	TokenInID        uint            `json:"token_in_id"`
	TokenOutID       uint            `json:"token_out_id"`
	AmountIn         decimal.Decimal `json:"amount_in"`
	AmountInAfterFee decimal.Decimal `json:"amount_in_after_fee"`
	AmountOut        decimal.Decimal `json:"amount_out"`
	FeeAmount        decimal.Decimal `json:"fee_amount"`
	FeeBps           int64           `json:"fee_bps"`
	PriceImpactPct   decimal.Decimal `json:"price_impact_pct"`
}

// SwapRequest executes a swap against a pool.
type SwapRequest struct {
	PoolID               string          `json:"pool_id" binding:"required"`
	TraderAddress        string          `json:"trader_address" binding:"required"`
	TokenInID            uint            `json:"token_in_id" binding:"required"`
	AmountIn             decimal.Decimal `json:"amount_in" binding:"required"`
	MinAmountOut         decimal.Decimal `json:"min_amount_out"`
	SlippageTolerancePct decimal.Decimal `json:"slippage_tolerance_pct"`
	TxHash               string          `json:"tx_hash" binding:"required"`
}

// Engine prices and executes swaps with the constant-product formula.
type Engine interface {
	Quote(req *QuoteRequest) (*QuoteResult, error)
	Swap(req *SwapRequest) (*models.Swap, error)
	GetSwapsByPool(poolID string, limit, offset int) ([]*models.Swap, error)
}

type engine struct {
	db     *gorm.DB
	pools  pool.PoolRepository
	swaps  SwapRepository
	locker *pool.Locker
	now    func() time.Time
	log    *logrus.Entry
}

// NewEngine creates a new swap engine. The locker must be the same
// instance the liquidity engine uses so pool mutations serialize.
func NewEngine(db *gorm.DB, pools pool.PoolRepository, swaps SwapRepository, locker *pool.Locker) Engine {
	return &engine{
		db:     db,
		pools:  pools,
		swaps:  swaps,
		locker: locker,
		now:    time.Now,
		log:    logrus.WithField("component", "swap_engine"),
	}
}

// price runs the pure pricing arithmetic against a pool snapshot.
func price(p *models.Pool, tokenInID uint, amountIn decimal.Decimal) (*QuoteResult, error) {
	var reserveIn, reserveOut decimal.Decimal
	var tokenOutID uint
	switch tokenInID {
	case p.Token0ID:
		reserveIn, reserveOut, tokenOutID = p.Reserve0, p.Reserve1, p.Token1ID
	case p.Token1ID:
		reserveIn, reserveOut, tokenOutID = p.Reserve1, p.Reserve0, p.Token0ID
	default:
		return nil, fmt.Errorf("%w: token %d not in pool %s", dexerr.ErrInvalidToken, tokenInID, p.PoolID)
	}

	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return nil, dexerr.ErrInvalidReserves
	}

	feeAmount := amm.FeeAmount(amountIn, p.FeeBps)
	afterFee := amountIn.Sub(feeAmount)
	amountOut := amm.AmountOut(reserveIn, reserveOut, afterFee)

	// Unreachable with arbitrary-precision integers; a violation here
	// means the reserves themselves are corrupt.
	if amountOut.IsNegative() || amountOut.GreaterThanOrEqual(reserveOut) {
		return nil, dexerr.ErrArithmeticOverflow
	}

	return &QuoteResult{
		PoolID:           p.PoolID,
		TokenInID:        tokenInID,
		TokenOutID:       tokenOutID,
		AmountIn:         amountIn,
		AmountInAfterFee: afterFee,
		AmountOut:        amountOut,
		FeeAmount:        feeAmount,
		FeeBps:           p.FeeBps,
		PriceImpactPct:   amm.PriceImpact(reserveIn, reserveOut, afterFee, amountOut),
	}, nil
}

// Quote prices a swap against the current pool state without mutating it.
func (e *engine) Quote(req *QuoteRequest) (*QuoteResult, error) {
	if !req.AmountIn.IsPositive() {
		return nil, dexerr.ErrInvalidAmount
	}

	p, err := e.activePool(e.pools, req.PoolID)
	if err != nil {
		return nil, err
	}
	return price(p, req.TokenInID, req.AmountIn.Truncate(0))
}

// Swap executes a swap atomically: the pool lock covers the whole
// read-compute-commit section and the reserve update plus audit record
// commit in one transaction. On any failure nothing is mutated.
func (e *engine) Swap(req *SwapRequest) (*models.Swap, error) {
	if !req.AmountIn.IsPositive() {
		return nil, dexerr.ErrInvalidAmount
	}
	if req.MinAmountOut.IsNegative() {
		return nil, dexerr.ErrInvalidAmount
	}
	if req.TxHash == "" {
		return nil, fmt.Errorf("%w: tx hash required", dexerr.ErrInvalidAmount)
	}
	amountIn := req.AmountIn.Truncate(0)

	e.locker.Lock(req.PoolID)
	defer e.locker.Unlock(req.PoolID)

	var record *models.Swap
	err := e.db.Transaction(func(tx *gorm.DB) error {
		pools := e.pools.WithTx(tx)
		swaps := e.swaps.WithTx(tx)

		p, err := e.activePool(pools, req.PoolID)
		if err != nil {
			return err
		}

		quote, err := price(p, req.TokenInID, amountIn)
		if err != nil {
			return err
		}
		if quote.AmountOut.LessThan(req.MinAmountOut) {
			return fmt.Errorf("%w: amount out %s < min %s",
				dexerr.ErrSlippageExceeded, quote.AmountOut, req.MinAmountOut)
		}

		existing, err := swaps.GetByTxHash(req.TxHash)
		if err != nil {
			return err
		}
		if existing != nil {
			return dexerr.ErrDuplicateTxHash
		}

		// The fee stays in the pool: the full amountIn enters the input
		// reserve, compounding LP value.
		reserve0, reserve1 := p.Reserve0, p.Reserve1
		if req.TokenInID == p.Token0ID {
			reserve0 = reserve0.Add(amountIn)
			reserve1 = reserve1.Sub(quote.AmountOut)
		} else {
			reserve1 = reserve1.Add(amountIn)
			reserve0 = reserve0.Sub(quote.AmountOut)
		}
		if err := pools.UpdateState(p.PoolID, reserve0, reserve1, p.LPTokenSupply); err != nil {
			return err
		}

		record = &models.Swap{
			TxHash:               req.TxHash,
			PoolID:               p.PoolID,
			TraderAddress:        req.TraderAddress,
			TokenInID:            quote.TokenInID,
			TokenOutID:           quote.TokenOutID,
			AmountIn:             amountIn,
			AmountOut:            quote.AmountOut,
			FeeAmount:            quote.FeeAmount,
			PriceImpactPct:       quote.PriceImpactPct,
			SlippageTolerancePct: req.SlippageTolerancePct,
			CreatedAt:            e.now(),
		}
		return swaps.Append(record)
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"pool_id":    record.PoolID,
		"tx_hash":    record.TxHash,
		"amount_in":  record.AmountIn.String(),
		"amount_out": record.AmountOut.String(),
	}).Info("Swap executed")

	return record, nil
}

// GetSwapsByPool returns a pool's swap history, newest first.
func (e *engine) GetSwapsByPool(poolID string, limit, offset int) ([]*models.Swap, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return e.swaps.GetByPool(poolID, limit, offset)
}

func (e *engine) activePool(pools pool.PoolRepository, poolID string) (*models.Pool, error) {
	p, err := pools.GetByPoolID(poolID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, dexerr.ErrPoolNotFound
	}
	if p.IsActive != nil && !*p.IsActive {
		return nil, fmt.Errorf("%w: pool inactive", dexerr.ErrPoolNotFound)
	}
	return p, nil
}
