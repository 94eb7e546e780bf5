package liquidity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chainsim/dex-api/internal/amm"
	"github.com/chainsim/dex-api/internal/dexerr"
	"github.com/chainsim/dex-api/internal/models"
	"github.com/chainsim/dex-api/internal/oracle"
	"github.com/chainsim/dex-api/internal/pool"
)

// AddLiquidityRequest deposits both tokens into a pool.
type AddLiquidityRequest struct {
	PoolID          string          `json:"pool_id" binding:"required"`
	ProviderAddress string          `json:"provider_address" binding:"required"`
	Amount0         decimal.Decimal `json:"amount0" binding:"required"`
	Amount1         decimal.Decimal `json:"amount1" binding:"required"`
}

// RemoveLiquidityRequest burns LP tokens from a position.
type RemoveLiquidityRequest struct {
	PositionID   uint            `json:"position_id" binding:"required"`
	OwnerAddress string          `json:"owner_address" binding:"required"`
	LPAmount     decimal.Decimal `json:"lp_amount" binding:"required"`
}

// RemoveLiquidityResult reports the reserves released by a burn.
type RemoveLiquidityResult struct {
	Position *models.LiquidityPosition `json:"position"`
	Amount0  decimal.Decimal           `json:"amount0"`
	Amount1  decimal.Decimal           `json:"amount1"`
}

// LiquidityValue is the proportional reserve share backing an LP amount.
type LiquidityValue struct {
	PoolID     string          `json:"pool_id"`
	LPAmount   decimal.Decimal `json:"lp_amount"`
	Amount0    decimal.Decimal `json:"amount0"`
	Amount1    decimal.Decimal `json:"amount1"`
	TotalValue decimal.Decimal `json:"total_value"` // reference units via the oracle
}

// Engine mints and burns LP tokens against pool reserves.
type Engine interface {
	AddLiquidity(req *AddLiquidityRequest) (*models.LiquidityPosition, error)
	RemoveLiquidity(req *RemoveLiquidityRequest) (*RemoveLiquidityResult, error)
	CalculateLiquidityValue(poolID string, lpAmount decimal.Decimal) (*LiquidityValue, error)
	GetPositionsByOwner(ownerAddress string, limit, offset int) ([]*models.LiquidityPosition, error)
}

type engine struct {
	db        *gorm.DB
	pools     pool.PoolRepository
	positions PositionRepository
	oracle    oracle.ValueOracle
	locker    *pool.Locker
	now       func() time.Time
	log       *logrus.Entry
}

// NewEngine creates a new liquidity engine sharing the swap engine's locker.
func NewEngine(db *gorm.DB, pools pool.PoolRepository, positions PositionRepository, valueOracle oracle.ValueOracle, locker *pool.Locker) Engine {
	return &engine{
		db:        db,
		pools:     pools,
		positions: positions,
		oracle:    valueOracle,
		locker:    locker,
		now:       time.Now,
		log:       logrus.WithField("component", "liquidity_engine"),
	}
}

// AddLiquidity mints LP tokens for a two-sided deposit. The first deposit
// mints floor(sqrt(amount0*amount1)); later deposits mint the minimum of
// the two share ratios so unbalanced deposits cannot dilute providers.
func (e *engine) AddLiquidity(req *AddLiquidityRequest) (*models.LiquidityPosition, error) {
	amount0 := req.Amount0.Truncate(0)
	amount1 := req.Amount1.Truncate(0)
	if !amount0.IsPositive() || !amount1.IsPositive() {
		return nil, dexerr.ErrInvalidAmount
	}

	e.locker.Lock(req.PoolID)
	defer e.locker.Unlock(req.PoolID)

	var position *models.LiquidityPosition
	err := e.db.Transaction(func(tx *gorm.DB) error {
		pools := e.pools.WithTx(tx)
		positions := e.positions.WithTx(tx)

		p, err := e.activePool(pools, req.PoolID)
		if err != nil {
			return err
		}

		minted := amm.MintAmount(amount0, amount1, p.Reserve0, p.Reserve1, p.LPTokenSupply)
		if minted.IsZero() {
			return dexerr.ErrZeroLiquidity
		}

		err = pools.UpdateState(p.PoolID,
			p.Reserve0.Add(amount0),
			p.Reserve1.Add(amount1),
			p.LPTokenSupply.Add(minted))
		if err != nil {
			return err
		}

		position = &models.LiquidityPosition{
			PoolID:             p.PoolID,
			OwnerAddress:       req.ProviderAddress,
			LPTokenAmount:      minted,
			Token0AmountAtMint: amount0,
			Token1AmountAtMint: amount1,
			CreatedAt:          e.now(),
		}
		return positions.Create(position)
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"pool_id":  position.PoolID,
		"provider": position.OwnerAddress,
		"minted":   position.LPTokenAmount.String(),
	}).Info("Liquidity added")

	return position, nil
}

// RemoveLiquidity burns LP tokens from an owner's position and releases
// the proportional reserve share.
func (e *engine) RemoveLiquidity(req *RemoveLiquidityRequest) (*RemoveLiquidityResult, error) {
	lpAmount := req.LPAmount.Truncate(0)
	if !lpAmount.IsPositive() {
		return nil, dexerr.ErrInvalidAmount
	}

	// The position row is immutable outside the pool lock, so the pool id
	// read here is stable even though the balances are re-read inside.
	pos, err := e.positions.GetByID(req.PositionID)
	if err != nil {
		return nil, err
	}
	if pos == nil || pos.OwnerAddress != req.OwnerAddress {
		return nil, fmt.Errorf("%w: no position %d for owner", dexerr.ErrInsufficientLPBalance, req.PositionID)
	}

	e.locker.Lock(pos.PoolID)
	defer e.locker.Unlock(pos.PoolID)

	var result *RemoveLiquidityResult
	err = e.db.Transaction(func(tx *gorm.DB) error {
		pools := e.pools.WithTx(tx)
		positions := e.positions.WithTx(tx)

		position, err := positions.GetByID(req.PositionID)
		if err != nil {
			return err
		}
		if position == nil || position.OwnerAddress != req.OwnerAddress {
			return dexerr.ErrInsufficientLPBalance
		}
		if position.IsActive != nil && !*position.IsActive {
			return fmt.Errorf("%w: position closed", dexerr.ErrInsufficientLPBalance)
		}
		if lpAmount.GreaterThan(position.LPTokenAmount) {
			return fmt.Errorf("%w: %s > %s", dexerr.ErrInsufficientLPBalance, lpAmount, position.LPTokenAmount)
		}

		p, err := e.activePool(pools, position.PoolID)
		if err != nil {
			return err
		}
		if lpAmount.GreaterThan(p.LPTokenSupply) {
			return dexerr.ErrExceedsSupply
		}

		out0, out1 := amm.BurnAmounts(lpAmount, p.Reserve0, p.Reserve1, p.LPTokenSupply)

		err = pools.UpdateState(p.PoolID,
			p.Reserve0.Sub(out0),
			p.Reserve1.Sub(out1),
			p.LPTokenSupply.Sub(lpAmount))
		if err != nil {
			return err
		}

		position.LPTokenAmount = position.LPTokenAmount.Sub(lpAmount)
		if position.LPTokenAmount.IsZero() {
			inactive := false
			position.IsActive = &inactive
		}
		if err := positions.Update(position); err != nil {
			return err
		}

		result = &RemoveLiquidityResult{Position: position, Amount0: out0, Amount1: out1}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"pool_id": result.Position.PoolID,
		"owner":   result.Position.OwnerAddress,
		"burned":  lpAmount.String(),
	}).Info("Liquidity removed")

	return result, nil
}

// CalculateLiquidityValue is a pure proportional read of what lpAmount is
// currently worth. It takes no lock; callers must not treat the result as
// a precondition for a later burn.
func (e *engine) CalculateLiquidityValue(poolID string, lpAmount decimal.Decimal) (*LiquidityValue, error) {
	lpAmount = lpAmount.Truncate(0)
	if !lpAmount.IsPositive() {
		return nil, dexerr.ErrInvalidAmount
	}

	p, err := e.activePool(e.pools, poolID)
	if err != nil {
		return nil, err
	}
	if lpAmount.GreaterThan(p.LPTokenSupply) {
		return nil, dexerr.ErrExceedsSupply
	}

	out0, out1 := amm.BurnAmounts(lpAmount, p.Reserve0, p.Reserve1, p.LPTokenSupply)
	return &LiquidityValue{
		PoolID:     p.PoolID,
		LPAmount:   lpAmount,
		Amount0:    out0,
		Amount1:    out1,
		TotalValue: e.oracle.TokenValue(p.Token0ID, out0).Add(e.oracle.TokenValue(p.Token1ID, out1)),
	}, nil
}

// GetPositionsByOwner lists an owner's positions, newest first.
func (e *engine) GetPositionsByOwner(ownerAddress string, limit, offset int) ([]*models.LiquidityPosition, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return e.positions.GetByOwner(ownerAddress, limit, offset)
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
