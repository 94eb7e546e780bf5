package swap

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chainsim/dex-api/internal/models"
)

// SwapRepository is the append-only swap audit log. Records are created
// once and never updated or deleted.
type SwapRepository interface {
	WithTx(tx *gorm.DB) SwapRepository
	Append(swap *models.Swap) error
	GetByTxHash(txHash string) (*models.Swap, error)
	GetByPool(poolID string, limit, offset int) ([]*models.Swap, error)
	GetByWindow(poolID string, from, to time.Time) ([]*models.Swap, error)
	SumWindow(poolID string, from, to time.Time) (volume, fees decimal.Decimal, err error)
}

// swapRepository implements SwapRepository interface
type swapRepository struct {
	db *gorm.DB
}

// NewSwapRepository creates a new swap log repository
func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &swapRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *swapRepository) WithTx(tx *gorm.DB) SwapRepository {
	return &swapRepository{db: tx}
}

// Append records an executed swap
func (r *swapRepository) Append(swap *models.Swap) error {
	if swap == nil {
		return errors.New("swap cannot be nil")
	}
	return r.db.Create(swap).Error
}

// GetByTxHash retrieves a swap by its transaction hash
func (r *swapRepository) GetByTxHash(txHash string) (*models.Swap, error) {
	if txHash == "" {
		return nil, errors.New("txHash cannot be empty")
	}

	var swap models.Swap
	err := r.db.Where("tx_hash = ?", txHash).First(&swap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &swap, nil
}

// GetByPool retrieves swaps for a pool, newest first
func (r *swapRepository) GetByPool(poolID string, limit, offset int) ([]*models.Swap, error) {
	if poolID == "" {
		return nil, errors.New("poolID cannot be empty")
	}

	var swaps []*models.Swap
	err := r.db.Where("pool_id = ?", poolID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&swaps).Error
	return swaps, err
}

// GetByWindow retrieves swaps for a pool within [from, to]
func (r *swapRepository) GetByWindow(poolID string, from, to time.Time) ([]*models.Swap, error) {
	if poolID == "" {
		return nil, errors.New("poolID cannot be empty")
	}

	var swaps []*models.Swap
	err := r.db.Where("pool_id = ? AND created_at BETWEEN ? AND ?", poolID, from, to).
		Order("created_at ASC").Find(&swaps).Error
	return swaps, err
}

// SumWindow totals amount_in and fee_amount over [from, to]. The sums run
// in Go so the arbitrary-precision strings are never coerced through the
// database's float arithmetic.
func (r *swapRepository) SumWindow(poolID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	swaps, err := r.GetByWindow(poolID, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	volume, fees := decimal.Zero, decimal.Zero
	for _, s := range swaps {
		volume = volume.Add(s.AmountIn)
		fees = fees.Add(s.FeeAmount)
	}
	return volume, fees, nil
}
