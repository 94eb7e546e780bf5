package pool

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chainsim/dex-api/internal/models"
)

// PoolRepository interface defines pool database operations. WithTx returns
// a repository bound to a gorm transaction so engines can commit reserve
// updates atomically with their audit records.
type PoolRepository interface {
	WithTx(tx *gorm.DB) PoolRepository
	Create(pool *models.Pool) error
	GetByPoolID(poolID string) (*models.Pool, error)
	GetByTokens(token0ID, token1ID uint) (*models.Pool, error)
	List(limit, offset int) ([]*models.Pool, error)
	GetActivePools() ([]*models.Pool, error)
	GetPoolsByToken(tokenID uint) ([]*models.Pool, error)
	UpdateState(poolID string, reserve0, reserve1, lpTokenSupply decimal.Decimal) error
}

// poolRepository implements PoolRepository interface
type poolRepository struct {
	db *gorm.DB
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(db *gorm.DB) PoolRepository {
	return &poolRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *poolRepository) WithTx(tx *gorm.DB) PoolRepository {
	return &poolRepository{db: tx}
}

// Create creates a new pool
func (r *poolRepository) Create(pool *models.Pool) error {
	if pool == nil {
		return errors.New("pool cannot be nil")
	}
	return r.db.Create(pool).Error
}

// GetByPoolID retrieves a pool by its pool ID
func (r *poolRepository) GetByPoolID(poolID string) (*models.Pool, error) {
	if poolID == "" {
		return nil, errors.New("poolID cannot be empty")
	}

	var pool models.Pool
	err := r.db.Where("pool_id = ?", poolID).First(&pool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pool, nil
}

// GetByTokens retrieves a pool by token pair, order-insensitive
func (r *poolRepository) GetByTokens(token0ID, token1ID uint) (*models.Pool, error) {
	if token0ID == 0 || token1ID == 0 {
		return nil, errors.New("token ids cannot be zero")
	}

	var pool models.Pool
	err := r.db.Where(
		"(token0_id = ? AND token1_id = ?) OR (token0_id = ? AND token1_id = ?)",
		token0ID, token1ID, token1ID, token0ID,
	).First(&pool).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pool, nil
}

// List retrieves pools with pagination in insertion order
func (r *poolRepository) List(limit, offset int) ([]*models.Pool, error) {
	var pools []*models.Pool
	err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&pools).Error
	return pools, err
}

// GetActivePools retrieves all active pools
func (r *poolRepository) GetActivePools() ([]*models.Pool, error) {
	var pools []*models.Pool
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&pools).Error
	return pools, err
}

// GetPoolsByToken retrieves pools containing a specific token
func (r *poolRepository) GetPoolsByToken(tokenID uint) ([]*models.Pool, error) {
	if tokenID == 0 {
		return nil, errors.New("token id cannot be zero")
	}

	var pools []*models.Pool
	err := r.db.Where("token0_id = ? OR token1_id = ?", tokenID, tokenID).
		Order("id ASC").Find(&pools).Error
	return pools, err
}

// UpdateState updates a pool's reserves and LP supply in one statement
func (r *poolRepository) UpdateState(poolID string, reserve0, reserve1, lpTokenSupply decimal.Decimal) error {
	if poolID == "" {
		return errors.New("poolID cannot be empty")
	}
	return r.db.Model(&models.Pool{}).Where("pool_id = ?", poolID).Updates(map[string]interface{}{
		"reserve0":        reserve0,
		"reserve1":        reserve1,
		"lp_token_supply": lpTokenSupply,
	}).Error
}
