package liquidity

import (
	"errors"

	"gorm.io/gorm"

	"github.com/chainsim/dex-api/internal/models"
)

// PositionRepository defines the interface for liquidity position operations
type PositionRepository interface {
	WithTx(tx *gorm.DB) PositionRepository
	Create(position *models.LiquidityPosition) error
	GetByID(id uint) (*models.LiquidityPosition, error)
	Update(position *models.LiquidityPosition) error
	GetByOwner(ownerAddress string, limit, offset int) ([]*models.LiquidityPosition, error)
	GetByPool(poolID string, limit, offset int) ([]*models.LiquidityPosition, error)
}

// positionRepository implements PositionRepository
type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new liquidity position repository
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *positionRepository) WithTx(tx *gorm.DB) PositionRepository {
	return &positionRepository{db: tx}
}

// Create creates a new liquidity position
func (r *positionRepository) Create(position *models.LiquidityPosition) error {
	if position == nil {
		return errors.New("liquidity position cannot be nil")
	}
	return r.db.Create(position).Error
}

// GetByID retrieves a liquidity position by ID
func (r *positionRepository) GetByID(id uint) (*models.LiquidityPosition, error) {
	if id == 0 {
		return nil, errors.New("id cannot be zero")
	}

	var position models.LiquidityPosition
	err := r.db.First(&position, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &position, nil
}

// Update updates a liquidity position
func (r *positionRepository) Update(position *models.LiquidityPosition) error {
	if position == nil {
		return errors.New("liquidity position cannot be nil")
	}
	if position.ID == 0 {
		return errors.New("id cannot be zero")
	}
	return r.db.Save(position).Error
}

// GetByOwner retrieves liquidity positions by owner address
func (r *positionRepository) GetByOwner(ownerAddress string, limit, offset int) ([]*models.LiquidityPosition, error) {
	if ownerAddress == "" {
		return nil, errors.New("owner address cannot be empty")
	}

	var positions []*models.LiquidityPosition
	err := r.db.Where("owner_address = ?", ownerAddress).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&positions).Error
	return positions, err
}

// GetByPool retrieves liquidity positions by pool ID
func (r *positionRepository) GetByPool(poolID string, limit, offset int) ([]*models.LiquidityPosition, error) {
	if poolID == "" {
		return nil, errors.New("pool ID cannot be empty")
	}

	var positions []*models.LiquidityPosition
	err := r.db.Where("pool_id = ?", poolID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&positions).Error
	return positions, err
}
