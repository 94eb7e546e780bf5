package token

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/chainsim/dex-api/internal/models"
)

// TokenRepository defines the interface for token registry data operations
type TokenRepository interface {
	Create(token *models.Token) error
	GetByID(id uint) (*models.Token, error)
	GetBySymbol(symbol string) (*models.Token, error)
	Update(token *models.Token) error
	List(limit, offset int) ([]*models.Token, error)
	GetVerifiedTokens(limit, offset int) ([]*models.Token, error)
}

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository instance
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Create creates a new token
func (r *tokenRepository) Create(token *models.Token) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}
	return r.db.Create(token).Error
}

// GetByID retrieves a token by ID
func (r *tokenRepository) GetByID(id uint) (*models.Token, error) {
	if id == 0 {
		return nil, errors.New("id cannot be zero")
	}

	var token models.Token
	err := r.db.First(&token, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// GetBySymbol retrieves a token by its unique symbol
func (r *tokenRepository) GetBySymbol(symbol string) (*models.Token, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, errors.New("symbol cannot be empty")
	}

	var token models.Token
	err := r.db.Where("symbol = ?", symbol).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// Update updates an existing token (admin correction only)
func (r *tokenRepository) Update(token *models.Token) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}
	if token.ID == 0 {
		return errors.New("id cannot be zero")
	}
	return r.db.Save(token).Error
}

// List retrieves tokens with pagination in insertion order
func (r *tokenRepository) List(limit, offset int) ([]*models.Token, error) {
	var tokens []*models.Token
	err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&tokens).Error
	return tokens, err
}

// GetVerifiedTokens retrieves verified tokens with pagination
func (r *tokenRepository) GetVerifiedTokens(limit, offset int) ([]*models.Token, error) {
	var tokens []*models.Token
	err := r.db.Where("is_verified = ?", true).Order("id ASC").
		Limit(limit).Offset(offset).Find(&tokens).Error
	return tokens, err
}
