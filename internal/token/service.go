package token

import (
	"fmt"

	"github.com/chainsim/dex-api/internal/dexerr"
	"github.com/chainsim/dex-api/internal/models"
)

// Service defines token registry operations
type Service interface {
	CreateToken(token *models.Token) error
	GetTokenByID(id uint) (*models.Token, error)
	GetTokenBySymbol(symbol string) (*models.Token, error)
	UpdateToken(token *models.Token) error
	ListTokens(limit, offset int) ([]*models.Token, error)
	GetVerifiedTokens(limit, offset int) ([]*models.Token, error)
}

type service struct {
	repo TokenRepository
}

// NewService creates a new token service
func NewService(repo TokenRepository) Service {
	return &service{repo: repo}
}

func (s *service) CreateToken(token *models.Token) error {
	if token.Symbol == "" || token.Name == "" {
		return fmt.Errorf("%w: symbol and name are required", dexerr.ErrInvalidAmount)
	}
	if token.Decimals > 18 {
		return fmt.Errorf("%w: decimals must be 0-18", dexerr.ErrInvalidAmount)
	}
	return s.repo.Create(token)
}

func (s *service) GetTokenByID(id uint) (*models.Token, error) {
	token, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, dexerr.ErrTokenNotFound
	}
	return token, nil
}

func (s *service) GetTokenBySymbol(symbol string) (*models.Token, error) {
	token, err := s.repo.GetBySymbol(symbol)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, dexerr.ErrTokenNotFound
	}
	return token, nil
}

// UpdateToken applies an admin correction to token metadata.
func (s *service) UpdateToken(token *models.Token) error {
	existing, err := s.repo.GetByID(token.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return dexerr.ErrTokenNotFound
	}
	return s.repo.Update(token)
}

func (s *service) ListTokens(limit, offset int) ([]*models.Token, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}

func (s *service) GetVerifiedTokens(limit, offset int) ([]*models.Token, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetVerifiedTokens(limit, offset)
}
