package pool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/chainsim/dex-api/internal/amm"
	"github.com/chainsim/dex-api/internal/dexerr"
	"github.com/chainsim/dex-api/internal/models"
	"github.com/chainsim/dex-api/internal/token"
)

// CreatePoolRequest carries the parameters for creating a pool. Token
// order does not matter; the service canonicalizes it.
type CreatePoolRequest struct {
	Token0ID uint            `json:"token0_id" binding:"required"`
	Token1ID uint            `json:"token1_id" binding:"required"`
	Reserve0 decimal.Decimal `json:"reserve0" binding:"required"`
	Reserve1 decimal.Decimal `json:"reserve1" binding:"required"`
	FeeBps   int64           `json:"fee_bps"`
}

// Service defines pool store operations
type Service interface {
	CreatePool(req *CreatePoolRequest) (*models.Pool, error)
	GetPoolByPoolID(poolID string) (*models.Pool, error)
	GetPoolByTokens(token0ID, token1ID uint) (*models.Pool, error)
	ListPools(limit, offset int) ([]*models.Pool, error)
	GetActivePools() ([]*models.Pool, error)
	GetPoolsByToken(tokenID uint) ([]*models.Pool, error)
}

type service struct {
	repo   PoolRepository
	tokens token.Service
}

// NewService creates a new pool service
func NewService(repo PoolRepository, tokens token.Service) Service {
	return &service{repo: repo, tokens: tokens}
}

// PairID derives the canonical pool identifier for an unordered token
// pair: the keccak256 hash of "token0:token1" with token0 < token1.
func PairID(token0ID, token1ID uint) string {
	if token1ID < token0ID {
		token0ID, token1ID = token1ID, token0ID
	}
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("%d:%d", token0ID, token1ID))).Hex()
}

func (s *service) CreatePool(req *CreatePoolRequest) (*models.Pool, error) {
	token0ID, token1ID := req.Token0ID, req.Token1ID
	reserve0, reserve1 := req.Reserve0, req.Reserve1

	if token0ID == token1ID {
		return nil, fmt.Errorf("%w: pool tokens must differ", dexerr.ErrInvalidToken)
	}
	if token1ID < token0ID {
		token0ID, token1ID = token1ID, token0ID
		reserve0, reserve1 = reserve1, reserve0
	}

	if !reserve0.IsPositive() || !reserve1.IsPositive() {
		return nil, dexerr.ErrInvalidReserves
	}
	if req.FeeBps < 0 || req.FeeBps >= amm.BpsDenominator {
		return nil, fmt.Errorf("%w: fee must be in [0,10000) bps", dexerr.ErrInvalidAmount)
	}

	for _, id := range []uint{token0ID, token1ID} {
		if _, err := s.tokens.GetTokenByID(id); err != nil {
			return nil, fmt.Errorf("%w: token %d", dexerr.ErrTokenNotFound, id)
		}
	}

	existing, err := s.repo.GetByTokens(token0ID, token1ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, dexerr.ErrDuplicatePool
	}

	pool := &models.Pool{
		PoolID:        PairID(token0ID, token1ID),
		Token0ID:      token0ID,
		Token1ID:      token1ID,
		Reserve0:      reserve0.Truncate(0),
		Reserve1:      reserve1.Truncate(0),
		LPTokenSupply: amm.InitialLiquidity(reserve0, reserve1),
		FeeBps:        req.FeeBps,
	}
	if err := s.repo.Create(pool); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"pool_id":   pool.PoolID,
		"token0_id": pool.Token0ID,
		"token1_id": pool.Token1ID,
		"fee_bps":   pool.FeeBps,
	}).Info("Pool created")

	return pool, nil
}

func (s *service) GetPoolByPoolID(poolID string) (*models.Pool, error) {
	pool, err := s.repo.GetByPoolID(poolID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, dexerr.ErrPoolNotFound
	}
	return pool, nil
}

func (s *service) GetPoolByTokens(token0ID, token1ID uint) (*models.Pool, error) {
	pool, err := s.repo.GetByTokens(token0ID, token1ID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, dexerr.ErrPoolNotFound
	}
	return pool, nil
}

func (s *service) ListPools(limit, offset int) ([]*models.Pool, error) {
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

func (s *service) GetActivePools() ([]*models.Pool, error) {
	return s.repo.GetActivePools()
}

func (s *service) GetPoolsByToken(tokenID uint) ([]*models.Pool, error) {
	return s.repo.GetPoolsByToken(tokenID)
}
