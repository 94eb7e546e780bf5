package pool

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chainsim/dex-api/internal/dexerr"
	"github.com/chainsim/dex-api/internal/models"
)

// MockService is a mock implementation of the pool Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreatePool(req *CreatePoolRequest) (*models.Pool, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pool), args.Error(1)
}

func (m *MockService) GetPoolByPoolID(poolID string) (*models.Pool, error) {
	args := m.Called(poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pool), args.Error(1)
}

func (m *MockService) GetPoolByTokens(token0ID, token1ID uint) (*models.Pool, error) {
	args := m.Called(token0ID, token1ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pool), args.Error(1)
}

func (m *MockService) ListPools(limit, offset int) ([]*models.Pool, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]*models.Pool), args.Error(1)
}

func (m *MockService) GetActivePools() ([]*models.Pool, error) {
	args := m.Called()
	return args.Get(0).([]*models.Pool), args.Error(1)
}

func (m *MockService) GetPoolsByToken(tokenID uint) ([]*models.Pool, error) {
	args := m.Called(tokenID)
	return args.Get(0).([]*models.Pool), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/v1"))
	return router
}

func TestHandler_CreatePool(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("CreatePool", mock.AnythingOfType("*pool.CreatePoolRequest")).Return(&models.Pool{
		PoolID:   PairID(1, 2),
		Token0ID: 1,
		Token1ID: 2,
		Reserve0: decimal.NewFromInt(1_000_000_000),
		Reserve1: decimal.NewFromInt(3_000_000),
	}, nil)

	body := `{"token0_id":1,"token1_id":2,"reserve0":"1000000000","reserve1":"3000000","fee_bps":30}`
	req := httptest.NewRequest(http.MethodPost, "/v1/pools", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), PairID(1, 2))
	svc.AssertExpectations(t)
}

func TestHandler_CreatePool_DuplicateConflict(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("CreatePool", mock.Anything).Return(nil, dexerr.ErrDuplicatePool)

	body := `{"token0_id":1,"token1_id":2,"reserve0":"1000","reserve1":"2000","fee_bps":30}`
	req := httptest.NewRequest(http.MethodPost, "/v1/pools", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_CreatePool_BadBody(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/pools", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreatePool", mock.Anything)
}

func TestHandler_GetPool_NotFound(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("GetPoolByPoolID", "0xmissing").Return(nil, dexerr.ErrPoolNotFound)

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/0xmissing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetPoolByTokens(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("GetPoolByTokens", uint(1), uint(2)).Return(&models.Pool{PoolID: PairID(1, 2)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/by-tokens?token0=1&token1=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Missing params are a 400 before the service is consulted.
	req = httptest.NewRequest(http.MethodGet, "/v1/pools/by-tokens?token0=1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListPools_TokenFilter(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("GetPoolsByToken", uint(2)).Return([]*models.Pool{{PoolID: PairID(1, 2)}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/pools?token=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
