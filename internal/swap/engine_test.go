package swap

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/chainsim/dex-api/internal/dexerr"
	"github.com/chainsim/dex-api/internal/models"
	"github.com/chainsim/dex-api/internal/pool"
)

const (
	testTrader = "0x1111111111111111111111111111111111111111"
)

// SwapEngineTestSuite exercises quoting and execution against a real
// sqlite-backed pool store.
type SwapEngineTestSuite struct {
	suite.Suite
	db     *gorm.DB
	pools  pool.PoolRepository
	swaps  SwapRepository
	engine Engine

	poolID string
	txSeq  int
}

func (suite *SwapEngineTestSuite) SetupSuite() {
	db, err := gorm.Open(&sqlite.Dialector{DriverName: "sqlite", DSN: "file:swapengine?mode=memory&cache=shared"}, &gorm.Config{})
	suite.Require().NoError(err)

	err = db.AutoMigrate(&models.Pool{}, &models.Swap{})
	suite.Require().NoError(err)

	suite.db = db
	suite.pools = pool.NewPoolRepository(db)
	suite.swaps = NewSwapRepository(db)
	suite.engine = NewEngine(db, suite.pools, suite.swaps, pool.NewLocker())
	suite.poolID = pool.PairID(1, 2)
}

func (suite *SwapEngineTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM pools")
	suite.db.Exec("DELETE FROM swaps")

	// Reference pool: 1e9 / 3e6 at 30 bps.
	err := suite.pools.Create(&models.Pool{
		PoolID:        suite.poolID,
		Token0ID:      1,
		Token1ID:      2,
		Reserve0:      decimal.NewFromInt(1_000_000_000),
		Reserve1:      decimal.NewFromInt(3_000_000),
		LPTokenSupply: decimal.NewFromInt(54_772_255),
		FeeBps:        30,
	})
	suite.Require().NoError(err)
}

func (suite *SwapEngineTestSuite) TearDownSuite() {
	if sqlDB, err := suite.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (suite *SwapEngineTestSuite) nextTxHash() string {
	suite.txSeq++
	return fmt.Sprintf("0x%064x", suite.txSeq)
}

func (suite *SwapEngineTestSuite) reserves() (decimal.Decimal, decimal.Decimal) {
	p, err := suite.pools.GetByPoolID(suite.poolID)
	suite.Require().NoError(err)
	suite.Require().NotNil(p)
	return p.Reserve0, p.Reserve1
}

// TestSwap_ReferenceScenario executes the pinned integer scenario and
// checks the committed reserves keep the fee in the pool.
func (suite *SwapEngineTestSuite) TestSwap_ReferenceScenario() {
	record, err := suite.engine.Swap(&SwapRequest{
		PoolID:        suite.poolID,
		TraderAddress: testTrader,
		TokenInID:     1,
		AmountIn:      decimal.NewFromInt(50_000_000),
		MinAmountOut:  decimal.NewFromInt(142_449),
		TxHash:        suite.nextTxHash(),
	})
	suite.Require().NoError(err)

	suite.Equal("150000", record.FeeAmount.String())
	suite.Equal("142449", record.AmountOut.String())
	suite.Equal(uint(2), record.TokenOutID)

	r0, r1 := suite.reserves()
	suite.Equal("1050000000", r0.String()) // full amountIn, fee included
	suite.Equal("2857551", r1.String())
}

// TestQuoteSwapAgreement verifies quote and swap produce identical output
// for identical starting state.
func (suite *SwapEngineTestSuite) TestQuoteSwapAgreement() {
	quote, err := suite.engine.Quote(&QuoteRequest{
		PoolID:    suite.poolID,
		TokenInID: 1,
		AmountIn:  decimal.NewFromInt(50_000_000),
	})
	suite.Require().NoError(err)

	record, err := suite.engine.Swap(&SwapRequest{
		PoolID:        suite.poolID,
		TraderAddress: testTrader,
		TokenInID:     1,
		AmountIn:      decimal.NewFromInt(50_000_000),
		TxHash:        suite.nextTxHash(),
	})
	suite.Require().NoError(err)

	suite.True(quote.AmountOut.Equal(record.AmountOut))
	suite.True(quote.FeeAmount.Equal(record.FeeAmount))
	suite.True(quote.PriceImpactPct.Equal(record.PriceImpactPct))
}

// TestQuote_DoesNotMutate verifies a quote leaves the pool untouched.
func (suite *SwapEngineTestSuite) TestQuote_DoesNotMutate() {
	r0Before, r1Before := suite.reserves()

	_, err := suite.engine.Quote(&QuoteRequest{
		PoolID:    suite.poolID,
		TokenInID: 2,
		AmountIn:  decimal.NewFromInt(100_000),
	})
	suite.Require().NoError(err)

	r0After, r1After := suite.reserves()
	suite.True(r0Before.Equal(r0After))
	suite.True(r1Before.Equal(r1After))
}

// TestSwap_ReverseDirection swaps token1 in and checks reserves move the
// other way.
func (suite *SwapEngineTestSuite) TestSwap_ReverseDirection() {
	record, err := suite.engine.Swap(&SwapRequest{
		PoolID:        suite.poolID,
		TraderAddress: testTrader,
		TokenInID:     2,
		AmountIn:      decimal.NewFromInt(100_000),
		TxHash:        suite.nextTxHash(),
	})
	suite.Require().NoError(err)
	suite.Equal(uint(1), record.TokenOutID)

	r0, r1 := suite.reserves()
	suite.Equal("3100000", r1.String())
	suite.True(r0.LessThan(decimal.NewFromInt(1_000_000_000)))
}

// TestSwap_SlippageExceeded checks the min-out guard commits nothing.
func (suite *SwapEngineTestSuite) TestSwap_SlippageExceeded() {
	_, err := suite.engine.Swap(&SwapRequest{
		PoolID:        suite.poolID,
		TraderAddress: testTrader,
		TokenInID:     1,
		AmountIn:      decimal.NewFromInt(50_000_000),
		MinAmountOut:  decimal.NewFromInt(142_450), // one above achievable
		TxHash:        suite.nextTxHash(),
	})
	suite.ErrorIs(err, dexerr.ErrSlippageExceeded)

	r0, r1 := suite.reserves()
	suite.Equal("1000000000", r0.String())
	suite.Equal("3000000", r1.String())
}

// TestSwap_DuplicateTxHash checks the second use of a hash fails and
// leaves reserves unchanged from after the first swap.
func (suite *SwapEngineTestSuite) TestSwap_DuplicateTxHash() {
	txHash := suite.nextTxHash()
	req := &SwapRequest{
		PoolID:        suite.poolID,
		TraderAddress: testTrader,
		TokenInID:     1,
		AmountIn:      decimal.NewFromInt(50_000_000),
		TxHash:        txHash,
	}

	_, err := suite.engine.Swap(req)
	suite.Require().NoError(err)
	r0After, r1After := suite.reserves()

	_, err = suite.engine.Swap(req)
	suite.ErrorIs(err, dexerr.ErrDuplicateTxHash)

	r0, r1 := suite.reserves()
	suite.True(r0.Equal(r0After))
	suite.True(r1.Equal(r1After))
}

// TestSwap_InvariantGrowth checks k never shrinks across a sequence of
// swaps in both directions.
func (suite *SwapEngineTestSuite) TestSwap_InvariantGrowth() {
	r0, r1 := suite.reserves()
	k := r0.Mul(r1)

	for i, in := range []struct {
		tokenID uint
		amount  int64
	}{
		{1, 25_000_000}, {2, 80_000}, {1, 1_000_000}, {2, 500_000},
	} {
		_, err := suite.engine.Swap(&SwapRequest{
			PoolID:        suite.poolID,
			TraderAddress: testTrader,
			TokenInID:     in.tokenID,
			AmountIn:      decimal.NewFromInt(in.amount),
			TxHash:        suite.nextTxHash(),
		})
		suite.Require().NoError(err, "swap %d", i)

		r0, r1 = suite.reserves()
		newK := r0.Mul(r1)
		suite.True(newK.GreaterThanOrEqual(k), "swap %d shrank k: %s < %s", i, newK, k)
		k = newK
	}
}

// TestSwap_InvalidToken rejects a token outside the pair.
func (suite *SwapEngineTestSuite) TestSwap_InvalidToken() {
	_, err := suite.engine.Swap(&SwapRequest{
		PoolID:        suite.poolID,
		TraderAddress: testTrader,
		TokenInID:     99,
		AmountIn:      decimal.NewFromInt(1000),
		TxHash:        suite.nextTxHash(),
	})
	suite.ErrorIs(err, dexerr.ErrInvalidToken)
}

// TestSwap_PoolNotFound rejects unknown and inactive pools.
func (suite *SwapEngineTestSuite) TestSwap_PoolNotFound() {
	_, err := suite.engine.Swap(&SwapRequest{
		PoolID:        "0xmissing",
		TraderAddress: testTrader,
		TokenInID:     1,
		AmountIn:      decimal.NewFromInt(1000),
		TxHash:        suite.nextTxHash(),
	})
	suite.ErrorIs(err, dexerr.ErrPoolNotFound)

	inactive := false
	suite.db.Model(&models.Pool{}).Where("pool_id = ?", suite.poolID).Update("is_active", inactive)

	_, err = suite.engine.Swap(&SwapRequest{
		PoolID:        suite.poolID,
		TraderAddress: testTrader,
		TokenInID:     1,
		AmountIn:      decimal.NewFromInt(1000),
		TxHash:        suite.nextTxHash(),
	})
	suite.ErrorIs(err, dexerr.ErrPoolNotFound)
}

// TestSwap_InvalidAmount rejects non-positive input.
func (suite *SwapEngineTestSuite) TestSwap_InvalidAmount() {
	for _, amount := range []int64{0, -500} {
		_, err := suite.engine.Swap(&SwapRequest{
			PoolID:        suite.poolID,
			TraderAddress: testTrader,
			TokenInID:     1,
			AmountIn:      decimal.NewFromInt(amount),
			TxHash:        suite.nextTxHash(),
		})
		suite.ErrorIs(err, dexerr.ErrInvalidAmount)
	}
}

// TestGetSwapsByPool verifies the audit listing.
func (suite *SwapEngineTestSuite) TestGetSwapsByPool() {
	for i := 0; i < 3; i++ {
		_, err := suite.engine.Swap(&SwapRequest{
			PoolID:        suite.poolID,
			TraderAddress: testTrader,
			TokenInID:     1,
			AmountIn:      decimal.NewFromInt(1_000_000),
			TxHash:        suite.nextTxHash(),
		})
		suite.Require().NoError(err)
	}

	swaps, err := suite.engine.GetSwapsByPool(suite.poolID, 10, 0)
	suite.NoError(err)
	suite.Len(swaps, 3)
}

func TestSwapEngineTestSuite(t *testing.T) {
	suite.Run(t, new(SwapEngineTestSuite))
}
