package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Token represents a token tracked by the registry.
//
// All supply and reserve amounts across these models are integers in the
// token's smallest unit, stored as decimal(78,0) so they round-trip as
// arbitrary-precision strings on both postgres and sqlite.
type Token struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Symbol      string          `json:"symbol" gorm:"uniqueIndex;not null;size:20"`
	Name        string          `json:"name" gorm:"not null;size:100"`
	Decimals    uint8           `json:"decimals" gorm:"not null"`
	IsNative    bool            `json:"is_native" gorm:"default:false"`
	TotalSupply decimal.Decimal `json:"total_supply" gorm:"type:decimal(78,0)"`
	IsVerified  bool            `json:"is_verified" gorm:"default:false"`
	IsActive    *bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

// TableName returns the table name for Token model
func (Token) TableName() string {
	return "tokens"
}

// BeforeCreate hook to validate token data
func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.Symbol == "" || t.Name == "" {
		return gorm.ErrInvalidData
	}
	if t.Decimals > 18 {
		return gorm.ErrInvalidData
	}
	return nil
}

// Pool represents a constant-product liquidity pool. Token0ID < Token1ID is
// the canonical pair ordering; reserves follow that ordering.
type Pool struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	PoolID        string          `json:"pool_id" gorm:"uniqueIndex;not null;size:66"` // keccak256 of the canonical pair
	Token0ID      uint            `json:"token0_id" gorm:"not null;uniqueIndex:idx_pool_pair"`
	Token1ID      uint            `json:"token1_id" gorm:"not null;uniqueIndex:idx_pool_pair"`
	Reserve0      decimal.Decimal `json:"reserve0" gorm:"type:decimal(78,0)"`
	Reserve1      decimal.Decimal `json:"reserve1" gorm:"type:decimal(78,0)"`
	LPTokenSupply decimal.Decimal `json:"lp_token_supply" gorm:"type:decimal(78,0)"`
	FeeBps        int64           `json:"fee_bps" gorm:"not null"` // basis points of 10000
	IsActive      *bool           `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

// TableName returns the table name for Pool model
func (Pool) TableName() string {
	return "pools"
}

// BeforeCreate hook to validate pool data
func (p *Pool) BeforeCreate(tx *gorm.DB) error {
	if p.Token0ID == p.Token1ID || p.Token0ID > p.Token1ID {
		return gorm.ErrInvalidData
	}
	if p.FeeBps < 0 || p.FeeBps >= 10000 {
		return gorm.ErrInvalidData
	}
	return nil
}

// LiquidityPosition represents a provider's LP token holding in a pool.
// The token amounts record what was deposited at mint time and are
// informational; pool.LPTokenSupply remains the authoritative total.
type LiquidityPosition struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	PoolID             string          `json:"pool_id" gorm:"not null;size:66;index"`
	OwnerAddress       string          `json:"owner_address" gorm:"not null;size:42;index"`
	LPTokenAmount      decimal.Decimal `json:"lp_token_amount" gorm:"type:decimal(78,0);not null"`
	Token0AmountAtMint decimal.Decimal `json:"token0_amount_at_mint" gorm:"type:decimal(78,0)"`
	Token1AmountAtMint decimal.Decimal `json:"token1_amount_at_mint" gorm:"type:decimal(78,0)"`
	IsActive           *bool           `json:"is_active" gorm:"default:true"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `json:"deleted_at" gorm:"index"`

	// Relationships
	Pool *Pool `json:"pool,omitempty" gorm:"foreignKey:PoolID;references:PoolID"`
}

// TableName returns the table name for LiquidityPosition model
func (LiquidityPosition) TableName() string {
	return "liquidity_positions"
}

// BeforeCreate hook to validate liquidity position data
func (lp *LiquidityPosition) BeforeCreate(tx *gorm.DB) error {
	if lp.LPTokenAmount.IsZero() {
		return gorm.ErrInvalidData
	}
	return nil
}

// Swap is an append-only audit record of an executed swap. Rows are never
// updated or deleted after creation.
type Swap struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	TxHash               string          `json:"tx_hash" gorm:"uniqueIndex;not null;size:66"`
	PoolID               string          `json:"pool_id" gorm:"not null;size:66;index"`
	TraderAddress        string          `json:"trader_address" gorm:"not null;size:42;index"`
	TokenInID            uint            `json:"token_in_id" gorm:"not null"`
	TokenOutID           uint            `json:"token_out_id" gorm:"not null"`
	AmountIn             decimal.Decimal `json:"amount_in" gorm:"type:decimal(78,0);not null"`
	AmountOut            decimal.Decimal `json:"amount_out" gorm:"type:decimal(78,0);not null"`
	FeeAmount            decimal.Decimal `json:"fee_amount" gorm:"type:decimal(78,0)"`
	PriceImpactPct       decimal.Decimal `json:"price_impact_pct" gorm:"type:decimal(10,4)"`
	SlippageTolerancePct decimal.Decimal `json:"slippage_tolerance_pct" gorm:"type:decimal(10,4)"`
	CreatedAt            time.Time       `json:"created_at" gorm:"index"`

	// Relationships
	Pool *Pool `json:"pool,omitempty" gorm:"foreignKey:PoolID;references:PoolID"`
}

// TableName returns the table name for Swap model
func (Swap) TableName() string {
	return "swaps"
}
