package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationStatus enum constants
const (
	AllocationActive   = "ACTIVE"
	AllocationReleased = "RELEASED"
)

// Shopper is a personal shopper sales can be allocated to for commission.
type Shopper struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Email          string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone          string          `gorm:"type:varchar(50)" json:"phone"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"commission_rate"` // e.g. 0.30 = 30% of commissionable margin
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Allocation ties a trade to a shopper. The commission basis is the trade's
// commissionable margin frozen at allocation time.
type Allocation struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TradeID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"trade_id"`
	ShopperID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"shopper_id"`
	Shopper          *Shopper        `gorm:"foreignKey:ShopperID" json:"shopper,omitempty"`
	CommissionBasis  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"commission_basis"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"commission_rate"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"commission_amount"`
	Status           string          `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	AllocatedBy      *uuid.UUID      `gorm:"type:uuid" json:"allocated_by"`
	ReleasedAt       *time.Time      `json:"released_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
