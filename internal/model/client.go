package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientType enum constants
const (
	ClientTypeBuyer    = "BUYER"
	ClientTypeSupplier = "SUPPLIER"
	ClientTypeBoth     = "BOTH"
)

// Client represents a buyer, a supplier, or both. Suppliers are the cost side
// of a trade; buyers the revenue side.
type Client struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Type          string         `gorm:"type:varchar(20);not null;index" json:"type"` // BUYER, SUPPLIER, BOTH
	CompanyName   string         `gorm:"type:varchar(255)" json:"company_name"`
	Country       string         `gorm:"type:varchar(100)" json:"country"`
	Email         string         `gorm:"type:varchar(255)" json:"email"`
	Phone         string         `gorm:"type:varchar(50)" json:"phone"`
	ContactNotes  string         `gorm:"type:text" json:"contact_notes"`
	AccountingRef string         `gorm:"type:varchar(100)" json:"accounting_ref"` // contact id in the external accounting system
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
