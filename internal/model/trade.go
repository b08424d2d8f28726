package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TradeStatus enum constants: settlement lifecycle of a sale
const (
	TradeStatusDraft          = "DRAFT"
	TradeStatusInvoiced       = "INVOICED"
	TradeStatusPaid           = "PAID"
	TradeStatusCommissionPaid = "COMMISSION_PAID"
	TradeStatusCancelled      = "CANCELLED"
)

// PaymentMethod enum constants
const (
	PaymentMethodCard         = "CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

// Trade represents one brokered sale between a supplier and a client. The tax
// scenario and cost breakdown are snapshotted at creation time so later table
// changes never rewrite history.
type Trade struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SaleReference string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"sale_reference"`
	ClientID      *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	Client        *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// Questionnaire answers (nullable until answered; persisted as answered)
	ItemLocation    string `gorm:"type:varchar(10);not null" json:"item_location"`   // uk, outside
	ClientLocation  string `gorm:"type:varchar(10);not null" json:"client_location"` // uk, outside
	PurchaseType    string `gorm:"type:varchar(10)" json:"purchase_type"`            // retail, margin (UK stock only)
	DirectShip      *bool  `json:"direct_ship"`
	InsuranceLanded *bool  `json:"insurance_landed"`

	// Tax scenario snapshot
	AccountCode  string          `gorm:"type:varchar(10);not null;index" json:"account_code"`
	TaxType      string          `gorm:"type:varchar(30);not null" json:"tax_type"`
	TaxLabel     string          `gorm:"type:varchar(100);not null" json:"tax_label"`
	AmountsAre   string          `gorm:"type:varchar(10);not null" json:"amounts_are"`
	BrandTheme   string          `gorm:"type:varchar(30);not null" json:"brand_theme"`
	TaxLiability string          `gorm:"type:text" json:"tax_liability"`
	VATReclaim   string          `gorm:"type:text" json:"vat_reclaim"`
	ScenarioNote string          `gorm:"type:text" json:"scenario_note"`
	VATRate      decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"vat_rate"`

	// Logistics and cost breakdown snapshot (GBP)
	PaymentMethod        string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	DeliveryCountry      string          `gorm:"type:varchar(100);not null" json:"delivery_country"`
	HandDelivery         bool            `gorm:"default:false" json:"hand_delivery"`
	OtherDirectCosts     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"other_direct_costs"`
	ShippingCost         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"shipping_cost"`
	CardFees             decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"card_fees"`
	GrossMargin          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"gross_margin"`
	SaleAmountExVAT      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"sale_amount_ex_vat"`
	SaleAmountIncVAT     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"sale_amount_inc_vat"`
	CommissionableMargin decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"commissionable_margin"`

	Status     string         `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Note       string         `gorm:"type:text" json:"note"`
	Items      []TradeItem    `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE" json:"items"`
	Allocation *Allocation    `gorm:"foreignKey:TradeID" json:"allocation,omitempty"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid" json:"created_by"`
	InvoicedAt *time.Time     `json:"invoiced_at"`
	PaidAt     *time.Time     `json:"paid_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TradeItem is a single piece within a trade
type TradeItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TradeID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"trade_id"`
	Brand        string          `gorm:"type:varchar(100);not null" json:"brand"`
	Category     string          `gorm:"type:varchar(100)" json:"category"`
	Description  string          `gorm:"type:text" json:"description"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	BuyPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"buy_price"`
	SellPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"sell_price"`
	BuyCurrency  string          `gorm:"type:varchar(3);not null;default:'GBP'" json:"buy_currency"`
	SellCurrency string          `gorm:"type:varchar(3);not null;default:'GBP'" json:"sell_currency"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier     *Client         `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SaleCounterID is the primary key of the single counter row
const SaleCounterID = 1

// SaleCounter backs sale-reference allocation. The single row is locked FOR
// UPDATE inside the trade-creation transaction, so concurrent creations
// serialize instead of racing a read-then-write.
type SaleCounter struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	LastReference string    `gorm:"type:varchar(20);not null;default:''" json:"last_reference"`
	UpdatedAt     time.Time `json:"updated_at"`
}
