package repository

import (
	"context"

	"salesos/internal/model"
	"salesos/internal/reference"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TradeListFilter narrows trade listings
type TradeListFilter struct {
	Status        string // lifecycle status or empty for all
	SaleReference string // partial match
	AccountCode   string
	ShopperID     string // trades allocated to a shopper
	Page          int
	Limit         int
}

type TradeRepository interface {
	Create(ctx context.Context, trade *model.Trade) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Trade, error)
	List(ctx context.Context, filter TradeListFilter) ([]model.Trade, int64, error)
	UpdateStatus(ctx context.Context, trade *model.Trade) error
	NextSaleReference(ctx context.Context) (string, error)
}

type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade *model.Trade) error {
	return GetDB(ctx, r.db).Create(trade).Error
}

func (r *tradeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Trade, error) {
	var trade model.Trade
	err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Items.Supplier").
		Preload("Client").
		Preload("Allocation").
		Preload("Allocation.Shopper").
		First(&trade, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) List(ctx context.Context, filter TradeListFilter) ([]model.Trade, int64, error) {
	var trades []model.Trade
	var total int64

	db := GetDB(ctx, r.db)
	base := db.Model(&model.Trade{})
	base = applyTradeFilter(base, filter)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetch := applyTradeFilter(db.Model(&model.Trade{}), filter).
		Preload("Items").
		Preload("Client").
		Preload("Allocation").
		Preload("Allocation.Shopper")
	if err := fetch.Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&trades).Error; err != nil {
		return nil, 0, err
	}

	return trades, total, nil
}

func applyTradeFilter(query *gorm.DB, filter TradeListFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SaleReference != "" {
		query = query.Where("sale_reference ILIKE ?", "%"+filter.SaleReference+"%")
	}
	if filter.AccountCode != "" {
		query = query.Where("account_code = ?", filter.AccountCode)
	}
	if filter.ShopperID != "" {
		query = query.Where(
			"id IN (SELECT trade_id FROM allocations WHERE shopper_id = ? AND status = ?)",
			filter.ShopperID, model.AllocationActive,
		)
	}
	return query
}

func (r *tradeRepository) UpdateStatus(ctx context.Context, trade *model.Trade) error {
	return GetDB(ctx, r.db).Save(trade).Error
}

// NextSaleReference advances the sale counter and returns the minted reference.
// The counter row is locked FOR UPDATE, so this must run inside a transaction
// (RunInTx); concurrent trade creations serialize on the row instead of racing.
func (r *tradeRepository) NextSaleReference(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)

	var counter model.SaleCounter
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&counter, "id = ?", model.SaleCounterID).Error
	if err != nil {
		return "", err
	}

	next := reference.Next(counter.LastReference)
	counter.LastReference = next
	if err := db.Save(&counter).Error; err != nil {
		return "", err
	}

	return next, nil
}
