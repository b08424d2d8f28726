package repository

import (
	"context"

	"salesos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShopperRepository interface {
	Create(ctx context.Context, shopper *model.Shopper) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shopper, error)
	List(ctx context.Context, page, limit int) ([]model.Shopper, int64, error)
	Update(ctx context.Context, shopper *model.Shopper) error
}

type shopperRepository struct {
	db *gorm.DB
}

func NewShopperRepository(db *gorm.DB) ShopperRepository {
	return &shopperRepository{db: db}
}

func (r *shopperRepository) Create(ctx context.Context, shopper *model.Shopper) error {
	return GetDB(ctx, r.db).Create(shopper).Error
}

func (r *shopperRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Shopper, error) {
	var shopper model.Shopper
	if err := GetDB(ctx, r.db).First(&shopper, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shopper, nil
}

func (r *shopperRepository) List(ctx context.Context, page, limit int) ([]model.Shopper, int64, error) {
	var shoppers []model.Shopper
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Shopper{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&shoppers).Error; err != nil {
		return nil, 0, err
	}

	return shoppers, total, nil
}

func (r *shopperRepository) Update(ctx context.Context, shopper *model.Shopper) error {
	return GetDB(ctx, r.db).Save(shopper).Error
}

// --- Allocations ---

type AllocationRepository interface {
	Create(ctx context.Context, allocation *model.Allocation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Allocation, error)
	FindActiveByTradeID(ctx context.Context, tradeID uuid.UUID) (*model.Allocation, error)
	ListByShopper(ctx context.Context, shopperID uuid.UUID, page, limit int) ([]model.Allocation, int64, error)
	Update(ctx context.Context, allocation *model.Allocation) error
}

type allocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &allocationRepository{db: db}
}

func (r *allocationRepository) Create(ctx context.Context, allocation *model.Allocation) error {
	return GetDB(ctx, r.db).Create(allocation).Error
}

func (r *allocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Allocation, error) {
	var allocation model.Allocation
	if err := GetDB(ctx, r.db).Preload("Shopper").First(&allocation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *allocationRepository) FindActiveByTradeID(ctx context.Context, tradeID uuid.UUID) (*model.Allocation, error) {
	var allocation model.Allocation
	err := GetDB(ctx, r.db).
		Where("trade_id = ? AND status = ?", tradeID, model.AllocationActive).
		First(&allocation).Error
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *allocationRepository) ListByShopper(ctx context.Context, shopperID uuid.UUID, page, limit int) ([]model.Allocation, int64, error) {
	var allocations []model.Allocation
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Allocation{}).Where("shopper_id = ?", shopperID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Preload("Shopper").
		Where("shopper_id = ?", shopperID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&allocations).Error
	if err != nil {
		return nil, 0, err
	}

	return allocations, total, nil
}

func (r *allocationRepository) Update(ctx context.Context, allocation *model.Allocation) error {
	return GetDB(ctx, r.db).Save(allocation).Error
}
