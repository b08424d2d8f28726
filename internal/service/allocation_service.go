package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"salesos/internal/model"
	"salesos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateShopperRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	CommissionRate string `json:"commission_rate" binding:"required"` // decimal string, e.g. "0.30"
}

type UpdateShopperRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	CommissionRate *string `json:"commission_rate"`
	IsActive       *bool   `json:"is_active"`
}

type ShopperResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CommissionRate string `json:"commission_rate"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
}

type AllocateTradeRequest struct {
	TradeID   string `json:"trade_id" binding:"required"`
	ShopperID string `json:"shopper_id" binding:"required"`
}

type AllocationResponse struct {
	ID               string `json:"id"`
	TradeID          string `json:"trade_id"`
	ShopperID        string `json:"shopper_id"`
	ShopperName      string `json:"shopper_name,omitempty"`
	CommissionBasis  string `json:"commission_basis"`
	CommissionRate   string `json:"commission_rate"`
	CommissionAmount string `json:"commission_amount"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

// --- Interface ---

type AllocationService interface {
	CreateShopper(ctx context.Context, req CreateShopperRequest, userID string) (ShopperResponse, error)
	UpdateShopper(ctx context.Context, id string, req UpdateShopperRequest, userID string) (ShopperResponse, error)
	ListShoppers(ctx context.Context, page, limit int) ([]ShopperResponse, int64, error)
	Allocate(ctx context.Context, req AllocateTradeRequest, userID string) (AllocationResponse, error)
	Release(ctx context.Context, allocationID string, userID string) error
	ListShopperAllocations(ctx context.Context, shopperID string, page, limit int) ([]AllocationResponse, int64, error)
}

type allocationService struct {
	shopperRepo    repository.ShopperRepository
	allocationRepo repository.AllocationRepository
	tradeRepo      repository.TradeRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	publisher      Publisher
}

func NewAllocationService(
	shopperRepo repository.ShopperRepository,
	allocationRepo repository.AllocationRepository,
	tradeRepo repository.TradeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher Publisher,
) AllocationService {
	return &allocationService{
		shopperRepo:    shopperRepo,
		allocationRepo: allocationRepo,
		tradeRepo:      tradeRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		publisher:      publisher,
	}
}

// --- Implementation ---

func (s *allocationService) CreateShopper(ctx context.Context, req CreateShopperRequest, userID string) (ShopperResponse, error) {
	rate, err := decimal.NewFromString(req.CommissionRate)
	if err != nil {
		return ShopperResponse{}, fmt.Errorf("invalid commission_rate: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return ShopperResponse{}, fmt.Errorf("commission_rate must be between 0 and 1")
	}

	shopper := model.Shopper{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CommissionRate: rate,
		IsActive:       true,
	}
	if err := s.shopperRepo.Create(ctx, &shopper); err != nil {
		return ShopperResponse{}, fmt.Errorf("failed to create shopper: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionCreateShopper, shopper.ID.String(), shopper.Name, req)
	return toShopperResponse(shopper), nil
}

func (s *allocationService) UpdateShopper(ctx context.Context, id string, req UpdateShopperRequest, userID string) (ShopperResponse, error) {
	shopperID, err := uuid.Parse(id)
	if err != nil {
		return ShopperResponse{}, fmt.Errorf("invalid shopper id: %w", err)
	}

	shopper, err := s.shopperRepo.FindByID(ctx, shopperID)
	if err != nil {
		return ShopperResponse{}, fmt.Errorf("shopper not found: %w", err)
	}

	if req.Name != nil {
		shopper.Name = *req.Name
	}
	if req.Phone != nil {
		shopper.Phone = *req.Phone
	}
	if req.CommissionRate != nil {
		rate, rateErr := decimal.NewFromString(*req.CommissionRate)
		if rateErr != nil {
			return ShopperResponse{}, fmt.Errorf("invalid commission_rate: %w", rateErr)
		}
		shopper.CommissionRate = rate
	}
	if req.IsActive != nil {
		shopper.IsActive = *req.IsActive
	}

	if err := s.shopperRepo.Update(ctx, shopper); err != nil {
		return ShopperResponse{}, fmt.Errorf("failed to update shopper: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionUpdateShopper, shopper.ID.String(), shopper.Name, req)
	return toShopperResponse(*shopper), nil
}

func (s *allocationService) ListShoppers(ctx context.Context, page, limit int) ([]ShopperResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	shoppers, total, err := s.shopperRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch shoppers: %w", err)
	}

	result := make([]ShopperResponse, 0, len(shoppers))
	for _, sh := range shoppers {
		result = append(result, toShopperResponse(sh))
	}
	return result, total, nil
}

// Allocate ties a trade to a shopper, freezing the commission basis at the
// trade's current commissionable margin.
func (s *allocationService) Allocate(ctx context.Context, req AllocateTradeRequest, userID string) (AllocationResponse, error) {
	tradeID, err := uuid.Parse(req.TradeID)
	if err != nil {
		return AllocationResponse{}, fmt.Errorf("invalid trade_id: %w", err)
	}
	shopperID, err := uuid.Parse(req.ShopperID)
	if err != nil {
		return AllocationResponse{}, fmt.Errorf("invalid shopper_id: %w", err)
	}

	var allocation model.Allocation
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		trade, findErr := s.tradeRepo.FindByID(txCtx, tradeID)
		if findErr != nil {
			return fmt.Errorf("trade not found: %w", findErr)
		}
		if trade.Status == model.TradeStatusCancelled {
			return fmt.Errorf("cannot allocate a cancelled trade")
		}

		if existing, lookupErr := s.allocationRepo.FindActiveByTradeID(txCtx, tradeID); lookupErr == nil && existing != nil {
			return fmt.Errorf("trade is already allocated")
		}

		shopper, findErr := s.shopperRepo.FindByID(txCtx, shopperID)
		if findErr != nil {
			return fmt.Errorf("shopper not found: %w", findErr)
		}
		if !shopper.IsActive {
			return fmt.Errorf("shopper %s is inactive", shopper.Name)
		}

		allocation = model.Allocation{
			TradeID:          tradeID,
			ShopperID:        shopperID,
			CommissionBasis:  trade.CommissionableMargin,
			CommissionRate:   shopper.CommissionRate,
			CommissionAmount: trade.CommissionableMargin.Mul(shopper.CommissionRate),
			Status:           model.AllocationActive,
		}
		if userID != "" {
			if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
				allocation.AllocatedBy = &parsed
			}
		}

		return s.allocationRepo.Create(txCtx, &allocation)
	})
	if err != nil {
		return AllocationResponse{}, err
	}

	s.writeAudit(ctx, userID, model.ActionAllocateTrade, allocation.ID.String(), req.TradeID, req)
	if s.publisher != nil {
		s.publisher.Publish("trade.allocated", map[string]string{
			"trade_id":   req.TradeID,
			"shopper_id": req.ShopperID,
		})
	}

	reloaded, err := s.allocationRepo.FindByID(ctx, allocation.ID)
	if err != nil {
		return AllocationResponse{}, fmt.Errorf("failed to reload allocation: %w", err)
	}
	return toAllocationResponse(*reloaded), nil
}

func (s *allocationService) Release(ctx context.Context, allocationID string, userID string) error {
	id, err := uuid.Parse(allocationID)
	if err != nil {
		return fmt.Errorf("invalid allocation id: %w", err)
	}

	allocation, err := s.allocationRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("allocation not found: %w", err)
	}
	if allocation.Status != model.AllocationActive {
		return fmt.Errorf("allocation is already %s", allocation.Status)
	}

	now := time.Now()
	allocation.Status = model.AllocationReleased
	allocation.ReleasedAt = &now
	if err := s.allocationRepo.Update(ctx, allocation); err != nil {
		return fmt.Errorf("failed to release allocation: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionReleaseAllocation, allocationID, allocation.TradeID.String(), nil)
	return nil
}

func (s *allocationService) ListShopperAllocations(ctx context.Context, shopperID string, page, limit int) ([]AllocationResponse, int64, error) {
	id, err := uuid.Parse(shopperID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid shopper id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	allocations, total, err := s.allocationRepo.ListByShopper(ctx, id, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch allocations: %w", err)
	}

	result := make([]AllocationResponse, 0, len(allocations))
	for _, a := range allocations {
		result = append(result, toAllocationResponse(a))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *allocationService) writeAudit(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}

func toShopperResponse(sh model.Shopper) ShopperResponse {
	return ShopperResponse{
		ID:             sh.ID.String(),
		Name:           sh.Name,
		Email:          sh.Email,
		Phone:          sh.Phone,
		CommissionRate: sh.CommissionRate.StringFixed(4),
		IsActive:       sh.IsActive,
		CreatedAt:      sh.CreatedAt.Format(time.RFC3339),
	}
}

func toAllocationResponse(a model.Allocation) AllocationResponse {
	resp := AllocationResponse{
		ID:               a.ID.String(),
		TradeID:          a.TradeID.String(),
		ShopperID:        a.ShopperID.String(),
		CommissionBasis:  a.CommissionBasis.StringFixed(2),
		CommissionRate:   a.CommissionRate.StringFixed(4),
		CommissionAmount: a.CommissionAmount.StringFixed(2),
		Status:           a.Status,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
	if a.Shopper != nil {
		resp.ShopperName = a.Shopper.Name
	}
	return resp
}
