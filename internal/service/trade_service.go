package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"salesos/internal/invoicing"
	"salesos/internal/model"
	"salesos/internal/pricing"
	"salesos/internal/repository"
	"salesos/internal/taxscheme"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrAnswersIncomplete means the questionnaire does not yet resolve a tax
// scenario. It signals "keep collecting input", not a server fault; handlers
// map it to 422.
var ErrAnswersIncomplete = errors.New("tax questionnaire answers do not resolve a scenario yet")

// Publisher pushes dashboard events; satisfied by the websocket hub.
type Publisher interface {
	Publish(eventType string, payload interface{})
}

// --- DTOs ---

type DealAnswersRequest struct {
	ItemLocation    *string `json:"item_location" binding:"omitempty,oneof=uk outside"`
	ClientLocation  *string `json:"client_location" binding:"omitempty,oneof=uk outside"`
	PurchaseType    *string `json:"purchase_type" binding:"omitempty,oneof=retail margin"`
	DirectShip      *bool   `json:"direct_ship"`
	InsuranceLanded *bool   `json:"insurance_landed"`
}

type TradeItemRequest struct {
	Brand        string `json:"brand" binding:"required"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	BuyPrice     string `json:"buy_price" binding:"required"`
	SellPrice    string `json:"sell_price" binding:"required"`
	BuyCurrency  string `json:"buy_currency"`  // defaults to GBP
	SellCurrency string `json:"sell_currency"` // defaults to GBP
	SupplierID   string `json:"supplier_id"`
}

type CreateTradeRequest struct {
	ClientID         string             `json:"client_id"`
	Answers          DealAnswersRequest `json:"answers" binding:"required"`
	Items            []TradeItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod    string             `json:"payment_method" binding:"required,oneof=CARD BANK_TRANSFER"`
	DeliveryCountry  string             `json:"delivery_country" binding:"required"`
	HandDelivery     bool               `json:"hand_delivery"`
	OtherDirectCosts string             `json:"other_direct_costs"` // optional, defaults to 0
	Note             string             `json:"note"`
}

type PreviewCostsRequest struct {
	Answers          DealAnswersRequest `json:"answers" binding:"required"`
	Items            []TradeItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod    string             `json:"payment_method" binding:"required,oneof=CARD BANK_TRANSFER"`
	DeliveryCountry  string             `json:"delivery_country" binding:"required"`
	HandDelivery     bool               `json:"hand_delivery"`
	OtherDirectCosts string             `json:"other_direct_costs"`
}

type TradeListFilter struct {
	Status        string
	SaleReference string
	AccountCode   string
	ShopperID     string
	Page          int
	Limit         int
}

type ScenarioResponse struct {
	AccountCode  string `json:"account_code"`
	TaxType      string `json:"tax_type"`
	TaxLabel     string `json:"tax_label"`
	AmountsAre   string `json:"amounts_are"`
	BrandTheme   string `json:"brand_theme"`
	TaxLiability string `json:"tax_liability"`
	VATReclaim   string `json:"vat_reclaim"`
	VATRate      string `json:"vat_rate"`
	Note         string `json:"note,omitempty"`
}

type CostBreakdownResponse struct {
	Shipping             string `json:"shipping"`
	CardFees             string `json:"card_fees"`
	Total                string `json:"total"`
	GrossMarginGBP       string `json:"gross_margin_gbp"`
	SaleAmountExVAT      string `json:"sale_amount_ex_vat"`
	SaleAmountIncVAT     string `json:"sale_amount_inc_vat"`
	CommissionableMargin string `json:"commissionable_margin_gbp"`
}

type TradeItemResponse struct {
	ID           string  `json:"id"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Quantity     int     `json:"quantity"`
	BuyPrice     string  `json:"buy_price"`
	SellPrice    string  `json:"sell_price"`
	BuyCurrency  string  `json:"buy_currency"`
	SellCurrency string  `json:"sell_currency"`
	SupplierID   *string `json:"supplier_id"`
	SupplierName string  `json:"supplier_name,omitempty"`
}

type TradeResponse struct {
	ID              string                `json:"id"`
	SaleReference   string                `json:"sale_reference"`
	ClientID        *string               `json:"client_id"`
	ClientName      string                `json:"client_name,omitempty"`
	Scenario        ScenarioResponse      `json:"scenario"`
	Costs           CostBreakdownResponse `json:"costs"`
	PaymentMethod   string                `json:"payment_method"`
	DeliveryCountry string                `json:"delivery_country"`
	HandDelivery    bool                  `json:"hand_delivery"`
	Status          string                `json:"status"`
	Note            string                `json:"note"`
	Items           []TradeItemResponse   `json:"items"`
	ShopperName     string                `json:"shopper_name,omitempty"`
	InvoicedAt      *string               `json:"invoiced_at"`
	PaidAt          *string               `json:"paid_at"`
	CreatedAt       string                `json:"created_at"`
}

// --- Interface ---

type TradeService interface {
	CreateTrade(ctx context.Context, req CreateTradeRequest, userID string) (TradeResponse, error)
	GetTrade(ctx context.Context, id string) (TradeResponse, error)
	ListTrades(ctx context.Context, filter TradeListFilter) ([]TradeResponse, int64, error)
	PreviewScenario(ctx context.Context, req DealAnswersRequest) (*ScenarioResponse, error)
	PreviewCosts(ctx context.Context, req PreviewCostsRequest) (CostBreakdownResponse, error)
	UpdateStatus(ctx context.Context, id string, newStatus string, userID string) (TradeResponse, error)
	CancelTrade(ctx context.Context, id string, userID string) (TradeResponse, error)
}

type tradeService struct {
	tradeRepo  repository.TradeRepository
	clientRepo repository.ClientRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	publisher  Publisher
	relay      invoicing.Poster
}

func NewTradeService(
	tradeRepo repository.TradeRepository,
	clientRepo repository.ClientRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher Publisher,
	relay invoicing.Poster,
) TradeService {
	return &tradeService{
		tradeRepo:  tradeRepo,
		clientRepo: clientRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		publisher:  publisher,
		relay:      relay,
	}
}

// allowedTransitions guards the settlement lifecycle. CANCELLED is reachable
// from any non-terminal status via CancelTrade only.
var allowedTransitions = map[string]string{
	model.TradeStatusDraft:    model.TradeStatusInvoiced,
	model.TradeStatusInvoiced: model.TradeStatusPaid,
	model.TradeStatusPaid:     model.TradeStatusCommissionPaid,
}

// --- Implementation ---

func (s *tradeService) CreateTrade(ctx context.Context, req CreateTradeRequest, userID string) (TradeResponse, error) {
	scenario := taxscheme.Classify(toDealInputs(req.Answers))
	if scenario == nil {
		return TradeResponse{}, ErrAnswersIncomplete
	}

	// Unmapped account codes block sale creation outright; assuming a rate
	// here could misreport tax on an export sale.
	vatRate, err := taxscheme.VATRate(scenario.AccountCode)
	if err != nil {
		return TradeResponse{}, fmt.Errorf("tax scenario rejected: %w", err)
	}

	items, pricingItems, err := parseTradeItems(req.Items)
	if err != nil {
		return TradeResponse{}, err
	}

	otherCosts := decimal.Zero
	if req.OtherDirectCosts != "" {
		otherCosts, err = decimal.NewFromString(req.OtherDirectCosts)
		if err != nil {
			return TradeResponse{}, fmt.Errorf("invalid other_direct_costs: %w", err)
		}
		if otherCosts.IsNegative() {
			return TradeResponse{}, fmt.Errorf("other_direct_costs cannot be negative")
		}
	}

	var clientID *uuid.UUID
	if req.ClientID != "" {
		parsed, parseErr := uuid.Parse(req.ClientID)
		if parseErr != nil {
			return TradeResponse{}, fmt.Errorf("invalid client_id: %w", parseErr)
		}
		if _, findErr := s.clientRepo.FindByID(ctx, parsed); findErr != nil {
			return TradeResponse{}, fmt.Errorf("client not found: %w", findErr)
		}
		clientID = &parsed
	}

	costs := pricing.ComputeCosts(pricing.Inputs{
		Items:            pricingItems,
		Payment:          req.PaymentMethod,
		DeliveryCountry:  req.DeliveryCountry,
		VATRate:          vatRate,
		HandDelivery:     req.HandDelivery,
		OtherDirectCosts: otherCosts,
	})

	trade := model.Trade{
		ClientID:             clientID,
		ItemLocation:         deref(req.Answers.ItemLocation),
		ClientLocation:       deref(req.Answers.ClientLocation),
		PurchaseType:         deref(req.Answers.PurchaseType),
		DirectShip:           req.Answers.DirectShip,
		InsuranceLanded:      req.Answers.InsuranceLanded,
		AccountCode:          string(scenario.AccountCode),
		TaxType:              scenario.TaxType,
		TaxLabel:             scenario.TaxLabel,
		AmountsAre:           scenario.AmountsAre,
		BrandTheme:           scenario.BrandTheme,
		TaxLiability:         scenario.TaxLiability,
		VATReclaim:           scenario.VATReclaim,
		ScenarioNote:         scenario.Note,
		VATRate:              vatRate,
		PaymentMethod:        req.PaymentMethod,
		DeliveryCountry:      req.DeliveryCountry,
		HandDelivery:         req.HandDelivery,
		OtherDirectCosts:     otherCosts,
		ShippingCost:         costs.Shipping,
		CardFees:             costs.CardFees,
		GrossMargin:          costs.GrossMarginGBP,
		SaleAmountExVAT:      costs.SaleAmountExVAT,
		SaleAmountIncVAT:     costs.SaleAmountIncVAT,
		CommissionableMargin: costs.CommissionableMargin,
		Status:               model.TradeStatusDraft,
		Note:                 req.Note,
		Items:                items,
	}

	if userID != "" {
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			trade.CreatedBy = &parsed
		}
	}

	// Reference allocation and trade insert share one transaction so the
	// counter row lock covers both.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		ref, refErr := s.tradeRepo.NextSaleReference(txCtx)
		if refErr != nil {
			return fmt.Errorf("failed to allocate sale reference: %w", refErr)
		}
		trade.SaleReference = ref

		if createErr := s.tradeRepo.Create(txCtx, &trade); createErr != nil {
			return fmt.Errorf("failed to create trade: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return TradeResponse{}, err
	}

	s.writeAudit(ctx, userID, model.ActionCreateTrade, trade.ID.String(), trade.SaleReference, req)
	s.publish("trade.created", map[string]string{
		"id":             trade.ID.String(),
		"sale_reference": trade.SaleReference,
		"account_code":   trade.AccountCode,
		"status":         trade.Status,
	})
	s.relayDraftInvoice(ctx, trade)

	reloaded, err := s.tradeRepo.FindByID(ctx, trade.ID)
	if err != nil {
		return TradeResponse{}, fmt.Errorf("failed to reload trade: %w", err)
	}

	return toTradeResponse(*reloaded), nil
}

func (s *tradeService) GetTrade(ctx context.Context, id string) (TradeResponse, error) {
	tradeID, err := uuid.Parse(id)
	if err != nil {
		return TradeResponse{}, fmt.Errorf("invalid trade id: %w", err)
	}

	trade, err := s.tradeRepo.FindByID(ctx, tradeID)
	if err != nil {
		return TradeResponse{}, fmt.Errorf("trade not found: %w", err)
	}

	return toTradeResponse(*trade), nil
}

func (s *tradeService) ListTrades(ctx context.Context, filter TradeListFilter) ([]TradeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	trades, total, err := s.tradeRepo.List(ctx, repository.TradeListFilter{
		Status:        filter.Status,
		SaleReference: filter.SaleReference,
		AccountCode:   filter.AccountCode,
		ShopperID:     filter.ShopperID,
		Page:          filter.Page,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch trades: %w", err)
	}

	result := make([]TradeResponse, 0, len(trades))
	for _, t := range trades {
		result = append(result, toTradeResponse(t))
	}
	return result, total, nil
}

// PreviewScenario runs the classifier alone. A nil response with nil error
// means the answers are still incomplete.
func (s *tradeService) PreviewScenario(_ context.Context, req DealAnswersRequest) (*ScenarioResponse, error) {
	scenario := taxscheme.Classify(toDealInputs(req))
	if scenario == nil {
		return nil, nil
	}

	vatRate, err := taxscheme.VATRate(scenario.AccountCode)
	if err != nil {
		return nil, fmt.Errorf("tax scenario rejected: %w", err)
	}

	resp := toScenarioResponse(*scenario, vatRate)
	return &resp, nil
}

func (s *tradeService) PreviewCosts(_ context.Context, req PreviewCostsRequest) (CostBreakdownResponse, error) {
	scenario := taxscheme.Classify(toDealInputs(req.Answers))
	if scenario == nil {
		return CostBreakdownResponse{}, ErrAnswersIncomplete
	}

	vatRate, err := taxscheme.VATRate(scenario.AccountCode)
	if err != nil {
		return CostBreakdownResponse{}, fmt.Errorf("tax scenario rejected: %w", err)
	}

	_, pricingItems, err := parseTradeItems(req.Items)
	if err != nil {
		return CostBreakdownResponse{}, err
	}

	otherCosts := decimal.Zero
	if req.OtherDirectCosts != "" {
		otherCosts, err = decimal.NewFromString(req.OtherDirectCosts)
		if err != nil {
			return CostBreakdownResponse{}, fmt.Errorf("invalid other_direct_costs: %w", err)
		}
	}

	costs := pricing.ComputeCosts(pricing.Inputs{
		Items:            pricingItems,
		Payment:          req.PaymentMethod,
		DeliveryCountry:  req.DeliveryCountry,
		VATRate:          vatRate,
		HandDelivery:     req.HandDelivery,
		OtherDirectCosts: otherCosts,
	})

	return toCostsResponse(costs), nil
}

func (s *tradeService) UpdateStatus(ctx context.Context, id string, newStatus string, userID string) (TradeResponse, error) {
	tradeID, err := uuid.Parse(id)
	if err != nil {
		return TradeResponse{}, fmt.Errorf("invalid trade id: %w", err)
	}

	var trade *model.Trade
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		trade, findErr = s.tradeRepo.FindByID(txCtx, tradeID)
		if findErr != nil {
			return fmt.Errorf("trade not found: %w", findErr)
		}

		if allowedTransitions[trade.Status] != newStatus {
			return fmt.Errorf("cannot move trade from %s to %s", trade.Status, newStatus)
		}

		now := time.Now()
		trade.Status = newStatus
		switch newStatus {
		case model.TradeStatusInvoiced:
			trade.InvoicedAt = &now
		case model.TradeStatusPaid:
			trade.PaidAt = &now
		}

		if updateErr := s.tradeRepo.UpdateStatus(txCtx, trade); updateErr != nil {
			return fmt.Errorf("failed to update trade: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return TradeResponse{}, err
	}

	s.writeAudit(ctx, userID, model.ActionUpdateTradeStatus, trade.ID.String(), trade.SaleReference,
		map[string]string{"status": newStatus})
	s.publish("trade.status_changed", map[string]string{
		"id":             trade.ID.String(),
		"sale_reference": trade.SaleReference,
		"status":         newStatus,
	})

	return toTradeResponse(*trade), nil
}

func (s *tradeService) CancelTrade(ctx context.Context, id string, userID string) (TradeResponse, error) {
	tradeID, err := uuid.Parse(id)
	if err != nil {
		return TradeResponse{}, fmt.Errorf("invalid trade id: %w", err)
	}

	var trade *model.Trade
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		trade, findErr = s.tradeRepo.FindByID(txCtx, tradeID)
		if findErr != nil {
			return fmt.Errorf("trade not found: %w", findErr)
		}

		if trade.Status == model.TradeStatusCommissionPaid || trade.Status == model.TradeStatusCancelled {
			return fmt.Errorf("cannot cancel trade with status %s", trade.Status)
		}

		trade.Status = model.TradeStatusCancelled
		if updateErr := s.tradeRepo.UpdateStatus(txCtx, trade); updateErr != nil {
			return fmt.Errorf("failed to cancel trade: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return TradeResponse{}, err
	}

	s.writeAudit(ctx, userID, model.ActionCancelTrade, trade.ID.String(), trade.SaleReference, nil)
	s.publish("trade.status_changed", map[string]string{
		"id":             trade.ID.String(),
		"sale_reference": trade.SaleReference,
		"status":         model.TradeStatusCancelled,
	})

	return toTradeResponse(*trade), nil
}

// --- Helpers ---

func toDealInputs(req DealAnswersRequest) taxscheme.DealInputs {
	return taxscheme.DealInputs{
		ItemLocation:    req.ItemLocation,
		ClientLocation:  req.ClientLocation,
		PurchaseType:    req.PurchaseType,
		DirectShip:      req.DirectShip,
		InsuranceLanded: req.InsuranceLanded,
	}
}

// parseTradeItems converts request items to model and pricing forms. Negative
// prices are rejected here so the pure calculator never sees malformed input.
func parseTradeItems(reqs []TradeItemRequest) ([]model.TradeItem, []pricing.Item, error) {
	items := make([]model.TradeItem, 0, len(reqs))
	pricingItems := make([]pricing.Item, 0, len(reqs))

	for i, req := range reqs {
		buy, err := decimal.NewFromString(req.BuyPrice)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: invalid buy_price: %w", i+1, err)
		}
		sell, err := decimal.NewFromString(req.SellPrice)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: invalid sell_price: %w", i+1, err)
		}
		if buy.IsNegative() || sell.IsNegative() {
			return nil, nil, fmt.Errorf("item %d: prices cannot be negative", i+1)
		}
		if req.Quantity <= 0 {
			return nil, nil, fmt.Errorf("item %d: quantity must be positive", i+1)
		}

		buyCurrency := req.BuyCurrency
		if buyCurrency == "" {
			buyCurrency = pricing.SettlementCurrency
		}
		sellCurrency := req.SellCurrency
		if sellCurrency == "" {
			sellCurrency = pricing.SettlementCurrency
		}

		item := model.TradeItem{
			Brand:        req.Brand,
			Category:     req.Category,
			Description:  req.Description,
			Quantity:     req.Quantity,
			BuyPrice:     buy,
			SellPrice:    sell,
			BuyCurrency:  buyCurrency,
			SellCurrency: sellCurrency,
		}
		if req.SupplierID != "" {
			supplierID, parseErr := uuid.Parse(req.SupplierID)
			if parseErr != nil {
				return nil, nil, fmt.Errorf("item %d: invalid supplier_id: %w", i+1, parseErr)
			}
			item.SupplierID = &supplierID
		}
		items = append(items, item)

		pricingItems = append(pricingItems, pricing.Item{
			Brand:        req.Brand,
			Category:     req.Category,
			Description:  req.Description,
			Quantity:     req.Quantity,
			BuyPrice:     buy,
			SellPrice:    sell,
			BuyCurrency:  buyCurrency,
			SellCurrency: sellCurrency,
		})
	}

	return items, pricingItems, nil
}

func (s *tradeService) writeAudit(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
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

	// Audit writes are best-effort and never fail the operation
	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}

func (s *tradeService) publish(eventType string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(eventType, payload)
	}
}

// relayDraftInvoice pushes a draft to the external accounting system.
// Best-effort: the trade exists locally either way, and the relay can be
// replayed from the trade record.
func (s *tradeService) relayDraftInvoice(ctx context.Context, trade model.Trade) {
	if s.relay == nil {
		return
	}
	if err := s.relay.PostDraft(ctx, invoicing.BuildDraft(trade)); err != nil {
		log.Printf("draft invoice relay failed for %s: %v", trade.SaleReference, err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --- Mapping ---

func toScenarioResponse(s taxscheme.Scenario, vatRate decimal.Decimal) ScenarioResponse {
	return ScenarioResponse{
		AccountCode:  string(s.AccountCode),
		TaxType:      s.TaxType,
		TaxLabel:     s.TaxLabel,
		AmountsAre:   s.AmountsAre,
		BrandTheme:   s.BrandTheme,
		TaxLiability: s.TaxLiability,
		VATReclaim:   s.VATReclaim,
		VATRate:      vatRate.StringFixed(4),
		Note:         s.Note,
	}
}

func toCostsResponse(b pricing.Breakdown) CostBreakdownResponse {
	return CostBreakdownResponse{
		Shipping:             b.Shipping.StringFixed(2),
		CardFees:             b.CardFees.StringFixed(2),
		Total:                b.Total.StringFixed(2),
		GrossMarginGBP:       b.GrossMarginGBP.StringFixed(2),
		SaleAmountExVAT:      b.SaleAmountExVAT.StringFixed(2),
		SaleAmountIncVAT:     b.SaleAmountIncVAT.StringFixed(2),
		CommissionableMargin: b.CommissionableMargin.StringFixed(2),
	}
}

func toTradeResponse(t model.Trade) TradeResponse {
	resp := TradeResponse{
		ID:            t.ID.String(),
		SaleReference: t.SaleReference,
		Scenario: ScenarioResponse{
			AccountCode:  t.AccountCode,
			TaxType:      t.TaxType,
			TaxLabel:     t.TaxLabel,
			AmountsAre:   t.AmountsAre,
			BrandTheme:   t.BrandTheme,
			TaxLiability: t.TaxLiability,
			VATReclaim:   t.VATReclaim,
			VATRate:      t.VATRate.StringFixed(4),
			Note:         t.ScenarioNote,
		},
		Costs: CostBreakdownResponse{
			Shipping:             t.ShippingCost.StringFixed(2),
			CardFees:             t.CardFees.StringFixed(2),
			Total:                t.ShippingCost.Add(t.CardFees).Add(t.OtherDirectCosts).StringFixed(2),
			GrossMarginGBP:       t.GrossMargin.StringFixed(2),
			SaleAmountExVAT:      t.SaleAmountExVAT.StringFixed(2),
			SaleAmountIncVAT:     t.SaleAmountIncVAT.StringFixed(2),
			CommissionableMargin: t.CommissionableMargin.StringFixed(2),
		},
		PaymentMethod:   t.PaymentMethod,
		DeliveryCountry: t.DeliveryCountry,
		HandDelivery:    t.HandDelivery,
		Status:          t.Status,
		Note:            t.Note,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}

	if t.ClientID != nil {
		id := t.ClientID.String()
		resp.ClientID = &id
	}
	if t.Client != nil {
		resp.ClientName = t.Client.Name
	}
	if t.Allocation != nil && t.Allocation.Shopper != nil {
		resp.ShopperName = t.Allocation.Shopper.Name
	}
	if t.InvoicedAt != nil {
		ts := t.InvoicedAt.Format(time.RFC3339)
		resp.InvoicedAt = &ts
	}
	if t.PaidAt != nil {
		ts := t.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &ts
	}

	resp.Items = make([]TradeItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		ir := TradeItemResponse{
			ID:           item.ID.String(),
			Brand:        item.Brand,
			Category:     item.Category,
			Description:  item.Description,
			Quantity:     item.Quantity,
			BuyPrice:     item.BuyPrice.StringFixed(2),
			SellPrice:    item.SellPrice.StringFixed(2),
			BuyCurrency:  item.BuyCurrency,
			SellCurrency: item.SellCurrency,
		}
		if item.SupplierID != nil {
			id := item.SupplierID.String()
			ir.SupplierID = &id
		}
		if item.Supplier != nil {
			ir.SupplierName = item.Supplier.Name
		}
		resp.Items = append(resp.Items, ir)
	}

	return resp
}
