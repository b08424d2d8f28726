package service

import (
	"context"
	"errors"
	"testing"

	"salesos/internal/model"
	"salesos/internal/reference"
	"salesos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeTradeRepo struct {
	trades  map[uuid.UUID]*model.Trade
	lastRef string
}

func newFakeTradeRepo() *fakeTradeRepo {
	return &fakeTradeRepo{trades: make(map[uuid.UUID]*model.Trade)}
}

func (f *fakeTradeRepo) Create(_ context.Context, trade *model.Trade) error {
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}
	for i := range trade.Items {
		if trade.Items[i].ID == uuid.Nil {
			trade.Items[i].ID = uuid.New()
		}
	}
	f.trades[trade.ID] = trade
	return nil
}

func (f *fakeTradeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Trade, error) {
	trade, ok := f.trades[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return trade, nil
}

func (f *fakeTradeRepo) List(_ context.Context, _ repository.TradeListFilter) ([]model.Trade, int64, error) {
	out := make([]model.Trade, 0, len(f.trades))
	for _, t := range f.trades {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTradeRepo) UpdateStatus(_ context.Context, trade *model.Trade) error {
	f.trades[trade.ID] = trade
	return nil
}

func (f *fakeTradeRepo) NextSaleReference(_ context.Context) (string, error) {
	f.lastRef = reference.Next(f.lastRef)
	return f.lastRef, nil
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (f *fakeClientRepo) Create(_ context.Context, client *model.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	f.clients[client.ID] = client
	return nil
}

func (f *fakeClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return client, nil
}

func (f *fakeClientRepo) List(_ context.Context, _ repository.ClientListFilter) ([]model.Client, int64, error) {
	return nil, 0, nil
}

func (f *fakeClientRepo) Update(_ context.Context, client *model.Client) error {
	f.clients[client.ID] = client
	return nil
}

func (f *fakeClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.clients, id)
	return nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ repository.AuditListFilter) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

// passthroughTx runs the unit of work without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	events []string
}

func (r *recordingPublisher) Publish(eventType string, _ interface{}) {
	r.events = append(r.events, eventType)
}

// --- Helpers ---

func strPtr(s string) *string { return &s }
func boolPtrT(b bool) *bool   { return &b }

func ukMarginAnswers() DealAnswersRequest {
	return DealAnswersRequest{
		ItemLocation:   strPtr("uk"),
		ClientLocation: strPtr("uk"),
		PurchaseType:   strPtr("margin"),
	}
}

func singleItem(buy, sell string) []TradeItemRequest {
	return []TradeItemRequest{{
		Brand:     "Hermes",
		Category:  "Handbags",
		Quantity:  1,
		BuyPrice:  buy,
		SellPrice: sell,
	}}
}

func newTestTradeService() (TradeService, *fakeTradeRepo, *fakeAuditRepo, *recordingPublisher) {
	tradeRepo := newFakeTradeRepo()
	auditRepo := &fakeAuditRepo{}
	pub := &recordingPublisher{}
	svc := NewTradeService(tradeRepo, newFakeClientRepo(), auditRepo, passthroughTx{}, pub, nil)
	return svc, tradeRepo, auditRepo, pub
}

// --- Tests ---

func TestCreateTradeMarginScheme(t *testing.T) {
	svc, _, auditRepo, pub := newTestTradeService()

	resp, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
		Answers:         ukMarginAnswers(),
		Items:           singleItem("1000", "1500"),
		PaymentMethod:   "CARD",
		DeliveryCountry: "UK",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "C19-0001", resp.SaleReference)
	assert.Equal(t, "424", resp.Scenario.AccountCode)
	assert.Equal(t, "NONE", resp.Scenario.TaxType)
	assert.Equal(t, model.TradeStatusDraft, resp.Status)

	// 1500*0.0175 card fees + 25 domestic shipping
	assert.Equal(t, "26.25", resp.Costs.CardFees)
	assert.Equal(t, "25.00", resp.Costs.Shipping)
	assert.Equal(t, "500.00", resp.Costs.GrossMarginGBP)
	assert.Equal(t, "448.75", resp.Costs.CommissionableMargin)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreateTrade, auditRepo.entries[0].Action)
	assert.Contains(t, pub.events, "trade.created")
}

func TestCreateTradeSequentialReferences(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	for _, want := range []string{"C19-0001", "C19-0002", "C19-0003"} {
		resp, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
			Answers:         ukMarginAnswers(),
			Items:           singleItem("100", "200"),
			PaymentMethod:   "BANK_TRANSFER",
			DeliveryCountry: "UK",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, want, resp.SaleReference)
	}
}

func TestCreateTradeIncompleteAnswers(t *testing.T) {
	svc, tradeRepo, _, _ := newTestTradeService()

	_, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
		Answers:         DealAnswersRequest{ItemLocation: strPtr("uk")},
		Items:           singleItem("100", "200"),
		PaymentMethod:   "CARD",
		DeliveryCountry: "UK",
	}, "")
	require.ErrorIs(t, err, ErrAnswersIncomplete)
	assert.Empty(t, tradeRepo.trades)
}

func TestCreateTradeRejectsNegativePrice(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	_, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
		Answers:         ukMarginAnswers(),
		Items:           singleItem("-100", "200"),
		PaymentMethod:   "CARD",
		DeliveryCountry: "UK",
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestCreateTradeDirectShipNotLandedCarriesWarning(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	resp, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
		Answers: DealAnswersRequest{
			ItemLocation:    strPtr("outside"),
			ClientLocation:  strPtr("uk"),
			DirectShip:      boolPtrT(true),
			InsuranceLanded: boolPtrT(false),
		},
		Items:           singleItem("1000", "1500"),
		PaymentMethod:   "BANK_TRANSFER",
		DeliveryCountry: "UK",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "423", resp.Scenario.AccountCode)
	assert.NotEmpty(t, resp.Scenario.Note)
	assert.Equal(t, "0.00", resp.Costs.CardFees)
}

func TestCreateTradeExportIgnoresShippingQuestions(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	resp, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
		Answers: DealAnswersRequest{
			ItemLocation:   strPtr("uk"),
			ClientLocation: strPtr("outside"),
			PurchaseType:   strPtr("retail"),
		},
		Items:           singleItem("1000", "1500"),
		PaymentMethod:   "BANK_TRANSFER",
		DeliveryCountry: "France",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "423", resp.Scenario.AccountCode)
	assert.Empty(t, resp.Scenario.Note)
	assert.Equal(t, "150.00", resp.Costs.Shipping)
}

func TestPreviewScenarioIncompleteReturnsNil(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	resp, err := svc.PreviewScenario(context.Background(), DealAnswersRequest{
		ItemLocation: strPtr("uk"),
	})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestPreviewScenarioResolved(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	resp, err := svc.PreviewScenario(context.Background(), DealAnswersRequest{
		ItemLocation:   strPtr("uk"),
		ClientLocation: strPtr("uk"),
		PurchaseType:   strPtr("retail"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "425", resp.AccountCode)
	assert.Equal(t, "0.2000", resp.VATRate)
}

func TestPreviewCostsIncompleteAnswers(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	_, err := svc.PreviewCosts(context.Background(), PreviewCostsRequest{
		Answers:         DealAnswersRequest{},
		Items:           singleItem("100", "200"),
		PaymentMethod:   "CARD",
		DeliveryCountry: "UK",
	})
	require.ErrorIs(t, err, ErrAnswersIncomplete)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	svc, _, _, pub := newTestTradeService()

	created, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
		Answers:         ukMarginAnswers(),
		Items:           singleItem("100", "200"),
		PaymentMethod:   "CARD",
		DeliveryCountry: "UK",
	}, "")
	require.NoError(t, err)

	invoiced, err := svc.UpdateStatus(context.Background(), created.ID, model.TradeStatusInvoiced, "")
	require.NoError(t, err)
	assert.Equal(t, model.TradeStatusInvoiced, invoiced.Status)
	assert.NotNil(t, invoiced.InvoicedAt)

	paid, err := svc.UpdateStatus(context.Background(), created.ID, model.TradeStatusPaid, "")
	require.NoError(t, err)
	assert.Equal(t, model.TradeStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	settled, err := svc.UpdateStatus(context.Background(), created.ID, model.TradeStatusCommissionPaid, "")
	require.NoError(t, err)
	assert.Equal(t, model.TradeStatusCommissionPaid, settled.Status)

	assert.Contains(t, pub.events, "trade.status_changed")
}

func TestUpdateStatusRejectsSkippedStep(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	created, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
		Answers:         ukMarginAnswers(),
		Items:           singleItem("100", "200"),
		PaymentMethod:   "CARD",
		DeliveryCountry: "UK",
	}, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, model.TradeStatusPaid, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot move trade")
}

func TestCancelTrade(t *testing.T) {
	svc, _, _, _ := newTestTradeService()

	created, err := svc.CreateTrade(context.Background(), CreateTradeRequest{
		Answers:         ukMarginAnswers(),
		Items:           singleItem("100", "200"),
		PaymentMethod:   "CARD",
		DeliveryCountry: "UK",
	}, "")
	require.NoError(t, err)

	cancelled, err := svc.CancelTrade(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.TradeStatusCancelled, cancelled.Status)

	// Terminal states stay terminal
	_, err = svc.CancelTrade(context.Background(), created.ID, "")
	require.Error(t, err)
}
