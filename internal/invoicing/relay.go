// Package invoicing relays classified sales to the external accounting system
// as draft invoices. Token refresh belongs to whoever supplies the TokenSource;
// this package only builds and posts the payload.
package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"salesos/internal/model"
)

// DraftLine is one invoice line in the external system's shape.
type DraftLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitAmount  string `json:"unit_amount"`
	AccountCode string `json:"account_code"`
	TaxType     string `json:"tax_type"`
}

// DraftInvoice is the payload posted to the accounting system.
type DraftInvoice struct {
	SaleReference    string      `json:"sale_reference"`
	ContactRef       string      `json:"contact_ref,omitempty"`
	AccountCode      string      `json:"account_code"`
	TaxType          string      `json:"tax_type"`
	AmountsAre       string      `json:"amounts_are"`
	BrandingTheme    string      `json:"branding_theme"`
	CurrencyCode     string      `json:"currency_code"`
	Lines            []DraftLine `json:"line_items"`
	SaleAmountExVAT  string      `json:"sale_amount_ex_vat"`
	SaleAmountIncVAT string      `json:"sale_amount_inc_vat"`
}

// Poster is what the trade service depends on; tests substitute fakes.
type Poster interface {
	PostDraft(ctx context.Context, draft DraftInvoice) error
}

// TokenSource supplies a bearer token per request.
type TokenSource func() (string, error)

// Relay posts drafts over HTTP.
type Relay struct {
	endpoint string
	token    TokenSource
	client   *http.Client
}

func NewRelay(endpoint string, token TokenSource) *Relay {
	return &Relay{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *Relay) PostDraft(ctx context.Context, draft DraftInvoice) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft invoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if r.token != nil {
		token, tokenErr := r.token()
		if tokenErr != nil {
			return fmt.Errorf("failed to obtain accounting token: %w", tokenErr)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("draft invoice post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("accounting system returned status %d", resp.StatusCode)
	}
	return nil
}

// BuildDraft maps a persisted trade to the accounting payload. Only settlement
// currency lines are sent; foreign-currency items stay local until priced.
func BuildDraft(trade model.Trade) DraftInvoice {
	draft := DraftInvoice{
		SaleReference:    trade.SaleReference,
		AccountCode:      trade.AccountCode,
		TaxType:          trade.TaxType,
		AmountsAre:       trade.AmountsAre,
		BrandingTheme:    trade.BrandTheme,
		CurrencyCode:     "GBP",
		SaleAmountExVAT:  trade.SaleAmountExVAT.StringFixed(2),
		SaleAmountIncVAT: trade.SaleAmountIncVAT.StringFixed(2),
	}
	if trade.Client != nil {
		draft.ContactRef = trade.Client.AccountingRef
	}

	for _, item := range trade.Items {
		if item.BuyCurrency != "GBP" || item.SellCurrency != "GBP" {
			continue
		}
		description := item.Brand
		if item.Description != "" {
			description += " - " + item.Description
		}
		draft.Lines = append(draft.Lines, DraftLine{
			Description: description,
			Quantity:    item.Quantity,
			UnitAmount:  item.SellPrice.StringFixed(2),
			AccountCode: trade.AccountCode,
			TaxType:     trade.TaxType,
		})
	}

	return draft
}
