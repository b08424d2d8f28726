package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants
const (
	PaymentCard         = "CARD"
	PaymentBankTransfer = "BANK_TRANSFER"
)

// SettlementCurrency is the currency every trade settles in. Items priced in
// any other currency are excluded from the GBP aggregates; no FX conversion
// is attempted.
const SettlementCurrency = "GBP"

// CardFeeRate is the flat card-processing estimate applied to the total sell
// price when the client pays by card.
var CardFeeRate = decimal.NewFromFloat(0.0175)

// Flat shipping estimates per trade, banded by destination.
var (
	ShippingDomestic      = decimal.NewFromInt(25)
	ShippingInternational = decimal.NewFromInt(150)
)

// Item is one line of a trade for costing purposes.
type Item struct {
	Brand        string
	Category     string
	Description  string
	Quantity     int
	BuyPrice     decimal.Decimal
	SellPrice    decimal.Decimal
	BuyCurrency  string
	SellCurrency string
}

// Inputs are the knobs ComputeCosts runs on. VATRate comes from the classified
// tax scenario's account code; HandDelivery overrides the shipping estimate to
// zero; OtherDirectCosts is an optional caller-supplied figure such as
// authentication fees.
type Inputs struct {
	Items            []Item
	Payment          string
	DeliveryCountry  string
	VATRate          decimal.Decimal
	HandDelivery     bool
	OtherDirectCosts decimal.Decimal
}

// Breakdown is the calculator output. All figures are GBP.
type Breakdown struct {
	Shipping             decimal.Decimal `json:"shipping"`
	CardFees             decimal.Decimal `json:"card_fees"`
	Total                decimal.Decimal `json:"total"`
	GrossMarginGBP       decimal.Decimal `json:"gross_margin_gbp"`
	SaleAmountExVAT      decimal.Decimal `json:"sale_amount_ex_vat"`
	SaleAmountIncVAT     decimal.Decimal `json:"sale_amount_inc_vat"`
	CommissionableMargin decimal.Decimal `json:"commissionable_margin_gbp"`
}

// ComputeCosts derives the cost and margin figures for a trade. Pure and total
// for well-formed input (non-negative prices, positive quantities); malformed
// items are the caller's validation problem, rejected at the API boundary
// before this runs.
func ComputeCosts(in Inputs) Breakdown {
	totalSell := decimal.Zero
	grossMargin := decimal.Zero
	for _, item := range in.Items {
		if item.BuyCurrency != SettlementCurrency || item.SellCurrency != SettlementCurrency {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		totalSell = totalSell.Add(item.SellPrice.Mul(qty))
		grossMargin = grossMargin.Add(item.SellPrice.Sub(item.BuyPrice).Mul(qty))
	}

	shipping := shippingEstimate(in.DeliveryCountry)
	if in.HandDelivery {
		shipping = decimal.Zero
	}

	cardFees := decimal.Zero
	if in.Payment == PaymentCard {
		cardFees = totalSell.Mul(CardFeeRate)
	}

	saleExVAT := totalSell
	saleIncVAT := totalSell
	if in.VATRate.IsPositive() {
		// Entered sell prices are treated as VAT-exclusive
		saleIncVAT = saleExVAT.Mul(decimal.NewFromInt(1).Add(in.VATRate))
	}

	directCosts := shipping.Add(cardFees).Add(in.OtherDirectCosts)

	return Breakdown{
		Shipping:             shipping,
		CardFees:             cardFees,
		Total:                directCosts,
		GrossMarginGBP:       grossMargin,
		SaleAmountExVAT:      saleExVAT,
		SaleAmountIncVAT:     saleIncVAT,
		CommissionableMargin: grossMargin.Sub(directCosts),
	}
}

// shippingEstimate bands the flat per-trade estimate on destination country.
func shippingEstimate(country string) decimal.Decimal {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "uk", "gb", "gbr", "united kingdom", "great britain", "england", "scotland", "wales", "northern ireland":
		return ShippingDomestic
	default:
		return ShippingInternational
	}
}
