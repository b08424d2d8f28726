package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gbpItem(buy, sell float64, qty int) Item {
	return Item{
		Quantity:     qty,
		BuyPrice:     decimal.NewFromFloat(buy),
		SellPrice:    decimal.NewFromFloat(sell),
		BuyCurrency:  SettlementCurrency,
		SellCurrency: SettlementCurrency,
	}
}

// Worked example: £1000 buy, £1500 sell, card payment, UK retail sale.
func TestComputeCostsDomesticCardSale(t *testing.T) {
	out := ComputeCosts(Inputs{
		Items:           []Item{gbpItem(1000, 1500, 1)},
		Payment:         PaymentCard,
		DeliveryCountry: "United Kingdom",
		VATRate:         decimal.NewFromFloat(0.20),
	})

	assert.True(t, out.SaleAmountExVAT.Equal(decimal.NewFromInt(1500)))
	assert.True(t, out.SaleAmountIncVAT.Equal(decimal.NewFromInt(1800)))
	assert.True(t, out.GrossMarginGBP.Equal(decimal.NewFromInt(500)))
	assert.True(t, out.Shipping.Equal(ShippingDomestic))

	wantFees := decimal.NewFromInt(1500).Mul(CardFeeRate)
	assert.True(t, out.CardFees.Equal(wantFees))

	wantCommissionable := decimal.NewFromInt(500).Sub(ShippingDomestic).Sub(wantFees)
	assert.True(t, out.CommissionableMargin.Equal(wantCommissionable))
}

func TestComputeCostsBankTransferNoCardFees(t *testing.T) {
	out := ComputeCosts(Inputs{
		Items:           []Item{gbpItem(200, 350, 2)},
		Payment:         PaymentBankTransfer,
		DeliveryCountry: "France",
	})

	assert.True(t, out.CardFees.IsZero())
	assert.True(t, out.Shipping.Equal(ShippingInternational))
	assert.True(t, out.GrossMarginGBP.Equal(decimal.NewFromInt(300)))
}

func TestComputeCostsHandDeliveryZeroShipping(t *testing.T) {
	out := ComputeCosts(Inputs{
		Items:           []Item{gbpItem(100, 150, 1)},
		Payment:         PaymentBankTransfer,
		DeliveryCountry: "UK",
		HandDelivery:    true,
	})
	assert.True(t, out.Shipping.IsZero())
	assert.True(t, out.CommissionableMargin.Equal(out.GrossMarginGBP))
}

// Items priced in another currency are excluded from all GBP aggregates.
func TestComputeCostsSkipsNonSettlementCurrency(t *testing.T) {
	eur := Item{
		Quantity:     1,
		BuyPrice:     decimal.NewFromInt(900),
		SellPrice:    decimal.NewFromInt(1400),
		BuyCurrency:  "EUR",
		SellCurrency: "EUR",
	}
	out := ComputeCosts(Inputs{
		Items:           []Item{gbpItem(1000, 1500, 1), eur},
		Payment:         PaymentBankTransfer,
		DeliveryCountry: "UK",
	})
	assert.True(t, out.GrossMarginGBP.Equal(decimal.NewFromInt(500)))
	assert.True(t, out.SaleAmountExVAT.Equal(decimal.NewFromInt(1500)))
}

func TestComputeCostsVATIdentity(t *testing.T) {
	twenty := decimal.NewFromFloat(0.20)

	withVAT := ComputeCosts(Inputs{
		Items:           []Item{gbpItem(800, 1200, 1)},
		Payment:         PaymentBankTransfer,
		DeliveryCountry: "UK",
		VATRate:         twenty,
	})
	ratio := withVAT.SaleAmountIncVAT.Div(withVAT.SaleAmountExVAT)
	assert.True(t, ratio.Sub(decimal.NewFromFloat(1.20)).Abs().LessThan(decimal.New(1, -6)))

	zeroRated := ComputeCosts(Inputs{
		Items:           []Item{gbpItem(800, 1200, 1)},
		Payment:         PaymentBankTransfer,
		DeliveryCountry: "UK",
	})
	assert.True(t, zeroRated.SaleAmountIncVAT.Equal(zeroRated.SaleAmountExVAT))
}

// commissionable + shipping + card fees + other direct costs == gross margin
func TestComputeCostsMarginIdentity(t *testing.T) {
	cases := []Inputs{
		{
			Items:           []Item{gbpItem(1000, 1500, 1)},
			Payment:         PaymentCard,
			DeliveryCountry: "UK",
		},
		{
			Items:            []Item{gbpItem(150, 275, 3), gbpItem(90, 60, 1)},
			Payment:          PaymentCard,
			DeliveryCountry:  "Japan",
			OtherDirectCosts: decimal.NewFromInt(45),
		},
		{
			Items:           nil,
			Payment:         PaymentBankTransfer,
			DeliveryCountry: "UK",
			HandDelivery:    true,
		},
	}

	for _, in := range cases {
		out := ComputeCosts(in)
		sum := out.CommissionableMargin.Add(out.Shipping).Add(out.CardFees).Add(in.OtherDirectCosts)
		assert.True(t, sum.Sub(out.GrossMarginGBP).Abs().LessThan(decimal.New(1, -6)))
		assert.True(t, out.Total.Equal(out.Shipping.Add(out.CardFees).Add(in.OtherDirectCosts)))
	}
}

func TestComputeCostsIdempotent(t *testing.T) {
	in := Inputs{
		Items:           []Item{gbpItem(1000, 1500, 2)},
		Payment:         PaymentCard,
		DeliveryCountry: "Monaco",
		VATRate:         decimal.NewFromFloat(0.20),
	}
	first := ComputeCosts(in)
	second := ComputeCosts(in)
	require.Equal(t, first, second)
}
