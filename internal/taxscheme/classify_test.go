package taxscheme

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestClassifyUKRetail(t *testing.T) {
	s := Classify(DealInputs{
		ItemLocation:   strPtr(LocationUK),
		ClientLocation: strPtr(LocationUK),
		PurchaseType:   strPtr(PurchaseRetail),
	})
	require.NotNil(t, s)
	assert.Equal(t, AccountDomestic, s.AccountCode)
	assert.Equal(t, AmountsExclusive, s.AmountsAre)
	assert.Equal(t, ThemeStandard, s.BrandTheme)

	rate, err := VATRate(s.AccountCode)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.20)))
}

func TestClassifyUKMarginScheme(t *testing.T) {
	s := Classify(DealInputs{
		ItemLocation:   strPtr(LocationUK),
		ClientLocation: strPtr(LocationUK),
		PurchaseType:   strPtr(PurchaseMargin),
	})
	require.NotNil(t, s)
	assert.Equal(t, AccountMargin, s.AccountCode)
	assert.Equal(t, ThemeMargin, s.BrandTheme)
	assert.Contains(t, s.VATReclaim, "No input VAT")

	rate, err := VATRate(s.AccountCode)
	require.NoError(t, err)
	assert.True(t, rate.IsZero())
}

// Export from UK stock is zero-rated regardless of how the item was purchased,
// but the purchase type still has to be answered before anything resolves.
func TestClassifyExportIgnoresPurchaseType(t *testing.T) {
	incomplete := Classify(DealInputs{
		ItemLocation:   strPtr(LocationUK),
		ClientLocation: strPtr(LocationOutside),
	})
	assert.Nil(t, incomplete)

	for _, purchase := range []string{PurchaseRetail, PurchaseMargin} {
		s := Classify(DealInputs{
			ItemLocation:   strPtr(LocationUK),
			ClientLocation: strPtr(LocationOutside),
			PurchaseType:   strPtr(purchase),
		})
		require.NotNil(t, s, "purchase type %s", purchase)
		assert.Equal(t, AccountExport, s.AccountCode)

		rate, err := VATRate(s.AccountCode)
		require.NoError(t, err)
		assert.True(t, rate.IsZero())
	}
}

// Non-UK stock sold to a non-UK client resolves without the shipping questions.
func TestClassifyOverseasToOverseasResolvesEarly(t *testing.T) {
	s := Classify(DealInputs{
		ItemLocation:   strPtr(LocationOutside),
		ClientLocation: strPtr(LocationOutside),
	})
	require.NotNil(t, s)
	assert.Equal(t, AccountExport, s.AccountCode)
	assert.Empty(t, s.Note)
}

func TestClassifyImportThenDomestic(t *testing.T) {
	s := Classify(DealInputs{
		ItemLocation:   strPtr(LocationOutside),
		ClientLocation: strPtr(LocationUK),
		DirectShip:     boolPtr(false),
	})
	require.NotNil(t, s)
	assert.Equal(t, AccountDomestic, s.AccountCode)
	assert.Contains(t, s.VATReclaim, "reclaimable")
}

func TestClassifyDirectShipLanded(t *testing.T) {
	s := Classify(DealInputs{
		ItemLocation:    strPtr(LocationOutside),
		ClientLocation:  strPtr(LocationUK),
		DirectShip:      boolPtr(true),
		InsuranceLanded: boolPtr(true),
	})
	require.NotNil(t, s)
	assert.Equal(t, AccountExport, s.AccountCode)
	assert.Empty(t, s.Note)
}

func TestClassifyDirectShipNotLandedWarns(t *testing.T) {
	s := Classify(DealInputs{
		ItemLocation:    strPtr(LocationOutside),
		ClientLocation:  strPtr(LocationUK),
		DirectShip:      boolPtr(true),
		InsuranceLanded: boolPtr(false),
	})
	require.NotNil(t, s)
	assert.Equal(t, AccountExport, s.AccountCode)
	assert.NotEmpty(t, s.Note)
}

func TestClassifyIncompleteAnswers(t *testing.T) {
	cases := []struct {
		name string
		in   DealInputs
	}{
		{"nothing answered", DealInputs{}},
		{"uk stock, no client location", DealInputs{ItemLocation: strPtr(LocationUK)}},
		{"uk stock, no purchase type", DealInputs{
			ItemLocation:   strPtr(LocationUK),
			ClientLocation: strPtr(LocationUK),
		}},
		{"overseas stock, no client location", DealInputs{ItemLocation: strPtr(LocationOutside)}},
		{"overseas to uk, no direct ship answer", DealInputs{
			ItemLocation:   strPtr(LocationOutside),
			ClientLocation: strPtr(LocationUK),
		}},
		{"direct ship, no landed answer", DealInputs{
			ItemLocation:   strPtr(LocationOutside),
			ClientLocation: strPtr(LocationUK),
			DirectShip:     boolPtr(true),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, Classify(tc.in))
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	in := DealInputs{
		ItemLocation:    strPtr(LocationOutside),
		ClientLocation:  strPtr(LocationUK),
		DirectShip:      boolPtr(true),
		InsuranceLanded: boolPtr(false),
	}
	first := Classify(in)
	second := Classify(in)
	require.NotNil(t, first)
	assert.Equal(t, *first, *second)
}

func TestVATRateFailsFastOnUnknownCode(t *testing.T) {
	_, err := VATRate(AccountCode("999"))
	require.Error(t, err)

	_, err = Theme(AccountCode(""))
	require.Error(t, err)
}

// Every code in the closed table must resolve both a rate and a theme.
func TestAccountTableIsTotal(t *testing.T) {
	for _, code := range []AccountCode{AccountExport, AccountMargin, AccountDomestic} {
		_, err := VATRate(code)
		require.NoError(t, err, "code %s", code)
		theme, err := Theme(code)
		require.NoError(t, err, "code %s", code)
		assert.NotEmpty(t, theme)
	}
}
