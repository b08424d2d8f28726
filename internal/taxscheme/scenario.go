package taxscheme

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountCode identifies the accounting-system sales account a trade posts to.
// The set is closed: every code binds exactly one VAT rate and one branding theme.
type AccountCode string

const (
	AccountExport   AccountCode = "423" // zero-rated export / outside scope of UK VAT
	AccountMargin   AccountCode = "424" // UK second-hand margin scheme
	AccountDomestic AccountCode = "425" // UK domestic sale, standard-rated
)

// AmountsAre enum constants: whether entered prices include VAT
const (
	AmountsExclusive = "Exclusive"
	AmountsInclusive = "Inclusive"
)

// BrandTheme enum constants: invoice branding/template selectors
const (
	ThemeStandard = "STANDARD"
	ThemeMargin   = "MARGIN_SCHEME"
	ThemeExport   = "EXPORT"
)

// Scenario is the immutable classifier output: everything the invoicing layer
// needs to raise the sale under the correct VAT treatment.
type Scenario struct {
	AccountCode  AccountCode `json:"account_code"`
	TaxType      string      `json:"tax_type"`
	TaxLabel     string      `json:"tax_label"`
	AmountsAre   string      `json:"amounts_are"`
	BrandTheme   string      `json:"brand_theme"`
	TaxLiability string      `json:"tax_liability"`
	VATReclaim   string      `json:"vat_reclaim"`
	Note         string      `json:"note,omitempty"`
}

// accountBinding holds the invoice-side fields bound to one account code.
type accountBinding struct {
	taxType    string
	taxLabel   string
	amountsAre string
	brandTheme string
	vatRate    decimal.Decimal
}

// accountTable is the closed account-code table. Adding a code here is the only
// way to introduce a new VAT treatment; nothing infers rates from anywhere else.
var accountTable = map[AccountCode]accountBinding{
	AccountDomestic: {
		taxType:    "OUTPUT2",
		taxLabel:   "20% (VAT on Income)",
		amountsAre: AmountsExclusive,
		brandTheme: ThemeStandard,
		vatRate:    decimal.NewFromFloat(0.20),
	},
	AccountMargin: {
		taxType:    "NONE",
		taxLabel:   "Margin Scheme (no VAT shown)",
		amountsAre: AmountsInclusive,
		brandTheme: ThemeMargin,
		vatRate:    decimal.Zero,
	},
	AccountExport: {
		taxType:    "ZERORATEDOUTPUT",
		taxLabel:   "Zero Rated / Outside Scope",
		amountsAre: AmountsInclusive,
		brandTheme: ThemeExport,
		vatRate:    decimal.Zero,
	},
}

// VATRate returns the output VAT rate bound to an account code.
// Unknown codes are a hard error: sale creation must stop rather than assume a
// rate, because a silent default could misreport tax on an export sale.
func VATRate(code AccountCode) (decimal.Decimal, error) {
	binding, ok := accountTable[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("no VAT rate mapped for account code %q", code)
	}
	return binding.vatRate, nil
}

// Theme returns the invoice branding theme bound to an account code.
// Same fail-fast contract as VATRate.
func Theme(code AccountCode) (string, error) {
	binding, ok := accountTable[code]
	if !ok {
		return "", fmt.Errorf("no branding theme mapped for account code %q", code)
	}
	return binding.brandTheme, nil
}

// scenarioFor builds the invoice-side half of a Scenario from the account table.
// The informational strings (liability, reclaim, note) are leaf-specific and
// filled in by the classifier.
func scenarioFor(code AccountCode) Scenario {
	binding := accountTable[code]
	return Scenario{
		AccountCode: code,
		TaxType:     binding.taxType,
		TaxLabel:    binding.taxLabel,
		AmountsAre:  binding.amountsAre,
		BrandTheme:  binding.brandTheme,
	}
}
