package taxscheme

// Location enum constants: where the item sits, or where the client is based
const (
	LocationUK      = "uk"
	LocationOutside = "outside"
)

// PurchaseType enum constants: how the item was bought (UK stock only)
const (
	PurchaseRetail = "retail"
	PurchaseMargin = "margin"
)

// DealInputs are the questionnaire answers feeding classification. Every field
// is nil until the user answers it; which fields are required depends on the
// branch (PurchaseType only matters for UK stock, DirectShip only for overseas
// stock sold to a UK client, InsuranceLanded only when DirectShip is yes).
type DealInputs struct {
	ItemLocation    *string
	ClientLocation  *string
	PurchaseType    *string
	DirectShip      *bool
	InsuranceLanded *bool
}

const dutiableNote = "Delivery is not landed: the client may be charged import duties and VAT on receipt."

// Classify resolves the questionnaire answers to a tax scenario.
//
// It returns nil while the subset of answers required by the current branch is
// incomplete. nil means "keep collecting input"; callers must never substitute
// a default scenario for it. Classify itself never errors.
func Classify(in DealInputs) *Scenario {
	if in.ItemLocation == nil {
		return nil
	}

	switch *in.ItemLocation {
	case LocationUK:
		return classifyUKStock(in)
	case LocationOutside:
		return classifyOverseasStock(in)
	}
	return nil
}

// classifyUKStock handles items already in the UK. Both the client location and
// the purchase type must be answered before anything resolves, including the
// export branch, where purchase type does not change the outcome but is still
// required hard-copy for the record.
func classifyUKStock(in DealInputs) *Scenario {
	if in.ClientLocation == nil || in.PurchaseType == nil {
		return nil
	}

	if *in.ClientLocation == LocationOutside {
		s := scenarioFor(AccountExport)
		s.TaxLiability = "The item leaves the UK, so the sale is zero-rated for UK VAT. Keep proof of export."
		s.VATReclaim = "VAT charged on the purchase can be reclaimed where a VAT invoice is held."
		return &s
	}

	switch *in.PurchaseType {
	case PurchaseRetail:
		s := scenarioFor(AccountDomestic)
		s.TaxLiability = "UK sale of retail-sourced stock: 20% VAT is due on the full sale price."
		s.VATReclaim = "VAT paid on the purchase is not reclaimable and is treated as part of cost."
		return &s
	case PurchaseMargin:
		s := scenarioFor(AccountMargin)
		s.TaxLiability = "UK margin scheme sale: VAT is accounted for on the margin only and must not be shown on the invoice."
		s.VATReclaim = "No input VAT to reclaim on a margin scheme purchase."
		return &s
	}
	return nil
}

// classifyOverseasStock handles items currently outside the UK. A non-UK client
// resolves immediately; a UK client needs the shipping questions.
func classifyOverseasStock(in DealInputs) *Scenario {
	if in.ClientLocation == nil {
		return nil
	}

	if *in.ClientLocation == LocationOutside {
		s := scenarioFor(AccountExport)
		s.TaxLiability = "The item never touches the UK, so the sale is outside the scope of UK VAT."
		s.VATReclaim = "No UK VAT arises on the purchase."
		return &s
	}

	// UK client: shipping route decides whether the item enters UK customs in our name
	if in.DirectShip == nil {
		return nil
	}

	if !*in.DirectShip {
		s := scenarioFor(AccountDomestic)
		s.TaxLiability = "The item is imported into the UK and then sold domestically: 20% VAT is due on the sale."
		s.VATReclaim = "Import VAT paid at the border is reclaimable against the C79 certificate."
		return &s
	}

	if in.InsuranceLanded == nil {
		return nil
	}

	if *in.InsuranceLanded {
		s := scenarioFor(AccountExport)
		s.TaxLiability = "Landed direct shipment: the item clears customs in the client's name with duties prepaid, so the sale sits outside UK VAT."
		s.VATReclaim = "No UK VAT arises on the purchase."
		return &s
	}

	s := scenarioFor(AccountExport)
	s.TaxLiability = "Direct shipment without landed delivery: the sale sits outside UK VAT, but the client clears customs themselves."
	s.VATReclaim = "No UK VAT arises on the purchase."
	s.Note = dutiableNote
	return &s
}
