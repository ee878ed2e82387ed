package rules

import "strings"

// Freight terms driven by the shipment term.
const (
	FreightPrepaid = "FREIGHT PREPAID"
	FreightCollect = "FREIGHT COLLECT"
)

// IncotermRule is the bundle of dependent values a shipment term resolves to:
// the freight term printed on the bill, the prepaid/collect codes for the
// weight/valuation and other-charges boxes, and the fields that must be
// non-empty before a submission for that term is accepted.
type IncotermRule struct {
	FreightTerm     string   `json:"freight_term"`
	WtvalCode       string   `json:"wtval_code"`
	OtherCode       string   `json:"other_code"`
	MandatoryFields []string `json:"mandatory_fields"`
}

// neutralRule is returned for empty or unrecognized terms.
var neutralRule = IncotermRule{MandatoryFields: []string{}}

var incotermTable = map[string]IncotermRule{
	"EXW": {FreightTerm: FreightCollect, WtvalCode: "C", OtherCode: "C", MandatoryFields: []string{"consignee_name"}},
	"FCA": {FreightTerm: FreightCollect, WtvalCode: "C", OtherCode: "C", MandatoryFields: []string{"consignee_name"}},
	"FAS": {FreightTerm: FreightCollect, WtvalCode: "C", OtherCode: "C", MandatoryFields: []string{"consignee_name"}},
	"FOB": {FreightTerm: FreightCollect, WtvalCode: "C", OtherCode: "C", MandatoryFields: []string{"consignee_name"}},
	"CFR": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term"}},
	"C&F": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term"}},
	"CIF": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term", "currency"}},
	"CPT": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term"}},
	"CIP": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term", "currency"}},
	"DAP": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term", "consignee_address"}},
	"DPU": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term", "consignee_address"}},
	"DDU": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term", "consignee_address"}},
	"DDP": {FreightTerm: FreightPrepaid, WtvalCode: "P", OtherCode: "P", MandatoryFields: []string{"shipper_name", "freight_term", "consignee_address"}},
}

// Resolve maps a shipment term to its rule. Lookup is case-insensitive over
// the trimmed input. Empty or unknown terms resolve to the neutral rule;
// Resolve never panics.
func Resolve(term string) IncotermRule {
	key := strings.ToUpper(strings.TrimSpace(term))
	if key == "" {
		return neutralRule
	}
	rule, ok := incotermTable[key]
	if !ok {
		return neutralRule
	}
	return rule
}

// KnownTerms returns the terms present in the rule table.
func KnownTerms() []string {
	terms := make([]string, 0, len(incotermTable))
	for term := range incotermTable {
		terms = append(terms, term)
	}
	return terms
}

// MissingMandatoryFields returns the rule's mandatory fields that are empty
// in the given record. The record is a flat field-name to value view of the
// form being submitted.
func MissingMandatoryFields(term string, record map[string]string) []string {
	rule := Resolve(term)
	var missing []string
	for _, field := range rule.MandatoryFields {
		if strings.TrimSpace(record[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
