package rules

import (
	"strconv"
	"strings"

	"example.com/freightdesk/services/forwarding/internal/models"
)

// FieldRule declares how one child field is seeded from a parent snapshot:
// the parent fields to try in order, and the static fallback used when none
// of them carries a value. Date-typed fields are passed through date
// normalization so an unparsable parent value degrades to empty rather than
// leaking through.
type FieldRule struct {
	Child    string
	Parents  []string
	Fallback string
	Date     bool
}

// BuildChildDefaults computes the default value set for a child form from a
// parent record snapshot. For each rule the parent candidates are scanned in
// declared order and the first non-empty value wins; later candidates are
// never preferred even when populated. A nil or empty parent yields the
// fallback-only defaults - the caller decides whether that warrants a
// "select a job first" warning.
func BuildChildDefaults(parent map[string]string, fieldMap []FieldRule) map[string]string {
	defaults := make(map[string]string, len(fieldMap))
	for _, rule := range fieldMap {
		value := rule.Fallback
		for _, candidate := range rule.Parents {
			if v := strings.TrimSpace(parent[candidate]); v != "" {
				value = v
				break
			}
		}
		if rule.Date {
			value = DisplayDate(value)
		}
		defaults[rule.Child] = value
	}
	return defaults
}

// HouseFieldRules seeds a house bill form from a job snapshot.
var HouseFieldRules = []FieldRule{
	{Child: "mawb_no", Parents: []string{"mawb_no"}},
	{Child: "branch", Parents: []string{"branch"}, Fallback: "HEAD OFFICE"},
	{Child: "shipment_term", Parents: []string{"shipment_term"}},
	{Child: "freight_term", Parents: []string{"freight_term"}},
	{Child: "wtval_code", Parents: []string{"wtval_code"}},
	{Child: "other_code", Parents: []string{"other_code"}},
	{Child: "shipper_name", Parents: []string{"shipper_name"}},
	{Child: "shipper_address", Parents: []string{"shipper_address"}},
	{Child: "consignee_name", Parents: []string{"consignee_name"}},
	{Child: "consignee_address", Parents: []string{"consignee_address"}},
	// Notify party falls back to the consignee, the usual "SAME AS CONSIGNEE" case.
	{Child: "notify_name", Parents: []string{"notify_name", "consignee_name"}},
	{Child: "notify_address", Parents: []string{"notify_address", "consignee_address"}},
	{Child: "airport_of_departure", Parents: []string{"airport_of_departure"}},
	{Child: "airport_of_destination", Parents: []string{"airport_of_destination"}},
	{Child: "flight_no", Parents: []string{"flight_no"}},
	{Child: "flight_date", Parents: []string{"flight_date"}, Date: true},
	{Child: "eta", Parents: []string{"eta"}, Date: true},
	{Child: "packages", Parents: []string{"packages"}},
	{Child: "gross_weight", Parents: []string{"gross_weight"}},
	{Child: "chargeable_weight", Parents: []string{"chargeable_weight", "gross_weight"}},
	{Child: "weight_unit", Parents: []string{"weight_unit"}, Fallback: "KG"},
	{Child: "currency", Parents: []string{"currency"}, Fallback: "INR"},
	{Child: "exchange_rate", Parents: []string{"exchange_rate"}, Fallback: "1"},
}

// ArrivalNoticeFieldRules seeds an arrival notice form from a job snapshot.
var ArrivalNoticeFieldRules = []FieldRule{
	{Child: "mawb_no", Parents: []string{"mawb_no"}},
	{Child: "consignee_name", Parents: []string{"consignee_name"}},
	{Child: "consignee_address", Parents: []string{"consignee_address"}},
	{Child: "notify_name", Parents: []string{"notify_name", "consignee_name"}},
	{Child: "notify_address", Parents: []string{"notify_address", "consignee_address"}},
	{Child: "airport_of_departure", Parents: []string{"airport_of_departure"}},
	{Child: "airport_of_destination", Parents: []string{"airport_of_destination"}},
	{Child: "flight_no", Parents: []string{"flight_no"}},
	{Child: "eta", Parents: []string{"eta", "flight_date"}, Date: true},
	{Child: "packages", Parents: []string{"packages"}},
	{Child: "gross_weight", Parents: []string{"gross_weight"}},
	{Child: "weight_unit", Parents: []string{"weight_unit"}, Fallback: "KG"},
	{Child: "free_days", Parents: []string{}, Fallback: "3"},
}

// AccountingEntryFieldRules seeds an accounting entry form from a job snapshot.
var AccountingEntryFieldRules = []FieldRule{
	{Child: "party_name", Parents: []string{"consignee_name"}},
	{Child: "party_address", Parents: []string{"consignee_address"}},
	{Child: "currency", Parents: []string{"currency"}, Fallback: "INR"},
	{Child: "exchange_rate", Parents: []string{"exchange_rate"}, Fallback: "1"},
	{Child: "invoice_date", Parents: []string{}, Date: true},
}

// JobSnapshot flattens a job into the field-name to value view the propagator
// and the transfer slot operate on.
func JobSnapshot(job *models.Job) map[string]string {
	if job == nil {
		return map[string]string{}
	}
	snap := map[string]string{
		"id":     job.ID.String(),
		"job_no": job.JobNo,
	}
	putString(snap, "mawb_no", job.MawbNo)
	putString(snap, "branch", job.Branch)
	putString(snap, "shipment_term", job.ShipmentTerm)
	putString(snap, "freight_term", job.FreightTerm)
	putString(snap, "wtval_code", job.WtvalCode)
	putString(snap, "other_code", job.OtherCode)
	putString(snap, "shipper_name", job.ShipperName)
	putString(snap, "shipper_address", job.ShipperAddress)
	putString(snap, "consignee_name", job.ConsigneeName)
	putString(snap, "consignee_address", job.ConsigneeAddress)
	putString(snap, "notify_name", job.NotifyName)
	putString(snap, "notify_address", job.NotifyAddress)
	putString(snap, "airport_of_departure", job.AirportOfDeparture)
	putString(snap, "airport_of_destination", job.AirportOfDestination)
	putString(snap, "flight_no", job.FlightNo)
	putString(snap, "flight_date", job.FlightDate)
	putString(snap, "eta", job.ETA)
	putNumber(snap, "packages", job.Packages)
	putNumber(snap, "gross_weight", job.GrossWeight)
	putNumber(snap, "chargeable_weight", job.ChargeableWeight)
	putString(snap, "weight_unit", job.WeightUnit)
	putString(snap, "currency", job.Currency)
	putNumber(snap, "exchange_rate", job.ExchangeRate)
	putString(snap, "remarks", job.Remarks)
	return snap
}

func putString(snap map[string]string, key string, v *string) {
	if v != nil {
		snap[key] = *v
	}
}

func putNumber(snap map[string]string, key string, v *float64) {
	if v != nil {
		snap[key] = strconv.FormatFloat(*v, 'f', -1, 64)
	}
}
