package services

import (
	"github.com/google/uuid"

	"example.com/freightdesk/services/forwarding/internal/models"
	"example.com/freightdesk/services/forwarding/internal/rules"
)

// Forms carry raw form-editable strings exactly as the user typed them.
// Normalization to typed nullable values happens once, immediately before
// the payload is persisted - never on inbound display values.

// JobForm is the submitted job creation/edit form.
type JobForm struct {
	JobNo                string `json:"job_no"`
	MawbNo               string `json:"mawb_no"`
	Branch               string `json:"branch"`
	ShipmentTerm         string `json:"shipment_term"`
	FreightTerm          string `json:"freight_term"`
	WtvalCode            string `json:"wtval_code"`
	OtherCode            string `json:"other_code"`
	ShipperName          string `json:"shipper_name"`
	ShipperAddress       string `json:"shipper_address"`
	ConsigneeName        string `json:"consignee_name"`
	ConsigneeAddress     string `json:"consignee_address"`
	NotifyName           string `json:"notify_name"`
	NotifyAddress        string `json:"notify_address"`
	AirportOfDeparture   string `json:"airport_of_departure"`
	AirportOfDestination string `json:"airport_of_destination"`
	FlightNo             string `json:"flight_no"`
	FlightDate           string `json:"flight_date"`
	ETA                  string `json:"eta"`
	Packages             string `json:"packages"`
	GrossWeight          string `json:"gross_weight"`
	ChargeableWeight     string `json:"chargeable_weight"`
	WeightUnit           string `json:"weight_unit"`
	Currency             string `json:"currency"`
	ExchangeRate         string `json:"exchange_rate"`
	Remarks              string `json:"remarks"`
}

// record returns the flat field view used for term-mandated field checks.
func (f JobForm) record() map[string]string {
	return map[string]string{
		"job_no":                 f.JobNo,
		"mawb_no":                f.MawbNo,
		"branch":                 f.Branch,
		"shipment_term":          f.ShipmentTerm,
		"freight_term":           f.FreightTerm,
		"shipper_name":           f.ShipperName,
		"shipper_address":        f.ShipperAddress,
		"consignee_name":         f.ConsigneeName,
		"consignee_address":      f.ConsigneeAddress,
		"currency":               f.Currency,
		"airport_of_departure":   f.AirportOfDeparture,
		"airport_of_destination": f.AirportOfDestination,
	}
}

// toModel normalizes the form into a persistable job.
func (f JobForm) toModel(id uuid.UUID) *models.Job {
	return &models.Job{
		ID:                   id,
		JobNo:                trimmed(f.JobNo),
		MawbNo:               rules.ToNullableString(f.MawbNo),
		Branch:               rules.ToNullableString(f.Branch),
		ShipmentTerm:         rules.ToNullableString(f.ShipmentTerm),
		FreightTerm:          rules.ToNullableString(f.FreightTerm),
		WtvalCode:            rules.ToNullableString(f.WtvalCode),
		OtherCode:            rules.ToNullableString(f.OtherCode),
		ShipperName:          rules.ToNullableString(f.ShipperName),
		ShipperAddress:       rules.ToNullableString(f.ShipperAddress),
		ConsigneeName:        rules.ToNullableString(f.ConsigneeName),
		ConsigneeAddress:     rules.ToNullableString(f.ConsigneeAddress),
		NotifyName:           rules.ToNullableString(f.NotifyName),
		NotifyAddress:        rules.ToNullableString(f.NotifyAddress),
		AirportOfDeparture:   rules.ToNullableString(f.AirportOfDeparture),
		AirportOfDestination: rules.ToNullableString(f.AirportOfDestination),
		FlightNo:             rules.ToNullableString(f.FlightNo),
		FlightDate:           rules.ToNullableDate(f.FlightDate),
		ETA:                  rules.ToNullableDate(f.ETA),
		Packages:             rules.ToNullableNumber(f.Packages),
		GrossWeight:          rules.ToNullableNumber(f.GrossWeight),
		ChargeableWeight:     rules.ToNullableNumber(f.ChargeableWeight),
		WeightUnit:           rules.ToNullableString(f.WeightUnit),
		Currency:             rules.ToNullableString(f.Currency),
		ExchangeRate:         rules.ToNullableNumber(f.ExchangeRate),
		Remarks:              rules.ToNullableString(f.Remarks),
	}
}

// HouseForm is the submitted house bill creation/edit form.
type HouseForm struct {
	JobID                string           `json:"job_id"`
	HawbNo               string           `json:"hawb_no"`
	MawbNo               string           `json:"mawb_no"`
	Branch               string           `json:"branch"`
	ShipmentTerm         string           `json:"shipment_term"`
	FreightTerm          string           `json:"freight_term"`
	WtvalCode            string           `json:"wtval_code"`
	OtherCode            string           `json:"other_code"`
	ShipperName          string           `json:"shipper_name"`
	ShipperAddress       string           `json:"shipper_address"`
	ConsigneeName        string           `json:"consignee_name"`
	ConsigneeAddress     string           `json:"consignee_address"`
	NotifyName           string           `json:"notify_name"`
	NotifyAddress        string           `json:"notify_address"`
	AirportOfDeparture   string           `json:"airport_of_departure"`
	AirportOfDestination string           `json:"airport_of_destination"`
	FlightNo             string           `json:"flight_no"`
	FlightDate           string           `json:"flight_date"`
	ETA                  string           `json:"eta"`
	Packages             string           `json:"packages"`
	GrossWeight          string           `json:"gross_weight"`
	ChargeableWeight     string           `json:"chargeable_weight"`
	WeightUnit           string           `json:"weight_unit"`
	Currency             string           `json:"currency"`
	ExchangeRate         string           `json:"exchange_rate"`
	Remarks              string           `json:"remarks"`
	ChargeLines          []ChargeLineForm `json:"charge_lines"`
}

// record returns the flat field view used for defaulting and validation. Only
// empty fields are seeded from parent defaults, so the map carries the raw
// values.
func (f HouseForm) record() map[string]string {
	return map[string]string{
		"job_id":                 f.JobID,
		"hawb_no":                f.HawbNo,
		"mawb_no":                f.MawbNo,
		"branch":                 f.Branch,
		"shipment_term":          f.ShipmentTerm,
		"freight_term":           f.FreightTerm,
		"wtval_code":             f.WtvalCode,
		"other_code":             f.OtherCode,
		"shipper_name":           f.ShipperName,
		"shipper_address":        f.ShipperAddress,
		"consignee_name":         f.ConsigneeName,
		"consignee_address":      f.ConsigneeAddress,
		"notify_name":            f.NotifyName,
		"notify_address":         f.NotifyAddress,
		"airport_of_departure":   f.AirportOfDeparture,
		"airport_of_destination": f.AirportOfDestination,
		"flight_no":              f.FlightNo,
		"flight_date":            f.FlightDate,
		"eta":                    f.ETA,
		"packages":               f.Packages,
		"gross_weight":           f.GrossWeight,
		"chargeable_weight":      f.ChargeableWeight,
		"weight_unit":            f.WeightUnit,
		"currency":               f.Currency,
		"exchange_rate":          f.ExchangeRate,
	}
}

// applyDefaults fills the form's empty fields from computed defaults. Fields
// the user already typed are never overwritten.
func (f *HouseForm) applyDefaults(defaults map[string]string) {
	setIfEmpty(&f.MawbNo, defaults["mawb_no"])
	setIfEmpty(&f.Branch, defaults["branch"])
	setIfEmpty(&f.ShipmentTerm, defaults["shipment_term"])
	setIfEmpty(&f.FreightTerm, defaults["freight_term"])
	setIfEmpty(&f.WtvalCode, defaults["wtval_code"])
	setIfEmpty(&f.OtherCode, defaults["other_code"])
	setIfEmpty(&f.ShipperName, defaults["shipper_name"])
	setIfEmpty(&f.ShipperAddress, defaults["shipper_address"])
	setIfEmpty(&f.ConsigneeName, defaults["consignee_name"])
	setIfEmpty(&f.ConsigneeAddress, defaults["consignee_address"])
	setIfEmpty(&f.NotifyName, defaults["notify_name"])
	setIfEmpty(&f.NotifyAddress, defaults["notify_address"])
	setIfEmpty(&f.AirportOfDeparture, defaults["airport_of_departure"])
	setIfEmpty(&f.AirportOfDestination, defaults["airport_of_destination"])
	setIfEmpty(&f.FlightNo, defaults["flight_no"])
	setIfEmpty(&f.FlightDate, defaults["flight_date"])
	setIfEmpty(&f.ETA, defaults["eta"])
	setIfEmpty(&f.Packages, defaults["packages"])
	setIfEmpty(&f.GrossWeight, defaults["gross_weight"])
	setIfEmpty(&f.ChargeableWeight, defaults["chargeable_weight"])
	setIfEmpty(&f.WeightUnit, defaults["weight_unit"])
	setIfEmpty(&f.Currency, defaults["currency"])
	setIfEmpty(&f.ExchangeRate, defaults["exchange_rate"])
}

// toModel normalizes the form into a persistable house bill.
func (f HouseForm) toModel(id, jobID uuid.UUID) *models.House {
	house := &models.House{
		ID:                   id,
		JobID:                jobID,
		HawbNo:               trimmed(f.HawbNo),
		MawbNo:               rules.ToNullableString(f.MawbNo),
		Branch:               rules.ToNullableString(f.Branch),
		ShipmentTerm:         rules.ToNullableString(f.ShipmentTerm),
		FreightTerm:          rules.ToNullableString(f.FreightTerm),
		WtvalCode:            rules.ToNullableString(f.WtvalCode),
		OtherCode:            rules.ToNullableString(f.OtherCode),
		ShipperName:          rules.ToNullableString(f.ShipperName),
		ShipperAddress:       rules.ToNullableString(f.ShipperAddress),
		ConsigneeName:        rules.ToNullableString(f.ConsigneeName),
		ConsigneeAddress:     rules.ToNullableString(f.ConsigneeAddress),
		NotifyName:           rules.ToNullableString(f.NotifyName),
		NotifyAddress:        rules.ToNullableString(f.NotifyAddress),
		AirportOfDeparture:   rules.ToNullableString(f.AirportOfDeparture),
		AirportOfDestination: rules.ToNullableString(f.AirportOfDestination),
		FlightNo:             rules.ToNullableString(f.FlightNo),
		FlightDate:           rules.ToNullableDate(f.FlightDate),
		ETA:                  rules.ToNullableDate(f.ETA),
		Packages:             rules.ToNullableNumber(f.Packages),
		GrossWeight:          rules.ToNullableNumber(f.GrossWeight),
		ChargeableWeight:     rules.ToNullableNumber(f.ChargeableWeight),
		WeightUnit:           rules.ToNullableString(f.WeightUnit),
		Currency:             rules.ToNullableString(f.Currency),
		ExchangeRate:         rules.ToNullableNumber(f.ExchangeRate),
		Remarks:              rules.ToNullableString(f.Remarks),
	}
	for _, lf := range f.ChargeLines {
		line := lf.toModel()
		line.HouseID = &house.ID
		house.ChargeLines = append(house.ChargeLines, *line)
	}
	return house
}

// ArrivalNoticeForm is the submitted arrival notice form.
type ArrivalNoticeForm struct {
	JobID                string `json:"job_id"`
	NoticeNo             string `json:"notice_no"`
	NoticeDate           string `json:"notice_date"`
	MawbNo               string `json:"mawb_no"`
	HawbNo               string `json:"hawb_no"`
	ConsigneeName        string `json:"consignee_name"`
	ConsigneeAddress     string `json:"consignee_address"`
	NotifyName           string `json:"notify_name"`
	NotifyAddress        string `json:"notify_address"`
	AirportOfDeparture   string `json:"airport_of_departure"`
	AirportOfDestination string `json:"airport_of_destination"`
	FlightNo             string `json:"flight_no"`
	ETA                  string `json:"eta"`
	Packages             string `json:"packages"`
	GrossWeight          string `json:"gross_weight"`
	WeightUnit           string `json:"weight_unit"`
	FreeDays             string `json:"free_days"`
	Remarks              string `json:"remarks"`
}

func (f *ArrivalNoticeForm) applyDefaults(defaults map[string]string) {
	setIfEmpty(&f.MawbNo, defaults["mawb_no"])
	setIfEmpty(&f.ConsigneeName, defaults["consignee_name"])
	setIfEmpty(&f.ConsigneeAddress, defaults["consignee_address"])
	setIfEmpty(&f.NotifyName, defaults["notify_name"])
	setIfEmpty(&f.NotifyAddress, defaults["notify_address"])
	setIfEmpty(&f.AirportOfDeparture, defaults["airport_of_departure"])
	setIfEmpty(&f.AirportOfDestination, defaults["airport_of_destination"])
	setIfEmpty(&f.FlightNo, defaults["flight_no"])
	setIfEmpty(&f.ETA, defaults["eta"])
	setIfEmpty(&f.Packages, defaults["packages"])
	setIfEmpty(&f.GrossWeight, defaults["gross_weight"])
	setIfEmpty(&f.WeightUnit, defaults["weight_unit"])
	setIfEmpty(&f.FreeDays, defaults["free_days"])
}

func (f ArrivalNoticeForm) toModel(id, jobID uuid.UUID) *models.ArrivalNotice {
	return &models.ArrivalNotice{
		ID:                   id,
		JobID:                jobID,
		NoticeNo:             trimmed(f.NoticeNo),
		NoticeDate:           rules.ToNullableDate(f.NoticeDate),
		MawbNo:               rules.ToNullableString(f.MawbNo),
		HawbNo:               rules.ToNullableString(f.HawbNo),
		ConsigneeName:        rules.ToNullableString(f.ConsigneeName),
		ConsigneeAddress:     rules.ToNullableString(f.ConsigneeAddress),
		NotifyName:           rules.ToNullableString(f.NotifyName),
		NotifyAddress:        rules.ToNullableString(f.NotifyAddress),
		AirportOfDeparture:   rules.ToNullableString(f.AirportOfDeparture),
		AirportOfDestination: rules.ToNullableString(f.AirportOfDestination),
		FlightNo:             rules.ToNullableString(f.FlightNo),
		ETA:                  rules.ToNullableDate(f.ETA),
		Packages:             rules.ToNullableNumber(f.Packages),
		GrossWeight:          rules.ToNullableNumber(f.GrossWeight),
		WeightUnit:           rules.ToNullableString(f.WeightUnit),
		FreeDays:             rules.ToNullableNumber(f.FreeDays),
		Remarks:              rules.ToNullableString(f.Remarks),
	}
}

// AccountingEntryForm is the submitted accounting entry form.
type AccountingEntryForm struct {
	JobID        string           `json:"job_id"`
	InvoiceNo    string           `json:"invoice_no"`
	InvoiceDate  string           `json:"invoice_date"`
	PartyName    string           `json:"party_name"`
	PartyAddress string           `json:"party_address"`
	PartyGSTIN   string           `json:"party_gstin"`
	Currency     string           `json:"currency"`
	ExchangeRate string           `json:"exchange_rate"`
	Interstate   bool             `json:"interstate"`
	ChargeLines  []ChargeLineForm `json:"charge_lines"`
}

func (f *AccountingEntryForm) applyDefaults(defaults map[string]string) {
	setIfEmpty(&f.PartyName, defaults["party_name"])
	setIfEmpty(&f.PartyAddress, defaults["party_address"])
	setIfEmpty(&f.Currency, defaults["currency"])
	setIfEmpty(&f.ExchangeRate, defaults["exchange_rate"])
}

func (f AccountingEntryForm) toModel(id, jobID uuid.UUID) *models.AccountingEntry {
	entry := &models.AccountingEntry{
		ID:           id,
		JobID:        jobID,
		InvoiceNo:    trimmed(f.InvoiceNo),
		InvoiceDate:  rules.ToNullableDate(f.InvoiceDate),
		PartyName:    rules.ToNullableString(f.PartyName),
		PartyAddress: rules.ToNullableString(f.PartyAddress),
		PartyGSTIN:   rules.ToNullableString(f.PartyGSTIN),
		Currency:     rules.ToNullableString(f.Currency),
		ExchangeRate: rules.ToNullableNumber(f.ExchangeRate),
		Interstate:   f.Interstate,
	}
	for _, lf := range f.ChargeLines {
		line := lf.toModel()
		line.EntryID = &entry.ID
		entry.ChargeLines = append(entry.ChargeLines, *line)
	}
	return entry
}

// ChargeLineForm is a single editable charge row.
type ChargeLineForm struct {
	Description string `json:"description"`
	SAC         string `json:"sac"`
	Currency    string `json:"currency"`
	Qty         string `json:"qty"`
	Amount      string `json:"amount"`
	ExRate      string `json:"ex_rate"`
	GstPercent  string `json:"gst_percent"`
}

func (f ChargeLineForm) toModel() *models.ChargeLine {
	line := &models.ChargeLine{
		ID:          uuid.New(),
		Description: trimmed(f.Description),
		SAC:         rules.ToNullableString(f.SAC),
		Currency:    rules.ToNullableString(f.Currency),
		Qty:         1,
		ExRate:      1,
	}
	if v := rules.ToNullableNumber(f.Qty); v != nil {
		line.Qty = *v
	}
	if v := rules.ToNullableNumber(f.Amount); v != nil {
		line.Amount = *v
	}
	if v := rules.ToNullableNumber(f.ExRate); v != nil {
		line.ExRate = *v
	}
	if v := rules.ToNullableNumber(f.GstPercent); v != nil {
		line.GstPercent = *v
	}
	return line
}

func setIfEmpty(field *string, value string) {
	if trimmed(*field) == "" {
		*field = value
	}
}
