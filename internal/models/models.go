package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Job is an air import job headed by a master air waybill. It is the parent
// record that houses, arrival notices and accounting entries are seeded from.
type Job struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	JobNo                string    `gorm:"not null;uniqueIndex" json:"job_no"`
	MawbNo               *string   `json:"mawb_no"`
	Branch               *string   `json:"branch"`
	ShipmentTerm         *string   `json:"shipment_term"`
	FreightTerm          *string   `json:"freight_term"`
	WtvalCode            *string   `json:"wtval_code"`
	OtherCode            *string   `json:"other_code"`
	ShipperName          *string   `json:"shipper_name"`
	ShipperAddress       *string   `json:"shipper_address"`
	ConsigneeName        *string   `json:"consignee_name"`
	ConsigneeAddress     *string   `json:"consignee_address"`
	NotifyName           *string   `json:"notify_name"`
	NotifyAddress        *string   `json:"notify_address"`
	AirportOfDeparture   *string   `json:"airport_of_departure"`
	AirportOfDestination *string   `json:"airport_of_destination"`
	FlightNo             *string   `json:"flight_no"`
	FlightDate           *string   `gorm:"type:date" json:"flight_date"`
	ETA                  *string   `gorm:"column:eta;type:date" json:"eta"`
	Packages             *float64  `json:"packages"`
	GrossWeight          *float64  `json:"gross_weight"`
	ChargeableWeight     *float64  `json:"chargeable_weight"`
	WeightUnit           *string   `json:"weight_unit"`
	Currency             *string   `json:"currency"`
	ExchangeRate         *float64  `json:"exchange_rate"`
	Remarks              *string   `json:"remarks"`

	Houses            []House           `gorm:"foreignKey:JobID" json:"-"`
	ArrivalNotices    []ArrivalNotice   `gorm:"foreignKey:JobID" json:"-"`
	AccountingEntries []AccountingEntry `gorm:"foreignKey:JobID" json:"-"`
}

// House is a house air waybill under a job. Defaults are copied from the job
// snapshot at creation time; the record does not re-sync with later job edits.
type House struct {
	ID                   uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt            time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
	JobID                uuid.UUID    `gorm:"type:uuid;not null;index" json:"job_id"`
	HawbNo               string       `gorm:"not null" json:"hawb_no"`
	MawbNo               *string      `json:"mawb_no"`
	Branch               *string      `json:"branch"`
	ShipmentTerm         *string      `json:"shipment_term"`
	FreightTerm          *string      `json:"freight_term"`
	WtvalCode            *string      `json:"wtval_code"`
	OtherCode            *string      `json:"other_code"`
	ShipperName          *string      `json:"shipper_name"`
	ShipperAddress       *string      `json:"shipper_address"`
	ConsigneeName        *string      `json:"consignee_name"`
	ConsigneeAddress     *string      `json:"consignee_address"`
	NotifyName           *string      `json:"notify_name"`
	NotifyAddress        *string      `json:"notify_address"`
	AirportOfDeparture   *string      `json:"airport_of_departure"`
	AirportOfDestination *string      `json:"airport_of_destination"`
	FlightNo             *string      `json:"flight_no"`
	FlightDate           *string      `gorm:"type:date" json:"flight_date"`
	ETA                  *string      `gorm:"column:eta;type:date" json:"eta"`
	Packages             *float64     `json:"packages"`
	GrossWeight          *float64     `json:"gross_weight"`
	ChargeableWeight     *float64     `json:"chargeable_weight"`
	WeightUnit           *string      `json:"weight_unit"`
	Currency             *string      `json:"currency"`
	ExchangeRate         *float64     `json:"exchange_rate"`
	Remarks              *string      `json:"remarks"`
	ChargeLines          []ChargeLine `gorm:"foreignKey:HouseID" json:"charge_lines,omitempty"`
}

// ArrivalNotice notifies the consignee that cargo has arrived.
type ArrivalNotice struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	JobID                uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	NoticeNo             string    `gorm:"not null" json:"notice_no"`
	NoticeDate           *string   `gorm:"type:date" json:"notice_date"`
	MawbNo               *string   `json:"mawb_no"`
	HawbNo               *string   `json:"hawb_no"`
	ConsigneeName        *string   `json:"consignee_name"`
	ConsigneeAddress     *string   `json:"consignee_address"`
	NotifyName           *string   `json:"notify_name"`
	NotifyAddress        *string   `json:"notify_address"`
	AirportOfDeparture   *string   `json:"airport_of_departure"`
	AirportOfDestination *string   `json:"airport_of_destination"`
	FlightNo             *string   `json:"flight_no"`
	ETA                  *string   `gorm:"column:eta;type:date" json:"eta"`
	Packages             *float64  `json:"packages"`
	GrossWeight          *float64  `json:"gross_weight"`
	WeightUnit           *string   `json:"weight_unit"`
	FreeDays             *float64  `json:"free_days"`
	Remarks              *string   `json:"remarks"`
}

// AccountingEntry is a billing document for a job. Subtotal, tax total and
// grand total are derived from the charge lines and recomputed whenever the
// line collection changes, never edited independently.
type AccountingEntry struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
	JobID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"job_id"`
	InvoiceNo    string       `gorm:"not null" json:"invoice_no"`
	InvoiceDate  *string      `gorm:"type:date" json:"invoice_date"`
	PartyName    *string      `json:"party_name"`
	PartyAddress *string      `json:"party_address"`
	PartyGSTIN   *string      `gorm:"column:party_gstin" json:"party_gstin"`
	Currency     *string      `json:"currency"`
	ExchangeRate *float64     `json:"exchange_rate"`
	Interstate   bool         `gorm:"not null;default:false" json:"interstate"`
	SubTotal     float64      `gorm:"not null;default:0" json:"sub_total"`
	TaxTotal     float64      `gorm:"not null;default:0" json:"tax_total"`
	GrandTotal   float64      `gorm:"not null;default:0" json:"grand_total"`
	ChargeLines  []ChargeLine `gorm:"foreignKey:EntryID" json:"charge_lines,omitempty"`
}

// ChargeLine is a single charge on a house bill or accounting entry. The
// derived columns (AmountInInr, CGST, SGST, IGST, Total) are computed by the
// charge calculator, not accepted from callers.
type ChargeLine struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	HouseID     *uuid.UUID `gorm:"type:uuid;index" json:"house_id,omitempty"`
	EntryID     *uuid.UUID `gorm:"type:uuid;index" json:"entry_id,omitempty"`
	Description string     `gorm:"not null" json:"description"`
	SAC         *string    `gorm:"column:sac" json:"sac"`
	Currency    *string    `json:"currency"`
	Qty         float64    `gorm:"not null;default:1" json:"qty"`
	Amount      float64    `gorm:"not null;default:0" json:"amount"`
	ExRate      float64    `gorm:"not null;default:1" json:"ex_rate"`
	AmountInInr float64    `gorm:"column:amount_in_inr;not null;default:0" json:"amount_in_inr"`
	GstPercent  float64    `gorm:"not null;default:0" json:"gst_percent"`
	CGST        float64    `gorm:"column:cgst;not null;default:0" json:"cgst"`
	SGST        float64    `gorm:"column:sgst;not null;default:0" json:"sgst"`
	IGST        float64    `gorm:"column:igst;not null;default:0" json:"igst"`
	Total       float64    `gorm:"not null;default:0" json:"total"`
}

// ShipmentEvent is the message published to the bus after a mutation commits.
type ShipmentEvent struct {
	EventType  string    `json:"event_type"` // created | updated | deleted
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	JobNo      string    `json:"job_no,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Job{},
		&House{},
		&ArrivalNotice{},
		&AccountingEntry{},
		&ChargeLine{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}
	return nil
}
