package rules

import (
	"github.com/shopspring/decimal"

	"example.com/freightdesk/services/forwarding/internal/models"
)

// ComputeChargeLine fills in the derived columns of a charge line from its
// editable ones. Base amount is qty x amount converted at the line's exchange
// rate. Intra-state entries split GST evenly into CGST and SGST; inter-state
// entries put the whole tax into IGST. All derived values are rounded to two
// places.
func ComputeChargeLine(line *models.ChargeLine, interstate bool) {
	qty := decimal.NewFromFloat(line.Qty)
	amount := decimal.NewFromFloat(line.Amount)
	exRate := decimal.NewFromFloat(line.ExRate)
	if exRate.IsZero() {
		exRate = decimal.NewFromInt(1)
	}

	base := qty.Mul(amount).Mul(exRate)
	gst := base.Mul(decimal.NewFromFloat(line.GstPercent)).Div(decimal.NewFromInt(100))

	line.AmountInInr = round2(base)
	if interstate {
		line.IGST = round2(gst)
		line.CGST = 0
		line.SGST = 0
	} else {
		half := gst.Div(decimal.NewFromInt(2))
		line.CGST = round2(half)
		line.SGST = round2(half)
		line.IGST = 0
	}
	line.Total = round2(base.Add(decimal.NewFromFloat(line.CGST)).
		Add(decimal.NewFromFloat(line.SGST)).
		Add(decimal.NewFromFloat(line.IGST)))
}

// ComputeEntryTotals recomputes every line and the entry's subtotal, tax
// total and grand total. The totals are sums over the lines, never
// independently edited values.
func ComputeEntryTotals(entry *models.AccountingEntry) {
	sub := decimal.Zero
	tax := decimal.Zero
	for i := range entry.ChargeLines {
		ComputeChargeLine(&entry.ChargeLines[i], entry.Interstate)
		sub = sub.Add(decimal.NewFromFloat(entry.ChargeLines[i].AmountInInr))
		tax = tax.Add(decimal.NewFromFloat(entry.ChargeLines[i].CGST)).
			Add(decimal.NewFromFloat(entry.ChargeLines[i].SGST)).
			Add(decimal.NewFromFloat(entry.ChargeLines[i].IGST))
	}
	entry.SubTotal = round2(sub)
	entry.TaxTotal = round2(tax)
	entry.GrandTotal = round2(sub.Add(tax))
}

// ComputeHouseCharges recomputes the derived columns of a house bill's charge
// lines. House charges are always domestic (CGST/SGST).
func ComputeHouseCharges(house *models.House) {
	for i := range house.ChargeLines {
		ComputeChargeLine(&house.ChargeLines[i], false)
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
