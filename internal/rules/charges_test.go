package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/freightdesk/services/forwarding/internal/models"
)

func TestComputeChargeLineIntraState(t *testing.T) {
	line := models.ChargeLine{
		Qty:        2,
		Amount:     500,
		ExRate:     1,
		GstPercent: 18,
	}
	ComputeChargeLine(&line, false)

	require.Equal(t, 1000.0, line.AmountInInr)
	require.Equal(t, 90.0, line.CGST)
	require.Equal(t, 90.0, line.SGST)
	require.Equal(t, 0.0, line.IGST)
	require.Equal(t, 1180.0, line.Total)
}

func TestComputeChargeLineInterState(t *testing.T) {
	line := models.ChargeLine{
		Qty:        2,
		Amount:     500,
		ExRate:     1,
		GstPercent: 18,
	}
	ComputeChargeLine(&line, true)

	require.Equal(t, 1000.0, line.AmountInInr)
	require.Equal(t, 0.0, line.CGST)
	require.Equal(t, 0.0, line.SGST)
	require.Equal(t, 180.0, line.IGST)
	require.Equal(t, 1180.0, line.Total)
}

func TestComputeChargeLineExchangeRate(t *testing.T) {
	line := models.ChargeLine{
		Qty:        1,
		Amount:     100,
		ExRate:     83.25,
		GstPercent: 18,
	}
	ComputeChargeLine(&line, true)

	require.Equal(t, 8325.0, line.AmountInInr)
	require.Equal(t, 1498.5, line.IGST)
	require.Equal(t, 9823.5, line.Total)
}

func TestComputeChargeLineZeroExRateDefaultsToOne(t *testing.T) {
	line := models.ChargeLine{Qty: 1, Amount: 250}
	ComputeChargeLine(&line, false)
	require.Equal(t, 250.0, line.AmountInInr)
	require.Equal(t, 250.0, line.Total)
}

func TestComputeChargeLineRounding(t *testing.T) {
	line := models.ChargeLine{
		Qty:        1,
		Amount:     333.33,
		ExRate:     1,
		GstPercent: 18,
	}
	ComputeChargeLine(&line, false)

	// 333.33 * 18% = 59.9994; half of that is 29.9997, rounded to 30.00 per side.
	require.Equal(t, 30.0, line.CGST)
	require.Equal(t, 30.0, line.SGST)
	require.Equal(t, 393.33, line.Total)
}

func TestComputeEntryTotals(t *testing.T) {
	entry := models.AccountingEntry{
		Interstate: false,
		ChargeLines: []models.ChargeLine{
			{Qty: 2, Amount: 500, ExRate: 1, GstPercent: 18},
			{Qty: 1, Amount: 1500, ExRate: 1, GstPercent: 5},
		},
	}
	ComputeEntryTotals(&entry)

	require.Equal(t, 2500.0, entry.SubTotal)
	// 180 from the first line, 75 from the second.
	require.Equal(t, 255.0, entry.TaxTotal)
	require.Equal(t, 2755.0, entry.GrandTotal)

	// Interstate flips the split but not the totals.
	entry.Interstate = true
	ComputeEntryTotals(&entry)
	require.Equal(t, 255.0, entry.TaxTotal)
	require.Equal(t, 180.0, entry.ChargeLines[0].IGST)
	require.Equal(t, 0.0, entry.ChargeLines[0].CGST)
}

func TestComputeEntryTotalsEmptyLines(t *testing.T) {
	entry := models.AccountingEntry{SubTotal: 99, TaxTotal: 9, GrandTotal: 108}
	ComputeEntryTotals(&entry)
	require.Equal(t, 0.0, entry.SubTotal)
	require.Equal(t, 0.0, entry.TaxTotal)
	require.Equal(t, 0.0, entry.GrandTotal)
}

func TestComputeHouseChargesAlwaysDomestic(t *testing.T) {
	house := models.House{
		ChargeLines: []models.ChargeLine{
			{Qty: 1, Amount: 1000, ExRate: 1, GstPercent: 18},
		},
	}
	ComputeHouseCharges(&house)
	require.Equal(t, 90.0, house.ChargeLines[0].CGST)
	require.Equal(t, 90.0, house.ChargeLines[0].SGST)
	require.Equal(t, 0.0, house.ChargeLines[0].IGST)
}
