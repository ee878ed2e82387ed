package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/freightdesk/services/forwarding/internal/models"
)

func TestBuildChildDefaultsFirstNonEmptyWins(t *testing.T) {
	parent := map[string]string{
		"fieldA": "X",
		"fieldB": "Y",
	}
	rules := []FieldRule{
		{Child: "out", Parents: []string{"fieldA", "fieldB"}},
	}
	defaults := BuildChildDefaults(parent, rules)
	require.Equal(t, "X", defaults["out"])

	// A later candidate is only used when earlier ones are empty.
	parent["fieldA"] = "   "
	defaults = BuildChildDefaults(parent, rules)
	require.Equal(t, "Y", defaults["out"])
}

func TestBuildChildDefaultsFallback(t *testing.T) {
	rules := []FieldRule{
		{Child: "branch", Parents: []string{"branch"}, Fallback: "HEAD OFFICE"},
	}

	defaults := BuildChildDefaults(map[string]string{}, rules)
	require.Equal(t, "HEAD OFFICE", defaults["branch"])

	defaults = BuildChildDefaults(nil, rules)
	require.Equal(t, "HEAD OFFICE", defaults["branch"])

	defaults = BuildChildDefaults(map[string]string{"branch": "MUMBAI"}, rules)
	require.Equal(t, "MUMBAI", defaults["branch"])
}

func TestBuildChildDefaultsDateNormalization(t *testing.T) {
	rules := []FieldRule{
		{Child: "eta", Parents: []string{"eta"}, Date: true},
	}
	defaults := BuildChildDefaults(map[string]string{"eta": "2024-03-05T00:00:00Z"}, rules)
	require.Equal(t, "2024-03-05", defaults["eta"])

	// Unparsable parent dates degrade to empty.
	defaults = BuildChildDefaults(map[string]string{"eta": "soon"}, rules)
	require.Equal(t, "", defaults["eta"])
}

func TestHouseFieldRules(t *testing.T) {
	parent := map[string]string{
		"mawb_no":        "098-12345675",
		"consignee_name": "Indo Traders",
		"gross_weight":   "120.5",
	}
	defaults := BuildChildDefaults(parent, HouseFieldRules)

	require.Equal(t, "098-12345675", defaults["mawb_no"])
	require.Equal(t, "HEAD OFFICE", defaults["branch"])
	require.Equal(t, "KG", defaults["weight_unit"])
	require.Equal(t, "INR", defaults["currency"])
	require.Equal(t, "1", defaults["exchange_rate"])

	// Notify party falls back to the consignee.
	require.Equal(t, "Indo Traders", defaults["notify_name"])

	// Chargeable weight falls back to gross weight.
	require.Equal(t, "120.5", defaults["chargeable_weight"])
}

func TestArrivalNoticeFieldRulesEtaFallsBackToFlightDate(t *testing.T) {
	defaults := BuildChildDefaults(map[string]string{
		"flight_date": "2024-03-05",
	}, ArrivalNoticeFieldRules)
	require.Equal(t, "2024-03-05", defaults["eta"])
	require.Equal(t, "3", defaults["free_days"])

	defaults = BuildChildDefaults(map[string]string{
		"eta":         "2024-03-07",
		"flight_date": "2024-03-05",
	}, ArrivalNoticeFieldRules)
	require.Equal(t, "2024-03-07", defaults["eta"])
}

func TestAccountingEntryFieldRulesPartyFromConsignee(t *testing.T) {
	defaults := BuildChildDefaults(map[string]string{
		"consignee_name":    "Indo Traders",
		"consignee_address": "12 Dock Road, Chennai",
	}, AccountingEntryFieldRules)
	require.Equal(t, "Indo Traders", defaults["party_name"])
	require.Equal(t, "12 Dock Road, Chennai", defaults["party_address"])
	require.Equal(t, "INR", defaults["currency"])
}

func TestJobSnapshot(t *testing.T) {
	shipper := "Acme Exports"
	weight := 120.5
	job := &models.Job{
		ID:          uuid.New(),
		JobNo:       "AIR-1001",
		ShipperName: &shipper,
		GrossWeight: &weight,
	}

	snap := JobSnapshot(job)
	require.Equal(t, job.ID.String(), snap["id"])
	require.Equal(t, "AIR-1001", snap["job_no"])
	require.Equal(t, "Acme Exports", snap["shipper_name"])
	require.Equal(t, "120.5", snap["gross_weight"])

	// Nil fields stay absent rather than appearing as empty strings.
	_, ok := snap["consignee_name"]
	require.False(t, ok)

	require.Empty(t, JobSnapshot(nil))
}
