package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/freightdesk/services/forwarding/internal/models"
	"example.com/freightdesk/services/forwarding/internal/rules"
	"example.com/freightdesk/services/forwarding/internal/transfer"
)

// seedTransferSlot stores a parent job snapshot the way a handoff would.
func seedTransferSlot(t *testing.T, slots *transfer.Store, key string, job *models.Job) {
	t.Helper()
	require.NoError(t, slots.Put(context.Background(), key, rules.JobSnapshot(job)))
}

func TestCreateHouseFromTransferSeedsDefaults(t *testing.T) {
	mockRepo := new(MockHouseRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.House")).Return(nil)

	slots := transfer.NewStore(nil)
	service := newTestHouseService(mockRepo, slots)

	jobID := uuid.New()
	shipper := "Acme"
	mawb := "098-12345675"
	seedTransferSlot(t, slots, "job-to-house", &models.Job{
		ID:          jobID,
		JobNo:       "AIR-1001",
		ShipperName: &shipper,
		MawbNo:      &mawb,
	})

	// The user typed only the house number; everything else is left blank
	// and comes from the parent snapshot or the static fallbacks.
	house, err := service.Create(context.Background(), HouseForm{
		HawbNo: "HAWB-01",
	}, "job-to-house")

	require.NoError(t, err)
	require.Equal(t, jobID, house.JobID)
	require.Equal(t, "HAWB-01", house.HawbNo)
	require.NotNil(t, house.ShipperName)
	require.Equal(t, "Acme", *house.ShipperName)
	require.NotNil(t, house.MawbNo)
	require.Equal(t, "098-12345675", *house.MawbNo)
	require.NotNil(t, house.Branch)
	require.Equal(t, "HEAD OFFICE", *house.Branch)
	require.NotNil(t, house.Currency)
	require.Equal(t, "INR", *house.Currency)
	require.NotNil(t, house.ExchangeRate)
	require.Equal(t, 1.0, *house.ExchangeRate)

	// The parent had no consignee, so the field submits as empty and
	// normalizes to null.
	require.Nil(t, house.ConsigneeName)

	mockRepo.AssertExpectations(t)
}

func TestCreateHouseTypedValueBeatsDefault(t *testing.T) {
	mockRepo := new(MockHouseRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.House")).Return(nil)

	slots := transfer.NewStore(nil)
	service := newTestHouseService(mockRepo, slots)

	jobID := uuid.New()
	shipper := "Acme"
	seedTransferSlot(t, slots, "job-to-house", &models.Job{
		ID:          jobID,
		JobNo:       "AIR-1001",
		ShipperName: &shipper,
	})

	house, err := service.Create(context.Background(), HouseForm{
		HawbNo:      "HAWB-01",
		ShipperName: "Custom Shipper",
	}, "job-to-house")

	require.NoError(t, err)
	require.Equal(t, "Custom Shipper", *house.ShipperName)
}

func TestCreateHouseTransferMissing(t *testing.T) {
	mockRepo := new(MockHouseRepository)
	service := newTestHouseService(mockRepo, nil)

	_, err := service.Create(context.Background(), HouseForm{
		HawbNo: "HAWB-01",
	}, "never-written")

	require.ErrorIs(t, err, ErrTransferMissing)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateHouseWithoutTransferNeedsJobID(t *testing.T) {
	mockRepo := new(MockHouseRepository)
	service := newTestHouseService(mockRepo, nil)

	_, err := service.Create(context.Background(), HouseForm{
		HawbNo: "HAWB-01",
	}, "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "job_id")
}

func TestCreateHouseRequiresHawbNo(t *testing.T) {
	mockRepo := new(MockHouseRepository)
	service := newTestHouseService(mockRepo, nil)

	_, err := service.Create(context.Background(), HouseForm{
		JobID: uuid.New().String(),
	}, "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "hawb_no")
}

func TestCreateHouseComputesCharges(t *testing.T) {
	mockRepo := new(MockHouseRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.House")).Return(nil)

	service := newTestHouseService(mockRepo, nil)

	house, err := service.Create(context.Background(), HouseForm{
		JobID:  uuid.New().String(),
		HawbNo: "HAWB-01",
		ChargeLines: []ChargeLineForm{
			{Description: "Air freight", Qty: "1", Amount: "1000", GstPercent: "18"},
		},
	}, "")

	require.NoError(t, err)
	require.Len(t, house.ChargeLines, 1)
	line := house.ChargeLines[0]
	require.Equal(t, 1000.0, line.AmountInInr)
	require.Equal(t, 90.0, line.CGST)
	require.Equal(t, 90.0, line.SGST)
	require.Equal(t, 0.0, line.IGST)
	require.Equal(t, 1180.0, line.Total)
	require.Equal(t, &house.ID, line.HouseID)
}

func TestUpdateHouseDoesNotReapplyDefaults(t *testing.T) {
	mockRepo := new(MockHouseRepository)
	id := uuid.New()
	jobID := uuid.New()
	existing := &models.House{ID: id, JobID: jobID, HawbNo: "HAWB-01"}
	mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.House")).Return(nil)

	service := newTestHouseService(mockRepo, nil)

	// Blanked-out fields stay blank on edit; nothing re-seeds them.
	house, err := service.Update(context.Background(), id, HouseForm{
		HawbNo: "HAWB-01",
		Branch: "",
	})

	require.NoError(t, err)
	require.Equal(t, jobID, house.JobID)
	require.Nil(t, house.Branch)
	mockRepo.AssertExpectations(t)
}
