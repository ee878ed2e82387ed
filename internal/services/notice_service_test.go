package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/freightdesk/services/forwarding/internal/models"
	"example.com/freightdesk/services/forwarding/internal/transfer"
)

func TestCreateNoticeEtaFallsBackToFlightDate(t *testing.T) {
	mockRepo := new(MockNoticeRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.ArrivalNotice")).Return(nil)

	slots := transfer.NewStore(nil)
	service := newTestNoticeService(mockRepo, slots)

	jobID := uuid.New()
	flightDate := "2024-03-05"
	consignee := "Indo Traders"
	seedTransferSlot(t, slots, "job-to-notice", &models.Job{
		ID:            jobID,
		JobNo:         "AIR-1001",
		FlightDate:    &flightDate,
		ConsigneeName: &consignee,
	})

	notice, err := service.Create(context.Background(), ArrivalNoticeForm{
		NoticeNo: "AN-001",
	}, "job-to-notice")

	require.NoError(t, err)
	require.Equal(t, jobID, notice.JobID)
	require.NotNil(t, notice.ETA)
	require.Equal(t, "2024-03-05", *notice.ETA)
	require.NotNil(t, notice.FreeDays)
	require.Equal(t, 3.0, *notice.FreeDays)

	// Notify party cascaded from the consignee.
	require.NotNil(t, notice.NotifyName)
	require.Equal(t, "Indo Traders", *notice.NotifyName)

	mockRepo.AssertExpectations(t)
}

func TestCreateNoticeParentEtaWinsOverFlightDate(t *testing.T) {
	mockRepo := new(MockNoticeRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.ArrivalNotice")).Return(nil)

	slots := transfer.NewStore(nil)
	service := newTestNoticeService(mockRepo, slots)

	eta := "2024-03-07"
	flightDate := "2024-03-05"
	seedTransferSlot(t, slots, "job-to-notice", &models.Job{
		ID:         uuid.New(),
		JobNo:      "AIR-1001",
		ETA:        &eta,
		FlightDate: &flightDate,
	})

	notice, err := service.Create(context.Background(), ArrivalNoticeForm{
		NoticeNo: "AN-001",
	}, "job-to-notice")

	require.NoError(t, err)
	require.Equal(t, "2024-03-07", *notice.ETA)
}

func TestCreateNoticeTransferMissing(t *testing.T) {
	mockRepo := new(MockNoticeRepository)
	service := newTestNoticeService(mockRepo, nil)

	_, err := service.Create(context.Background(), ArrivalNoticeForm{
		NoticeNo: "AN-001",
	}, "stale-slot")

	require.ErrorIs(t, err, ErrTransferMissing)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateNoticeRequiresNoticeNo(t *testing.T) {
	mockRepo := new(MockNoticeRepository)
	service := newTestNoticeService(mockRepo, nil)

	_, err := service.Create(context.Background(), ArrivalNoticeForm{
		JobID: uuid.New().String(),
	}, "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "notice_no")
}
