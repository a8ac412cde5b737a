package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

func staffShipmentRepo() *fakeShipmentRepo {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return newFakeShipmentRepo(
		entities.Shipment{TrackingNumber: "CE1", Status: entities.ShipmentStatusReceived, CreatedAt: base},
		entities.Shipment{TrackingNumber: "CE2", Status: entities.ShipmentStatusReceived, CreatedAt: base.Add(time.Hour)},
		entities.Shipment{TrackingNumber: "CE3", Status: entities.ShipmentStatusShipped, CreatedAt: base.Add(2 * time.Hour)},
		entities.Shipment{TrackingNumber: "CE4", Status: entities.ShipmentStatusDelivered, CreatedAt: base.Add(3 * time.Hour)},
		entities.Shipment{TrackingNumber: "CE5", Status: entities.ShipmentStatusPending, CreatedAt: base.Add(4 * time.Hour)},
	)
}

func TestStaffShipmentService_ListDefaults(t *testing.T) {
	repo := staffShipmentRepo()
	svc := NewStaffShipmentService(repo, zap.NewNop())

	res, err := svc.List(context.Background(), dto.StaffShipmentsDTO{SearchTerm: "  CE  "})
	require.NoError(t, err)

	assert.Equal(t, uint64(50), repo.lastFilter.Limit)
	assert.Equal(t, uint64(0), repo.lastFilter.Offset)
	assert.Equal(t, "  CE  ", repo.lastFilter.Search)
	require.Len(t, res.Shipments, 5)
	assert.Equal(t, "CE5", res.Shipments[0].TrackingNumber)
	assert.Equal(t, dto.PaginationDTO{Limit: 50, Offset: 0, Total: 5}, res.Pagination)
	assert.Equal(t, dto.ShipmentStatsDTO{Total: 4, Pending: 1, Received: 2, Shipped: 1}, res.Stats)
}

func TestStaffShipmentService_ListFiltersAndPages(t *testing.T) {
	repo := staffShipmentRepo()
	svc := NewStaffShipmentService(repo, zap.NewNop())

	res, err := svc.List(context.Background(), dto.StaffShipmentsDTO{
		StatusFilter: entities.ShipmentStatusReceived,
		Limit:        utils.Ptr(1),
		Offset:       utils.Ptr(1),
	})
	require.NoError(t, err)

	require.Len(t, res.Shipments, 1)
	assert.Equal(t, "CE1", res.Shipments[0].TrackingNumber)
	assert.Equal(t, dto.PaginationDTO{Limit: 1, Offset: 1, Total: 1}, res.Pagination)
}

func TestStaffShipmentService_StatsFailureKeepsList(t *testing.T) {
	repo := staffShipmentRepo()
	repo.countErr = errors.New("statement timeout")
	svc := NewStaffShipmentService(repo, zap.NewNop())

	res, err := svc.List(context.Background(), dto.StaffShipmentsDTO{StatusFilter: "all"})
	require.NoError(t, err)

	assert.Len(t, res.Shipments, 5)
	assert.Zero(t, res.Stats)
}

func TestStaffShipmentService_RejectsBadPage(t *testing.T) {
	svc := NewStaffShipmentService(staffShipmentRepo(), zap.NewNop())

	_, err := svc.List(context.Background(), dto.StaffShipmentsDTO{Offset: utils.Ptr(-1)})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
