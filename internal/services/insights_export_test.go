package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
)

func TestInsightsExportService_BuildWorkbook(t *testing.T) {
	f := newWorkflowFixture()
	f.insights.daily = []entities.DailyRevenue{{Date: "2026-03-02", TotalWorkflows: 4, DailyRevenue: 220.5}}
	f.insights.staff = []entities.StaffPerformance{{StaffEmail: "ops@chrisdan.com", TotalAssignments: 4}}
	f.insights.customers = []entities.CustomerInsight{{CustomerName: "Jane Brown", CustomerEmail: null.StringFrom("jane@example.com"), RepeatCustomer: true}}
	svc := NewInsightsExportService(f.svc, zap.NewNop())

	wb, err := svc.BuildWorkbook(context.Background())
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Summary", "Daily revenue", "Staff performance", "Customer insights"}, wb.GetSheetList())

	label, err := wb.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Total workflows", label)
	total, err := wb.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "4", total)

	date, err := wb.GetCellValue("Daily revenue", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", date)
	email, err := wb.GetCellValue("Customer insights", "B2")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)
}

func TestInsightsExportService_PropagatesInsightsError(t *testing.T) {
	f := newWorkflowFixture()
	f.insights.err = errors.New("view missing")
	svc := NewInsightsExportService(f.svc, zap.NewNop())

	_, err := svc.BuildWorkbook(context.Background())
	assert.Error(t, err)
}
