package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pestops/backend/internal/domain/billing"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSnapshotRepository struct {
	mock.Mock
}

func (m *mockSnapshotRepository) Load(ctx context.Context) (*billing.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Snapshot), args.Error(1)
}

func testSnapshot(t *testing.T) *billing.Snapshot {
	t.Helper()

	acme, err := partner.NewCustomer("ACME", "Acme Foods")
	require.NoError(t, err)
	beta, err := partner.NewCustomer("BETA", "Beta Mills")
	require.NoError(t, err)

	acmeRule, err := partner.NewCustomerPricingRule(acme.ID)
	require.NoError(t, err)
	require.NoError(t, acmeRule.SetPerVisitPrice(decimal.NewFromInt(50)))

	visit, err := fieldops.NewVisit(acme.ID, nil, time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, visit.Complete("RPT-1"))

	sale, err := fieldops.NewMaterialSale(acme.ID, nil, time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, sale.AddLine("Rodent bait station", decimal.NewFromInt(4), "pcs", decimal.NewFromInt(50), nil))
	require.NoError(t, sale.Approve())

	snap, err := billing.NewSnapshot(
		[]partner.Customer{*acme, *beta},
		nil,
		[]partner.PricingRule{*acmeRule},
		[]fieldops.Visit{*visit},
		[]fieldops.MaterialSale{*sale},
		nil,
	)
	require.NoError(t, err)
	return snap
}

func TestGetYearlyRevenue(t *testing.T) {
	snapshots := new(mockSnapshotRepository)
	snapshots.On("Load", mock.Anything).Return(testSnapshot(t), nil)

	service := NewReportService(snapshots, zap.NewNop())

	resp, err := service.GetYearlyRevenue(context.Background(), YearlyRevenueFilter{Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, "customer", resp.Mode)
	require.Len(t, resp.Rows, 2)

	var acmeRow, betaRow *RevenueRowResponse
	for i := range resp.Rows {
		switch resp.Rows[i].DisplayName {
		case "Acme Foods":
			acmeRow = &resp.Rows[i]
		case "Beta Mills":
			betaRow = &resp.Rows[i]
		}
	}
	require.NotNil(t, acmeRow)
	require.NotNil(t, betaRow)

	march := acmeRow.Months[2]
	assert.Equal(t, 3, march.Month)
	assert.InDelta(t, 50.0, march.PerVisitFee, 0.001)
	assert.InDelta(t, 200.0, march.MaterialSales, 0.001)
	assert.InDelta(t, 250.0, march.Total, 0.001)
	assert.Equal(t, 1, march.VisitCount)
	assert.InDelta(t, 250.0, acmeRow.YearTotal, 0.001)

	assert.InDelta(t, 0.0, betaRow.YearTotal, 0.001)

	assert.InDelta(t, 250.0, resp.MonthTotals[2], 0.001)
	assert.InDelta(t, 250.0, resp.GrandTotal, 0.001)

	require.Len(t, resp.UnpricedEntities, 1, "the customer without any rule is surfaced")
	assert.Equal(t, "Beta Mills", resp.UnpricedEntities[0].DisplayName)
}

func TestGetYearlyRevenue_BranchMode(t *testing.T) {
	snapshots := new(mockSnapshotRepository)
	snapshots.On("Load", mock.Anything).Return(testSnapshot(t), nil)

	service := NewReportService(snapshots, zap.NewNop())

	resp, err := service.GetYearlyRevenue(context.Background(), YearlyRevenueFilter{Year: 2025, Mode: "branch"})
	require.NoError(t, err)

	assert.Equal(t, "branch", resp.Mode)
	assert.Empty(t, resp.Rows, "the snapshot has no branches")
}

func TestGetYearlyRevenue_SaleStatusFilter(t *testing.T) {
	snapshots := new(mockSnapshotRepository)
	snapshots.On("Load", mock.Anything).Return(testSnapshot(t), nil)

	service := NewReportService(snapshots, zap.NewNop())

	resp, err := service.GetYearlyRevenue(context.Background(), YearlyRevenueFilter{
		Year:         2025,
		SaleStatuses: []string{"paid"},
	})
	require.NoError(t, err)

	var acmeRow *RevenueRowResponse
	for i := range resp.Rows {
		if resp.Rows[i].DisplayName == "Acme Foods" {
			acmeRow = &resp.Rows[i]
		}
	}
	require.NotNil(t, acmeRow)
	assert.InDelta(t, 0.0, acmeRow.Months[2].MaterialSales, 0.001, "approved sale excluded by the paid filter")
	assert.InDelta(t, 50.0, acmeRow.Months[2].Total, 0.001, "the completed visit still counts")
}

func TestGetYearlyRevenue_InvalidArguments(t *testing.T) {
	service := NewReportService(new(mockSnapshotRepository), zap.NewNop())

	t.Run("unknown mode", func(t *testing.T) {
		_, err := service.GetYearlyRevenue(context.Background(), YearlyRevenueFilter{Year: 2025, Mode: "region"})
		assert.Error(t, err)
	})

	t.Run("unknown sale status", func(t *testing.T) {
		_, err := service.GetYearlyRevenue(context.Background(), YearlyRevenueFilter{
			Year:         2025,
			SaleStatuses: []string{"pending"},
		})
		assert.Error(t, err)
	})
}

func TestGetYearlyRevenue_SnapshotLoadError(t *testing.T) {
	snapshots := new(mockSnapshotRepository)
	loadErr := errors.New("connection refused")
	snapshots.On("Load", mock.Anything).Return(nil, loadErr)

	service := NewReportService(snapshots, zap.NewNop())

	_, err := service.GetYearlyRevenue(context.Background(), YearlyRevenueFilter{Year: 2025})
	assert.ErrorIs(t, err, loadErr)
}
