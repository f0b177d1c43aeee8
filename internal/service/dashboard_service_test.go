package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/testutil"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("investor without properties gets a zero dashboard", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)
		investor := testutil.NewInvestor().Build(t, db)

		dashboard, err := svc.GetDashboard(ctx, investor.ID, asOf)
		require.NoError(t, err)

		assert.Zero(t, dashboard.TotalInvestment)
		assert.Zero(t, dashboard.InvestmentChange)
		assert.Zero(t, dashboard.AverageRoi)
		assert.Zero(t, dashboard.RoiChange)
		assert.Zero(t, dashboard.PropertiesCount)
		assert.Empty(t, dashboard.Allocation)
		assert.Equal(t, model.LevelStarter, dashboard.InvestorLevel)

		require.Len(t, dashboard.Growth, 4)
		for _, g := range dashboard.Growth {
			assert.Zero(t, g.Value)
		}
		testutil.AssertRowCount(t, db, "investment_summary", 0)
	})

	t.Run("computes missing summaries on first read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db).WithClock(func() time.Time { return asOf })

		investor := testutil.NewInvestor().Build(t, db)
		italy := testutil.CreateLocation(t, db, "Italy")
		uae := testutil.CreateLocation(t, db, "United Arab Emirates")
		testutil.NewProperty(investor.ID, italy.ID).WithPrice(300000).WithRoi(4).Build(t, db)
		testutil.NewProperty(investor.ID, uae.ID).WithPrice(200000).WithRoi(9).Build(t, db)

		dashboard, err := svc.GetDashboard(ctx, investor.ID, asOf)
		require.NoError(t, err)

		assert.Equal(t, 500000.0, dashboard.TotalInvestment)
		assert.Equal(t, 100.0, dashboard.InvestmentChange)
		assert.Equal(t, 6.5, dashboard.AverageRoi)
		assert.Equal(t, 2, dashboard.PropertiesCount)
		assert.Equal(t, model.LevelEmerald, dashboard.InvestorLevel)
		assert.Equal(t, []model.DashboardAllocation{
			{Country: "Italy", Percentage: 60},
			{Country: "United Arab Emirates", Percentage: 40},
		}, dashboard.Allocation)

		require.Len(t, dashboard.Growth, 4)
		assert.Equal(t, model.DashboardGrowth{Month: "Apr", Value: 500000}, dashboard.Growth[3])
		testutil.AssertRowCount(t, db, "investment_summary", 1)
	})

	t.Run("reads stored summaries without recomputing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		investor := testutil.NewInvestor().WithLevel(model.LevelRuby).Build(t, db)
		location := testutil.CreateLocation(t, db, "France")
		testutil.NewProperty(investor.ID, location.ID).WithPrice(1).Build(t, db)
		testutil.NewSummary(investor.ID).WithTotal(123456.789).WithPercentChange(12.345).WithAverageRoi(3.14159).Build(t, db)
		testutil.CreateAllocation(t, db, investor.ID, model.AllocationEntry{Country: "France", Percentage: 100})
		testutil.CreateGrowthPoint(t, db, investor.ID, 2025, 1, 100000)

		dashboard, err := svc.GetDashboard(ctx, investor.ID, asOf)
		require.NoError(t, err)

		assert.Equal(t, 123456.79, dashboard.TotalInvestment)
		assert.Equal(t, 12.35, dashboard.InvestmentChange)
		assert.Equal(t, 3.14, dashboard.AverageRoi)
		assert.Equal(t, model.LevelRuby, dashboard.InvestorLevel)
		assert.Equal(t, []model.DashboardGrowth{
			{Month: "Jan", Value: 0},
			{Month: "Feb", Value: 100000},
			{Month: "Mar", Value: 100000},
			{Month: "Apr", Value: 100000},
		}, dashboard.Growth)
	})

	t.Run("growth series follows the requested month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)
		investor := testutil.NewInvestor().Build(t, db)

		dashboard, err := svc.GetDashboard(ctx, investor.ID, time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, dashboard.Growth, 12)
		assert.Equal(t, "Dec", dashboard.Growth[11].Month)
	})

	t.Run("first read in a future month writes nothing for that year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db).WithClock(func() time.Time { return asOf })

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "Spain")
		testutil.NewProperty(investor.ID, location.ID).WithPrice(100000).Build(t, db)

		dashboard, err := svc.GetDashboard(ctx, investor.ID, time.Date(2030, time.December, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 100000.0, dashboard.TotalInvestment)
		require.Len(t, dashboard.Growth, 12)

		future, err := svc.GetGrowth(ctx, investor.ID, 2030)
		require.NoError(t, err)
		assert.Empty(t, future)

		current, err := svc.GetGrowth(ctx, investor.ID, 2025)
		require.NoError(t, err)
		require.Len(t, current, 4)
		assert.Equal(t, 100000.0, current[3].Value)

		ledger, err := svc.GetLedger(ctx, investor.ID, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, ledger, 1)
		assert.True(t, asOf.Equal(ledger[0].RecordedAt))
	})

	t.Run("first read in a past month leaves that month at its prior value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db).WithClock(func() time.Time { return asOf })

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "Spain")
		testutil.NewProperty(investor.ID, location.ID).WithPrice(100000).Build(t, db)

		dashboard, err := svc.GetDashboard(ctx, investor.ID, time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, []model.DashboardGrowth{{Month: "Jan", Value: 0}}, dashboard.Growth)

		points, err := svc.GetGrowth(ctx, investor.ID, 2025)
		require.NoError(t, err)
		require.Len(t, points, 4)
		assert.Zero(t, points[0].Value)
		assert.Equal(t, 3, points[3].MonthIndex)
		assert.Equal(t, 100000.0, points[3].Value)
	})

	t.Run("returns not found for unknown investor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		_, err := svc.GetDashboard(ctx, testutil.MakeID(), asOf)
		assert.ErrorIs(t, err, apperrors.ErrInvestorNotFound)
	})
}

func TestDashboardService_Reads(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestDashboardService(t, db)
	aggregation := testutil.NewTestAggregationService(t, db)

	investor := testutil.NewInvestor().Build(t, db)
	location := testutil.CreateLocation(t, db, "Netherlands")
	testutil.NewProperty(investor.ID, location.ID).WithPrice(50000).Build(t, db)

	_, err := aggregation.Recompute(ctx, investor.ID, asOf)
	require.NoError(t, err)
	testutil.NewProperty(investor.ID, location.ID).WithPrice(50000).Build(t, db)
	_, err = aggregation.Recompute(ctx, investor.ID, asOf.AddDate(0, 1, 0))
	require.NoError(t, err)

	t.Run("allocation", func(t *testing.T) {
		allocation, err := svc.GetAllocation(ctx, investor.ID)
		require.NoError(t, err)
		require.Len(t, allocation, 1)
		assert.Equal(t, 100.0, allocation[0].Percentage)
	})

	t.Run("growth", func(t *testing.T) {
		growth, err := svc.GetGrowth(ctx, investor.ID, 2025)
		require.NoError(t, err)
		require.Len(t, growth, 5)
		assert.Equal(t, 50000.0, growth[3].Value)
		assert.Equal(t, 100000.0, growth[4].Value)

		empty, err := svc.GetGrowth(ctx, investor.ID, 2019)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("ledger", func(t *testing.T) {
		ledger, err := svc.GetLedger(ctx, investor.ID, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, ledger, 2)
		assert.Equal(t, 50000.0, ledger[0].TotalInvestment)
		assert.Equal(t, 100000.0, ledger[1].TotalInvestment)

		april, err := svc.GetLedger(ctx, investor.ID, asOf.Add(-time.Hour), asOf.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, april, 1)
	})

	t.Run("unknown investor", func(t *testing.T) {
		_, err := svc.GetAllocation(ctx, testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrInvestorNotFound)
		_, err = svc.GetGrowth(ctx, testutil.MakeID(), 2025)
		assert.ErrorIs(t, err, apperrors.ErrInvestorNotFound)
		_, err = svc.GetLedger(ctx, testutil.MakeID(), time.Time{}, time.Time{})
		assert.ErrorIs(t, err, apperrors.ErrInvestorNotFound)
	})
}
