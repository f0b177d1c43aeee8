package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/logging"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/repository"
	"github.com/estatefolio/investor-dashboard/internal/testutil"
)

var asOf = time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC)

// refuseGrowthWrites makes every insert into investment_growth fail, so a
// recompute errors after it already wrote the summaries.
func refuseGrowthWrites(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		CREATE TRIGGER refuse_growth BEFORE INSERT ON investment_growth
		BEGIN
			SELECT RAISE(ABORT, 'growth write refused');
		END;
	`)
	require.NoError(t, err)
}

func TestAggregationService_Recompute(t *testing.T) {
	ctx := context.Background()

	t.Run("writes every summary for a first investment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		rome := testutil.CreateLocation(t, db, "Italy")
		milan := testutil.CreateLocation(t, db, "Italy")
		testutil.NewProperty(investor.ID, rome.ID).WithPrice(100000).WithRoi(5).Build(t, db)
		testutil.NewProperty(investor.ID, milan.ID).WithPrice(50000).WithRoi(7).Build(t, db)

		result, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)

		assert.Equal(t, 2, result.PropertiesCount)
		assert.Equal(t, 150000.0, result.Summary.TotalInvestment)
		assert.Equal(t, 100.0, result.Summary.PercentChange)
		assert.Equal(t, 6.0, result.Roi.AverageRoi)
		assert.Equal(t, model.LevelGold, result.Level)
		require.Len(t, result.Allocation, 1)
		assert.Equal(t, "Italy", result.Allocation[0].Country)
		assert.Equal(t, 100.0, result.Allocation[0].Percentage)

		stored, err := repository.NewInvestorRepository(db).GetInvestor(ctx, investor.ID)
		require.NoError(t, err)
		assert.Equal(t, model.LevelGold, stored.Level)

		growth, err := repository.NewGrowthRepository(db).GetGrowthForYear(ctx, investor.ID, 2025)
		require.NoError(t, err)
		require.Len(t, growth, 4)
		assert.Zero(t, growth[0].Value)
		assert.Equal(t, "Apr", growth[3].Month)
		assert.Equal(t, 150000.0, growth[3].Value)

		testutil.AssertRowCount(t, db, "investment_ledger", 1)
	})

	t.Run("compares against the stored summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "France")
		testutil.NewSummary(investor.ID).WithTotal(100000).WithAverageRoi(4).Build(t, db)
		testutil.NewProperty(investor.ID, location.ID).WithPrice(100000).WithRoi(4).Build(t, db)
		testutil.NewProperty(investor.ID, location.ID).WithPrice(50000).WithRoi(10).Build(t, db)

		result, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)

		assert.Equal(t, 50.0, result.Summary.PercentChange)
		assert.Equal(t, 7.0, result.Roi.AverageRoi)
		assert.Equal(t, 3.0, result.Roi.RoiChange)

		growth, err := repository.NewGrowthRepository(db).GetGrowthForYear(ctx, investor.ID, 2025)
		require.NoError(t, err)
		assert.Equal(t, 100000.0, growth[0].Value, "January backfilled with the previous total")
	})

	t.Run("second identical recompute changes nothing but the change figures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "Spain")
		testutil.NewProperty(investor.ID, location.ID).WithPrice(80000).WithRoi(3).Build(t, db)

		_, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)
		second, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)

		assert.Equal(t, 80000.0, second.Summary.TotalInvestment)
		assert.Zero(t, second.Summary.PercentChange)
		assert.Zero(t, second.Roi.RoiChange)
		testutil.AssertRowCount(t, db, "investment_growth", 4)
		testutil.AssertRowCount(t, db, "portfolio_allocation", 1)
		testutil.AssertRowCount(t, db, "investment_ledger", 1)
	})

	t.Run("sold properties are excluded and their country pruned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		lisbon := testutil.CreateLocation(t, db, "Portugal")
		madrid := testutil.CreateLocation(t, db, "Spain")
		testutil.NewProperty(investor.ID, lisbon.ID).WithPrice(120000).Build(t, db)
		sold := testutil.NewProperty(investor.ID, madrid.ID).WithPrice(80000).Build(t, db)

		first, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)
		require.Len(t, first.Allocation, 2)

		sold.Status = model.PropertyStatusSold
		require.NoError(t, repository.NewPropertyRepository(db).UpdateProperty(ctx, &sold))

		second, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)

		assert.Equal(t, 1, second.PropertiesCount)
		assert.Equal(t, 120000.0, second.Summary.TotalInvestment)
		assert.Equal(t, []string{"Spain"}, second.RemovedCountries)

		allocation, err := repository.NewAllocationRepository(db).GetAllocation(ctx, investor.ID)
		require.NoError(t, err)
		require.Len(t, allocation, 1)
		assert.Equal(t, "Portugal", allocation[0].Country)
		assert.Equal(t, 100.0, allocation[0].Percentage)
	})

	t.Run("pending properties are counted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "Germany")
		testutil.NewProperty(investor.ID, location.ID).WithPrice(10000).WithStatus(model.PropertyStatusPending).Build(t, db)

		result, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)
		assert.Equal(t, model.LevelBronze, result.Level)
	})

	t.Run("investor without properties is written as zero state", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().WithLevel(model.LevelGold).Build(t, db)

		result, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)

		assert.Zero(t, result.Summary.TotalInvestment)
		assert.Zero(t, result.Summary.PercentChange)
		assert.Empty(t, result.Allocation)
		assert.Equal(t, model.LevelStarter, result.Level)
	})

	t.Run("returns not found for unknown investor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		_, err := svc.Recompute(ctx, testutil.MakeID(), asOf)
		assert.ErrorIs(t, err, apperrors.ErrInvestorNotFound)
	})

	t.Run("rolls back every write when one fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "Italy")
		testutil.NewProperty(investor.ID, location.ID).WithPrice(300000).Build(t, db)
		refuseGrowthWrites(t, db)

		_, err := svc.Recompute(ctx, investor.ID, asOf)
		require.Error(t, err)

		testutil.AssertRowCount(t, db, "investment_summary", 0)
		testutil.AssertRowCount(t, db, "roi_summary", 0)
		testutil.AssertRowCount(t, db, "portfolio_allocation", 0)
		testutil.AssertRowCount(t, db, "investment_ledger", 0)

		stored, err := repository.NewInvestorRepository(db).GetInvestor(ctx, investor.ID)
		require.NoError(t, err)
		assert.Equal(t, model.LevelStarter, stored.Level)
	})

	t.Run("concurrent recomputes of one investor agree", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "Netherlands")
		for range 5 {
			testutil.NewProperty(investor.ID, location.ID).WithPrice(20000).Build(t, db)
		}

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.Recompute(ctx, investor.ID, asOf); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("unexpected recompute error: %v", err)
		}

		summary, err := repository.NewSummaryRepository(db).GetInvestmentSummary(ctx, investor.ID)
		require.NoError(t, err)
		assert.Equal(t, 100000.0, summary.TotalInvestment)
		testutil.AssertRowCount(t, db, "investment_ledger", 1)
	})
}

func TestAggregationService_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps change figures when nothing moved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "Italy")
		testutil.NewSummary(investor.ID).WithTotal(100000).WithAverageRoi(5).Build(t, db)
		testutil.NewProperty(investor.ID, location.ID).WithPrice(150000).WithRoi(5).Build(t, db)

		_, err := svc.Recompute(ctx, investor.ID, asOf)
		require.NoError(t, err)

		result, err := svc.Reconcile(ctx, investor.ID, asOf.AddDate(0, 1, 0))
		require.NoError(t, err)

		assert.Equal(t, 50.0, result.Summary.PercentChange)

		growth, err := repository.NewGrowthRepository(db).GetGrowthForYear(ctx, investor.ID, 2025)
		require.NoError(t, err)
		require.Len(t, growth, 5)
		assert.Equal(t, "May", growth[4].Month)
		assert.Equal(t, 150000.0, growth[4].Value)
	})

	t.Run("rewrites summaries that drifted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		investor := testutil.NewInvestor().Build(t, db)
		location := testutil.CreateLocation(t, db, "Spain")
		testutil.NewSummary(investor.ID).WithTotal(10).Build(t, db)
		testutil.NewProperty(investor.ID, location.ID).WithPrice(20).Build(t, db)

		result, err := svc.Reconcile(ctx, investor.ID, asOf)
		require.NoError(t, err)
		assert.Equal(t, 20.0, result.Summary.TotalInvestment)
		assert.Equal(t, 100.0, result.Summary.PercentChange)
	})
}

func TestAggregationService_RecomputeAll(t *testing.T) {
	ctx := context.Background()

	t.Run("reconciles every investor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		location := testutil.CreateLocation(t, db, "France")
		for range 3 {
			investor := testutil.NewInvestor().Build(t, db)
			testutil.NewProperty(investor.ID, location.ID).WithPrice(60000).Build(t, db)
		}

		reconciled, err := svc.RecomputeAll(ctx, asOf)
		require.NoError(t, err)
		assert.Equal(t, 3, reconciled)
		testutil.AssertRowCount(t, db, "investment_summary", 3)
	})

	t.Run("continues past failing investors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAggregationService(t, db)

		location := testutil.CreateLocation(t, db, "France")
		healthy := testutil.NewInvestor().Build(t, db)
		testutil.NewProperty(healthy.ID, location.ID).WithPrice(60000).Build(t, db)

		broken := testutil.NewInvestor().Build(t, db)
		orphan := testutil.CreateLocation(t, db, "Atlantis")
		testutil.NewProperty(broken.ID, orphan.ID).WithPrice(1).Build(t, db)

		_, err := db.Exec(`PRAGMA foreign_keys = OFF`)
		require.NoError(t, err)
		_, err = db.Exec(`DELETE FROM location WHERE id = ?`, orphan.ID)
		require.NoError(t, err)

		reconciled, err := svc.RecomputeAll(ctx, asOf)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrDataInconsistency)
		assert.Equal(t, 1, reconciled)

		_, err = repository.NewSummaryRepository(db).GetInvestmentSummary(ctx, healthy.ID)
		assert.NoError(t, err)
		_, err = repository.NewSummaryRepository(db).GetInvestmentSummary(ctx, broken.ID)
		assert.ErrorIs(t, err, apperrors.ErrSummaryNotFound)
	})
}

func TestAggregationService_UnreadablePreviousSummary(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAggregationService(t, db)

	investor := testutil.NewInvestor().Build(t, db)
	location := testutil.CreateLocation(t, db, "Portugal")
	testutil.NewProperty(investor.ID, location.ID).WithPrice(80000).WithRoi(5).Build(t, db)

	_, err := db.Exec(`
		INSERT INTO investment_summary (investor_id, total_investment, percent_change, updated_at)
		VALUES (?, 40000, 0, 'not-a-time')
	`, investor.ID)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	restore := logging.Replace(zap.New(core))
	defer restore()

	result, err := svc.Recompute(ctx, investor.ID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 80000.0, result.Summary.TotalInvestment)
	assert.Equal(t, 100.0, result.Summary.PercentChange)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, investor.ID, warnings[0].ContextMap()["investor_id"])

	stored, err := repository.NewSummaryRepository(db).GetInvestmentSummary(ctx, investor.ID)
	require.NoError(t, err)
	assert.Equal(t, 80000.0, stored.TotalInvestment)
	assert.True(t, asOf.Equal(stored.UpdatedAt))
}
