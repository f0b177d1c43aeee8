package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/logging"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/repository"
)

// reconcileConcurrency bounds how many investors RecomputeAll processes at once.
const reconcileConcurrency = 4

// AggregationService derives every per-investor summary from the investor's properties:
// investment total, average ROI, country allocation, monthly growth and level.
//
// A recompute runs under a per-investor lock and inside a single SQL transaction, so the
// derived tables of one investor are always written together or not at all.
type AggregationService struct {
	db             *sql.DB
	investorRepo   *repository.InvestorRepository
	propertyRepo   *repository.PropertyRepository
	locationRepo   *repository.LocationRepository
	summaryRepo    *repository.SummaryRepository
	allocationRepo *repository.AllocationRepository
	growthRepo     *repository.GrowthRepository
	locks          *investorLocks
}

// NewAggregationService creates a new AggregationService with the provided repository dependencies.
func NewAggregationService(
	db *sql.DB,
	investorRepo *repository.InvestorRepository,
	propertyRepo *repository.PropertyRepository,
	locationRepo *repository.LocationRepository,
	summaryRepo *repository.SummaryRepository,
	allocationRepo *repository.AllocationRepository,
	growthRepo *repository.GrowthRepository,
) *AggregationService {
	return &AggregationService{
		db:             db,
		investorRepo:   investorRepo,
		propertyRepo:   propertyRepo,
		locationRepo:   locationRepo,
		summaryRepo:    summaryRepo,
		allocationRepo: allocationRepo,
		growthRepo:     growthRepo,
		locks:          newInvestorLocks(),
	}
}

// Recompute re-derives and persists all summaries of an investor after a property change.
// The investment and ROI summaries are always rewritten, so their change fields compare
// against the values they replace.
//
// asOf selects the growth slot: the current month of asOf's year is overwritten with the
// new total, earlier empty months of that year are backfilled.
func (s *AggregationService) Recompute(ctx context.Context, investorID string, asOf time.Time) (*model.RecomputeResult, error) {
	return s.recompute(ctx, investorID, asOf, true)
}

// Reconcile is Recompute for scheduled runs. Investment and ROI summaries are only
// rewritten when their value moved, so an unchanged portfolio keeps its last change figures.
// Allocation, growth and level are always brought up to date.
func (s *AggregationService) Reconcile(ctx context.Context, investorID string, asOf time.Time) (*model.RecomputeResult, error) {
	return s.recompute(ctx, investorID, asOf, false)
}

// RecomputeAll reconciles every investor with bounded concurrency.
// Failures are logged per investor and returned joined; one failure does not stop the others.
func (s *AggregationService) RecomputeAll(ctx context.Context, asOf time.Time) (int, error) {
	ids, err := s.investorRepo.GetInvestorIDs(ctx)
	if err != nil {
		return 0, err
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	g := new(errgroup.Group)
	g.SetLimit(reconcileConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := s.Reconcile(ctx, id, asOf); err != nil {
				logging.ErrorCtx(ctx, err, zap.String("investor_id", id), zap.String("operation", "reconcile"))
				mu.Lock()
				errs = append(errs, fmt.Errorf("investor %s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return len(ids) - len(errs), errors.Join(errs...)
}

func (s *AggregationService) recompute(ctx context.Context, investorID string, asOf time.Time, force bool) (*model.RecomputeResult, error) {
	unlock := s.locks.lock(investorID)
	defer unlock()

	asOf = asOf.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	investorRepo := s.investorRepo.WithTx(tx)
	propertyRepo := s.propertyRepo.WithTx(tx)
	locationRepo := s.locationRepo.WithTx(tx)
	summaryRepo := s.summaryRepo.WithTx(tx)
	allocationRepo := s.allocationRepo.WithTx(tx)
	growthRepo := s.growthRepo.WithTx(tx)

	if _, err := investorRepo.GetInvestor(ctx, investorID); err != nil {
		return nil, err
	}

	properties, err := propertyRepo.GetPropertiesByInvestor(ctx, investorID, true)
	if err != nil {
		return nil, err
	}

	countries, err := locationRepo.ResolveCountries(ctx, locationIDs(properties))
	if err != nil {
		return nil, err
	}

	prevSummary, hasSummary := s.previousInvestment(ctx, summaryRepo, investorID)
	prevRoi, hasRoi := s.previousRoi(ctx, summaryRepo, investorID)

	investment := AggregateInvestment(properties, prevSummary.TotalInvestment)
	roi := AggregateRoi(properties, prevRoi.AverageRoi)

	allocation, err := AggregateAllocation(properties, countries)
	if err != nil {
		return nil, err
	}

	level, err := ClassifyLevel(investment.Total)
	if err != nil {
		return nil, err
	}

	year, month := asOf.Year(), int(asOf.Month())-1
	existingGrowth, err := growthRepo.GetGrowthForYear(ctx, investorID, year)
	if err != nil {
		return nil, err
	}
	growth, err := PlanGrowth(existingGrowth, year, month, investment.Previous, investment.Total)
	if err != nil {
		return nil, err
	}

	summary := model.InvestmentSummary{
		InvestorID:      investorID,
		TotalInvestment: investment.Total,
		PercentChange:   investment.PercentChange,
		UpdatedAt:       asOf,
	}
	if force || !hasSummary || investment.Total != investment.Previous {
		if err := summaryRepo.UpsertInvestmentSummary(ctx, summary); err != nil {
			return nil, err
		}
	} else {
		summary = prevSummary
	}

	roiSummary := model.RoiSummary{
		InvestorID: investorID,
		AverageRoi: roi.Average,
		RoiChange:  roi.Change,
		UpdatedAt:  asOf,
	}
	if force || !hasRoi || roi.Average != roi.Previous {
		if err := summaryRepo.UpsertRoiSummary(ctx, roiSummary); err != nil {
			return nil, err
		}
	} else {
		roiSummary = prevRoi
	}

	stored, err := allocationRepo.GetAllocation(ctx, investorID)
	if err != nil {
		return nil, err
	}
	stale := StaleCountries(stored, allocation)
	if err := allocationRepo.DeleteAllocation(ctx, investorID, stale); err != nil {
		return nil, err
	}
	if err := allocationRepo.UpsertAllocation(ctx, investorID, allocation, asOf); err != nil {
		return nil, err
	}

	if err := growthRepo.UpsertGrowthPoints(ctx, investorID, growth, asOf); err != nil {
		return nil, err
	}

	if err := investorRepo.UpdateInvestorLevel(ctx, investorID, level); err != nil {
		return nil, err
	}

	if !hasSummary || !hasRoi || investment.Total != investment.Previous || roi.Average != roi.Previous {
		err := summaryRepo.InsertLedgerEntry(ctx, model.LedgerEntry{
			ID:              uuid.New().String(),
			InvestorID:      investorID,
			TotalInvestment: investment.Total,
			AverageRoi:      roi.Average,
			RecordedAt:      asOf,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit aggregation: %w", err)
	}

	for i := range allocation {
		allocation[i].InvestorID = investorID
		allocation[i].UpdatedAt = asOf
	}
	for i := range growth {
		growth[i].InvestorID = investorID
		growth[i].UpdatedAt = asOf
	}

	logging.FromContext(ctx).Debug("portfolio aggregated",
		zap.String("investor_id", investorID),
		zap.Int("properties", len(properties)),
		zap.Float64("total", investment.Total),
		zap.String("level", string(level)),
	)

	return &model.RecomputeResult{
		InvestorID:       investorID,
		PropertiesCount:  len(properties),
		Summary:          summary,
		Roi:              roiSummary,
		Allocation:       allocation,
		Growth:           growth,
		Level:            level,
		RemovedCountries: stale,
	}, nil
}

// previousInvestment reads the stored summary. A failed read is treated as "no
// previous value" so that new investments are still captured; the change figure
// is then computed against zero, which is logged.
func (s *AggregationService) previousInvestment(ctx context.Context, repo *repository.SummaryRepository, investorID string) (model.InvestmentSummary, bool) {
	summary, err := repo.GetInvestmentSummary(ctx, investorID)
	if errors.Is(err, apperrors.ErrSummaryNotFound) {
		return model.InvestmentSummary{}, false
	}
	if err != nil {
		logging.WarnCtx(ctx, "previous investment total unavailable, treating as zero",
			zap.String("investor_id", investorID), zap.Error(err))
		return model.InvestmentSummary{}, false
	}
	return summary, true
}

// previousRoi mirrors previousInvestment for the ROI summary.
func (s *AggregationService) previousRoi(ctx context.Context, repo *repository.SummaryRepository, investorID string) (model.RoiSummary, bool) {
	summary, err := repo.GetRoiSummary(ctx, investorID)
	if errors.Is(err, apperrors.ErrSummaryNotFound) {
		return model.RoiSummary{}, false
	}
	if err != nil {
		logging.WarnCtx(ctx, "previous average ROI unavailable, treating as zero",
			zap.String("investor_id", investorID), zap.Error(err))
		return model.RoiSummary{}, false
	}
	return summary, true
}

func locationIDs(properties []model.Property) []string {
	seen := make(map[string]bool, len(properties))
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		if !seen[p.LocationID] {
			seen[p.LocationID] = true
			ids = append(ids, p.LocationID)
		}
	}
	return ids
}

// investorLocks hands out one mutex per investor and forgets it once unused.
type investorLocks struct {
	mu    sync.Mutex
	locks map[string]*investorLock
}

type investorLock struct {
	mu   sync.Mutex
	refs int
}

func newInvestorLocks() *investorLocks {
	return &investorLocks{locks: make(map[string]*investorLock)}
}

// lock blocks until the investor's lock is held and returns its release function.
func (l *investorLocks) lock(investorID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[investorID]
	if !ok {
		entry = &investorLock{}
		l.locks[investorID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, investorID)
		}
		l.mu.Unlock()
	}
}
