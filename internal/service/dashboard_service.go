package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/repository"
)

// DashboardService assembles the read side of an investor's portfolio.
type DashboardService struct {
	investorRepo   *repository.InvestorRepository
	propertyRepo   *repository.PropertyRepository
	summaryRepo    *repository.SummaryRepository
	allocationRepo *repository.AllocationRepository
	growthRepo     *repository.GrowthRepository
	aggregation    *AggregationService
	now            func() time.Time
}

// NewDashboardService creates a new DashboardService with the provided dependencies.
func NewDashboardService(
	investorRepo *repository.InvestorRepository,
	propertyRepo *repository.PropertyRepository,
	summaryRepo *repository.SummaryRepository,
	allocationRepo *repository.AllocationRepository,
	growthRepo *repository.GrowthRepository,
	aggregation *AggregationService,
) *DashboardService {
	return &DashboardService{
		investorRepo:   investorRepo,
		propertyRepo:   propertyRepo,
		summaryRepo:    summaryRepo,
		allocationRepo: allocationRepo,
		growthRepo:     growthRepo,
		aggregation:    aggregation,
		now:            time.Now,
	}
}

// WithClock replaces the clock used to date summaries computed on first read.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// dashboardReads holds the independent reads of one dashboard request.
type dashboardReads struct {
	investor    model.Investor
	summary     model.InvestmentSummary
	hasSummary  bool
	roi         model.RoiSummary
	allocation  []model.AllocationEntry
	growth      []model.GrowthPoint
	propertyCnt int
}

// GetDashboard returns the dashboard view-model of an investor as of the given time.
//
// Derived rows that were never written read as zero, so an investor without
// properties gets an all-zero dashboard at the starter level. When properties exist
// but no summary has been computed yet, the summaries are computed first, dated by the
// service clock. asOf only selects the displayed growth series and never what is written.
// Amounts and percentages are rounded to two decimals.
func (s *DashboardService) GetDashboard(ctx context.Context, investorID string, asOf time.Time) (*model.Dashboard, error) {
	asOf = asOf.UTC()

	reads, err := s.read(ctx, investorID, asOf.Year())
	if err != nil {
		return nil, err
	}

	if !reads.hasSummary && reads.propertyCnt > 0 {
		if _, err := s.aggregation.Recompute(ctx, investorID, s.now()); err != nil {
			return nil, err
		}
		if reads, err = s.read(ctx, investorID, asOf.Year()); err != nil {
			return nil, err
		}
	}

	level := reads.investor.Level
	if level == "" {
		level = model.LevelStarter
	}

	allocation := make([]model.DashboardAllocation, len(reads.allocation))
	for i, a := range reads.allocation {
		allocation[i] = model.DashboardAllocation{
			Country:    a.Country,
			Percentage: round(a.Percentage),
		}
	}

	return &model.Dashboard{
		InvestorID:       investorID,
		TotalInvestment:  round(reads.summary.TotalInvestment),
		InvestmentChange: round(reads.summary.PercentChange),
		AverageRoi:       round(reads.roi.AverageRoi),
		RoiChange:        round(reads.roi.RoiChange),
		PropertiesCount:  reads.propertyCnt,
		Allocation:       allocation,
		Growth:           BuildGrowthSeries(reads.growth, asOf.Year(), int(asOf.Month())-1),
		InvestorLevel:    level,
	}, nil
}

func (s *DashboardService) read(ctx context.Context, investorID string, year int) (*dashboardReads, error) {
	reads := &dashboardReads{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		investor, err := s.investorRepo.GetInvestor(gctx, investorID)
		reads.investor = investor
		return err
	})

	g.Go(func() error {
		summary, err := s.summaryRepo.GetInvestmentSummary(gctx, investorID)
		if errors.Is(err, apperrors.ErrSummaryNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		reads.summary = summary
		reads.hasSummary = true
		return nil
	})

	g.Go(func() error {
		roi, err := s.summaryRepo.GetRoiSummary(gctx, investorID)
		if errors.Is(err, apperrors.ErrSummaryNotFound) {
			return nil
		}
		reads.roi = roi
		return err
	})

	g.Go(func() error {
		allocation, err := s.allocationRepo.GetAllocation(gctx, investorID)
		reads.allocation = allocation
		return err
	})

	g.Go(func() error {
		growth, err := s.growthRepo.GetGrowthForYear(gctx, investorID, year)
		reads.growth = growth
		return err
	})

	g.Go(func() error {
		count, err := s.propertyRepo.CountProperties(gctx, investorID)
		reads.propertyCnt = count
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reads, nil
}

// GetAllocation returns the stored country allocation of an investor.
func (s *DashboardService) GetAllocation(ctx context.Context, investorID string) ([]model.AllocationEntry, error) {
	if _, err := s.investorRepo.GetInvestor(ctx, investorID); err != nil {
		return nil, err
	}
	return s.allocationRepo.GetAllocation(ctx, investorID)
}

// GetGrowth returns the stored growth points of an investor for a year.
func (s *DashboardService) GetGrowth(ctx context.Context, investorID string, year int) ([]model.GrowthPoint, error) {
	if _, err := s.investorRepo.GetInvestor(ctx, investorID); err != nil {
		return nil, err
	}
	return s.growthRepo.GetGrowthForYear(ctx, investorID, year)
}

// GetLedger returns the summary ledger of an investor within [from, to].
// Zero bounds are open.
func (s *DashboardService) GetLedger(ctx context.Context, investorID string, from, to time.Time) ([]model.LedgerEntry, error) {
	if _, err := s.investorRepo.GetInvestor(ctx, investorID); err != nil {
		return nil, err
	}
	return s.summaryRepo.GetLedger(ctx, investorID, from, to)
}
