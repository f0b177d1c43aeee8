package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/logging"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/repository"
)

// PropertyService handles property mutations. Every successful write triggers a
// recompute of the owning investor's summaries.
//
// The property write and the recompute are separate transactions. When the recompute
// fails, the saved property is still returned together with an error wrapping
// ErrAggregationFailed; the next recompute or the scheduled reconcile repairs the summaries.
type PropertyService struct {
	propertyRepo *repository.PropertyRepository
	investorRepo *repository.InvestorRepository
	locationRepo *repository.LocationRepository
	aggregation  *AggregationService
	now          func() time.Time
}

// NewPropertyService creates a new PropertyService with the provided dependencies.
func NewPropertyService(
	propertyRepo *repository.PropertyRepository,
	investorRepo *repository.InvestorRepository,
	locationRepo *repository.LocationRepository,
	aggregation *AggregationService,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		investorRepo: investorRepo,
		locationRepo: locationRepo,
		aggregation:  aggregation,
		now:          time.Now,
	}
}

// GetProperty retrieves a single property.
func (s *PropertyService) GetProperty(ctx context.Context, propertyID string) (model.Property, error) {
	return s.propertyRepo.GetProperty(ctx, propertyID)
}

// GetInvestorProperties lists all properties of an investor, sold ones included,
// with their resolved city and country.
func (s *PropertyService) GetInvestorProperties(ctx context.Context, investorID string) ([]model.PropertyResponse, error) {
	if _, err := s.investorRepo.GetInvestor(ctx, investorID); err != nil {
		return nil, err
	}
	return s.propertyRepo.GetPropertyResponses(ctx, investorID)
}

// CreateProperty stores a new property and recomputes the investor's summaries.
// The request is expected to be validated by the caller.
func (s *PropertyService) CreateProperty(ctx context.Context, req request.CreatePropertyRequest) (*model.Property, error) {
	if _, err := s.investorRepo.GetInvestor(ctx, req.InvestorID); err != nil {
		return nil, err
	}
	if _, err := s.locationRepo.GetLocation(ctx, req.LocationID); err != nil {
		return nil, err
	}

	status := model.PropertyStatus(req.Status)
	if status == "" {
		status = model.PropertyStatusActive
	}
	investmentType := model.InvestmentType(req.InvestmentType)
	if investmentType == "" {
		investmentType = model.InvestmentTypeProperty
	}

	now := s.now().UTC()
	property := &model.Property{
		ID:                  uuid.New().String(),
		InvestorID:          req.InvestorID,
		LocationID:          req.LocationID,
		Name:                strings.TrimSpace(req.Name),
		Price:               req.Price,
		RoiPercentage:       req.RoiPercentage,
		Status:              status,
		OwnershipPercentage: req.OwnershipPercentage,
		InvestmentType:      investmentType,
		CreatedAt:           now,
	}

	if err := s.propertyRepo.InsertProperty(ctx, property); err != nil {
		return nil, err
	}

	return property, s.recompute(ctx, property.InvestorID, now)
}

// UpdateProperty applies the non-nil fields of req and recomputes the investor's summaries.
func (s *PropertyService) UpdateProperty(ctx context.Context, propertyID string, req request.UpdatePropertyRequest) (*model.Property, error) {
	property, err := s.propertyRepo.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if req.LocationID != nil {
		if _, err := s.locationRepo.GetLocation(ctx, *req.LocationID); err != nil {
			return nil, err
		}
		property.LocationID = *req.LocationID
	}
	if req.Name != nil {
		property.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		property.Price = *req.Price
	}
	if req.ClearRoi {
		property.RoiPercentage = nil
	} else if req.RoiPercentage != nil {
		property.RoiPercentage = req.RoiPercentage
	}
	if req.Status != nil {
		property.Status = model.PropertyStatus(*req.Status)
	}
	if req.OwnershipPercentage != nil {
		property.OwnershipPercentage = req.OwnershipPercentage
	}
	if req.InvestmentType != nil {
		property.InvestmentType = model.InvestmentType(*req.InvestmentType)
	}

	if err := s.propertyRepo.UpdateProperty(ctx, &property); err != nil {
		return nil, err
	}

	return &property, s.recompute(ctx, property.InvestorID, s.now())
}

func (s *PropertyService) recompute(ctx context.Context, investorID string, asOf time.Time) error {
	if _, err := s.aggregation.Recompute(ctx, investorID, asOf); err != nil {
		logging.ErrorCtx(ctx, err, zap.String("investor_id", investorID), zap.String("operation", "recompute"))
		return fmt.Errorf("%w: %w", apperrors.ErrAggregationFailed, err)
	}
	return nil
}
