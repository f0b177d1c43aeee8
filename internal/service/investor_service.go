package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/repository"
)

// InvestorService handles investor-related business logic operations.
type InvestorService struct {
	investorRepo *repository.InvestorRepository
}

// NewInvestorService creates a new InvestorService with the provided repository dependencies.
func NewInvestorService(investorRepo *repository.InvestorRepository) *InvestorService {
	return &InvestorService{
		investorRepo: investorRepo,
	}
}

// GetInvestors retrieves all investors.
func (s *InvestorService) GetInvestors(ctx context.Context) ([]model.Investor, error) {
	return s.investorRepo.GetInvestors(ctx)
}

// GetInvestor retrieves a single investor including the persisted level.
func (s *InvestorService) GetInvestor(ctx context.Context, investorID string) (model.Investor, error) {
	return s.investorRepo.GetInvestor(ctx, investorID)
}

// CreateInvestor registers a new investor at the starter level.
// The request is expected to be validated by the caller.
func (s *InvestorService) CreateInvestor(ctx context.Context, req request.CreateInvestorRequest) (*model.Investor, error) {
	investor := &model.Investor{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		IsVerified: req.IsVerified,
		Level:      model.LevelStarter,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.investorRepo.InsertInvestor(ctx, investor); err != nil {
		return nil, err
	}
	return investor, nil
}
