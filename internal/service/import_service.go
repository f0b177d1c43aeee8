package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/logging"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/repository"
	"github.com/estatefolio/investor-dashboard/internal/validation"
)

// PropertyCSVHeaders is the exact header row expected by ImportProperties.
var PropertyCSVHeaders = []string{
	"investor_id", "name", "city", "country", "price",
	"roi_percentage", "status", "ownership_percentage", "investment_type",
}

// ImportResult reports the outcome of a property import.
type ImportResult struct {
	Imported         int               `json:"imported"`
	Investors        []string          `json:"investors"`
	CreatedLocations int               `json:"createdLocations"`
	RecomputeErrors  map[string]string `json:"recomputeErrors,omitempty"`
}

// ImportService bulk-loads properties from CSV.
type ImportService struct {
	db           *sql.DB
	investorRepo *repository.InvestorRepository
	propertyRepo *repository.PropertyRepository
	locationRepo *repository.LocationRepository
	aggregation  *AggregationService
	now          func() time.Time
}

// NewImportService creates a new ImportService with the provided dependencies.
func NewImportService(
	db *sql.DB,
	investorRepo *repository.InvestorRepository,
	propertyRepo *repository.PropertyRepository,
	locationRepo *repository.LocationRepository,
	aggregation *AggregationService,
) *ImportService {
	return &ImportService{
		db:           db,
		investorRepo: investorRepo,
		propertyRepo: propertyRepo,
		locationRepo: locationRepo,
		aggregation:  aggregation,
		now:          time.Now,
	}
}

// ImportProperties reads properties from CSV content and stores them in one transaction.
// Any invalid row aborts the whole import. Locations are created on first use.
//
// After the commit every affected investor is recomputed. Recompute failures do not
// undo the import; they are reported per investor in the result and wrapped in
// ErrAggregationFailed.
func (s *ImportService) ImportProperties(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", apperrors.ErrInvalidCSVHeaders)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportProperties, err)
	}
	if err := validateHeaders(headers); err != nil {
		return nil, err
	}

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

	now := s.now().UTC()
	result := &ImportResult{Investors: []string{}}
	knownInvestors := make(map[string]bool)

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", apperrors.ErrFailedToImportProperties, line, err)
		}

		req, city, country, err := parsePropertyRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if !knownInvestors[req.InvestorID] {
			if err := validation.ValidateUUID(req.InvestorID); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if _, err := investorRepo.GetInvestor(ctx, req.InvestorID); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			knownInvestors[req.InvestorID] = true
			result.Investors = append(result.Investors, req.InvestorID)
		}

		location, created, err := findOrCreateLocation(ctx, locationRepo, city, country)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if created {
			result.CreatedLocations++
		}
		req.LocationID = location.ID

		if err := validation.ValidateCreateProperty(req); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		property := &model.Property{
			ID:                  uuid.New().String(),
			InvestorID:          req.InvestorID,
			LocationID:          req.LocationID,
			Name:                strings.TrimSpace(req.Name),
			Price:               req.Price,
			RoiPercentage:       req.RoiPercentage,
			Status:              model.PropertyStatus(req.Status),
			OwnershipPercentage: req.OwnershipPercentage,
			InvestmentType:      model.InvestmentType(req.InvestmentType),
			CreatedAt:           now,
		}
		if property.Status == "" {
			property.Status = model.PropertyStatusActive
		}
		if property.InvestmentType == "" {
			property.InvestmentType = model.InvestmentTypeProperty
		}

		if err := propertyRepo.InsertProperty(ctx, property); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		result.Imported++
	}

	if result.Imported == 0 {
		return nil, fmt.Errorf("%w: no rows", apperrors.ErrFailedToImportProperties)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	logging.InfoCtx(ctx, "properties imported",
		zap.Int("imported", result.Imported),
		zap.Int("investors", len(result.Investors)),
	)

	var errs []error
	for _, investorID := range result.Investors {
		if _, err := s.aggregation.Recompute(ctx, investorID, now); err != nil {
			logging.ErrorCtx(ctx, err, zap.String("investor_id", investorID), zap.String("operation", "import recompute"))
			if result.RecomputeErrors == nil {
				result.RecomputeErrors = make(map[string]string)
			}
			result.RecomputeErrors[investorID] = err.Error()
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return result, fmt.Errorf("%w: %w", apperrors.ErrAggregationFailed, errors.Join(errs...))
	}

	return result, nil
}

func validateHeaders(headers []string) error {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	if !slices.Equal(normalized, PropertyCSVHeaders) {
		return fmt.Errorf("%w: expected %s", apperrors.ErrInvalidCSVHeaders, strings.Join(PropertyCSVHeaders, ","))
	}
	return nil
}

// parsePropertyRecord maps one CSV record onto a create request.
// Empty optional columns stay unset.
func parsePropertyRecord(record []string) (req request.CreatePropertyRequest, city, country string, err error) {
	field := func(i int) string { return strings.TrimSpace(record[i]) }

	req = request.CreatePropertyRequest{
		InvestorID:     field(0),
		Name:           field(1),
		Status:         strings.ToLower(field(6)),
		InvestmentType: strings.ToLower(field(8)),
	}
	city, country = field(2), field(3)
	if city == "" || country == "" {
		return req, "", "", fmt.Errorf("%w: city and country", apperrors.ErrMissingRequiredField)
	}

	price, err := parseAmount(field(4))
	if err != nil {
		return req, "", "", fmt.Errorf("invalid price: %w", err)
	}
	if price == nil {
		return req, "", "", fmt.Errorf("%w: price", apperrors.ErrMissingRequiredField)
	}
	req.Price = *price

	if req.RoiPercentage, err = parseAmount(field(5)); err != nil {
		return req, "", "", fmt.Errorf("invalid roi_percentage: %w", err)
	}
	if req.OwnershipPercentage, err = parseAmount(field(7)); err != nil {
		return req, "", "", fmt.Errorf("invalid ownership_percentage: %w", err)
	}

	return req, city, country, nil
}

// parseAmount parses a decimal column. Thousands separators are accepted; an empty value yields nil.
func parseAmount(value string) (*float64, error) {
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	f := d.InexactFloat64()
	return &f, nil
}
