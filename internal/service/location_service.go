package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/repository"
)

// LocationService handles location lookups and registration.
type LocationService struct {
	locationRepo *repository.LocationRepository
}

// NewLocationService creates a new LocationService.
func NewLocationService(locationRepo *repository.LocationRepository) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
	}
}

// GetLocations retrieves all known locations.
func (s *LocationService) GetLocations(ctx context.Context) ([]model.Location, error) {
	return s.locationRepo.GetLocations(ctx)
}

// CreateLocation registers a city/country pair.
func (s *LocationService) CreateLocation(ctx context.Context, req request.CreateLocationRequest) (*model.Location, error) {
	location := &model.Location{
		ID:      uuid.New().String(),
		City:    strings.TrimSpace(req.City),
		Country: strings.TrimSpace(req.Country),
	}

	if err := s.locationRepo.InsertLocation(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// findOrCreateLocation returns the location for city and country, creating it when unknown.
// created reports whether a new row was inserted.
func findOrCreateLocation(ctx context.Context, repo *repository.LocationRepository, city, country string) (location model.Location, created bool, err error) {
	city, country = strings.TrimSpace(city), strings.TrimSpace(country)

	location, err = repo.FindLocation(ctx, city, country)
	if err == nil {
		return location, false, nil
	}
	if !errors.Is(err, apperrors.ErrLocationNotFound) {
		return model.Location{}, false, err
	}

	location = model.Location{ID: uuid.New().String(), City: city, Country: country}
	if err := repo.InsertLocation(ctx, &location); err != nil {
		return model.Location{}, false, err
	}
	return location, true, nil
}
