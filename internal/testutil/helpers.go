package testutil

import (
	"database/sql"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/estatefolio/investor-dashboard/internal/repository"
	"github.com/estatefolio/investor-dashboard/internal/service"
)

// NewTestAggregationService wires an AggregationService against db.
func NewTestAggregationService(t *testing.T, db *sql.DB) *service.AggregationService {
	t.Helper()

	return service.NewAggregationService(
		db,
		repository.NewInvestorRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewLocationRepository(db),
		repository.NewSummaryRepository(db),
		repository.NewAllocationRepository(db),
		repository.NewGrowthRepository(db),
	)
}

func NewTestInvestorService(t *testing.T, db *sql.DB) *service.InvestorService {
	t.Helper()

	return service.NewInvestorService(repository.NewInvestorRepository(db))
}

func NewTestLocationService(t *testing.T, db *sql.DB) *service.LocationService {
	t.Helper()

	return service.NewLocationService(repository.NewLocationRepository(db))
}

func NewTestPropertyService(t *testing.T, db *sql.DB) *service.PropertyService {
	t.Helper()

	return service.NewPropertyService(
		repository.NewPropertyRepository(db),
		repository.NewInvestorRepository(db),
		repository.NewLocationRepository(db),
		NewTestAggregationService(t, db),
	)
}

func NewTestDashboardService(t *testing.T, db *sql.DB) *service.DashboardService {
	t.Helper()

	return service.NewDashboardService(
		repository.NewInvestorRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewSummaryRepository(db),
		repository.NewAllocationRepository(db),
		repository.NewGrowthRepository(db),
		NewTestAggregationService(t, db),
	)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return service.NewImportService(
		db,
		repository.NewInvestorRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewLocationRepository(db),
		NewTestAggregationService(t, db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeInvestorName generates a unique investor name for testing.
//
// Example usage:
//
//	name := testutil.MakeInvestorName("Alice")
//	// Returns: "Alice ABC123"
func MakeInvestorName(base string) string {
	if base == "" {
		base = "Investor"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeEmail generates a unique email address for testing.
//
// Example usage:
//
//	email := testutil.MakeEmail("alice")
//	// Returns: "alice.abc123@example.com"
func MakeEmail(local string) string {
	if local == "" {
		local = "user"
	}
	return local + "." + strings.ToLower(randomAlphanumeric(6)) + "@example.com"
}

// MakeCityName generates a unique city name for testing.
func MakeCityName(base string) string {
	if base == "" {
		base = "City"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakePropertyName generates a unique property name for testing.
func MakePropertyName(base string) string {
	if base == "" {
		base = "Property"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// CommonCountries contains frequently used property countries
var CommonCountries = []string{"France", "Spain", "Portugal", "Germany", "Italy", "Netherlands"}

// RandomCountry returns a random country from CommonCountries.
func RandomCountry() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return CommonCountries[rand.Intn(len(CommonCountries))]
}
