package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/repository"
)

// InvestorBuilder provides a fluent interface for creating test investors.
//
// Example usage:
//
//	// Simple creation with defaults
//	investor := testutil.NewInvestor().Build(t, db)
//
//	// Customized investor
//	investor := testutil.NewInvestor().
//	    WithName("Alice").
//	    WithLevel(model.LevelGold).
//	    Verified().
//	    Build(t, db)
type InvestorBuilder struct {
	ID         string
	Name       string
	Email      string
	IsVerified bool
	Level      model.InvestorLevel
	CreatedAt  time.Time
}

// NewInvestor creates an InvestorBuilder with sensible defaults.
func NewInvestor() *InvestorBuilder {
	return &InvestorBuilder{
		ID:        MakeID(),
		Name:      MakeInvestorName("Test Investor"),
		Email:     MakeEmail("investor"),
		Level:     model.LevelStarter,
		CreatedAt: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *InvestorBuilder) WithID(id string) *InvestorBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *InvestorBuilder) WithName(name string) *InvestorBuilder {
	b.Name = name
	return b
}

// WithEmail sets a custom email.
func (b *InvestorBuilder) WithEmail(email string) *InvestorBuilder {
	b.Email = email
	return b
}

// WithLevel sets the persisted level.
func (b *InvestorBuilder) WithLevel(level model.InvestorLevel) *InvestorBuilder {
	b.Level = level
	return b
}

// Verified marks the investor as verified.
func (b *InvestorBuilder) Verified() *InvestorBuilder {
	b.IsVerified = true
	return b
}

// Build creates the investor in the database and returns it.
func (b *InvestorBuilder) Build(t *testing.T, db *sql.DB) model.Investor {
	t.Helper()

	query := `
		INSERT INTO investor (id, name, email, is_verified, level, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Email, b.IsVerified, string(b.Level), repository.FormatTime(b.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test investor: %v", err)
	}

	return model.Investor{
		ID:         b.ID,
		Name:       b.Name,
		Email:      b.Email,
		IsVerified: b.IsVerified,
		Level:      b.Level,
		CreatedAt:  b.CreatedAt,
	}
}

// Convenience functions

// CreateInvestor creates an investor with the given name and default values.
//
// Example usage:
//
//	investor := testutil.CreateInvestor(t, db, "Alice")
func CreateInvestor(t *testing.T, db *sql.DB, name string) model.Investor {
	t.Helper()
	return NewInvestor().WithName(name).Build(t, db)
}

// LocationBuilder provides a fluent interface for creating test locations.
//
// Example usage:
//
//	location := testutil.NewLocation().InCountry("France").Build(t, db)
type LocationBuilder struct {
	ID      string
	City    string
	Country string
}

// NewLocation creates a LocationBuilder with a unique city in a random country.
func NewLocation() *LocationBuilder {
	return &LocationBuilder{
		ID:      MakeID(),
		City:    MakeCityName("City"),
		Country: RandomCountry(),
	}
}

// WithCity sets a custom city.
func (b *LocationBuilder) WithCity(city string) *LocationBuilder {
	b.City = city
	return b
}

// InCountry sets the country.
func (b *LocationBuilder) InCountry(country string) *LocationBuilder {
	b.Country = country
	return b
}

// Build creates the location in the database and returns it.
func (b *LocationBuilder) Build(t *testing.T, db *sql.DB) model.Location {
	t.Helper()

	_, err := db.Exec(`INSERT INTO location (id, city, country) VALUES (?, ?, ?)`, b.ID, b.City, b.Country)
	if err != nil {
		t.Fatalf("Failed to create test location: %v", err)
	}

	return model.Location{ID: b.ID, City: b.City, Country: b.Country}
}

// CreateLocation creates a location with a unique city in the given country.
//
// Example usage:
//
//	location := testutil.CreateLocation(t, db, "Spain")
func CreateLocation(t *testing.T, db *sql.DB, country string) model.Location {
	t.Helper()
	return NewLocation().InCountry(country).Build(t, db)
}

// PropertyBuilder provides a fluent interface for creating test properties.
// Building a property does not recompute the investor's summaries.
//
// Example usage:
//
//	property := testutil.NewProperty(investor.ID, location.ID).
//	    WithPrice(250000).
//	    WithRoi(6.5).
//	    Build(t, db)
type PropertyBuilder struct {
	ID                  string
	InvestorID          string
	LocationID          string
	Name                string
	Price               float64
	RoiPercentage       *float64
	Status              model.PropertyStatus
	OwnershipPercentage *float64
	InvestmentType      model.InvestmentType
	CreatedAt           time.Time
}

// NewProperty creates a PropertyBuilder with sensible defaults.
func NewProperty(investorID, locationID string) *PropertyBuilder {
	return &PropertyBuilder{
		ID:             MakeID(),
		InvestorID:     investorID,
		LocationID:     locationID,
		Name:           MakePropertyName("Property"),
		Price:          100000,
		Status:         model.PropertyStatusActive,
		InvestmentType: model.InvestmentTypeProperty,
		CreatedAt:      time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *PropertyBuilder) WithID(id string) *PropertyBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PropertyBuilder) WithName(name string) *PropertyBuilder {
	b.Name = name
	return b
}

// WithPrice sets the invested capital.
func (b *PropertyBuilder) WithPrice(price float64) *PropertyBuilder {
	b.Price = price
	return b
}

// WithRoi sets the ROI percentage.
func (b *PropertyBuilder) WithRoi(roi float64) *PropertyBuilder {
	b.RoiPercentage = &roi
	return b
}

// WithStatus sets the status.
func (b *PropertyBuilder) WithStatus(status model.PropertyStatus) *PropertyBuilder {
	b.Status = status
	return b
}

// WithOwnership sets the ownership percentage.
func (b *PropertyBuilder) WithOwnership(ownership float64) *PropertyBuilder {
	b.OwnershipPercentage = &ownership
	return b
}

// WithInvestmentType sets the investment type.
func (b *PropertyBuilder) WithInvestmentType(investmentType model.InvestmentType) *PropertyBuilder {
	b.InvestmentType = investmentType
	return b
}

// Sold marks the property as sold.
func (b *PropertyBuilder) Sold() *PropertyBuilder {
	b.Status = model.PropertyStatusSold
	return b
}

// Build creates the property in the database and returns it.
func (b *PropertyBuilder) Build(t *testing.T, db *sql.DB) model.Property {
	t.Helper()

	property := model.Property{
		ID:                  b.ID,
		InvestorID:          b.InvestorID,
		LocationID:          b.LocationID,
		Name:                b.Name,
		Price:               b.Price,
		RoiPercentage:       b.RoiPercentage,
		Status:              b.Status,
		OwnershipPercentage: b.OwnershipPercentage,
		InvestmentType:      b.InvestmentType,
		CreatedAt:           b.CreatedAt,
	}

	if err := repository.NewPropertyRepository(db).InsertProperty(t.Context(), &property); err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}

	return property
}

// SummaryBuilder seeds stored investment and ROI summaries, as if an earlier
// aggregation had run.
//
// Example usage:
//
//	testutil.NewSummary(investor.ID).WithTotal(200000).WithAverageRoi(5).Build(t, db)
type SummaryBuilder struct {
	InvestorID      string
	TotalInvestment float64
	PercentChange   float64
	AverageRoi      float64
	RoiChange       float64
	UpdatedAt       time.Time
}

// NewSummary creates a SummaryBuilder with zero values.
func NewSummary(investorID string) *SummaryBuilder {
	return &SummaryBuilder{
		InvestorID: investorID,
		UpdatedAt:  time.Now().UTC(),
	}
}

// WithTotal sets the stored total investment.
func (b *SummaryBuilder) WithTotal(total float64) *SummaryBuilder {
	b.TotalInvestment = total
	return b
}

// WithPercentChange sets the stored percent change.
func (b *SummaryBuilder) WithPercentChange(change float64) *SummaryBuilder {
	b.PercentChange = change
	return b
}

// WithAverageRoi sets the stored average ROI.
func (b *SummaryBuilder) WithAverageRoi(average float64) *SummaryBuilder {
	b.AverageRoi = average
	return b
}

// Build writes both summaries.
func (b *SummaryBuilder) Build(t *testing.T, db *sql.DB) (model.InvestmentSummary, model.RoiSummary) {
	t.Helper()

	repo := repository.NewSummaryRepository(db)
	summary := model.InvestmentSummary{
		InvestorID:      b.InvestorID,
		TotalInvestment: b.TotalInvestment,
		PercentChange:   b.PercentChange,
		UpdatedAt:       b.UpdatedAt,
	}
	roi := model.RoiSummary{
		InvestorID: b.InvestorID,
		AverageRoi: b.AverageRoi,
		RoiChange:  b.RoiChange,
		UpdatedAt:  b.UpdatedAt,
	}

	if err := repo.UpsertInvestmentSummary(t.Context(), summary); err != nil {
		t.Fatalf("Failed to create test investment summary: %v", err)
	}
	if err := repo.UpsertRoiSummary(t.Context(), roi); err != nil {
		t.Fatalf("Failed to create test roi summary: %v", err)
	}

	return summary, roi
}

// CreateGrowthPoint stores one month of growth history.
//
// Example usage:
//
//	testutil.CreateGrowthPoint(t, db, investor.ID, 2025, 2, 150000)
func CreateGrowthPoint(t *testing.T, db *sql.DB, investorID string, year, monthIndex int, value float64) model.GrowthPoint {
	t.Helper()

	point := model.GrowthPoint{
		InvestorID: investorID,
		Year:       year,
		MonthIndex: monthIndex,
		Month:      model.MonthName(monthIndex),
		Value:      value,
	}
	err := repository.NewGrowthRepository(db).UpsertGrowthPoints(t.Context(), investorID, []model.GrowthPoint{point}, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test growth point: %v", err)
	}
	return point
}

// CreateAllocation stores allocation rows directly.
func CreateAllocation(t *testing.T, db *sql.DB, investorID string, entries ...model.AllocationEntry) {
	t.Helper()

	err := repository.NewAllocationRepository(db).UpsertAllocation(t.Context(), investorID, entries, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test allocation: %v", err)
	}
}
