package model

import "time"

// PropertyStatus is the lifecycle state of a property.
type PropertyStatus string

// Property statuses. Sold properties are excluded from aggregation.
const (
	PropertyStatusActive  PropertyStatus = "active"
	PropertyStatusPending PropertyStatus = "pending"
	PropertyStatusSold    PropertyStatus = "sold"
)

// ValidPropertyStatus contains the allowed property status values.
var ValidPropertyStatus = map[PropertyStatus]bool{
	PropertyStatusActive: true, PropertyStatusPending: true, PropertyStatusSold: true,
}

// InvestmentType distinguishes direct holdings from club deals and development projects.
type InvestmentType string

// Investment types.
const (
	InvestmentTypeProperty    InvestmentType = "property"
	InvestmentTypeClubDeal    InvestmentType = "club_deal"
	InvestmentTypeDevelopment InvestmentType = "development"
)

// ValidInvestmentType contains the allowed investment type values.
var ValidInvestmentType = map[InvestmentType]bool{
	InvestmentTypeProperty: true, InvestmentTypeClubDeal: true, InvestmentTypeDevelopment: true,
}

// DefaultOwnershipPercentage applies when a property has no explicit ownership share.
const DefaultOwnershipPercentage = 100.0

// Property is one unit of real-estate investment owned by an investor.
// Price is the capital invested. RoiPercentage and OwnershipPercentage are nullable.
type Property struct {
	ID                  string         `json:"id"`
	InvestorID          string         `json:"investorId"`
	LocationID          string         `json:"locationId"`
	Name                string         `json:"name"`
	Price               float64        `json:"price"`
	RoiPercentage       *float64       `json:"roiPercentage"`
	Status              PropertyStatus `json:"status"`
	OwnershipPercentage *float64       `json:"ownershipPercentage"`
	InvestmentType      InvestmentType `json:"investmentType"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// Ownership returns the ownership share, defaulting to 100.
func (p Property) Ownership() float64 {
	if p.OwnershipPercentage == nil {
		return DefaultOwnershipPercentage
	}
	return *p.OwnershipPercentage
}

// Counted reports whether the property takes part in aggregation.
func (p Property) Counted() bool {
	return p.Status != PropertyStatusSold
}

// PropertyResponse is a property enriched with its resolved location.
type PropertyResponse struct {
	Property
	City    string `json:"city"`
	Country string `json:"country"`
	// Ownership is the effective ownership percentage (100 when unset).
	Ownership float64 `json:"ownership"`
}
