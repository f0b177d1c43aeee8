package request

// CreatePropertyRequest represents the request body for adding a property to an investor.
// Status defaults to "active" and InvestmentType to "property" when empty.
type CreatePropertyRequest struct {
	InvestorID          string   `json:"investorId"`
	LocationID          string   `json:"locationId"`
	Name                string   `json:"name"`
	Price               float64  `json:"price"`
	RoiPercentage       *float64 `json:"roiPercentage,omitempty"`
	Status              string   `json:"status,omitempty"`
	OwnershipPercentage *float64 `json:"ownershipPercentage,omitempty"`
	InvestmentType      string   `json:"investmentType,omitempty"`
}

// UpdatePropertyRequest carries the optional fields of a property update.
// ClearRoi resets the ROI to unknown, since a nil RoiPercentage means "unchanged".
type UpdatePropertyRequest struct {
	LocationID          *string  `json:"locationId,omitempty"`
	Name                *string  `json:"name,omitempty"`
	Price               *float64 `json:"price,omitempty"`
	RoiPercentage       *float64 `json:"roiPercentage,omitempty"`
	ClearRoi            bool     `json:"clearRoi,omitempty"`
	Status              *string  `json:"status,omitempty"`
	OwnershipPercentage *float64 `json:"ownershipPercentage,omitempty"`
	InvestmentType      *string  `json:"investmentType,omitempty"`
}
