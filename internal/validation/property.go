package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/model"
)

// ValidateCreateProperty validates a property creation request.
// Invalid input is rejected here so the aggregators never see it.
//
// Required fields:
//   - investorId, locationId: valid UUIDs
//   - name: 1-150 characters
//   - price: finite and >= 0
//
// Optional fields:
//   - roiPercentage: finite, may be negative
//   - status: active, pending or sold
//   - ownershipPercentage: in (0, 100]
//   - investmentType: property, club_deal or development
func ValidateCreateProperty(req request.CreatePropertyRequest) error {
	if err := ValidateUUID(req.InvestorID); err != nil {
		return err
	}
	if err := ValidateUUID(req.LocationID); err != nil {
		return err
	}

	errors := make(map[string]string)

	validateName(errors, req.Name)
	validatePrice(errors, req.Price)
	if req.RoiPercentage != nil {
		validateRoi(errors, *req.RoiPercentage)
	}
	if req.Status != "" {
		validateStatus(errors, req.Status)
	}
	if req.OwnershipPercentage != nil {
		validateOwnership(errors, *req.OwnershipPercentage)
	}
	if req.InvestmentType != "" {
		validateInvestmentType(errors, req.InvestmentType)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateProperty validates a property update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateProperty(req request.UpdatePropertyRequest) error {
	if req.LocationID != nil {
		if err := ValidateUUID(*req.LocationID); err != nil {
			return err
		}
	}

	errors := make(map[string]string)

	if req.Name != nil {
		validateName(errors, *req.Name)
	}
	if req.Price != nil {
		validatePrice(errors, *req.Price)
	}
	if req.RoiPercentage != nil {
		if req.ClearRoi {
			errors["roiPercentage"] = "roiPercentage cannot be combined with clearRoi"
		} else {
			validateRoi(errors, *req.RoiPercentage)
		}
	}
	if req.Status != nil {
		validateStatus(errors, *req.Status)
	}
	if req.OwnershipPercentage != nil {
		validateOwnership(errors, *req.OwnershipPercentage)
	}
	if req.InvestmentType != nil {
		validateInvestmentType(errors, *req.InvestmentType)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateName(errors map[string]string, name string) {
	if strings.TrimSpace(name) == "" {
		errors["name"] = "name is required"
	} else if len(name) > 150 {
		errors["name"] = "name must be 150 characters or less"
	}
}

func validatePrice(errors map[string]string, price float64) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		errors["price"] = "price must be a finite number"
	} else if price < 0 {
		errors["price"] = "price cannot be negative"
	}
}

func validateRoi(errors map[string]string, roi float64) {
	if math.IsNaN(roi) || math.IsInf(roi, 0) {
		errors["roiPercentage"] = "roiPercentage must be a finite number"
	}
}

func validateStatus(errors map[string]string, status string) {
	if !model.ValidPropertyStatus[model.PropertyStatus(status)] {
		errors["status"] = fmt.Sprintf("invalid status: %s", status)
	}
}

func validateOwnership(errors map[string]string, ownership float64) {
	if math.IsNaN(ownership) || ownership <= 0 || ownership > 100 {
		errors["ownershipPercentage"] = "ownershipPercentage must be greater than 0 and at most 100"
	}
}

func validateInvestmentType(errors map[string]string, investmentType string) {
	if !model.ValidInvestmentType[model.InvestmentType(investmentType)] {
		errors["investmentType"] = fmt.Sprintf("invalid investment type: %s", investmentType)
	}
}
