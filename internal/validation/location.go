package validation

import (
	"strings"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
)

// ValidateCreateLocation validates a location creation request.
// Country is free text but must be present; the allocation aggregator groups by it.
func ValidateCreateLocation(req request.CreateLocationRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.City) == "" {
		errors["city"] = "city is required"
	} else if len(req.City) > 100 {
		errors["city"] = "city must be 100 characters or less"
	}

	if strings.TrimSpace(req.Country) == "" {
		errors["country"] = "country is required"
	} else if len(req.Country) > 100 {
		errors["country"] = "country must be 100 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
