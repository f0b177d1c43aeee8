package validation

import (
	"net/mail"
	"strings"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
)

// ValidateCreateInvestor validates an investor creation request.
//
// Required fields:
//   - name: 1-100 characters
//   - email: a single RFC 5322 address
func ValidateCreateInvestor(req request.CreateInvestorRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	} else if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		errors["email"] = "email is not a valid address"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
