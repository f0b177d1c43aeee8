package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, fmt.Errorf("empty request body")
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	var validationErr *validation.Error
	switch {
	case errors.Is(err, apperrors.ErrInvestorNotFound),
		errors.Is(err, apperrors.ErrPropertyNotFound),
		errors.Is(err, apperrors.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.As(err, &validationErr),
		errors.Is(err, validation.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrInvalidInvestorID),
		errors.Is(err, apperrors.ErrInvalidPropertyID),
		errors.Is(err, apperrors.ErrNegativeAmount),
		errors.Is(err, apperrors.ErrInvalidMonth),
		errors.Is(err, apperrors.ErrInvalidCSVHeaders),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage picks the public message for err: the not-found or conflict sentinel
// when one matches, otherwise fallback.
func errorMessage(err error, fallback error) string {
	for _, sentinel := range []error{
		apperrors.ErrInvestorNotFound,
		apperrors.ErrPropertyNotFound,
		apperrors.ErrLocationNotFound,
		apperrors.ErrDuplicateEntry,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errorStatus(err) == http.StatusBadRequest {
		return "validation failed"
	}
	return fallback.Error()
}
