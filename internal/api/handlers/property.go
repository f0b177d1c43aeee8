package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/api/response"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/service"
	"github.com/estatefolio/investor-dashboard/internal/validation"
)

// PropertyHandler handles HTTP requests for property endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the propertyService.
type PropertyHandler struct {
	propertyService *service.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler with the provided service dependency.
func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
	}
}

// InvestorProperties handles GET requests to list an investor's properties.
// Sold properties are included; each entry carries its city and country.
//
// Endpoint: GET /api/investor/{uuid}/properties
// Response: 200 OK with array of PropertyResponse
// Error: 404 Not Found if the investor does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *PropertyHandler) InvestorProperties(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "uuid")

	properties, err := h.propertyService.GetInvestorProperties(r.Context(), investorID)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToRetrieveProperties), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, properties)
}

// GetProperty handles GET requests to retrieve a single property.
//
// Endpoint: GET /api/property/{uuid}
// Response: 200 OK with Property
// Error: 404 Not Found if the property does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "uuid")

	property, err := h.propertyService.GetProperty(r.Context(), propertyID)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToRetrieveProperty), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, property)
}

// CreateProperty handles POST requests to add a property to an investor.
// The investor's summaries are recomputed after the property is stored.
//
// Endpoint: POST /api/property
// Request Body: CreatePropertyRequest
// Response: 201 Created with Property
// Response: 207 Multi-Status with the stored property when the recompute failed
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the investor or location does not exist
// Error: 500 Internal Server Error if creation fails
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePropertyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateProperty(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	property, err := h.propertyService.CreateProperty(r.Context(), req)
	if err != nil {
		if property != nil && errors.Is(err, apperrors.ErrAggregationFailed) {
			response.RespondPartial(w, property, err)
			return
		}
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToCreateProperty), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, property)
}

// UpdateProperty handles PUT requests to change a property.
// The investor's summaries are recomputed after the update is stored.
//
// Endpoint: PUT /api/property/{uuid}
// Request Body: UpdatePropertyRequest (all fields optional)
// Response: 200 OK with updated Property
// Response: 207 Multi-Status with the stored property when the recompute failed
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the property or a referenced location does not exist
// Error: 500 Internal Server Error if update fails
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdatePropertyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateProperty(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	property, err := h.propertyService.UpdateProperty(r.Context(), propertyID, req)
	if err != nil {
		if property != nil && errors.Is(err, apperrors.ErrAggregationFailed) {
			response.RespondPartial(w, property, err)
			return
		}
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToUpdateProperty), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, property)
}
