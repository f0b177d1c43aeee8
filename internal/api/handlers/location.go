package handlers

import (
	"net/http"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/api/response"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/service"
	"github.com/estatefolio/investor-dashboard/internal/validation"
)

// LocationHandler handles HTTP requests for location endpoints.
type LocationHandler struct {
	locationService *service.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locationService *service.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// Locations handles GET /api/location.
func (h *LocationHandler) Locations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.GetLocations(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLocations.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, locations)
}

// CreateLocation handles POST /api/location.
// Returns 409 Conflict when the city/country pair already exists.
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateLocationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateLocation(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	location, err := h.locationService.CreateLocation(r.Context(), req)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToCreateLocation), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, location)
}
