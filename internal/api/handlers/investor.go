package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/api/response"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/service"
	"github.com/estatefolio/investor-dashboard/internal/validation"
)

// InvestorHandler handles HTTP requests for investor endpoints.
type InvestorHandler struct {
	investorService *service.InvestorService
}

// NewInvestorHandler creates a new InvestorHandler with the provided service dependency.
func NewInvestorHandler(investorService *service.InvestorService) *InvestorHandler {
	return &InvestorHandler{
		investorService: investorService,
	}
}

// Investors handles GET requests to list all investors.
//
// Endpoint: GET /api/investor
// Response: 200 OK with array of Investor
// Error: 500 Internal Server Error if retrieval fails
func (h *InvestorHandler) Investors(w http.ResponseWriter, r *http.Request) {
	investors, err := h.investorService.GetInvestors(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInvestors.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, investors)
}

// GetInvestor handles GET requests to retrieve a single investor with its level.
//
// Endpoint: GET /api/investor/{uuid}
// Response: 200 OK with Investor
// Error: 404 Not Found if the investor does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *InvestorHandler) GetInvestor(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "uuid")

	investor, err := h.investorService.GetInvestor(r.Context(), investorID)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToRetrieveInvestor), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, investor)
}

// CreateInvestor handles POST requests to register a new investor.
//
// Endpoint: POST /api/investor
// Request Body: CreateInvestorRequest (name, email, isVerified)
// Response: 201 Created with Investor
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the email is already registered
// Error: 500 Internal Server Error if creation fails
func (h *InvestorHandler) CreateInvestor(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInvestorRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInvestor(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	investor, err := h.investorService.CreateInvestor(r.Context(), req)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToCreateInvestor), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, investor)
}
