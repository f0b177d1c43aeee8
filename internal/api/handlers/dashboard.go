package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/estatefolio/investor-dashboard/internal/api/response"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/service"
)

const dateLayout = "2006-01-02"

// DashboardHandler serves the derived portfolio views of an investor and the
// manual recompute trigger.
type DashboardHandler struct {
	dashboardService   *service.DashboardService
	aggregationService *service.AggregationService
	now                func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, aggregationService *service.AggregationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:   dashboardService,
		aggregationService: aggregationService,
		now:                time.Now,
	}
}

// Dashboard handles GET requests for the dashboard view-model.
// The optional as_of query parameter (YYYY-MM-DD) selects the month the growth series ends in.
//
// Endpoint: GET /api/investor/{uuid}/dashboard
// Response: 200 OK with Dashboard
// Error: 400 Bad Request if as_of is malformed
// Error: 404 Not Found if the investor does not exist
// Error: 500 Internal Server Error if the dashboard cannot be built
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "uuid")

	asOf, err := h.parseDate(r.URL.Query().Get("as_of"), h.now())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid as_of", err.Error())
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(r.Context(), investorID, asOf)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToGetDashboard), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dashboard)
}

// Allocation handles GET /api/investor/{uuid}/allocation.
func (h *DashboardHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "uuid")

	allocation, err := h.dashboardService.GetAllocation(r.Context(), investorID)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToRetrieveAlloc), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, allocation)
}

// Growth handles GET requests for the stored monthly growth points of one year.
// The year query parameter defaults to the current year.
//
// Endpoint: GET /api/investor/{uuid}/growth?year=2025
// Response: 200 OK with array of GrowthPoint
// Error: 400 Bad Request if year is malformed
// Error: 404 Not Found if the investor does not exist
func (h *DashboardHandler) Growth(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "uuid")

	year := h.now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1900 || parsed > 9999 {
			response.RespondError(w, http.StatusBadRequest, "invalid year", fmt.Sprintf("year must be a four digit number, got %q", raw))
			return
		}
		year = parsed
	}

	growth, err := h.dashboardService.GetGrowth(r.Context(), investorID, year)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToRetrieveGrowth), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, growth)
}

// Ledger handles GET requests for the summary ledger.
// Optional start_date and end_date (YYYY-MM-DD) bound the range; end_date is inclusive.
//
// Endpoint: GET /api/investor/{uuid}/ledger
// Response: 200 OK with array of LedgerEntry
// Error: 400 Bad Request if a date is malformed or start_date is after end_date
// Error: 404 Not Found if the investor does not exist
func (h *DashboardHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "uuid")

	from, err := h.parseDate(r.URL.Query().Get("start_date"), time.Time{})
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid start_date", err.Error())
		return
	}
	to, err := h.parseDate(r.URL.Query().Get("end_date"), time.Time{})
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid end_date", err.Error())
		return
	}
	if !to.IsZero() {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		response.RespondError(w, http.StatusBadRequest, "start_date must be before end_date", "")
		return
	}

	ledger, err := h.dashboardService.GetLedger(r.Context(), investorID, from, to)
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToRetrieveLedger), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ledger)
}

// Recompute handles POST requests that rerun the aggregation of an investor.
//
// Endpoint: POST /api/investor/{uuid}/recompute
// Response: 200 OK with RecomputeResult
// Error: 404 Not Found if the investor does not exist
// Error: 500 Internal Server Error if the aggregation fails; nothing is written in that case
func (h *DashboardHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "uuid")

	result, err := h.aggregationService.Recompute(r.Context(), investorID, h.now())
	if err != nil {
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrAggregationFailed), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

func (h *DashboardHandler) parseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", value)
	}
	return t, nil
}
