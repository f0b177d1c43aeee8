package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/estatefolio/investor-dashboard/internal/api/response"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/service"
)

// maxImportBytes caps uploaded CSV files.
const maxImportBytes = 10 << 20

// ImportHandler handles bulk property imports.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// ImportProperties handles POST requests carrying a property CSV, either as a
// multipart form file named "file" or as the raw request body.
//
// Endpoint: POST /api/import/properties
// Response: 201 Created with ImportResult
// Response: 207 Multi-Status when rows were imported but a recompute failed
// Error: 400 Bad Request if the headers or a row are invalid; nothing is imported
// Error: 404 Not Found if a row references an unknown investor
// Error: 500 Internal Server Error if the import fails
func (h *ImportHandler) ImportProperties(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "missing CSV file", err.Error())
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.importService.ImportProperties(r.Context(), body)
	if err != nil {
		if result != nil && errors.Is(err, apperrors.ErrAggregationFailed) {
			response.RespondPartial(w, result, err)
			return
		}
		response.RespondError(w, errorStatus(err), errorMessage(err, apperrors.ErrFailedToImportProperties), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}
