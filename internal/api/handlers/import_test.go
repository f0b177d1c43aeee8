package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/estatefolio/investor-dashboard/internal/service"
	"github.com/estatefolio/investor-dashboard/internal/testutil"
)

const importHeader = "investor_id,name,city,country,price,roi_percentage,status,ownership_percentage,investment_type\n"

func TestImportHandler_ImportProperties(t *testing.T) {
	t.Run("imports a raw CSV body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewImportHandler(testutil.NewTestImportService(t, db))
		investor := testutil.NewInvestor().Build(t, db)

		body := importHeader + fmt.Sprintf("%s,Flat,Rome,Italy,1000,4,,,\n", investor.ID)
		req := httptest.NewRequest(http.MethodPost, "/api/import/properties", strings.NewReader(body))
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()

		handler.ImportProperties(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var result service.ImportResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Imported != 1 {
			t.Errorf("Expected 1 imported property, got %d", result.Imported)
		}
		testutil.AssertRowCount(t, db, "investment_summary", 1)
	})

	t.Run("imports a multipart upload", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewImportHandler(testutil.NewTestImportService(t, db))
		investor := testutil.NewInvestor().Build(t, db)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "properties.csv")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		fmt.Fprintf(part, "%s%s,Flat,Rome,Italy,1000,,,,\n%s,House,Paris,France,2000,,,,\n", importHeader, investor.ID, investor.ID)
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/import/properties", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()

		handler.ImportProperties(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "property", 2)
	})

	t.Run("returns 400 for multipart without file", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewImportHandler(testutil.NewTestImportService(t, db))

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		//nolint:errcheck // Test setup
		mw.WriteField("note", "no file here")
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/import/properties", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()

		handler.ImportProperties(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for wrong headers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewImportHandler(testutil.NewTestImportService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/import/properties", strings.NewReader("a,b,c\n1,2,3\n"))
		w := httptest.NewRecorder()

		handler.ImportProperties(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unknown investor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewImportHandler(testutil.NewTestImportService(t, db))

		body := importHeader + fmt.Sprintf("%s,Flat,Rome,Italy,1000,,,,\n", testutil.MakeID())
		req := httptest.NewRequest(http.MethodPost, "/api/import/properties", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ImportProperties(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
		testutil.AssertRowCount(t, db, "property", 0)
	})
}
