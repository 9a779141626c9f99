package apitest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	wooImportApi "storefront.GO/api/wooimport"
	catalogEntity "storefront.GO/model/entity/catalog"
)

func apiDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Product{},
		&catalogEntity.ProductVariant{},
		&catalogEntity.ProductImage{},
		&catalogEntity.Collection{},
		&catalogEntity.CollectionProduct{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func importServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	e := echo.New()
	db := apiDB(t)
	wooImportApi.RegisterImportRoutes(e.Group("/api"), db)
	return e, db
}

func uploadCSV(t *testing.T, e *echo.Echo, businessID, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("business_id", businessID); err != nil {
		t.Fatalf("write field: %v", err)
	}
	fw, err := mw.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import/woocommerce/validate", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImportAPI_ValidateThenRun(t *testing.T) {
	e, db := importServer(t)

	csv := "ID,Type,SKU,Name,Regular price,Categories\n" +
		"1,simple,TEE-1,Classic Tee,25.00,Sale\n" +
		"2,simple,,Broken,0,\n"

	rec := uploadCSV(t, e, "1", csv)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Duration-ms") == "" {
		t.Error("X-Request-Duration-ms header missing")
	}

	var validateResp struct {
		SessionID string `json:"session_id"`
		Summary   struct {
			Total   int `json:"total"`
			Valid   int `json:"valid"`
			Invalid int `json:"invalid"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&validateResp); err != nil {
		t.Fatalf("decode validate: %v", err)
	}
	if validateResp.SessionID == "" {
		t.Fatal("session_id missing")
	}
	if validateResp.Summary.Total != 2 || validateResp.Summary.Valid != 1 || validateResp.Summary.Invalid != 1 {
		t.Errorf("summary = %+v, want total=2 valid=1 invalid=1", validateResp.Summary)
	}

	// Nothing is written until the session is run
	var count int64
	db.Model(&catalogEntity.Product{}).Count(&count)
	if count != 0 {
		t.Fatalf("product count after validate = %d, want 0", count)
	}

	runBody, _ := json.Marshal(map[string]interface{}{
		"session_id":                         validateResp.SessionID,
		"on_duplicate_sku":                   "skip",
		"create_collections_from_categories": true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/import/woocommerce/run", bytes.NewReader(runBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("run status = %d, body %s", rec.Code, rec.Body.String())
	}

	var runResp struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&runResp); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if runResp.Imported != 1 || runResp.Skipped != 0 {
		t.Errorf("run = %+v, want 1 imported", runResp)
	}

	db.Model(&catalogEntity.Product{}).Count(&count)
	if count != 1 {
		t.Errorf("product count = %d, want 1 (invalid row excluded)", count)
	}
	db.Model(&catalogEntity.Collection{}).Count(&count)
	if count != 1 {
		t.Errorf("collection count = %d, want 1", count)
	}

	// The session is consumed by a successful run
	req = httptest.NewRequest(http.MethodPost, "/api/import/woocommerce/run", bytes.NewReader(runBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second run status = %d, want 404", rec.Code)
	}
}

func TestImportAPI_Validate_RawBody(t *testing.T) {
	e, _ := importServer(t)

	csv := "ID,Type,Name,Regular price\n1,simple,Raw upload,5.00\n"
	req := httptest.NewRequest(http.MethodPost,
		"/api/import/woocommerce/validate?business_id=1", strings.NewReader(csv))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestImportAPI_Validate_RequiresBusinessID(t *testing.T) {
	e, _ := importServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import/woocommerce/validate", strings.NewReader("ID,Type\n"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestImportAPI_Validate_MalformedCSV(t *testing.T) {
	e, _ := importServer(t)

	rec := uploadCSV(t, e, "1", "ID,Type,Name\n1,simple,\"broken\n")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed CSV", rec.Code)
	}
}

func TestImportAPI_Run_UnknownSession(t *testing.T) {
	e, _ := importServer(t)

	body := `{"session_id":"does-not-exist"}`
	req := httptest.NewRequest(http.MethodPost, "/api/import/woocommerce/run", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
