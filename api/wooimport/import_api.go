package wooimport

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront.GO/api"
	"storefront.GO/config"
	catalogRepo "storefront.GO/model/repository/catalog"
	"storefront.GO/service/media"
	"storefront.GO/service/search"
	"storefront.GO/service/woocommerce"
)

func init() {
	api.RegisterModule(RegisterImportRoutes)
}

// runRequest is the JSON body for POST /api/import/woocommerce/run.
type runRequest struct {
	SessionID         string `json:"session_id"`
	OnDuplicateSKU    string `json:"on_duplicate_sku"`
	ImportImages      bool   `json:"import_images"`
	CreateCollections bool   `json:"create_collections_from_categories"`
	OptimizeImages    bool   `json:"optimize_images"`
}

func RegisterImportRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/import/woocommerce")
	store := woocommerce.NewSessionStore()

	// POST /api/import/woocommerce/validate – upload a WooCommerce CSV export,
	// get back a validation summary and a session token. The operator reviews
	// the summary before triggering the run.
	g.POST("/validate", func(c echo.Context) error {
		start := time.Now()

		businessID, err := strconv.ParseUint(c.FormValue("business_id"), 10, 32)
		if err != nil || businessID == 0 {
			businessID, err = strconv.ParseUint(c.QueryParam("business_id"), 10, 32)
			if err != nil || businessID == 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "business_id is required"})
			}
		}

		src, err := csvSource(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		defer src.Close()

		products, err := woocommerce.Parse(src)
		if err != nil {
			// Structural CSV failure: nothing is imported
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		res, err := woocommerce.Validate(db, uint(businessID), products)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		sess := &woocommerce.ImportSession{
			BusinessID: uint(businessID),
			Products:   products,
			Summary:    res.Summary,
		}
		if err := store.Save(c.Request().Context(), sess); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"session_id":          sess.ID,
			"summary":             res.Summary,
			"valid":               res.Valid,
			"invalid":             res.Invalid,
			"request_duration_ms": duration,
		})
	})

	// POST /api/import/woocommerce/run – execute a reviewed session with the
	// chosen options. The session is consumed on success.
	g.POST("/run", func(c echo.Context) error {
		start := time.Now()

		var body runRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.SessionID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
		}

		ctx := c.Request().Context()
		sess, err := store.Load(ctx, body.SessionID)
		if err != nil {
			if err == woocommerce.ErrSessionNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		// The importer trusts the valid flag; invalid rows never reach it.
		valid := make([]*woocommerce.ParsedProduct, 0, len(sess.Products))
		for _, p := range sess.Products {
			if p.IsValid {
				valid = append(valid, p)
			}
		}

		opts := woocommerce.ImportOptions{
			BusinessID:        sess.BusinessID,
			OnDuplicateSKU:    body.OnDuplicateSKU,
			ImportImages:      body.ImportImages,
			CreateCollections: body.CreateCollections,
		}
		if body.OptimizeImages {
			config.LoadAppConfig()
			opts.Media = media.NewOptimizer(config.AppConfig.MediaDir)
		}

		result, err := woocommerce.ImportProducts(db, valid, opts)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		store.Delete(ctx, body.SessionID)

		if ix := search.GetIndexer(); ix.Enabled() {
			products, err := catalogRepo.NewCatalogRepository(db).AllProducts(sess.BusinessID)
			if err == nil {
				err = ix.IndexProducts(ctx, sess.BusinessID, products)
			}
			if err != nil {
				// Search lags behind; the import itself succeeded
				log.Printf("import: reindex business %d: %v", sess.BusinessID, err)
			}
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"imported":            result.Imported,
			"skipped":             result.Skipped,
			"errors":              result.Errors,
			"request_duration_ms": duration,
		})
	})
}

// csvSource returns the uploaded CSV: a multipart "file" part when present,
// the raw request body otherwise.
func csvSource(c echo.Context) (io.ReadCloser, error) {
	if fh, err := c.FormFile("file"); err == nil {
		return fh.Open()
	}
	return c.Request().Body, nil
}
