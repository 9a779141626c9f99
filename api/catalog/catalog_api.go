package catalog

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront.GO/api"
	catalogRepo "storefront.GO/model/repository/catalog"
)

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

func RegisterCatalogRoutes(apiGroup *echo.Group, db *gorm.DB) {
	repo := catalogRepo.NewCatalogRepository(db)

	// GET /api/products?business_id=&limit=&offset=
	apiGroup.GET("/products", func(c echo.Context) error {
		businessID, err := strconv.ParseUint(c.QueryParam("business_id"), 10, 32)
		if err != nil || businessID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "business_id is required"})
		}
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))

		products, err := repo.ListProducts(uint(businessID), limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		total, err := repo.CountProducts(uint(businessID))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"products": products, "total": total})
	})

	// GET /api/products/:id
	apiGroup.GET("/products/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}
		product, err := repo.FindProductByID(uint(id))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, product)
	})

	// GET /api/collections?business_id=
	apiGroup.GET("/collections", func(c echo.Context) error {
		businessID, err := strconv.ParseUint(c.QueryParam("business_id"), 10, 32)
		if err != nil || businessID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "business_id is required"})
		}
		collections, err := repo.Collections(uint(businessID))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"collections": collections})
	})
}
