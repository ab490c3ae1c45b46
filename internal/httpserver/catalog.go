package httpserver

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekoshkina/webshop/internal/events"
	"github.com/ekoshkina/webshop/internal/logging"
	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/service"
	"github.com/ekoshkina/webshop/internal/service/search"
	"github.com/ekoshkina/webshop/internal/transport"
	"github.com/ekoshkina/webshop/internal/util"
)

type CatalogHTTP struct {
	Svc      *service.CatalogService
	ES       *elasticsearch.Client
	ESIndex  string
	Producer EventPublisher
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id := uint(util.ParseIntDefault(c.Param("id"), 0))
	if id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_product_not_found", "status", 404, "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var categoryID *uint
	if raw := c.QueryParam("category"); raw != "" {
		id := uint(util.ParseIntDefault(raw, 0))
		if id == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
		}
		categoryID = &id
	}

	total, items, err := h.Svc.GetProducts(ctx, categoryID, offset, limit)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_categories")

	categories, err := h.Svc.GetCategories(ctx)
	if err != nil {
		l.Error("get_categories_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_product_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.indexProduct(c, prod)
	publish(c, h.Producer, events.TopicProductEvents, map[string]any{
		"type":      "product_created",
		"userID":    adminID(c),
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_product")

	id := uint(util.ParseIntDefault(c.Param("id"), 0))
	if id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.PatchProduct(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("patch_product_not_found", "status", 404, "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		if errors.Is(err, service.ErrValidation) {
			l.Warn("patch_product_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("patch_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.indexProduct(c, prod)
	publish(c, h.Producer, events.TopicProductEvents, map[string]any{
		"type":      "product_updated",
		"userID":    adminID(c),
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id := uint(util.ParseIntDefault(c.Param("id"), 0))
	if id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_product_not_found", "status", 404, "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("delete_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if h.ES != nil {
		if err := search.DeleteProduct(ctx, h.ES, h.ESIndex, id); err != nil {
			l.Error("es_delete_error", "product_id", id, "error", err)
		}
	}
	publish(c, h.Producer, events.TopicProductEvents, map[string]any{
		"type":      "product_deleted",
		"userID":    adminID(c),
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_category_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_category_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	id := uint(util.ParseIntDefault(c.Param("id"), 0))
	if id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_category_not_found", "status", 404, "category_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("delete_category_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) indexProduct(c echo.Context, prod *models.Product) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.IndexProduct(ctx, h.ES, h.ESIndex, prod); err != nil {
		logging.FromContext(ctx).Error("es_index_error", "product_id", prod.ID, "error", err)
	}
}

func adminID(c echo.Context) uint {
	if v, ok := c.Get("userID").(uint); ok {
		return v
	}
	return 0
}
