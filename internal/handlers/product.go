package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
	"github.com/Skotchmaster/luxeshop/internal/models"
	"github.com/Skotchmaster/luxeshop/internal/service/search"
	"github.com/Skotchmaster/luxeshop/internal/util"
)

type ProductHandler struct {
	DB    *gorm.DB
	ES    *elasticsearch.Client
	Index string
}

// AllCategories is the sentinel meaning "no category filter".
const AllCategories = "All"

var sortOrders = map[string]string{
	"price-low":  "price ASC",
	"price-high": "price DESC",
	"rating":     "rating DESC",
	"popular":    "reviews DESC",
}

func (h *ProductHandler) GetProducts(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var req struct {
		Category string `json:"category"`
		Search   string `json:"search"`
		Sort     string `json:"sort"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	q := h.DB.Model(&models.Product{})
	if req.Category != "" && req.Category != AllCategories {
		q = q.Where("category = ?", req.Category)
	}
	if req.Search != "" {
		pattern := "%" + strings.ToLower(req.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if order, ok := sortOrders[req.Sort]; ok {
		q = q.Order(order)
	} else {
		q = q.Order("id ASC")
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return echo.Map{"products": products}, nil
}

func (h *ProductHandler) GetProduct(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	var product models.Product
	if err := h.DB.First(&product, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "product not found")
		}
		return nil, err
	}
	return echo.Map{"product": product}, nil
}

func (h *ProductHandler) GetCategories(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var categories []string
	if err := h.DB.Model(&models.Product{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return echo.Map{"categories": append([]string{AllCategories}, categories...)}, nil
}

// SearchProducts is the fuzzy search path backed by Elasticsearch. Without a
// configured ES client it degrades to the SQL substring filter, so the
// action behaves the same in every deployment.
func (h *ProductHandler) SearchProducts(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var req struct {
		Query string `json:"query"`
		Page  int    `json:"page"`
		Size  int    `json:"size"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}
	if req.Query == "" {
		return nil, apperr.New(apperr.ErrValidation, "query is required")
	}
	from, size := util.Calculate(req.Page, req.Size)

	if h.ES != nil {
		total, products, err := search.Search(c.Request().Context(), h.ES, h.Index, req.Query, from, size)
		if err != nil {
			return nil, err
		}
		return echo.Map{"total": total, "products": products}, nil
	}

	pattern := "%" + strings.ToLower(req.Query) + "%"
	q := h.DB.Model(&models.Product{}).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var products []models.Product
	if err := q.Order("id ASC").Offset(from).Limit(size).Find(&products).Error; err != nil {
		return nil, err
	}
	return echo.Map{"total": total, "products": products}, nil
}
