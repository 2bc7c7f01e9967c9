package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
	"github.com/Skotchmaster/luxeshop/internal/events"
	"github.com/Skotchmaster/luxeshop/internal/models"
)

// AdminHandler holds the actions the dispatcher only reaches with an admin
// token; the role check itself lives in the dispatch guard.
type AdminHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

const lowStockThreshold = 20

type topProduct struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	TotalSold uint    `json:"total_sold"`
}

func (h *AdminHandler) GetDashboardStats(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var totalRevenue float64
	if err := h.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return nil, err
	}

	var totalOrders, totalUsers, totalProducts, lowStock int64
	if err := h.DB.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Model(&models.Product{}).
		Where("stock < ?", lowStockThreshold).
		Count(&lowStock).Error; err != nil {
		return nil, err
	}

	var recentOrders []models.Order
	if err := h.DB.Preload("Items").
		Order("created_at DESC").
		Limit(5).
		Find(&recentOrders).Error; err != nil {
		return nil, err
	}

	// Group on the id alone: snapshots of the same product can disagree on
	// name or price after catalog edits, and must still rank as one product.
	var topProducts []topProduct
	if err := h.DB.Model(&models.OrderItem{}).
		Select("product_id, MAX(name) AS name, MAX(price) AS price, MAX(image) AS image, SUM(quantity) AS total_sold").
		Group("product_id").
		Order("total_sold DESC").
		Limit(5).
		Scan(&topProducts).Error; err != nil {
		return nil, err
	}

	return echo.Map{"stats": echo.Map{
		"total_revenue":      totalRevenue,
		"total_orders":       totalOrders,
		"total_users":        totalUsers,
		"total_products":     totalProducts,
		"low_stock_products": lowStock,
		"recent_orders":      recentOrders,
		"top_products":       topProducts,
	}}, nil
}

func (h *AdminHandler) GetAllUsers(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var users []models.User
	if err := h.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	// models.User serializes without the password hash.
	return echo.Map{"users": users}, nil
}

func (h *AdminHandler) GetAllOrders(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var orders []models.Order
	if err := h.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return echo.Map{"orders": orders}, nil
}

var validOrderStatuses = map[string]bool{
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var req struct {
		OrderID uint   `json:"order_id"`
		Status  string `json:"status"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}
	if !validOrderStatuses[req.Status] {
		return nil, apperr.Newf(apperr.ErrValidation, "invalid order status %q", req.Status)
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "order not found")
		}
		return nil, err
	}

	order.Status = req.Status
	if err := h.DB.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", req.Status).Error; err != nil {
		return nil, err
	}

	publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(order.UserID), map[string]any{
		"type":     "order_status_updated",
		"order_id": order.ID,
		"status":   req.Status,
	})

	return echo.Map{"message": "order status updated", "order": order}, nil
}

func (h *AdminHandler) AddProduct(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var req struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		Image       string  `json:"image"`
		Description string  `json:"description"`
		Stock       uint    `json:"stock"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.New(apperr.ErrValidation, "name is required")
	}
	if req.Price < 0 {
		return nil, apperr.New(apperr.ErrValidation, "price must be non-negative")
	}

	product := models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Description: req.Description,
		Stock:       req.Stock,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return nil, err
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(product.ID), map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return echo.Map{"product": product}, nil
}

func (h *AdminHandler) UpdateProduct(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var req struct {
		ID          uint     `json:"id"`
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		Image       *string  `json:"image"`
		Description *string  `json:"description"`
		Stock       *uint    `json:"stock"`
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

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperr.New(apperr.ErrValidation, "price must be non-negative")
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return nil, err
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(product.ID), map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return echo.Map{"message": "product updated", "product": product}, nil
}

func (h *AdminHandler) DeleteProduct(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	res := h.DB.Delete(&models.Product{}, req.ID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.ErrNotFound, "product not found")
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(req.ID), map[string]any{
		"type":       "product_deleted",
		"product_id": req.ID,
	})

	return echo.Map{"message": "product deleted"}, nil
}
