package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
	"github.com/Skotchmaster/luxeshop/internal/dispatch"
	"github.com/Skotchmaster/luxeshop/internal/events"
	"github.com/Skotchmaster/luxeshop/internal/models"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

// CreateOrder freezes the caller's cart into an order. Snapshotting, total
// computation, order creation and cart clearing run in one transaction so a
// checkout is all-or-nothing. The total is always computed here; a
// client-supplied total is ignored.
func (h *OrderHandler) CreateOrder(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var req struct {
		ShippingAddress string `json:"shipping_address"`
		PaymentMethod   string `json:"payment_method"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	var order models.Order
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", ident.UserID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return apperr.New(apperr.ErrValidation, "cart is empty")
		}

		var total float64
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Newf(apperr.ErrValidation, "product %d is no longer available", it.ProductID)
				}
				return err
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  it.Quantity,
				Image:     p.Image,
			})
			total += p.Price * float64(it.Quantity)
		}

		order = models.Order{
			Reference:       uuid.NewString(),
			UserID:          ident.UserID,
			Items:           orderItems,
			Total:           total,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Status:          models.OrderStatusProcessing,
			CreatedAt:       time.Now().Unix(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", ident.UserID).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(ident.UserID), map[string]any{
		"type":      "order_created",
		"user_id":   ident.UserID,
		"order_id":  order.ID,
		"reference": order.Reference,
		"total":     order.Total,
	})

	return echo.Map{"order": order}, nil
}

func (h *OrderHandler) GetOrders(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var orders []models.Order
	if err := h.DB.Where("user_id = ?", ident.UserID).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return echo.Map{"orders": orders}, nil
}

func (h *OrderHandler) GetOrder(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var req struct {
		OrderID uint `json:"order_id"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	// Scoped to the caller: someone else's order id reads as absent.
	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", req.OrderID, ident.UserID).
		Preload("Items").
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "order not found")
		}
		return nil, err
	}
	return echo.Map{"order": order}, nil
}
