package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
	"github.com/Skotchmaster/luxeshop/internal/dispatch"
	"github.com/Skotchmaster/luxeshop/internal/events"
	"github.com/Skotchmaster/luxeshop/internal/models"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

// cartEntry joins a cart row with the live product. Price and stock reflect
// the catalog now, not what was true when the row was added.
type cartEntry struct {
	models.CartItem
	Product *models.Product `json:"product"`
}

func (h *CartHandler) AddToCart(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "product not found")
		}
		return nil, err
	}

	var item models.CartItem
	tx := h.DB.Where("user_id = ? AND product_id = ?", ident.UserID, req.ProductID).First(&item)
	if tx.Error == nil {
		item.Quantity += req.Quantity
		if err := h.DB.Save(&item).Error; err != nil {
			return nil, err
		}
	} else if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		item = models.CartItem{
			UserID:    ident.UserID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			AddedAt:   time.Now().Unix(),
		}
		if err := h.DB.Create(&item).Error; err != nil {
			return nil, err
		}
	} else {
		return nil, tx.Error
	}

	publish(c, h.Producer, events.TopicCartEvents, fmt.Sprint(ident.UserID), map[string]any{
		"type":       "cart_item_added",
		"user_id":    ident.UserID,
		"product_id": req.ProductID,
		"quantity":   item.Quantity,
	})

	return echo.Map{"message": "added to cart", "item": item}, nil
}

func (h *CartHandler) GetCart(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var items []models.CartItem
	if err := h.DB.Where("user_id = ?", ident.UserID).Order("added_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	productsByID := make(map[uint]*models.Product, len(ids))
	if len(ids) > 0 {
		var products []models.Product
		if err := h.DB.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, err
		}
		for i := range products {
			productsByID[products[i].ID] = &products[i]
		}
	}

	entries := make([]cartEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, cartEntry{CartItem: it, Product: productsByID[it.ProductID]})
	}
	return echo.Map{"cart": entries}, nil
}

func (h *CartHandler) UpdateCartItem(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var req struct {
		CartItemID uint `json:"cart_item_id"`
		Quantity   int  `json:"quantity"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := h.DB.Where("id = ? AND user_id = ?", req.CartItemID, ident.UserID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "cart item not found")
		}
		return nil, err
	}

	// Quantity below one means the caller no longer wants the product.
	if req.Quantity < 1 {
		if err := h.DB.Delete(&item).Error; err != nil {
			return nil, err
		}
		return echo.Map{"message": "item removed from cart"}, nil
	}

	item.Quantity = uint(req.Quantity)
	if err := h.DB.Save(&item).Error; err != nil {
		return nil, err
	}

	publish(c, h.Producer, events.TopicCartEvents, fmt.Sprint(ident.UserID), map[string]any{
		"type":         "cart_item_updated",
		"user_id":      ident.UserID,
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	return echo.Map{"message": "cart updated", "item": item}, nil
}

func (h *CartHandler) RemoveFromCart(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var req struct {
		CartItemID uint `json:"cart_item_id"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	res := h.DB.Where("id = ? AND user_id = ?", req.CartItemID, ident.UserID).Delete(&models.CartItem{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.ErrNotFound, "cart item not found")
	}

	publish(c, h.Producer, events.TopicCartEvents, fmt.Sprint(ident.UserID), map[string]any{
		"type":         "cart_item_removed",
		"user_id":      ident.UserID,
		"cart_item_id": req.CartItemID,
	})

	return echo.Map{"message": "item removed from cart"}, nil
}
