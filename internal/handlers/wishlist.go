package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
	"github.com/Skotchmaster/luxeshop/internal/dispatch"
	"github.com/Skotchmaster/luxeshop/internal/models"
)

type WishlistHandler struct {
	DB *gorm.DB
}

type wishlistEntry struct {
	models.WishlistItem
	Product *models.Product `json:"product"`
}

func (h *WishlistHandler) AddToWishlist(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "product not found")
		}
		return nil, err
	}

	var existing models.WishlistItem
	err := h.DB.Where("user_id = ? AND product_id = ?", ident.UserID, req.ProductID).First(&existing).Error
	if err == nil {
		return echo.Map{"message": "already in wishlist"}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := models.WishlistItem{
		UserID:    ident.UserID,
		ProductID: req.ProductID,
		AddedAt:   time.Now().Unix(),
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return nil, err
	}
	return echo.Map{"message": "added to wishlist"}, nil
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	res := h.DB.Where("user_id = ? AND product_id = ?", ident.UserID, req.ProductID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.ErrNotFound, "wishlist item not found")
	}
	return echo.Map{"message": "removed from wishlist"}, nil
}

func (h *WishlistHandler) GetWishlist(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var items []models.WishlistItem
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

	entries := make([]wishlistEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, wishlistEntry{WishlistItem: it, Product: productsByID[it.ProductID]})
	}
	return echo.Map{"wishlist": entries}, nil
}
