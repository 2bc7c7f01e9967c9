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

type ReviewHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *ReviewHandler) AddReview(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var req struct {
		ProductID uint   `json:"product_id"`
		Rating    uint   `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.New(apperr.ErrValidation, "rating must be between 1 and 5")
	}

	var review models.Review
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.ErrNotFound, "product not found")
			}
			return err
		}

		review = models.Review{
			ProductID: req.ProductID,
			UserID:    ident.UserID,
			Rating:    req.Rating,
			Comment:   req.Comment,
			CreatedAt: time.Now().Unix(),
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		// The product row carries the aggregate the storefront displays.
		var agg struct {
			Count  int64
			Rating float64
		}
		if err := tx.Model(&models.Review{}).
			Select("COUNT(*) AS count, AVG(rating) AS rating").
			Where("product_id = ?", req.ProductID).
			Scan(&agg).Error; err != nil {
			return err
		}
		return tx.Model(&product).Updates(map[string]any{
			"reviews": agg.Count,
			"rating":  agg.Rating,
		}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(req.ProductID), map[string]any{
		"type":       "review_added",
		"product_id": req.ProductID,
		"user_id":    ident.UserID,
		"rating":     req.Rating,
	})

	return echo.Map{"message": "review added", "review": review}, nil
}

func (h *ReviewHandler) GetReviews(c echo.Context, data json.RawMessage) (echo.Map, error) {
	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := h.DB.Where("product_id = ?", req.ProductID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return echo.Map{"reviews": reviews}, nil
}
