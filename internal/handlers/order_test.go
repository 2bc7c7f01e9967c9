package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/luxeshop/internal/models"
)

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	_, bearer := env.createUser("buyer@example.com", "password", "user")

	rec := env.do("createOrder", map[string]string{
		"shipping_address": "1 Main St",
		"payment_method":   "card",
	}, bearer)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "cart is empty", errorMessage(t, rec))

	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestCreateOrderSnapshotsCartAndClearsIt(t *testing.T) {
	env := newTestEnv(t)
	user, bearer := env.createUser("buyer@example.com", "password", "user")
	p1 := env.seedProduct("Mug", 10, "Home", 40)
	p2 := env.seedProduct("Plate", 20, "Home", 40)

	env.do("addToCart", map[string]uint{"product_id": p1.ID, "quantity": 2}, bearer)
	env.do("addToCart", map[string]uint{"product_id": p2.ID, "quantity": 1}, bearer)

	rec := env.do("createOrder", map[string]string{
		"shipping_address": "1 Main St",
		"payment_method":   "card",
	}, bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Order struct {
			ID        uint    `json:"id"`
			Reference string  `json:"reference"`
			Total     float64 `json:"total"`
			Status    string  `json:"status"`
			Items     []struct {
				ProductID uint    `json:"product_id"`
				Price     float64 `json:"price"`
				Quantity  uint    `json:"quantity"`
			} `json:"items"`
		} `json:"order"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Order.Reference)
	require.Equal(t, 40.0, resp.Order.Total)
	require.Equal(t, models.OrderStatusProcessing, resp.Order.Status)
	require.Len(t, resp.Order.Items, 2)

	var cartCount int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).
		Where("user_id = ?", user.ID).
		Count(&cartCount).Error)
	require.Equal(t, int64(0), cartCount)
}

func TestOrderItemsAreFrozenSnapshots(t *testing.T) {
	env := newTestEnv(t)
	_, bearer := env.createUser("buyer@example.com", "password", "user")
	p := env.seedProduct("Mug", 10, "Home", 40)

	env.do("addToCart", map[string]uint{"product_id": p.ID, "quantity": 3}, bearer)
	rec := env.do("createOrder", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Order struct {
			ID uint `json:"id"`
		} `json:"order"`
	}
	decode(t, rec, &created)

	// Edit the product after checkout; the snapshot must not move.
	require.NoError(t, env.DB.Model(&p).Update("price", 99.0).Error)

	recRead := env.do("getOrder", map[string]uint{"order_id": created.Order.ID}, bearer)
	require.Equal(t, http.StatusOK, recRead.Code)

	var resp struct {
		Order struct {
			Total float64 `json:"total"`
			Items []struct {
				Price float64 `json:"price"`
			} `json:"items"`
		} `json:"order"`
	}
	decode(t, recRead, &resp)
	require.Equal(t, 30.0, resp.Order.Total)
	require.Len(t, resp.Order.Items, 1)
	require.Equal(t, 10.0, resp.Order.Items[0].Price)
}

func TestGetOrderScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	_, bearerA := env.createUser("owner@example.com", "password", "user")
	_, bearerB := env.createUser("other@example.com", "password", "user")
	p := env.seedProduct("Mug", 10, "Home", 40)

	env.do("addToCart", map[string]uint{"product_id": p.ID}, bearerA)
	rec := env.do("createOrder", nil, bearerA)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Order struct {
			ID uint `json:"id"`
		} `json:"order"`
	}
	decode(t, rec, &created)

	recOther := env.do("getOrder", map[string]uint{"order_id": created.Order.ID}, bearerB)
	require.Equal(t, http.StatusNotFound, recOther.Code)
	require.Equal(t, "order not found", errorMessage(t, recOther))
}

func TestGetOrdersNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	user, bearer := env.createUser("buyer@example.com", "password", "user")

	older := models.Order{UserID: user.ID, Reference: "ref-old", Status: models.OrderStatusDelivered, Total: 5, CreatedAt: 100}
	newer := models.Order{UserID: user.ID, Reference: "ref-new", Status: models.OrderStatusProcessing, Total: 7, CreatedAt: 200}
	require.NoError(t, env.DB.Create(&older).Error)
	require.NoError(t, env.DB.Create(&newer).Error)

	rec := env.do("getOrders", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Orders []struct {
			Reference string `json:"reference"`
		} `json:"orders"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Orders, 2)
	require.Equal(t, "ref-new", resp.Orders[0].Reference)
	require.Equal(t, "ref-old", resp.Orders[1].Reference)
}
