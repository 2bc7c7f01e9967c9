// Package client wraps the single /api endpoint behind named methods, the
// way the storefront's service layer consumes the backend. The session
// token and the last user projection are kept on the client; expiry is only
// discovered when a call fails.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	token string
	user  *User
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// APIError is a non-2xx reply from the backend. Transport failures surface
// as ordinary errors, so callers can treat both uniformly through the
// returned error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

type User struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Stock       uint    `json:"stock"`
	Rating      float64 `json:"rating"`
	Reviews     uint    `json:"reviews"`
}

type CartEntry struct {
	ID        uint     `json:"id"`
	UserID    uint     `json:"user_id"`
	ProductID uint     `json:"product_id"`
	Quantity  uint     `json:"quantity"`
	AddedAt   int64    `json:"added_at"`
	Product   *Product `json:"product"`
}

type OrderItem struct {
	ID        uint    `json:"id"`
	OrderID   uint    `json:"order_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  uint    `json:"quantity"`
	Image     string  `json:"image"`
}

type Order struct {
	ID              uint        `json:"id"`
	Reference       string      `json:"reference"`
	UserID          uint        `json:"user_id"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Status          string      `json:"status"`
	CreatedAt       int64       `json:"created_at"`
}

type Review struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	UserID    uint   `json:"user_id"`
	Rating    uint   `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt int64  `json:"created_at"`
}

// call posts one {action, data} request and decodes the envelope into out.
func (c *Client) call(ctx context.Context, action string, data any, out any) error {
	body := map[string]any{"action": action}
	if data != nil {
		body["data"] = data
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api", bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var fail struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&fail); err != nil || fail.Error == "" {
			fail.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: fail.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var resp authResponse
	err := c.call(ctx, "register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token, c.user = resp.Token, resp.User
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	err := c.call(ctx, "login", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token, c.user = resp.Token, resp.User
	return resp.User, nil
}

// Logout drops the stored credential; there is no server-side revocation.
func (c *Client) Logout() {
	c.token, c.user = "", nil
}

func (c *Client) CurrentUser() *User    { return c.user }
func (c *Client) IsAuthenticated() bool { return c.token != "" }

// GetUserProfile fetches the caller's own record from the backend, unlike
// CurrentUser which returns the projection cached at login.
func (c *Client) GetUserProfile(ctx context.Context) (*User, error) {
	var resp struct {
		Profile *User `json:"profile"`
	}
	if err := c.call(ctx, "getUserProfile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

type ProductFilters struct {
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
	Sort     string `json:"sort,omitempty"`
}

func (c *Client) GetProducts(ctx context.Context, filters ProductFilters) ([]Product, error) {
	var resp struct {
		Products []Product `json:"products"`
	}
	if err := c.call(ctx, "getProducts", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var resp struct {
		Product *Product `json:"product"`
	}
	if err := c.call(ctx, "getProduct", map[string]uint{"id": id}, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.call(ctx, "getCategories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, page, size int) ([]Product, int64, error) {
	var resp struct {
		Total    int64     `json:"total"`
		Products []Product `json:"products"`
	}
	err := c.call(ctx, "searchProducts", map[string]any{
		"query": query, "page": page, "size": size,
	}, &resp)
	if err != nil {
		return nil, 0, err
	}
	return resp.Products, resp.Total, nil
}

func (c *Client) AddToCart(ctx context.Context, productID, quantity uint) error {
	return c.call(ctx, "addToCart", map[string]uint{
		"product_id": productID, "quantity": quantity,
	}, nil)
}

func (c *Client) GetCart(ctx context.Context) ([]CartEntry, error) {
	var resp struct {
		Cart []CartEntry `json:"cart"`
	}
	if err := c.call(ctx, "getCart", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, cartItemID uint, quantity int) error {
	return c.call(ctx, "updateCartItem", map[string]any{
		"cart_item_id": cartItemID, "quantity": quantity,
	}, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, cartItemID uint) error {
	return c.call(ctx, "removeFromCart", map[string]uint{"cart_item_id": cartItemID}, nil)
}

func (c *Client) CreateOrder(ctx context.Context, shippingAddress, paymentMethod string) (*Order, error) {
	var resp struct {
		Order *Order `json:"order"`
	}
	err := c.call(ctx, "createOrder", map[string]string{
		"shipping_address": shippingAddress, "payment_method": paymentMethod,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) GetOrders(ctx context.Context) ([]Order, error) {
	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := c.call(ctx, "getOrders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	var resp struct {
		Order *Order `json:"order"`
	}
	if err := c.call(ctx, "getOrder", map[string]uint{"order_id": orderID}, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) AddReview(ctx context.Context, productID, rating uint, comment string) error {
	return c.call(ctx, "addReview", map[string]any{
		"product_id": productID, "rating": rating, "comment": comment,
	}, nil)
}

func (c *Client) GetReviews(ctx context.Context, productID uint) ([]Review, error) {
	var resp struct {
		Reviews []Review `json:"reviews"`
	}
	if err := c.call(ctx, "getReviews", map[string]uint{"product_id": productID}, &resp); err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

func (c *Client) AddToWishlist(ctx context.Context, productID uint) error {
	return c.call(ctx, "addToWishlist", map[string]uint{"product_id": productID}, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID uint) error {
	return c.call(ctx, "removeFromWishlist", map[string]uint{"product_id": productID}, nil)
}

type WishlistEntry struct {
	ID        uint     `json:"id"`
	UserID    uint     `json:"user_id"`
	ProductID uint     `json:"product_id"`
	AddedAt   int64    `json:"added_at"`
	Product   *Product `json:"product"`
}

func (c *Client) GetWishlist(ctx context.Context) ([]WishlistEntry, error) {
	var resp struct {
		Wishlist []WishlistEntry `json:"wishlist"`
	}
	if err := c.call(ctx, "getWishlist", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Wishlist, nil
}

type TopProduct struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	TotalSold uint    `json:"total_sold"`
}

type DashboardStats struct {
	TotalRevenue     float64      `json:"total_revenue"`
	TotalOrders      int64        `json:"total_orders"`
	TotalUsers       int64        `json:"total_users"`
	TotalProducts    int64        `json:"total_products"`
	LowStockProducts int64        `json:"low_stock_products"`
	RecentOrders     []Order      `json:"recent_orders"`
	TopProducts      []TopProduct `json:"top_products"`
}

func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var resp struct {
		Stats *DashboardStats `json:"stats"`
	}
	if err := c.call(ctx, "getDashboardStats", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Stats, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	if err := c.call(ctx, "getAllUsers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) GetAllOrders(ctx context.Context) ([]Order, error) {
	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := c.call(ctx, "getAllOrders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*Order, error) {
	var resp struct {
		Order *Order `json:"order"`
	}
	err := c.call(ctx, "updateOrderStatus", map[string]any{
		"order_id": orderID, "status": status,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) AddProduct(ctx context.Context, p Product) (*Product, error) {
	var resp struct {
		Product *Product `json:"product"`
	}
	if err := c.call(ctx, "addProduct", p, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

// ProductUpdate carries a partial product edit; nil fields are left as they
// are on the server.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Description *string  `json:"description,omitempty"`
	Stock       *uint    `json:"stock,omitempty"`
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, upd ProductUpdate) (*Product, error) {
	var resp struct {
		Product *Product `json:"product"`
	}
	err := c.call(ctx, "updateProduct", struct {
		ID uint `json:"id"`
		ProductUpdate
	}{ID: id, ProductUpdate: upd}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.call(ctx, "deleteProduct", map[string]uint{"id": id}, nil)
}
