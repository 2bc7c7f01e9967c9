package handlers

import (
	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/dispatch"
	"github.com/Skotchmaster/luxeshop/internal/events"
)

type Deps struct {
	DB        *gorm.DB
	Producer  *events.Producer
	ES        *elasticsearch.Client
	ESIndex   string
	JWTSecret []byte
}

// Register builds the handlers and binds every action to the dispatcher
// with its access level. This table is the whole authorization surface: an
// action is admin-only because it is declared so here, not because the
// handler re-checks the role.
func Register(d *dispatch.Dispatcher, deps Deps) {
	auth := &AuthHandler{DB: deps.DB, JWTSecret: deps.JWTSecret, Producer: deps.Producer}
	product := &ProductHandler{DB: deps.DB, ES: deps.ES, Index: deps.ESIndex}
	cart := &CartHandler{DB: deps.DB, Producer: deps.Producer}
	order := &OrderHandler{DB: deps.DB, Producer: deps.Producer}
	review := &ReviewHandler{DB: deps.DB, Producer: deps.Producer}
	wishlist := &WishlistHandler{DB: deps.DB}
	admin := &AdminHandler{DB: deps.DB, Producer: deps.Producer}

	d.Register("register", dispatch.AccessPublic, auth.Register)
	d.Register("login", dispatch.AccessPublic, auth.Login)
	d.Register("getProducts", dispatch.AccessPublic, product.GetProducts)
	d.Register("getProduct", dispatch.AccessPublic, product.GetProduct)
	d.Register("getCategories", dispatch.AccessPublic, product.GetCategories)
	d.Register("searchProducts", dispatch.AccessPublic, product.SearchProducts)
	d.Register("getReviews", dispatch.AccessPublic, review.GetReviews)

	d.Register("getUserProfile", dispatch.AccessUser, auth.Profile)
	d.Register("addToCart", dispatch.AccessUser, cart.AddToCart)
	d.Register("getCart", dispatch.AccessUser, cart.GetCart)
	d.Register("updateCartItem", dispatch.AccessUser, cart.UpdateCartItem)
	d.Register("removeFromCart", dispatch.AccessUser, cart.RemoveFromCart)
	d.Register("createOrder", dispatch.AccessUser, order.CreateOrder)
	d.Register("getOrders", dispatch.AccessUser, order.GetOrders)
	d.Register("getOrder", dispatch.AccessUser, order.GetOrder)
	d.Register("addReview", dispatch.AccessUser, review.AddReview)
	d.Register("addToWishlist", dispatch.AccessUser, wishlist.AddToWishlist)
	d.Register("removeFromWishlist", dispatch.AccessUser, wishlist.RemoveFromWishlist)
	d.Register("getWishlist", dispatch.AccessUser, wishlist.GetWishlist)

	d.Register("getDashboardStats", dispatch.AccessAdmin, admin.GetDashboardStats)
	d.Register("getAllUsers", dispatch.AccessAdmin, admin.GetAllUsers)
	d.Register("getAllOrders", dispatch.AccessAdmin, admin.GetAllOrders)
	d.Register("updateOrderStatus", dispatch.AccessAdmin, admin.UpdateOrderStatus)
	d.Register("addProduct", dispatch.AccessAdmin, admin.AddProduct)
	d.Register("updateProduct", dispatch.AccessAdmin, admin.UpdateProduct)
	d.Register("deleteProduct", dispatch.AccessAdmin, admin.DeleteProduct)
}
