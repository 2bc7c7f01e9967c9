package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
	CreatedAt    int64  `gorm:"not null"                 json:"created_at"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Category    string  `gorm:"index;not null"           json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Stock       uint    `json:"stock"`
	Rating      float64 `json:"rating"`
	Reviews     uint    `json:"reviews"`
}

type CartItem struct {
	ID        uint  `gorm:"primaryKey"                  json:"id"`
	UserID    uint  `gorm:"index;not null"              json:"user_id"`
	ProductID uint  `gorm:"not null"                    json:"product_id"`
	Quantity  uint  `gorm:"default:1;check:quantity>0"  json:"quantity"`
	AddedAt   int64 `gorm:"not null"                    json:"added_at"`
}

const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

type Order struct {
	ID              uint        `gorm:"primaryKey"         json:"id"`
	Reference       string      `gorm:"unique;not null"    json:"reference"`
	UserID          uint        `gorm:"index;not null"     json:"user_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Total           float64     `gorm:"not null"           json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Status          string      `gorm:"not null"           json:"status"`
	CreatedAt       int64       `gorm:"not null"           json:"created_at"`
}

// OrderItem is a frozen copy of the product at checkout time. Later catalog
// edits must not change historical orders, so nothing here reads back from
// the live product row.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null"       json:"product_id"`
	Name      string  `gorm:"not null"       json:"name"`
	Price     float64 `gorm:"not null"       json:"price"`
	Quantity  uint    `gorm:"not null"       json:"quantity"`
	Image     string  `json:"image"`
}

type Review struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	UserID    uint   `gorm:"not null"       json:"user_id"`
	Rating    uint   `gorm:"not null"       json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt int64  `gorm:"not null"       json:"created_at"`
}

type WishlistItem struct {
	ID        uint  `gorm:"primaryKey"     json:"id"`
	UserID    uint  `gorm:"index;not null" json:"user_id"`
	ProductID uint  `gorm:"not null"       json:"product_id"`
	AddedAt   int64 `gorm:"not null"       json:"added_at"`
}
