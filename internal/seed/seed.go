package seed

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/hash"
	"github.com/Skotchmaster/luxeshop/internal/models"
)

// EnsureAdmin creates the administrator account if it does not exist yet.
// The admin lives in the users table and logs in through the same path as
// everyone else.
func EnsureAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed: lookup admin: %w", err)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("seed: hash admin password: %w", err)
	}
	admin := models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: pwHash,
		Role:         "admin",
		CreatedAt:    time.Now().Unix(),
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed: create admin: %w", err)
	}
	return nil
}

// Products fills an empty catalog with the starter inventory.
func Products(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed: count products: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := db.Create(starterCatalog()).Error; err != nil {
		return fmt.Errorf("seed: create products: %w", err)
	}
	return nil
}

func starterCatalog() []models.Product {
	return []models.Product{
		{Name: "Premium Wireless Headphones", Price: 299.99, Category: "Electronics", Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500", Description: "High-quality wireless headphones with noise cancellation", Stock: 50, Rating: 4.5, Reviews: 128},
		{Name: "Smart Watch Pro", Price: 399.99, Category: "Electronics", Image: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500", Description: "Advanced smartwatch with health tracking features", Stock: 30, Rating: 4.7, Reviews: 256},
		{Name: "Designer Backpack", Price: 89.99, Category: "Fashion", Image: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=500", Description: "Stylish and durable backpack for everyday use", Stock: 100, Rating: 4.3, Reviews: 89},
		{Name: "Running Shoes Elite", Price: 149.99, Category: "Sports", Image: "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500", Description: "Professional running shoes with advanced cushioning", Stock: 75, Rating: 4.6, Reviews: 342},
		{Name: "Laptop Stand Aluminum", Price: 59.99, Category: "Accessories", Image: "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=500", Description: "Ergonomic laptop stand made from premium aluminum", Stock: 120, Rating: 4.4, Reviews: 67},
		{Name: "Mechanical Keyboard RGB", Price: 179.99, Category: "Electronics", Image: "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=500", Description: "Gaming mechanical keyboard with customizable RGB lighting", Stock: 45, Rating: 4.8, Reviews: 423},
		{Name: "Yoga Mat Premium", Price: 49.99, Category: "Sports", Image: "https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=500", Description: "Extra thick yoga mat with non-slip surface", Stock: 200, Rating: 4.5, Reviews: 156},
		{Name: "Coffee Maker Deluxe", Price: 129.99, Category: "Home", Image: "https://images.unsplash.com/photo-1517668808822-9ebb02f2a0e6?w=500", Description: "Programmable coffee maker with thermal carafe", Stock: 60, Rating: 4.2, Reviews: 234},
		{Name: "Sunglasses Aviator", Price: 159.99, Category: "Fashion", Image: "https://images.unsplash.com/photo-1572635196237-14b3f281503f?w=500", Description: "Classic aviator sunglasses with UV protection", Stock: 85, Rating: 4.6, Reviews: 178},
		{Name: "Portable Charger 20000mAh", Price: 39.99, Category: "Electronics", Image: "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=500", Description: "High-capacity portable charger with fast charging", Stock: 150, Rating: 4.7, Reviews: 512},
		{Name: "Desk Lamp LED", Price: 69.99, Category: "Home", Image: "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=500", Description: "Adjustable LED desk lamp with touch controls", Stock: 90, Rating: 4.4, Reviews: 145},
		{Name: "Water Bottle Insulated", Price: 34.99, Category: "Sports", Image: "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=500", Description: "Stainless steel insulated water bottle keeps drinks cold for 24h", Stock: 180, Rating: 4.8, Reviews: 289},
	}
}
