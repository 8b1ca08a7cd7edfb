package models

import "time"

// CartItem: (user, product) başına en fazla bir satır. UnitPrice sepete
// ekleme anında üründen kopyalanır; ürün fiyatı sonradan değişse de bu
// satır eski fiyatı taşımaya devam eder.
type CartItem struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Product   Product
	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"` // ekleme anındaki fiyat
	CreatedAt time.Time
	UpdatedAt time.Time
}
