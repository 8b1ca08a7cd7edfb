package models

import "time"

type OrderStatus string

const (
	// Alıcı tarafı akışı: pending → processing → shipped → delivered,
	// ya da pending → cancelled.
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// Satıcı onay akışı: pending → accepted ya da pending → terminated.
	// Dışarıdan "rejected" gelir, içeride terminated olarak saklanır;
	// alıcının "cancelled" durumundan ayrı bir terminal durumdur.
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusTerminated OrderStatus = "terminated"
)

type Order struct {
	ID           uint        `gorm:"primaryKey"`
	OrderNo      string      `gorm:"size:36;uniqueIndex;not null"`
	BuyerID      uint        `gorm:"index;not null"`
	Buyer        User        `gorm:"foreignKey:BuyerID"`
	Status       OrderStatus `gorm:"size:20;not null;default:'pending'"`
	TotalAmount  float64     `gorm:"not null"` // oluşturulurken hesaplanır, sonradan yeniden hesaplanmaz
	BuyerAddress string      `gorm:"size:255"`
	BuyerPhone   string      `gorm:"size:30"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem: checkout anındaki birim fiyatın kopyası. OwnerID satıcı bazlı
// filtreleme için denormalize edilir; LineTotal saklanır ki sonradan
// yeniden hesaplanıp kayması gerekmesin.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	OwnerID   uint    `gorm:"index;not null"`
	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`
	LineTotal float64 `gorm:"not null"` // Quantity * UnitPrice
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Purchase: satıcı ciro raporları için OrderItem'ın bilinçli kopyası.
// Order üzerinden join gerektirmeden owner_id ile sorgulanır. OrderItem
// ile aynı transaction içinde yazılır ve (kısmi red akışında) silinir.
type Purchase struct {
	ID        uint `gorm:"primaryKey"`
	OwnerID   uint `gorm:"index;not null"`
	BuyerID   uint `gorm:"index;not null"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  int       `gorm:"not null"`
	UnitPrice float64   `gorm:"not null"`
	LineTotal float64   `gorm:"not null"`
	SoldAt    time.Time `gorm:"index;not null"`
}
