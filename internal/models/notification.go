package models

import "time"

type NotificationType string

const (
	NotificationNewOrder       NotificationType = "new_order"
	NotificationOrderStatus    NotificationType = "order_status"
	NotificationOrderCancelled NotificationType = "order_cancelled"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"index;not null"` // bildirimi görecek kullanıcı
	OrderID   uint             `gorm:"index"`
	Type      NotificationType `gorm:"size:30;not null"`
	Message   string           `gorm:"size:255;not null"`
	IsRead    bool             `gorm:"default:false"`
	CreatedAt time.Time
}
