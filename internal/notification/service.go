package notification

import (
	"fmt"
	"log"

	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"
)

// Bildirimler yan etkidir: yazılamazsa loglanır ve yutulur, tetikleyen
// sipariş işlemi asla geri alınmaz.

func NotifyNewOrder(sellerID, orderID uint, buyerName string) {
	n := models.Notification{
		UserID:  sellerID,
		OrderID: orderID,
		Type:    models.NotificationNewOrder,
		Message: fmt.Sprintf("%s yeni bir sipariş verdi (#%d)", buyerName, orderID),
	}
	if err := database.DB.Create(&n).Error; err != nil {
		log.Printf("Sipariş bildirimi yazılamadı (seller=%d order=%d): %v", sellerID, orderID, err)
	}
}

func NotifyStatusChange(buyerID, orderID uint, newStatus string, actorName string) {
	n := models.Notification{
		UserID:  buyerID,
		OrderID: orderID,
		Type:    models.NotificationOrderStatus,
		Message: fmt.Sprintf("Siparişinizin (#%d) durumu %s tarafından '%s' olarak güncellendi", orderID, actorName, newStatus),
	}
	if err := database.DB.Create(&n).Error; err != nil {
		log.Printf("Durum bildirimi yazılamadı (buyer=%d order=%d): %v", buyerID, orderID, err)
	}
}

func NotifyCancelled(sellerID, orderID uint, buyerName string) {
	n := models.Notification{
		UserID:  sellerID,
		OrderID: orderID,
		Type:    models.NotificationOrderCancelled,
		Message: fmt.Sprintf("%s siparişini (#%d) iptal etti", buyerName, orderID),
	}
	if err := database.DB.Create(&n).Error; err != nil {
		log.Printf("İptal bildirimi yazılamadı (seller=%d order=%d): %v", sellerID, orderID, err)
	}
}
