package order

import "tatlipazar-backend/internal/models"

// Aynı status kolonu üzerinde iki ayrı kelime dağarcığı yaşıyor:
//
//   - Alıcı tarafı: pending → processing → shipped → delivered ya da
//     pending → cancelled. Sıra atlamak (ör. pending → delivered) kabul
//     edilir; akış bilinçli olarak gevşek bırakıldı, sıkılaştırılmamalı.
//   - Satıcı onayı: girdi "accepted" ya da "rejected". "rejected" dışa
//     dönük addır, içeride terminated terminal durumuna çevrilir;
//     alıcının "cancelled" durumuyla eş anlamlı değildir.

const (
	ConfirmAccepted = "accepted"
	ConfirmRejected = "rejected"
)

var buyerStatuses = map[models.OrderStatus]bool{
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// IsBuyerStatus: alıcı tarafı kelime dağarcığında geçerli bir hedef mi?
func IsBuyerStatus(s models.OrderStatus) bool {
	return buyerStatuses[s]
}

// IsTerminal: satıcı onay akışının terminal durumları. Terminal bir
// siparişe farklı bir durum istenirse işlem reddedilir; aynı terminal
// durumun tekrarı no-op olarak başarılıdır.
func IsTerminal(s models.OrderStatus) bool {
	return s == models.OrderStatusAccepted || s == models.OrderStatusTerminated
}

// TranslateConfirmInput: satıcı onay girdisini saklanan duruma çevir.
func TranslateConfirmInput(input string) (models.OrderStatus, bool) {
	switch input {
	case ConfirmAccepted:
		return models.OrderStatusAccepted, true
	case ConfirmRejected:
		return models.OrderStatusTerminated, true
	}
	return "", false
}
