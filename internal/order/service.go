package order

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"tatlipazar-backend/internal/audit"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"
	"tatlipazar-backend/internal/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContactInfo struct {
	Address string
	Phone   string
}

type resolvedLine struct {
	product   models.Product
	quantity  int
	unitPrice float64
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// lockForUpdate: terminal durum kontrolü okuma-sonra-yazma olduğu için
// sipariş satırı transaction boyunca kilitlenir. SQLite FOR UPDATE
// cümlesini tanımaz; kilit yalnızca Postgres'te uygulanır.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func distinctOwners(lines []resolvedLine) []uint {
	seen := make(map[uint]bool)
	owners := make([]uint, 0, len(lines))
	for _, l := range lines {
		if !seen[l.product.OwnerID] {
			seen[l.product.OwnerID] = true
			owners = append(owners, l.product.OwnerID)
		}
	}
	return owners
}

// Checkout: alıcının sepetini tek bir atomik işlemle sipariş + sipariş
// kalemleri + ciro kayıtlarına çevirir ve sepeti boşaltır. Kalem fiyatları
// sepete eklenme anındaki fiyattır; ürünün güncel fiyatı okunMAZ (alıcıyı
// sepetteyken yapılan zamdan korur; toplamın satın alma anında bayat
// olabilmesi kabul edilmiş davranıştır).
func Checkout(buyerID uint, contact ContactInfo) (*models.Order, error) {
	var cartItems []models.CartItem
	if err := database.DB.Where("user_id = ?", buyerID).Find(&cartItems).Error; err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	// Ürünü silinmiş sepet satırları atlanır, siparişin geri kalanı bozulmaz.
	lines := make([]resolvedLine, 0, len(cartItems))
	for _, ci := range cartItems {
		var p models.Product
		if err := database.DB.First(&p, ci.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		lines = append(lines, resolvedLine{product: p, quantity: ci.Quantity, unitPrice: ci.UnitPrice})
	}
	if len(lines) == 0 {
		// Tüm satırlar ölü: sepet fiilen boş, hiçbir kayıt yazılmadan dön.
		return nil, ErrEmptyCart
	}

	return createOrder(buyerID, lines, contact, true)
}

// BuyNow: sepete uğramadan tek ürünlük sipariş. Checkout'tan farklı olarak
// fiyat ürünün O ANKİ fiyatından okunur; bu tutarsızlık bilinçli.
func BuyNow(buyerID, productID uint, quantity int, contact ContactInfo) (*models.Order, error) {
	if productID == 0 || quantity <= 0 {
		return nil, fmt.Errorf("%w: product_id ve quantity zorunlu, quantity > 0 olmalı", ErrValidation)
	}
	if strings.TrimSpace(contact.Address) == "" || strings.TrimSpace(contact.Phone) == "" {
		return nil, fmt.Errorf("%w: adres ve telefon zorunlu", ErrValidation)
	}

	var p models.Product
	if err := database.DB.First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	lines := []resolvedLine{{product: p, quantity: quantity, unitPrice: p.Price}}
	return createOrder(buyerID, lines, contact, false)
}

// createOrder: sipariş + kalemler + ciro kayıtları (+ opsiyonel sepet
// temizliği) tek transaction'da yazılır; herhangi bir adım başarısız
// olursa hiçbiri kalıcı olmaz.
func createOrder(buyerID uint, lines []resolvedLine, contact ContactInfo, clearCart bool) (*models.Order, error) {
	var total float64
	for _, l := range lines {
		total += float64(l.quantity) * l.unitPrice
	}

	created := models.Order{
		OrderNo:      uuid.NewString(),
		BuyerID:      buyerID,
		Status:       models.OrderStatusPending,
		TotalAmount:  round2(total),
		BuyerAddress: contact.Address,
		BuyerPhone:   contact.Phone,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, l := range lines {
			item := models.OrderItem{
				OrderID:   created.ID,
				ProductID: l.product.ID,
				OwnerID:   l.product.OwnerID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				LineTotal: round2(float64(l.quantity) * l.unitPrice),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			purchase := models.Purchase{
				OwnerID:   l.product.OwnerID,
				BuyerID:   buyerID,
				OrderID:   created.ID,
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				LineTotal: item.LineTotal,
				SoldAt:    now,
			}
			if err := tx.Create(&purchase).Error; err != nil {
				return err
			}
		}

		if clearCart {
			if err := tx.Where("user_id = ?", buyerID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Bildirim ve audit yan etkileri transaction dışında: yazılamazlarsa
	// sipariş geri alınmaz.
	var buyer models.User
	if err := database.DB.First(&buyer, buyerID).Error; err == nil {
		for _, ownerID := range distinctOwners(lines) {
			notification.NotifyNewOrder(ownerID, created.ID, buyer.Name)
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      buyerID,
			UserName:    buyer.Name,
			EntityType:  "order",
			EntityID:    created.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sipariş oluşturuldu: %s - %.2f TL", created.OrderNo, created.TotalAmount),
			After: map[string]interface{}{
				"order_no":     created.OrderNo,
				"total_amount": created.TotalAmount,
				"line_count":   len(lines),
			},
		}); logErr != nil {
			log.Printf("Audit log yazılamadı: %v", logErr)
		}
	}

	var result models.Order
	if err := database.DB.Preload("Items").First(&result, created.ID).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// sellerHasItems: satıcının bu siparişte en az bir kalemi var mı?
func sellerHasItems(tx *gorm.DB, orderID, sellerID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND owner_id = ?", orderID, sellerID).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatus: alıcı tarafı kelime dağarcığıyla durum günceller.
// Yetki: siparişin alıcısı ya da siparişte kalemi olan herhangi bir
// satıcı. Sıra atlamaya izin verilir.
func UpdateStatus(orderID, requesterID uint, requested models.OrderStatus) (*models.Order, error) {
	if !IsBuyerStatus(requested) {
		return nil, fmt.Errorf("%w: geçersiz durum '%s'", ErrValidation, requested)
	}

	var updated models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&updated, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if updated.BuyerID != requesterID {
			hasItems, err := sellerHasItems(tx, updated.ID, requesterID)
			if err != nil {
				return err
			}
			if !hasItems {
				return ErrUnauthorized
			}
		}

		updated.Status = requested
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}

	// Satıcının yaptığı değişiklik alıcıya bildirilir; alıcı kendi
	// siparişini güncelliyorsa kendine bildirim gitmez.
	if updated.BuyerID != requesterID {
		var actor models.User
		if err := database.DB.First(&actor, requesterID).Error; err == nil {
			notification.NotifyStatusChange(updated.BuyerID, updated.ID, string(requested), actor.Name)
		}
	}

	return &updated, nil
}

// Confirm: satıcı onay akışı. "accepted" siparişi kabul eder; "rejected"
// yalnızca isteyen satıcının kalemlerini ve ciro kayıtlarını siler (çok
// satıcılı siparişte diğerleri etkilenmez) ve siparişi terminated terminal
// durumuna çeker. Reddedilen son kalemden sonra sipariş satırı bilinçli
// olarak yerinde bırakılır: denetim izi korunur.
func Confirm(orderID, sellerID uint, input string) (*models.Order, string, error) {
	target, ok := TranslateConfirmInput(input)
	if !ok {
		return nil, "", fmt.Errorf("%w: durum 'accepted' veya 'rejected' olmalı", ErrValidation)
	}

	var updated models.Order
	noop := false

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&updated, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		// Terminal durum kontrolü kalem kontrolünden ÖNCE gelmek zorunda:
		// red, satıcının kalemlerini sildiği için tekrar denemede kalem
		// bulunamaz. Aynı terminal durumun tekrarı no-op başarıdır.
		if IsTerminal(updated.Status) {
			if updated.Status == target {
				noop = true
				return nil
			}
			return ErrOrderFinalized
		}

		hasItems, err := sellerHasItems(tx, updated.ID, sellerID)
		if err != nil {
			return err
		}
		if !hasItems {
			return ErrUnauthorized
		}

		if target == models.OrderStatusTerminated {
			if err := tx.Where("order_id = ? AND owner_id = ?", updated.ID, sellerID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ? AND owner_id = ?", updated.ID, sellerID).
				Delete(&models.Purchase{}).Error; err != nil {
				return err
			}
		}

		updated.Status = target
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, "", err
	}

	message := fmt.Sprintf("Sipariş '%s' olarak güncellendi", input)
	if noop {
		return &updated, message, nil
	}

	var seller models.User
	if err := database.DB.First(&seller, sellerID).Error; err == nil {
		notification.NotifyStatusChange(updated.BuyerID, updated.ID, input, seller.Name)

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      sellerID,
			UserName:    seller.Name,
			EntityType:  "order",
			EntityID:    updated.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Sipariş onayı: %s → %s", updated.OrderNo, input),
		}); logErr != nil {
			log.Printf("Audit log yazılamadı: %v", logErr)
		}
	}

	return &updated, message, nil
}

// Cancel: yalnızca alıcı ve yalnızca pending durumdayken.
func Cancel(orderID, buyerID uint) (*models.Order, error) {
	var updated models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&updated, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if updated.BuyerID != buyerID {
			return ErrUnauthorized
		}
		if updated.Status != models.OrderStatusPending {
			return ErrInvalidState
		}

		updated.Status = models.OrderStatusCancelled
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}

	// Siparişteki her satıcıya bir kez haber ver
	var items []models.OrderItem
	if err := database.DB.Where("order_id = ?", updated.ID).Find(&items).Error; err == nil {
		var buyer models.User
		if err := database.DB.First(&buyer, buyerID).Error; err == nil {
			seen := make(map[uint]bool)
			for _, it := range items {
				if seen[it.OwnerID] {
					continue
				}
				seen[it.OwnerID] = true
				notification.NotifyCancelled(it.OwnerID, updated.ID, buyer.Name)
			}
		}
	}

	return &updated, nil
}
