package order

import (
	"fmt"
	"testing"

	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Purchase{},
		&models.Notification{},
		&models.AuditLog{},
	))

	database.DB = db
}

func createTestUser(t *testing.T, name string, role models.UserRole) *models.User {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@test.local", name),
		PasswordHash: "x",
		Role:         role,
		Address:      "Test Mah. No:1",
		Phone:        "05550000000",
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return &u
}

func createTestProduct(t *testing.T, ownerID uint, name, category string, price float64) *models.Product {
	t.Helper()
	p := models.Product{
		OwnerID:  ownerID,
		Name:     name,
		Category: category,
		Unit:     "adet",
		Price:    price,
	}
	require.NoError(t, database.DB.Create(&p).Error)
	return &p
}

func addToTestCart(t *testing.T, userID, productID uint, quantity int, unitPrice float64) {
	t.Helper()
	ci := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	require.NoError(t, database.DB.Create(&ci).Error)
}

func testContact() ContactInfo {
	return ContactInfo{Address: "Teslimat Mah. No:5", Phone: "05551112233"}
}

func TestCheckoutUsesSnapshotPrice(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	// Sepete 8 TL'den eklendi, ürün sonradan 12 TL'ye zamlandı
	p := createTestProduct(t, seller.ID, "Cheesecake", "Kekler", 8)
	addToTestCart(t, buyer.ID, p.ID, 3, 8)
	require.NoError(t, database.DB.Model(p).Update("price", 12).Error)

	created, err := Checkout(buyer.ID, testContact())
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.NotEmpty(t, created.OrderNo)
	assert.Equal(t, 24.0, created.TotalAmount) // 3 x 8, güncel fiyat değil

	require.Len(t, created.Items, 1)
	assert.Equal(t, 8.0, created.Items[0].UnitPrice)
	assert.Equal(t, 24.0, created.Items[0].LineTotal)
	assert.Equal(t, seller.ID, created.Items[0].OwnerID)

	// Ciro kaydı kalemle aynı değerleri taşır
	var purchases []models.Purchase
	require.NoError(t, database.DB.Where("order_id = ?", created.ID).Find(&purchases).Error)
	require.Len(t, purchases, 1)
	assert.Equal(t, seller.ID, purchases[0].OwnerID)
	assert.Equal(t, buyer.ID, purchases[0].BuyerID)
	assert.Equal(t, 24.0, purchases[0].LineTotal)

	// Sepet boşaltıldı
	var cartCount int64
	database.DB.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount)
	assert.Equal(t, int64(0), cartCount)

	// Her satıcıya bildirim düştü
	var notifCount int64
	database.DB.Model(&models.Notification{}).Where("user_id = ?", seller.ID).Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)
}

func TestCheckoutEmptyCart(t *testing.T) {
	setupTestDB(t)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	_, err := Checkout(buyer.ID, testContact())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutSkipsDeadLines(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	alive := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	dead := createTestProduct(t, seller.ID, "Kurabiye", "Kurabiyeler", 5)
	addToTestCart(t, buyer.ID, alive.ID, 2, 15)
	addToTestCart(t, buyer.ID, dead.ID, 4, 5)

	// Ürünlerden biri sepete eklendikten sonra silinmiş
	require.NoError(t, database.DB.Delete(dead).Error)

	created, err := Checkout(buyer.ID, testContact())
	require.NoError(t, err)

	require.Len(t, created.Items, 1)
	assert.Equal(t, alive.ID, created.Items[0].ProductID)
	assert.Equal(t, 30.0, created.TotalAmount)
}

func TestCheckoutAllLinesDead(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	dead := createTestProduct(t, seller.ID, "Kurabiye", "Kurabiyeler", 5)
	addToTestCart(t, buyer.ID, dead.ID, 4, 5)
	require.NoError(t, database.DB.Delete(dead).Error)

	_, err := Checkout(buyer.ID, testContact())
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Hiçbir kayıt yazılmadı
	var orderCount int64
	database.DB.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)
}

func TestCheckoutAtomicity(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Ekler", "Pastalar", 10)
	addToTestCart(t, buyer.ID, p.ID, 2, 10)

	// Ciro kaydı yazımını bilerek bozarak transaction'ın tamamının geri
	// alındığını doğrula
	require.NoError(t, database.DB.Migrator().DropTable(&models.Purchase{}))

	_, err := Checkout(buyer.ID, testContact())
	require.Error(t, err)

	var orderCount, itemCount, cartCount int64
	database.DB.Model(&models.Order{}).Count(&orderCount)
	database.DB.Model(&models.OrderItem{}).Count(&itemCount)
	database.DB.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount)

	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)
	assert.Equal(t, int64(1), cartCount) // sepet yerinde duruyor
}

func TestBuyNowUsesCurrentPrice(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Profiterol", "Pastalar", 18)

	created, err := BuyNow(buyer.ID, p.ID, 2, testContact())
	require.NoError(t, err)

	assert.Equal(t, 36.0, created.TotalAmount)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 18.0, created.Items[0].UnitPrice)
}

func TestBuyNowValidation(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)
	p := createTestProduct(t, seller.ID, "Profiterol", "Pastalar", 18)

	_, err := BuyNow(buyer.ID, p.ID, 0, testContact())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = BuyNow(buyer.ID, p.ID, 1, ContactInfo{Address: "", Phone: "05551112233"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = BuyNow(buyer.ID, 99999, 1, testContact())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestBuyNowLeavesCartAlone(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	other := createTestProduct(t, seller.ID, "Kurabiye", "Kurabiyeler", 5)
	addToTestCart(t, buyer.ID, other.ID, 3, 5)

	p := createTestProduct(t, seller.ID, "Profiterol", "Pastalar", 18)
	_, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	var cartCount int64
	database.DB.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount)
	assert.Equal(t, int64(1), cartCount)
}

func TestUpdateStatusSkipAllowed(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	created, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	// pending → delivered: ara adımlar zorunlu değil
	updated, err := UpdateStatus(created.ID, buyer.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
}

func TestUpdateStatusRejectsConfirmVocabulary(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	created, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	// Onay akışının kelimeleri bu uçtan kabul edilmez
	_, err = UpdateStatus(created.ID, buyer.ID, models.OrderStatusAccepted)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)
	stranger := createTestUser(t, "yabanci", models.RoleSeller)

	p := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	created, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	// Siparişte kalemi olmayan satıcı dokunamaz
	_, err = UpdateStatus(created.ID, stranger.ID, models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Kalem sahibi satıcı güncelleyebilir ve alıcıya bildirim düşer
	_, err = UpdateStatus(created.ID, seller.ID, models.OrderStatusShipped)
	require.NoError(t, err)

	var notifCount int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", buyer.ID, models.NotificationOrderStatus).
		Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)
}

func TestConfirmAcceptAndIdempotentRepeat(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	created, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	updated, _, err := Confirm(created.ID, seller.ID, ConfirmAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, updated.Status)

	// Aynı terminal durumun tekrarı no-op başarı
	updated, _, err = Confirm(created.ID, seller.ID, ConfirmAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, updated.Status)

	// Terminal durumdan farklı duruma çekilemez
	_, _, err = Confirm(created.ID, seller.ID, ConfirmRejected)
	assert.ErrorIs(t, err, ErrOrderFinalized)
}

func TestConfirmRejectIdempotentRepeat(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	created, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	updated, _, err := Confirm(created.ID, seller.ID, ConfirmRejected)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusTerminated, updated.Status)

	// Red, satıcının kalemlerini sildi; tekrar denemesi yine de no-op
	// başarı olmalı, yetki hatası değil
	updated, _, err = Confirm(created.ID, seller.ID, ConfirmRejected)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusTerminated, updated.Status)

	// Farklı terminal duruma çekilemez
	_, _, err = Confirm(created.ID, seller.ID, ConfirmAccepted)
	assert.ErrorIs(t, err, ErrOrderFinalized)
}

func TestConfirmRejectedPartial(t *testing.T) {
	setupTestDB(t)
	sellerA := createTestUser(t, "saticiA", models.RoleSeller)
	sellerB := createTestUser(t, "saticiB", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	pa := createTestProduct(t, sellerA.ID, "Baklava", "Şerbetliler", 15)
	pb := createTestProduct(t, sellerB.ID, "Cheesecake", "Kekler", 20)
	addToTestCart(t, buyer.ID, pa.ID, 1, 15)
	addToTestCart(t, buyer.ID, pb.ID, 1, 20)

	created, err := Checkout(buyer.ID, testContact())
	require.NoError(t, err)
	require.Len(t, created.Items, 2)

	// A reddediyor: yalnızca A'nın kalemi ve ciro kaydı silinir
	updated, _, err := Confirm(created.ID, sellerA.ID, ConfirmRejected)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusTerminated, updated.Status)

	var items []models.OrderItem
	require.NoError(t, database.DB.Where("order_id = ?", created.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, sellerB.ID, items[0].OwnerID)

	var purchases []models.Purchase
	require.NoError(t, database.DB.Where("order_id = ?", created.ID).Find(&purchases).Error)
	require.Len(t, purchases, 1)
	assert.Equal(t, sellerB.ID, purchases[0].OwnerID)

	// Son kalem de silinse sipariş satırı yerinde kalır
	var orderRow models.Order
	assert.NoError(t, database.DB.First(&orderRow, created.ID).Error)
}

func TestConfirmUnauthorized(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	stranger := createTestUser(t, "yabanci", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	created, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	_, _, err = Confirm(created.ID, stranger.ID, ConfirmAccepted)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = Confirm(created.ID, seller.ID, "maybe")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancel(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)
	other := createTestUser(t, "baskasi", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	created, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	// Alıcı olmayan iptal edemez
	_, err = Cancel(created.ID, other.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	updated, err := Cancel(created.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)

	// Satıcıya iptal bildirimi düştü
	var notifCount int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", seller.ID, models.NotificationOrderCancelled).
		Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)
}

func TestCancelOnlyPending(t *testing.T) {
	setupTestDB(t)
	seller := createTestUser(t, "satici", models.RoleSeller)
	buyer := createTestUser(t, "alici", models.RoleBuyer)

	p := createTestProduct(t, seller.ID, "Baklava", "Şerbetliler", 15)
	created, err := BuyNow(buyer.ID, p.ID, 1, testContact())
	require.NoError(t, err)

	_, err = UpdateStatus(created.ID, buyer.ID, models.OrderStatusProcessing)
	require.NoError(t, err)

	_, err = Cancel(created.ID, buyer.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}
