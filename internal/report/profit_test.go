package report

import (
	"testing"
	"time"

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
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Purchase{},
		&models.Ingredient{},
		&models.IngredientBatch{},
		&models.IngredientBatchItem{},
	))

	database.DB = db
}

// Satış tarafını sipariş + kalem olarak kurar; kalem satıcıya denormalize
// owner_id ile bağlanır.
func seedSale(t *testing.T, ownerID uint, productName, category string, quantity int, unitPrice float64) {
	t.Helper()

	p := models.Product{OwnerID: ownerID, Name: productName, Category: category, Unit: "adet", Price: unitPrice}
	require.NoError(t, database.DB.Create(&p).Error)

	o := models.Order{OrderNo: productName + "-order", BuyerID: 999, Status: models.OrderStatusPending, TotalAmount: float64(quantity) * unitPrice}
	require.NoError(t, database.DB.Create(&o).Error)

	item := models.OrderItem{
		OrderID:   o.ID,
		ProductID: p.ID,
		OwnerID:   ownerID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: float64(quantity) * unitPrice,
	}
	require.NoError(t, database.DB.Create(&item).Error)
}

func seedBatch(t *testing.T, ownerID uint, category string, totalCost float64, items ...models.IngredientBatchItem) *models.IngredientBatch {
	t.Helper()

	b := models.IngredientBatch{OwnerID: ownerID, Category: category, TotalCost: totalCost}
	require.NoError(t, database.DB.Create(&b).Error)

	for i := range items {
		items[i].BatchID = b.ID
		require.NoError(t, database.DB.Create(&items[i]).Error)
	}
	return &b
}

func TestProfitByCategory(t *testing.T) {
	setupTestDB(t)
	const ownerID = 1

	// Ciro: 2 x 20 TL cheesecake
	seedSale(t, ownerID, "Cheesecake", "Kekler", 2, 20)

	// Maliyet: 5 kg un x 4 TL
	flour := models.Ingredient{OwnerID: ownerID, Name: "Un", Unit: "kg", CurrentUnitPrice: 4}
	require.NoError(t, database.DB.Create(&flour).Error)
	seedBatch(t, ownerID, "Kekler", 20, models.IngredientBatchItem{
		IngredientID:      flour.ID,
		QuantityUsed:      5,
		UnitPriceSnapshot: 4,
		LineCost:          20,
	})

	result, err := ProfitByCategory(ownerID, "Kekler", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Kekler", result.Category)
	assert.Equal(t, 2, result.SoldQuantity)
	assert.Equal(t, 40.0, result.Revenue)
	assert.Equal(t, 20.0, result.IngredientCost)
	assert.Equal(t, 20.0, result.Profit)
	assert.Equal(t, 50.0, result.MarginPct)
}

func TestProfitByCategoryZeroRevenue(t *testing.T) {
	setupTestDB(t)
	const ownerID = 1

	// Satışı olmayan kategori: marj sıfıra bölünmeden 0 raporlanır
	seedBatch(t, ownerID, "Börekler", 35, models.IngredientBatchItem{
		IngredientID:      1,
		QuantityUsed:      7,
		UnitPriceSnapshot: 5,
		LineCost:          35,
	})

	result, err := ProfitByCategory(ownerID, "Börekler", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Revenue)
	assert.Equal(t, 35.0, result.IngredientCost)
	assert.Equal(t, -35.0, result.Profit)
	assert.Equal(t, 0.0, result.MarginPct)
}

func TestProfitByCategoryIsolatesOwners(t *testing.T) {
	setupTestDB(t)

	seedSale(t, 1, "Cheesecake", "Kekler", 2, 20)
	seedSale(t, 2, "Havuçlu Kek", "Kekler", 10, 30)

	result, err := ProfitByCategory(1, "Kekler", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.Revenue) // diğer satıcının cirosu karışmaz
}

func TestProfitSummaryCategoryUnion(t *testing.T) {
	setupTestDB(t)
	const ownerID = 1

	// Satışı olan ama partisi olmayan kategori
	seedSale(t, ownerID, "Baklava", "Şerbetliler", 3, 15)

	// Partisi olan ama satışı olmayan kategori
	seedBatch(t, ownerID, "Kurabiyeler", 12, models.IngredientBatchItem{
		IngredientID:      1,
		QuantityUsed:      3,
		UnitPriceSnapshot: 4,
		LineCost:          12,
	})

	// İki tarafı da olan kategori
	seedSale(t, ownerID, "Cheesecake", "Kekler", 2, 20)
	seedBatch(t, ownerID, "Kekler", 20, models.IngredientBatchItem{
		IngredientID:      1,
		QuantityUsed:      5,
		UnitPriceSnapshot: 4,
		LineCost:          20,
	})

	result, err := ProfitSummary(ownerID, nil, nil)
	require.NoError(t, err)

	// Her iki taraftaki kategorilerin birleşimi, ada göre sıralı
	require.Len(t, result, 3)
	assert.Equal(t, "Kekler", result[0].Category)
	assert.Equal(t, "Kurabiyeler", result[1].Category)
	assert.Equal(t, "Şerbetliler", result[2].Category)

	// Tek taraflı kategorilerde eksik taraf sıfır
	assert.Equal(t, 0.0, result[1].Revenue)
	assert.Equal(t, 12.0, result[1].IngredientCost)
	assert.Equal(t, 0.0, result[2].IngredientCost)
	assert.Equal(t, 45.0, result[2].Revenue)
}

func TestDashboard(t *testing.T) {
	setupTestDB(t)
	const ownerID = 1

	seedSale(t, ownerID, "Cheesecake", "Kekler", 2, 20)
	seedSale(t, ownerID, "Baklava", "Şerbetliler", 4, 15)

	flour := models.Ingredient{OwnerID: ownerID, Name: "Un", Unit: "kg", CurrentUnitPrice: 4}
	require.NoError(t, database.DB.Create(&flour).Error)
	seedBatch(t, ownerID, "Kekler", 20, models.IngredientBatchItem{
		IngredientID:      flour.ID,
		QuantityUsed:      5,
		UnitPriceSnapshot: 4,
		LineCost:          20,
	})

	now := time.Now()
	result, err := Dashboard(ownerID, now.Add(-24*time.Hour), now.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Revenue) // 40 + 60
	assert.Equal(t, 2, result.OrderCount)
	assert.Equal(t, 20.0, result.IngredientCost)
	assert.Equal(t, 80.0, result.Profit)

	require.Len(t, result.TopProducts, 2)
	assert.Equal(t, "Baklava", result.TopProducts[0].ProductName) // adede göre sıralı

	require.Len(t, result.ByCategory, 2)
	assert.Equal(t, "Şerbetliler", result.ByCategory[0].Category) // ciroya göre sıralı

	require.Len(t, result.IngredientUsage, 1)
	assert.Equal(t, "Un", result.IngredientUsage[0].IngredientName)
	assert.Equal(t, 5.0, result.IngredientUsage[0].Quantity)
}

func TestDashboardFallsBackToBatchTotals(t *testing.T) {
	setupTestDB(t)
	const ownerID = 1

	seedSale(t, ownerID, "Cheesecake", "Kekler", 2, 20)

	// Kalemsiz girilmiş parti: maliyet denormalize total_cost'tan okunur
	seedBatch(t, ownerID, "Kekler", 150)

	now := time.Now()
	result, err := Dashboard(ownerID, now.Add(-24*time.Hour), now.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 150.0, result.IngredientCost)
	assert.Equal(t, round2(40.0-150.0), result.Profit)
	assert.Empty(t, result.IngredientUsage)
}

func TestDashboardExcludesBatchesOutsideWindow(t *testing.T) {
	setupTestDB(t)
	const ownerID = 1

	seedSale(t, ownerID, "Cheesecake", "Kekler", 1, 20)

	// Geçen yıla ait dönemli parti pencereye girmez
	oldStart := date(2025, 1, 1)
	oldEnd := date(2025, 1, 31)
	b := models.IngredientBatch{OwnerID: ownerID, Category: "Kekler", PeriodStart: &oldStart, PeriodEnd: &oldEnd, TotalCost: 500}
	require.NoError(t, database.DB.Create(&b).Error)

	now := time.Now()
	result, err := Dashboard(ownerID, now.Add(-24*time.Hour), now.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.IngredientCost)
	assert.Equal(t, 20.0, result.Profit)
}
