package report

import (
	"math"
	"sort"
	"time"

	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"
)

type CategoryProfit struct {
	Category       string `json:"category"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	SoldQuantity   int    `json:"sold_quantity"`
	Revenue        float64 `json:"revenue"`
	IngredientCost float64 `json:"ingredient_cost"`
	Profit         float64 `json:"profit"`
	MarginPct      float64 `json:"margin_pct"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type salesRow struct {
	Category  string  `gorm:"column:category"`
	Quantity  int     `gorm:"column:quantity"`
	LineTotal float64 `gorm:"column:line_total"`
}

// satış satırları: satıcının sipariş kalemleri + ürün kategorisi.
// Pencere kalem üzerinden (order_items.created_at) uygulanır.
func fetchSalesRows(ownerID uint, category *string, from, to *time.Time) ([]salesRow, error) {
	q := database.DB.Model(&models.OrderItem{}).
		Select("products.category AS category, order_items.quantity AS quantity, order_items.line_total AS line_total").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.owner_id = ?", ownerID)

	if category != nil {
		// Maliyet tarafıyla tutarlılık için birebir eşleşme; vitrin
		// tarafındaki gevşek anahtar kelime eşleşmesi burada KULLANILMAZ.
		q = q.Where("products.category = ?", *category)
	}
	if from != nil {
		q = q.Where("order_items.created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("order_items.created_at <= ?", *to)
	}

	var rows []salesRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// maliyet tarafı: pencereyle kesişen partilerin kalem toplamları,
// kategori bazında.
func fetchCostByCategory(ownerID uint, category *string, from, to *time.Time) (map[string]float64, error) {
	q := database.DB.Preload("Items").Where("owner_id = ?", ownerID)
	if category != nil {
		q = q.Where("category = ?", *category)
	}

	var batches []models.IngredientBatch
	if err := q.Find(&batches).Error; err != nil {
		return nil, err
	}

	costs := make(map[string]float64)
	for i := range batches {
		if !BatchInWindow(&batches[i], from, to) {
			continue
		}
		for _, it := range batches[i].Items {
			costs[batches[i].Category] += it.LineCost
		}
	}
	return costs, nil
}

func buildCategoryProfit(category string, soldQty int, revenue, cost float64, from, to *time.Time) CategoryProfit {
	revenue = round2(revenue)
	cost = round2(cost)
	profit := round2(revenue - cost)

	// Sıfır ciroda marj 0 raporlanır (sıfıra bölme koruması)
	marginPct := 0.0
	if revenue > 0 {
		marginPct = round2(profit / revenue * 100)
	}

	cp := CategoryProfit{
		Category:       category,
		SoldQuantity:   soldQty,
		Revenue:        revenue,
		IngredientCost: cost,
		Profit:         profit,
		MarginPct:      marginPct,
	}
	if from != nil {
		cp.From = from.Format("2006-01-02")
	}
	if to != nil {
		cp.To = to.Format("2006-01-02")
	}
	return cp
}

// ProfitByCategory: tek kategori için ciro, malzeme maliyeti ve kar.
// Ciro kesin (kalem bazlı), maliyet dönem kesişimine dayalı bir tahmindir.
func ProfitByCategory(ownerID uint, category string, from, to *time.Time) (*CategoryProfit, error) {
	rows, err := fetchSalesRows(ownerID, &category, from, to)
	if err != nil {
		return nil, err
	}

	var revenue float64
	var soldQty int
	for _, r := range rows {
		revenue += r.LineTotal
		soldQty += r.Quantity
	}

	costs, err := fetchCostByCategory(ownerID, &category, from, to)
	if err != nil {
		return nil, err
	}

	cp := buildCategoryProfit(category, soldQty, revenue, costs[category], from, to)
	return &cp, nil
}

// ProfitSummary: satış ya da maliyet tarafında görünen HER kategori için
// bir satır. Tek taraflı kategoriler (partisi olup satışı olmayan ya da
// tersi) eksik tarafı sıfır olarak yine listelenir; iki ledger'ın kategori
// anahtarlarının birleşimi alınır.
func ProfitSummary(ownerID uint, from, to *time.Time) ([]CategoryProfit, error) {
	rows, err := fetchSalesRows(ownerID, nil, from, to)
	if err != nil {
		return nil, err
	}

	type salesAgg struct {
		revenue float64
		qty     int
	}
	sales := make(map[string]salesAgg)
	for _, r := range rows {
		agg := sales[r.Category]
		agg.revenue += r.LineTotal
		agg.qty += r.Quantity
		sales[r.Category] = agg
	}

	costs, err := fetchCostByCategory(ownerID, nil, from, to)
	if err != nil {
		return nil, err
	}

	// Kategori anahtarlarının birleşimi
	categories := make(map[string]bool)
	for cat := range sales {
		categories[cat] = true
	}
	for cat := range costs {
		categories[cat] = true
	}

	result := make([]CategoryProfit, 0, len(categories))
	for cat := range categories {
		agg := sales[cat]
		result = append(result, buildCategoryProfit(cat, agg.qty, agg.revenue, costs[cat], from, to))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})

	return result, nil
}
