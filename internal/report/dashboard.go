package report

import (
	"sort"
	"time"

	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"
)

type DashboardProductRow struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

type DashboardCategoryRow struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

type DashboardIngredientRow struct {
	IngredientName string  `json:"ingredient_name"`
	Unit           string  `json:"unit"`
	Quantity       float64 `json:"quantity"`
	Cost           float64 `json:"cost"`
}

type DashboardResponse struct {
	From            string                   `json:"from"`
	To              string                   `json:"to"`
	Revenue         float64                  `json:"revenue"`
	OrderCount      int                      `json:"order_count"`
	TopProducts     []DashboardProductRow    `json:"top_products"`
	ByCategory      []DashboardCategoryRow   `json:"by_category"`
	IngredientUsage []DashboardIngredientRow `json:"ingredient_usage"`
	IngredientCost  float64                  `json:"ingredient_cost"`
	Profit          float64                  `json:"profit"`
}

// Dashboard: satıcının dönem özeti. Gelir tarafı ProfitByCategory'den
// farklı join'lenir: ürün sahipliği (products.owner_id) ve sipariş tarihi
// (orders.created_at) üzerinden filtrelenir.
func Dashboard(ownerID uint, from, to time.Time) (*DashboardResponse, error) {
	type revenueRow struct {
		OrderID     uint    `gorm:"column:order_id"`
		ProductName string  `gorm:"column:product_name"`
		Category    string  `gorm:"column:category"`
		Quantity    int     `gorm:"column:quantity"`
		LineTotal   float64 `gorm:"column:line_total"`
	}

	var rows []revenueRow
	err := database.DB.Model(&models.OrderItem{}).
		Select("order_items.order_id AS order_id, products.name AS product_name, products.category AS category, order_items.quantity AS quantity, order_items.line_total AS line_total").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.owner_id = ?", ownerID).
		Where("orders.created_at >= ? AND orders.created_at <= ?", from, to).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var revenue float64
	orderIDs := make(map[uint]bool)
	byProduct := make(map[string]*DashboardProductRow)
	byCategory := make(map[string]float64)

	for _, r := range rows {
		revenue += r.LineTotal
		orderIDs[r.OrderID] = true
		byCategory[r.Category] += r.LineTotal

		p, ok := byProduct[r.ProductName]
		if !ok {
			p = &DashboardProductRow{ProductName: r.ProductName}
			byProduct[r.ProductName] = p
		}
		p.Quantity += r.Quantity
		p.Revenue += r.LineTotal
	}

	// Ürün bazında, adede göre ilk 10
	topProducts := make([]DashboardProductRow, 0, len(byProduct))
	for _, p := range byProduct {
		p.Revenue = round2(p.Revenue)
		topProducts = append(topProducts, *p)
	}
	sort.Slice(topProducts, func(i, j int) bool {
		return topProducts[i].Quantity > topProducts[j].Quantity
	})
	if len(topProducts) > 10 {
		topProducts = topProducts[:10]
	}

	// Kategori bazında, ciroya göre azalan
	categoryRows := make([]DashboardCategoryRow, 0, len(byCategory))
	for cat, rev := range byCategory {
		categoryRows = append(categoryRows, DashboardCategoryRow{Category: cat, Revenue: round2(rev)})
	}
	sort.Slice(categoryRows, func(i, j int) bool {
		return categoryRows[i].Revenue > categoryRows[j].Revenue
	})

	// Maliyet tarafı: pencereyle kesişen partiler, malzeme bazında kullanım
	var batches []models.IngredientBatch
	if err := database.DB.
		Preload("Items").
		Preload("Items.Ingredient").
		Where("owner_id = ?", ownerID).
		Find(&batches).Error; err != nil {
		return nil, err
	}

	usage := make(map[uint]*DashboardIngredientRow)
	var itemsCost float64
	var batchTotalsCost float64

	for i := range batches {
		if !BatchInWindow(&batches[i], &from, &to) {
			continue
		}
		batchTotalsCost += batches[i].TotalCost
		for _, it := range batches[i].Items {
			itemsCost += it.LineCost
			row, ok := usage[it.IngredientID]
			if !ok {
				row = &DashboardIngredientRow{
					IngredientName: it.Ingredient.Name,
					Unit:           it.Ingredient.Unit,
				}
				usage[it.IngredientID] = row
			}
			row.Quantity += it.QuantityUsed
			row.Cost += it.LineCost
		}
	}

	// Kalemsiz girilen partiler için: kalem toplamı sıfırsa partilerin
	// denormalize total_cost alanına düşülür.
	ingredientCost := itemsCost
	if ingredientCost == 0 {
		ingredientCost = batchTotalsCost
	}

	usageRows := make([]DashboardIngredientRow, 0, len(usage))
	for _, row := range usage {
		row.Cost = round2(row.Cost)
		usageRows = append(usageRows, *row)
	}
	sort.Slice(usageRows, func(i, j int) bool {
		return usageRows[i].Cost > usageRows[j].Cost
	})

	revenue = round2(revenue)
	ingredientCost = round2(ingredientCost)

	return &DashboardResponse{
		From:            from.Format("2006-01-02"),
		To:              to.Format("2006-01-02"),
		Revenue:         revenue,
		OrderCount:      len(orderIDs),
		TopProducts:     topProducts,
		ByCategory:      categoryRows,
		IngredientUsage: usageRows,
		IngredientCost:  ingredientCost,
		Profit:          round2(revenue - ingredientCost),
	}, nil
}
