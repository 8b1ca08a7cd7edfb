package models

import "time"

// Ingredient: satıcının malzeme kataloğu. CurrentUnitPrice günceldir ve
// değiştirilebilir; batch kalemine kopyalandıktan sonra buradaki
// değişiklikler kalemi etkilemez.
type Ingredient struct {
	ID               uint    `gorm:"primaryKey"`
	OwnerID          uint    `gorm:"index;not null"`
	Name             string  `gorm:"size:100;not null"`
	Unit             string  `gorm:"size:20;not null"` // kg, lt, adet vs.
	CurrentUnitPrice float64 `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IngredientBatch: "şu kategori için şu dönemde şu kadarlık malzeme
// harcadım" kaydı. Category serbest metindir ve raporlamada
// Product.Category ile birebir eşleştirilir. PeriodStart/PeriodEnd eski
// kayıtlarda NULL olabilir (kolonlar sonradan eklendi); raporlama o
// kayıtlar için CreatedAt'e düşer. Oluşturulduktan sonra silme dışında
// değiştirilmez.
type IngredientBatch struct {
	ID          uint       `gorm:"primaryKey"`
	OwnerID     uint       `gorm:"index;not null"`
	Category    string     `gorm:"size:100;index;not null"`
	PeriodStart *time.Time `gorm:"index"`
	PeriodEnd   *time.Time `gorm:"index"` // NULL ise açık uçlu dönem
	Notes       string     `gorm:"size:500"`
	TotalCost   float64    `gorm:"not null;default:0"` // kalem toplamı (denormalize), kalemsiz girişte elle verilir
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []IngredientBatchItem `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

// IngredientBatchItem: parti kalemi. UnitPriceSnapshot giriş anındaki
// fiyattır, Ingredient.CurrentUnitPrice sonradan değişse de güncellenmez.
type IngredientBatchItem struct {
	ID                uint `gorm:"primaryKey"`
	BatchID           uint `gorm:"index;not null"`
	IngredientID      uint `gorm:"index;not null"`
	Ingredient        Ingredient
	QuantityUsed      float64 `gorm:"not null"`
	UnitPriceSnapshot float64 `gorm:"not null"`
	LineCost          float64 `gorm:"not null"` // QuantityUsed * UnitPriceSnapshot
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
