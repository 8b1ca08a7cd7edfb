package models

import "time"

// Product: satıcıya ait ürün. Category serbest metin bir etikettir;
// ingredient_batches.category ile foreign key ilişkisi yoktur, raporlamada
// birebir string karşılaştırması yapılır.
type Product struct {
	ID        uint    `gorm:"primaryKey"`
	OwnerID   uint    `gorm:"index;not null"`
	Owner     User    `gorm:"foreignKey:OwnerID"`
	Name      string  `gorm:"size:100;not null"`
	Category  string  `gorm:"size:100;index;not null"`
	Unit      string  `gorm:"size:20"` // adet, dilim, kg vs.
	Price     float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
