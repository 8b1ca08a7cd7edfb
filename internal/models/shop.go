package models

import "time"

// Shop: satıcının vitrin profili. Ürün sahipliği kullanıcı (owner)
// üzerinden yürür, shop sadece tanıtım bilgisi taşır.
type Shop struct {
	ID          uint   `gorm:"primaryKey"`
	OwnerID     uint   `gorm:"uniqueIndex;not null"`
	Owner       User   `gorm:"foreignKey:OwnerID"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:500"`
	Address     string `gorm:"size:255"`
	Phone       string `gorm:"size:30"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
