package models

import "time"

type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	Address      string   `gorm:"size:255"` // sipariş formunda varsayılan olarak kullanılır
	Phone        string   `gorm:"size:30"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
