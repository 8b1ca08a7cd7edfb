package database

import (
	"log"

	"tatlipazar-backend/internal/config"
	"tatlipazar-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// IngredientBatch migration: period_start / period_end kolonları
	// tabloya sonradan eklendi (AutoMigrate'ten ÖNCE, mevcut kayıtları
	// korumak için). Eski kayıtlarda iki kolon da NULL kalır; raporlama
	// bu kayıtlar için created_at'e düşer.
	if DB.Migrator().HasTable(&models.IngredientBatch{}) {
		if !DB.Migrator().HasColumn(&models.IngredientBatch{}, "period_start") {
			log.Println("ingredient_batches.period_start kolonu ekleniyor...")
			if err := DB.Exec("ALTER TABLE ingredient_batches ADD COLUMN period_start timestamptz").Error; err != nil {
				log.Printf("period_start eklenirken hata (zaten var olabilir): %v", err)
			}
		}
		if !DB.Migrator().HasColumn(&models.IngredientBatch{}, "period_end") {
			log.Println("ingredient_batches.period_end kolonu ekleniyor...")
			if err := DB.Exec("ALTER TABLE ingredient_batches ADD COLUMN period_end timestamptz").Error; err != nil {
				log.Printf("period_end eklenirken hata (zaten var olabilir): %v", err)
			}
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Purchase{},
		&models.Ingredient{},
		&models.IngredientBatch{},
		&models.IngredientBatchItem{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
