package catalog

import (
	"strconv"
	"strings"

	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type BulkImportResponse struct {
	CreatedCount int      `json:"created_count"`
	SkippedRows  []string `json:"skipped_rows"`
}

// parsePrice: "12,50" ve "12.50" biçimlerini kabul et.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "TL", "")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// POST /api/products/bulk-import
// XLSX dosyasından ürün listesi yükler. Beklenen kolonlar:
// ÜRÜN ADI | KATEGORİ | BİRİM | FİYAT
func BulkImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// İlk satır başlık satırıysa atla
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "ÜRÜN") || strings.Contains(firstCell, "PRODUCT") {
				startIndex = 1
			}
		}

		created := 0
		skipped := make([]string, 0)

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for i := startIndex; i < len(rows); i++ {
				row := rows[i]
				if len(row) < 4 {
					if len(row) > 0 && strings.TrimSpace(row[0]) != "" {
						skipped = append(skipped, row[0])
					}
					continue
				}

				name := strings.TrimSpace(row[0])
				category := strings.TrimSpace(row[1])
				unit := strings.TrimSpace(row[2])
				price, perr := parsePrice(row[3])

				if name == "" || category == "" || perr != nil || price <= 0 {
					if name != "" {
						skipped = append(skipped, name)
					}
					continue
				}

				product := models.Product{
					OwnerID:  userID,
					Name:     name,
					Category: category,
					Unit:     unit,
					Price:    price,
				}
				if err := tx.Create(&product).Error; err != nil {
					return err
				}
				created++
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler kaydedilemedi")
		}

		return c.JSON(BulkImportResponse{
			CreatedCount: created,
			SkippedRows:  skipped,
		})
	}
}
