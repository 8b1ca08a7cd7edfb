package report

import (
	"strings"
	"time"

	"tatlipazar-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// Tarih parametreleri "YYYY-MM-DD" alınır ve tam gün sınırlarına
// normalize edilir: from → 00:00:00, to → 23:59:59.

func parseFromQuery(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if fromStr := c.Query("from"); fromStr != "" {
		d, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz (YYYY-MM-DD)")
		}
		from = &d
	}
	if toStr := c.Query("to"); toStr != "" {
		d, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz (YYYY-MM-DD)")
		}
		endOfDay := d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		to = &endOfDay
	}

	return from, to, nil
}

// GET /api/reports/profit-by-category?category=...&from=...&to=...
func ProfitByCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		category := strings.TrimSpace(c.Query("category"))
		if category == "" {
			return fiber.NewError(fiber.StatusBadRequest, "category zorunlu")
		}

		from, to, err := parseFromQuery(c)
		if err != nil {
			return err
		}

		result, err := ProfitByCategory(userID, category, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor hesaplanamadı")
		}

		return c.JSON(result)
	}
}

// GET /api/reports/profit-summary?from=...&to=...
func ProfitSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		from, to, err := parseFromQuery(c)
		if err != nil {
			return err
		}

		result, err := ProfitSummary(userID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor hesaplanamadı")
		}

		return c.JSON(result)
	}
}

// GET /api/reports/dashboard?from=...&to=...
// from verilmezse ay başı, to verilmezse bugünün sonu kullanılır.
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		fromPtr, toPtr, err := parseFromQuery(c)
		if err != nil {
			return err
		}

		now := time.Now()
		loc := now.Location()

		var from time.Time
		if fromPtr != nil {
			from = time.Date(fromPtr.Year(), fromPtr.Month(), fromPtr.Day(), 0, 0, 0, 0, loc)
		} else {
			from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		}

		var to time.Time
		if toPtr != nil {
			to = *toPtr
		} else {
			to = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, loc)
		}

		result, err := Dashboard(userID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard hesaplanamadı")
		}

		return c.JSON(result)
	}
}
