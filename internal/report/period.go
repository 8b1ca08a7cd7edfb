package report

import (
	"time"

	"tatlipazar-backend/internal/models"
)

// BatchInWindow: parti [from, to] rapor penceresine sayılır mı?
//
// Kural: (period_end NULL ya da period_end >= from) VE
//
//	(period_start NULL ya da period_start <= to)
//
// Bu iki ucu da açık olabilen bir aralık-kesişim testidir, basit bir
// kapsama kontrolü değildir. İki uç birden NULL ise kolonlar eklenmeden
// önce girilmiş eski bir kayıt söz konusudur; o zaman pencereye
// created_at üzerinden bakılır. from/to nil olduğunda o uç sınırsızdır.
func BatchInWindow(b *models.IngredientBatch, from, to *time.Time) bool {
	if b.PeriodStart == nil && b.PeriodEnd == nil {
		if from != nil && b.CreatedAt.Before(*from) {
			return false
		}
		if to != nil && b.CreatedAt.After(*to) {
			return false
		}
		return true
	}

	if from != nil && b.PeriodEnd != nil && b.PeriodEnd.Before(*from) {
		return false
	}
	if to != nil && b.PeriodStart != nil && b.PeriodStart.After(*to) {
		return false
	}
	return true
}
