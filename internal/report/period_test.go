package report

import (
	"testing"
	"time"

	"tatlipazar-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestBatchInWindow(t *testing.T) {
	from := datePtr(2026, 3, 1)
	to := datePtr(2026, 3, 31)

	tests := []struct {
		name    string
		start   *time.Time
		end     *time.Time
		created time.Time
		from    *time.Time
		to      *time.Time
		want    bool
	}{
		{
			name:  "dönem pencerenin içinde",
			start: datePtr(2026, 3, 10), end: datePtr(2026, 3, 20),
			from: from, to: to,
			want: true,
		},
		{
			name:  "dönem pencereyi tamamen kapsıyor",
			start: datePtr(2026, 2, 1), end: datePtr(2026, 4, 30),
			from: from, to: to,
			want: true,
		},
		{
			name:  "dönem pencereden önce bitiyor",
			start: datePtr(2026, 1, 1), end: datePtr(2026, 2, 15),
			from: from, to: to,
			want: false,
		},
		{
			name:  "dönem pencereden sonra başlıyor",
			start: datePtr(2026, 4, 5), end: datePtr(2026, 4, 20),
			from: from, to: to,
			want: false,
		},
		{
			name:  "sınır: dönem sonu tam pencere başına denk (period_end >= from)",
			start: datePtr(2026, 2, 1), end: datePtr(2026, 3, 1),
			from: from, to: to,
			want: true,
		},
		{
			name:  "sınır: dönem başı tam pencere sonuna denk (period_start <= to)",
			start: datePtr(2026, 3, 31), end: datePtr(2026, 4, 15),
			from: from, to: to,
			want: true,
		},
		{
			name:  "açık uçlu başlangıç: period_start NULL, sonu pencere içinde",
			start: nil, end: datePtr(2026, 3, 5),
			from: from, to: to,
			want: true,
		},
		{
			name:  "açık uçlu başlangıç: sonu pencereden önce",
			start: nil, end: datePtr(2026, 2, 1),
			from: from, to: to,
			want: false,
		},
		{
			name:  "açık uçlu bitiş: period_end NULL, başı pencereden önce bile olsa kesişir",
			start: datePtr(2026, 1, 1), end: nil,
			from: from, to: to,
			want: true,
		},
		{
			name:  "açık uçlu bitiş: başı pencereden sonra",
			start: datePtr(2026, 4, 10), end: nil,
			from: from, to: to,
			want: false,
		},
		{
			name:    "eski kayıt: iki uç NULL, created_at pencere içinde",
			start:   nil, end: nil,
			created: date(2026, 3, 15),
			from:    from, to: to,
			want: true,
		},
		{
			name:    "eski kayıt: created_at pencereden önce",
			start:   nil, end: nil,
			created: date(2026, 1, 10),
			from:    from, to: to,
			want: false,
		},
		{
			name:    "eski kayıt: created_at pencereden sonra",
			start:   nil, end: nil,
			created: date(2026, 5, 10),
			from:    from, to: to,
			want: false,
		},
		{
			name:  "pencere sınırsız: from ve to nil",
			start: datePtr(2026, 3, 10), end: datePtr(2026, 3, 20),
			from: nil, to: nil,
			want: true,
		},
		{
			name:  "yalnız from verildi, dönem ondan önce bitiyor",
			start: datePtr(2026, 1, 1), end: datePtr(2026, 2, 1),
			from: from, to: nil,
			want: false,
		},
		{
			name:  "yalnız to verildi, dönem ondan sonra başlıyor",
			start: datePtr(2026, 4, 10), end: nil,
			from: nil, to: to,
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := models.IngredientBatch{
				PeriodStart: tc.start,
				PeriodEnd:   tc.end,
			}
			b.CreatedAt = tc.created
			assert.Equal(t, tc.want, BatchInWindow(&b, tc.from, tc.to))
		})
	}
}
