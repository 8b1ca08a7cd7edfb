package catalog

import "strings"

// İki ayrı kategori eşleştirme stratejisi var ve bilinçli olarak ayrı
// tutuluyor: vitrin/arama tarafı gevşek anahtar kelime eşleşmesi kullanır,
// maliyet raporlaması ise parti kategorisiyle birebir eşleşme ister.
// Birleştirilmemeli; raporların doğruluğu birebir eşleşmeye bağlı.

var turkishReplacer = strings.NewReplacer(
	"ı", "i", "İ", "i",
	"ş", "s", "Ş", "s",
	"ğ", "g", "Ğ", "g",
	"ü", "u", "Ü", "u",
	"ö", "o", "Ö", "o",
	"ç", "c", "Ç", "c",
)

// normalizeCategory: küçük harfe indir, Türkçe karakterleri sadeleştir,
// kenar boşluklarını at.
func normalizeCategory(s string) string {
	s = turkishReplacer.Replace(s)
	return strings.ToLower(strings.TrimSpace(s))
}

// CategoryMatchesKeyword: vitrin tarafı gevşek eşleşme. "çikolatalı kek"
// kategorisi "kek" anahtar kelimesiyle eşleşir.
func CategoryMatchesKeyword(category, keyword string) bool {
	keyword = normalizeCategory(keyword)
	if keyword == "" {
		return true
	}
	return strings.Contains(normalizeCategory(category), keyword)
}

// CategoryEquals: maliyet raporlaması için birebir eşleşme.
func CategoryEquals(a, b string) bool {
	return a == b
}
