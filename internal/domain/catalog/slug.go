package catalog

import (
	"strings"
	"unicode"

	"github.com/ramenshop/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 120

// Slugify turns a title into a URL slug: accents are stripped, letters
// lower-cased and every other run of characters becomes a single dash.
// "Tonkotsu Ramen (Spicy)" -> "tonkotsu-ramen-spicy"
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimSuffix(slug[:maxSlugLength], "-")
	}
	return slug
}

// resolveSlug uses explicit when given, the slugified title otherwise
func resolveSlug(explicit, title string) (string, error) {
	slug := Slugify(explicit)
	if strings.TrimSpace(explicit) == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return "", shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	return slug, nil
}
