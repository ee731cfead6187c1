package models

import "strings"

// LocalizedText maps a locale code ("de", "tr", "en") to a display string.
// Stored as a jsonb object in the "ad" columns.
type LocalizedText map[string]string

// Resolve returns the text for locale, then for each fallback locale in order,
// then fallbackKey when nothing matched.
func (t LocalizedText) Resolve(locale string, fallbacks []string, fallbackKey string) string {
	if v := strings.TrimSpace(t[locale]); v != "" {
		return v
	}
	for _, fb := range fallbacks {
		if v := strings.TrimSpace(t[fb]); v != "" {
			return v
		}
	}
	return fallbackKey
}
