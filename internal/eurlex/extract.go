package eurlex

import (
	"regexp"
	"strings"
	"time"
)

// Sector 3 CELEX numbers as they appear in result listings, e.g. 32024R0123.
var celexPattern = regexp.MustCompile(`(3\d{4}[A-Z]\d{4})`)

// Dates in listings use day-first notation with dot or slash separators.
var listingDatePattern = regexp.MustCompile(`(\d{1,2}[./]\d{1,2}[./]\d{4})`)

const maxExcerptLen = 500

// ExtractCELEX returns the first CELEX number found in text, or "".
func ExtractCELEX(text string) string {
	return celexPattern.FindString(text)
}

// ExtractPublicationDate finds the first listing date in text and converts
// it to ISO form. When the matched text does not parse as a day-first date
// the raw match is returned unchanged rather than dropped.
func ExtractPublicationDate(text string) string {
	raw := listingDatePattern.FindString(text)
	if raw == "" {
		return ""
	}
	normalized := strings.ReplaceAll(raw, ".", "/")
	day, err := time.Parse("2/1/2006", normalized)
	if err != nil {
		return raw
	}
	return day.Format("2006-01-02")
}

// ClassifyForm derives the document type code from a title, or "" when the
// title names none of the known forms.
func ClassifyForm(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "regulation"):
		return "Regulation"
	case strings.Contains(lower, "decision"):
		return "Decision"
	case strings.Contains(lower, "directive"):
		return "Directive"
	case strings.Contains(lower, "communication"):
		return "Communication"
	default:
		return ""
	}
}

// Excerpt bounds a result item's text for storage, appending an ellipsis
// when truncated.
func Excerpt(text string) string {
	if len(text) <= maxExcerptLen {
		return text
	}
	return text[:maxExcerptLen] + "..."
}
