package export

import (
	"strings"

	"horse.fit/lexwatch/internal/corpus"
)

// Filter narrows an export or a dashboard listing. All criteria are
// conjunctive; empty criteria match everything. Date bounds compare the
// ISO publication date lexicographically, substring criteria are
// case-insensitive, and Search runs over title and text.
type Filter struct {
	StartDate string
	EndDate   string
	Author    string
	Company   string
	Product   string
	Search    string
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

func Apply(docs []corpus.Document, f Filter) []corpus.Document {
	if f.IsZero() {
		return docs
	}

	author := strings.ToLower(f.Author)
	company := strings.ToLower(f.Company)
	product := strings.ToLower(f.Product)
	search := strings.ToLower(f.Search)

	filtered := make([]corpus.Document, 0, len(docs))
	for _, doc := range docs {
		if f.StartDate != "" && doc.PublicationDate < f.StartDate {
			continue
		}
		if f.EndDate != "" && doc.PublicationDate > f.EndDate {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(doc.Author), author) {
			continue
		}
		if company != "" && !containsSubstring(doc.Companies, company) {
			continue
		}
		if product != "" && !containsSubstring(doc.Products, product) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(doc.Title), search) &&
			!strings.Contains(strings.ToLower(doc.Text), search) {
			continue
		}
		filtered = append(filtered, doc)
	}
	return filtered
}

func containsSubstring(values []string, lowered string) bool {
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), lowered) {
			return true
		}
	}
	return false
}
