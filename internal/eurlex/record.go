// Package eurlex fetches candidate documents from the EUR-Lex advanced
// search and exposes them as raw records for the classification pipeline.
package eurlex

// RawRecord is one search-result item as the gateway saw it, before
// classification and enrichment. Only Title is guaranteed; every other
// field may be empty when the result markup did not carry it.
type RawRecord struct {
	DocumentNumber  string `json:"document_number,omitempty"`
	Title           string `json:"title"`
	PublicationDate string `json:"publication_date,omitempty"`
	Author          string `json:"author,omitempty"`
	Form            string `json:"form,omitempty"`
	Subject         string `json:"subject,omitempty"`
	Text            string `json:"text,omitempty"`
	TextExcerpt     string `json:"text_excerpt,omitempty"`
	OfficialJournal string `json:"official_journal,omitempty"`
	URL             string `json:"url,omitempty"`
	ScrapedAt       string `json:"scraped_at,omitempty"`
}
