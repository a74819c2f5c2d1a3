package corpus

import (
	"sort"
	"time"
)

// MatchDetail records the classification outcome for one document: which
// keywords matched in each group, how many groups had at least one match,
// and up to three text snippets around the first occurrences.
type MatchDetail struct {
	MeasureKeywords      []string `json:"measure_keywords"`
	ProductKeywords      []string `json:"product_keywords"`
	PlaceCompanyKeywords []string `json:"place_company_keywords"`
	GroupsMatched        int      `json:"groups_matched"`
	TotalGroups          int      `json:"total_groups"`
	MatchedTextSnippets  []string `json:"matched_text_snippets"`
	MatchScore           int      `json:"match_score"`
}

// Document is one harvested EUR-Lex item in canonical shape.
//
// DocumentNumber (the CELEX number) is the primary identity; Title is the
// secondary identity for documents the source publishes without a number.
type Document struct {
	DocumentNumber  string      `json:"document_number"`
	Title           string      `json:"title"`
	PublicationDate string      `json:"publication_date"`
	Author          string      `json:"author"`
	Form            string      `json:"form"`
	Subject         string      `json:"subject"`
	Text            string      `json:"text"`
	TextExcerpt     string      `json:"text_excerpt"`
	OfficialJournal string      `json:"official_journal"`
	Companies       []string    `json:"companies"`
	Products        []string    `json:"products"`
	MatchDetails    MatchDetail `json:"match_details"`
	ScrapedAt       string      `json:"scraped_at"`
	CanonicalURL    string      `json:"canonical_url,omitempty"`
}

// State is the crawl watermark. A missing state file loads as the zero
// value: no watermark, no last run, zero documents.
type State struct {
	LastCheckedDate *string    `json:"last_checked_date"`
	LastRun         *time.Time `json:"last_run"`
	TotalDocuments  int        `json:"total_documents"`
}

// SortByPublicationDateDesc orders documents newest first. Publication
// dates are ISO strings, so lexicographic comparison is chronological.
// The sort is stable so equal dates keep their relative order.
func SortByPublicationDateDesc(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].PublicationDate > docs[j].PublicationDate
	})
}
