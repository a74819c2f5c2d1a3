// Package export renders read-only views of the corpus: filtered
// listings and the fixed-column CSV table.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"horse.fit/lexwatch/internal/corpus"
)

const maxCSVExcerptLen = 200

var csvHeader = []string{
	"Publication Date", "Title", "Type", "Document Number", "Author", "URL",
	"Companies", "Products", "Excerpt", "Scraped At",
	"Measure Keywords", "Product Keywords", "Place/Company Keywords",
	"Groups Matched", "Total Groups", "Matched Text Snippets",
}

// CSV renders documents as an RFC 4180 table with the fixed header.
// No documents means empty output, not a header-only table.
func CSV(docs []corpus.Document) (string, error) {
	if len(docs) == 0 {
		return "", nil
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, doc := range docs {
		if err := writer.Write(csvRow(doc)); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

func csvRow(doc corpus.Document) []string {
	detail := doc.MatchDetails
	return []string{
		doc.PublicationDate,
		flattenLines(doc.Title),
		doc.Form,
		doc.DocumentNumber,
		doc.Author,
		doc.CanonicalURL,
		strings.Join(doc.Companies, "; "),
		strings.Join(doc.Products, "; "),
		truncate(flattenLines(doc.TextExcerpt), maxCSVExcerptLen),
		doc.ScrapedAt,
		strings.Join(detail.MeasureKeywords, "; "),
		strings.Join(detail.ProductKeywords, "; "),
		strings.Join(detail.PlaceCompanyKeywords, "; "),
		strconv.Itoa(detail.GroupsMatched),
		strconv.Itoa(detail.TotalGroups),
		strings.Join(detail.MatchedTextSnippets, "; "),
	}
}

func flattenLines(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.ReplaceAll(value, "\n", " ")
}

func truncate(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen]
}
