// Package stats computes read-only summaries over the corpus. Aggregation
// never fails: an empty corpus yields zeroed structures.
package stats

import (
	"sort"
	"time"

	"horse.fit/lexwatch/internal/corpus"
)

// NameCount is one row of a frequency table. Tables are ordered slices
// because JSON objects cannot carry the descending-by-count order.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DateRange struct {
	Earliest string `json:"earliest,omitempty"`
	Latest   string `json:"latest,omitempty"`
}

type Summary struct {
	TotalDocuments  int         `json:"total_documents"`
	LastRun         *time.Time  `json:"last_run"`
	LastCheckedDate *string     `json:"last_checked_date"`
	DateRange       DateRange   `json:"date_range"`
	DocumentTypes   []NameCount `json:"document_types"`
	Authors         []NameCount `json:"authors"`
	Companies       []NameCount `json:"companies"`
	Products        []NameCount `json:"products"`
}

// Aggregate builds the corpus summary: total count, publication date
// bounds over non-empty dates, and descending frequency tables for
// document type, author, company and product.
func Aggregate(docs []corpus.Document, state corpus.State) Summary {
	summary := Summary{
		TotalDocuments:  len(docs),
		LastRun:         state.LastRun,
		LastCheckedDate: state.LastCheckedDate,
		DocumentTypes:   []NameCount{},
		Authors:         []NameCount{},
		Companies:       []NameCount{},
		Products:        []NameCount{},
	}
	if len(docs) == 0 {
		return summary
	}

	types := make(map[string]int)
	authors := make(map[string]int)
	companies := make(map[string]int)
	products := make(map[string]int)

	for _, doc := range docs {
		if doc.PublicationDate != "" {
			if summary.DateRange.Earliest == "" || doc.PublicationDate < summary.DateRange.Earliest {
				summary.DateRange.Earliest = doc.PublicationDate
			}
			if doc.PublicationDate > summary.DateRange.Latest {
				summary.DateRange.Latest = doc.PublicationDate
			}
		}

		types[orUnknown(doc.Form)]++
		authors[orUnknown(doc.Author)]++
		for _, company := range doc.Companies {
			companies[company]++
		}
		for _, product := range doc.Products {
			products[product]++
		}
	}

	summary.DocumentTypes = toSortedTable(types)
	summary.Authors = toSortedTable(authors)
	summary.Companies = toSortedTable(companies)
	summary.Products = toSortedTable(products)
	return summary
}

func orUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}

// toSortedTable orders by count descending, name ascending on ties so the
// output is deterministic.
func toSortedTable(counts map[string]int) []NameCount {
	table := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		table = append(table, NameCount{Name: name, Count: count})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Count == table[j].Count {
			return table[i].Name < table[j].Name
		}
		return table[i].Count > table[j].Count
	})
	return table
}
