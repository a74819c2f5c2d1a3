// Package enrich turns matched raw records into canonical documents:
// field normalization, entity extraction, scrape timestamps and the
// canonical CELEX URL.
package enrich

import (
	"fmt"
	"strings"
	"time"

	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/globaltime"
	"horse.fit/lexwatch/internal/matcher"
)

const celexURLTemplate = "%s/legal-content/EN/TXT/?uri=CELEX:%s"

type Stage struct {
	matcher *matcher.Matcher
	baseURL string
}

func NewStage(m *matcher.Matcher, baseURL string) *Stage {
	return &Stage{matcher: m, baseURL: strings.TrimRight(baseURL, "/")}
}

// Enrich maps each matched record onto the canonical document shape.
// Missing raw fields become empty strings; a record that already carries
// a scrape timestamp keeps it.
func (s *Stage) Enrich(matched []matcher.Matched) []corpus.Document {
	now := globaltime.UTC().Format(time.RFC3339)

	docs := make([]corpus.Document, 0, len(matched))
	for _, m := range matched {
		rec := m.Record

		companies, products := s.matcher.ExtractEntities(rec)

		doc := corpus.Document{
			DocumentNumber:  rec.DocumentNumber,
			Title:           rec.Title,
			PublicationDate: rec.PublicationDate,
			Author:          rec.Author,
			Form:            rec.Form,
			Subject:         rec.Subject,
			Text:            rec.Text,
			TextExcerpt:     rec.TextExcerpt,
			OfficialJournal: rec.OfficialJournal,
			Companies:       companies,
			Products:        products,
			MatchDetails:    m.Detail,
			ScrapedAt:       rec.ScrapedAt,
		}
		if doc.ScrapedAt == "" {
			doc.ScrapedAt = now
		}
		if rec.DocumentNumber != "" {
			doc.CanonicalURL = fmt.Sprintf(celexURLTemplate, s.baseURL, rec.DocumentNumber)
		}

		docs = append(docs, doc)
	}
	return docs
}
