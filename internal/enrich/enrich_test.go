package enrich

import (
	"testing"
	"time"

	"horse.fit/lexwatch/internal/eurlex"
	"horse.fit/lexwatch/internal/globaltime"
	"horse.fit/lexwatch/internal/keywords"
	"horse.fit/lexwatch/internal/matcher"
)

func newTestStage() *Stage {
	m := matcher.New(keywords.Default())
	return NewStage(m, "https://eur-lex.europa.eu/")
}

func TestEnrich_CanonicalURL(t *testing.T) {
	t.Parallel()
	stage := newTestStage()

	m := matcher.New(keywords.Default())
	matched := m.FilterDocuments([]eurlex.RawRecord{{
		DocumentNumber: "32025R0101",
		Title:          "Commission Regulation on phosphate imports originating in Morocco",
	}})
	if len(matched) != 1 {
		t.Fatalf("expected 1 matched record, got %d", len(matched))
	}

	docs := stage.Enrich(matched)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	// Trailing slash on the base URL must not double up.
	want := "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=CELEX:32025R0101"
	if docs[0].CanonicalURL != want {
		t.Fatalf("unexpected canonical URL: %q", docs[0].CanonicalURL)
	}
}

func TestEnrich_NoURLWithoutDocumentNumber(t *testing.T) {
	t.Parallel()
	stage := newTestStage()

	m := matcher.New(keywords.Default())
	matched := m.FilterDocuments([]eurlex.RawRecord{{
		Title: "Commission Regulation on phosphate imports originating in Morocco",
	}})

	docs := stage.Enrich(matched)
	if docs[0].CanonicalURL != "" {
		t.Fatalf("expected no canonical URL without a document number, got %q", docs[0].CanonicalURL)
	}
}

func TestEnrich_ScrapedAt(t *testing.T) {
	globaltime.SetMockTime(time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC))
	t.Cleanup(globaltime.ResetTime)

	stage := newTestStage()
	m := matcher.New(keywords.Default())

	withTimestamp := eurlex.RawRecord{
		Title:     "Antidumping duty on phosphate imports from Morocco",
		ScrapedAt: "2025-01-01T00:00:00Z",
	}
	without := eurlex.RawRecord{
		Title: "Commission Regulation on fertilizer imports originating in Morocco",
	}

	docs := stage.Enrich(m.FilterDocuments([]eurlex.RawRecord{withTimestamp, without}))
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ScrapedAt != "2025-01-01T00:00:00Z" {
		t.Fatalf("expected existing timestamp kept, got %q", docs[0].ScrapedAt)
	}
	if docs[1].ScrapedAt != "2025-07-15T10:00:00Z" {
		t.Fatalf("expected missing timestamp filled, got %q", docs[1].ScrapedAt)
	}
}

func TestEnrich_Entities(t *testing.T) {
	t.Parallel()
	stage := newTestStage()

	m := matcher.New(keywords.Default())
	matched := m.FilterDocuments([]eurlex.RawRecord{{
		Title: "Commission Decision concerning OCP phosphate exports from Morocco",
	}})

	docs := stage.Enrich(matched)
	if len(docs[0].Companies) == 0 || docs[0].Companies[0] != "OCP" {
		t.Fatalf("expected OCP extracted as a company, got %v", docs[0].Companies)
	}
	if len(docs[0].Products) == 0 || docs[0].Products[0] != "phosphate" {
		t.Fatalf("expected phosphate extracted as a product, got %v", docs[0].Products)
	}
}
