package stats

import (
	"testing"
	"time"

	"horse.fit/lexwatch/internal/corpus"
)

func TestAggregate_EmptyCorpus(t *testing.T) {
	t.Parallel()

	summary := Aggregate(nil, corpus.State{})
	if summary.TotalDocuments != 0 {
		t.Fatalf("expected zero documents, got %d", summary.TotalDocuments)
	}
	if summary.LastRun != nil || summary.LastCheckedDate != nil {
		t.Fatalf("expected nil state fields, got %+v", summary)
	}
	if summary.DocumentTypes == nil || summary.Authors == nil || summary.Companies == nil || summary.Products == nil {
		t.Fatalf("expected empty non-nil tables, got %+v", summary)
	}
	if summary.DateRange.Earliest != "" || summary.DateRange.Latest != "" {
		t.Fatalf("expected empty date range, got %+v", summary.DateRange)
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	watermark := "2025-07-15"
	lastRun := time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)
	state := corpus.State{LastCheckedDate: &watermark, LastRun: &lastRun}

	docs := []corpus.Document{
		{
			Form: "Regulation", Author: "European Union", PublicationDate: "2025-07-10",
			Companies: []string{"OCP"}, Products: []string{"phosphate", "fertilizer"},
		},
		{
			Form: "Regulation", Author: "European Union", PublicationDate: "2025-02-01",
			Companies: []string{"OCP", "Mosaic"}, Products: []string{"phosphate"},
		},
		{
			Form: "", Author: "", PublicationDate: "",
		},
	}

	summary := Aggregate(docs, state)
	if summary.TotalDocuments != 3 {
		t.Fatalf("expected 3 documents, got %d", summary.TotalDocuments)
	}
	if summary.LastCheckedDate == nil || *summary.LastCheckedDate != watermark {
		t.Fatalf("expected the watermark carried through, got %+v", summary.LastCheckedDate)
	}
	if summary.DateRange.Earliest != "2025-02-01" || summary.DateRange.Latest != "2025-07-10" {
		t.Fatalf("unexpected date range: %+v", summary.DateRange)
	}

	if len(summary.DocumentTypes) != 2 {
		t.Fatalf("expected 2 document types, got %v", summary.DocumentTypes)
	}
	if summary.DocumentTypes[0] != (NameCount{Name: "Regulation", Count: 2}) {
		t.Fatalf("expected Regulation first, got %+v", summary.DocumentTypes[0])
	}
	if summary.DocumentTypes[1].Name != "Unknown" {
		t.Fatalf("expected empty form bucketed as Unknown, got %+v", summary.DocumentTypes[1])
	}

	if summary.Companies[0] != (NameCount{Name: "OCP", Count: 2}) {
		t.Fatalf("expected OCP first, got %+v", summary.Companies[0])
	}
	if summary.Products[0] != (NameCount{Name: "phosphate", Count: 2}) {
		t.Fatalf("expected phosphate first, got %+v", summary.Products[0])
	}
}

func TestAggregate_TieBreaksByName(t *testing.T) {
	t.Parallel()

	docs := []corpus.Document{
		{Form: "Decision", PublicationDate: "2025-01-01"},
		{Form: "Regulation", PublicationDate: "2025-01-02"},
	}

	summary := Aggregate(docs, corpus.State{})
	if summary.DocumentTypes[0].Name != "Decision" || summary.DocumentTypes[1].Name != "Regulation" {
		t.Fatalf("expected name-ascending tie break, got %+v", summary.DocumentTypes)
	}
}
