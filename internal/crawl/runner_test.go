package crawl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/enrich"
	"horse.fit/lexwatch/internal/eurlex"
	"horse.fit/lexwatch/internal/keywords"
	"horse.fit/lexwatch/internal/matcher"
)

type fakeGateway struct {
	records []eurlex.RawRecord
	err     error
	calls   int
}

func (g *fakeGateway) Search(_ context.Context, _, _ time.Time, _ int) ([]eurlex.RawRecord, error) {
	g.calls++
	return g.records, g.err
}

func newTestRunner(t *testing.T, gateway Gateway) (*Runner, *corpus.Store) {
	t.Helper()

	store, err := corpus.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	m := matcher.New(keywords.Default())
	enricher := enrich.NewStage(m, "https://eur-lex.europa.eu")
	runner := NewRunner(store, gateway, m, enricher, testEpoch, 10, zerolog.Nop())
	return runner, store
}

var matchingRecord = eurlex.RawRecord{
	DocumentNumber:  "32025R0101",
	Title:           "Commission Regulation imposing duties on phosphate imports originating in Morocco",
	PublicationDate: "2025-07-10",
	Author:          "European Union",
	Form:            "Regulation",
}

var unrelatedRecord = eurlex.RawRecord{
	Title:           "Council conclusions on the fisheries partnership",
	PublicationDate: "2025-07-11",
}

func TestRun_Success(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC))

	gateway := &fakeGateway{records: []eurlex.RawRecord{matchingRecord, unrelatedRecord}}
	runner, store := newTestRunner(t, gateway)

	result := runner.Run(context.Background(), Overrides{})
	if result.Status != StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", result.Status, result.Error)
	}
	if result.RawDocumentsFetched != 2 || result.MatchedDocuments != 1 || result.NewDocuments != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.LastCheckedDate != "2025-07-15" {
		t.Fatalf("expected watermark at today, got %q", result.LastCheckedDate)
	}

	docs, err := store.LoadCorpus()
	if err != nil {
		t.Fatalf("failed to reload corpus: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 persisted document, got %d", len(docs))
	}
	if docs[0].CanonicalURL != "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=CELEX:32025R0101" {
		t.Fatalf("unexpected canonical URL: %q", docs[0].CanonicalURL)
	}

	state, err := store.LoadState()
	if err != nil {
		t.Fatalf("failed to reload state: %v", err)
	}
	if state.LastCheckedDate == nil || *state.LastCheckedDate != "2025-07-15" {
		t.Fatalf("expected persisted watermark 2025-07-15, got %+v", state)
	}
	if state.TotalDocuments != 1 {
		t.Fatalf("expected total_documents=1, got %d", state.TotalDocuments)
	}
}

func TestRun_UpToDateRefreshesWatermark(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC))

	gateway := &fakeGateway{records: []eurlex.RawRecord{matchingRecord}}
	runner, store := newTestRunner(t, gateway)

	watermark := "2025-07-15"
	if err := store.SaveState(corpus.State{LastCheckedDate: &watermark}); err != nil {
		t.Fatalf("failed to seed state: %v", err)
	}

	result := runner.Run(context.Background(), Overrides{})
	if result.Status != StatusUpToDate {
		t.Fatalf("expected up_to_date, got %s", result.Status)
	}
	if gateway.calls != 0 {
		t.Fatalf("expected no gateway calls when up to date, got %d", gateway.calls)
	}

	state, err := store.LoadState()
	if err != nil {
		t.Fatalf("failed to reload state: %v", err)
	}
	if state.LastRun == nil {
		t.Fatalf("expected last_run to be refreshed")
	}
	if state.LastCheckedDate == nil || *state.LastCheckedDate != "2025-07-15" {
		t.Fatalf("expected watermark kept at today, got %+v", state)
	}
}

func TestRun_GatewayFailureLeavesStateUntouched(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC))

	gateway := &fakeGateway{err: errors.New("connection refused")}
	runner, store := newTestRunner(t, gateway)

	result := runner.Run(context.Background(), Overrides{})
	if result.Status != StatusError {
		t.Fatalf("expected error status, got %s", result.Status)
	}
	if result.Error == "" {
		t.Fatalf("expected the cause in the result")
	}

	state, err := store.LoadState()
	if err != nil {
		t.Fatalf("failed to reload state: %v", err)
	}
	if state.LastCheckedDate != nil || state.LastRun != nil {
		t.Fatalf("expected no watermark after a failed run, got %+v", state)
	}
}

func TestRun_PartialPageKeepsRecords(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC))

	gateway := &fakeGateway{
		records: []eurlex.RawRecord{matchingRecord},
		err:     &eurlex.PageError{Page: 2, Err: errors.New("status 502")},
	}
	runner, _ := newTestRunner(t, gateway)

	result := runner.Run(context.Background(), Overrides{})
	if result.Status != StatusSuccess {
		t.Fatalf("expected a partial batch to still succeed, got %s (%s)", result.Status, result.Error)
	}
	if result.NewDocuments != 1 {
		t.Fatalf("expected the partial batch to be persisted, got %d new documents", result.NewDocuments)
	}
}

func TestRun_DuplicateBatchAddsNothing(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC))

	gateway := &fakeGateway{records: []eurlex.RawRecord{matchingRecord}}
	runner, store := newTestRunner(t, gateway)

	first := runner.Run(context.Background(), Overrides{})
	if first.Status != StatusSuccess || first.NewDocuments != 1 {
		t.Fatalf("unexpected first run: %+v", first)
	}

	// Reopen a window by moving the watermark back.
	watermark := "2025-07-10"
	if err := store.SaveState(corpus.State{LastCheckedDate: &watermark, TotalDocuments: 1}); err != nil {
		t.Fatalf("failed to rewind state: %v", err)
	}

	second := runner.Run(context.Background(), Overrides{})
	if second.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", second.Status)
	}
	if second.NewDocuments != 0 || second.TotalDocuments != 1 {
		t.Fatalf("expected refetched batch to add nothing, got %+v", second)
	}
}

func TestRun_SortsCorpusNewestFirst(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC))

	older := matchingRecord
	older.DocumentNumber = "32025R0100"
	older.PublicationDate = "2025-07-01"

	gateway := &fakeGateway{records: []eurlex.RawRecord{older, matchingRecord}}
	runner, store := newTestRunner(t, gateway)

	result := runner.Run(context.Background(), Overrides{})
	if result.Status != StatusSuccess || result.NewDocuments != 2 {
		t.Fatalf("unexpected run result: %+v", result)
	}

	docs, err := store.LoadCorpus()
	if err != nil {
		t.Fatalf("failed to reload corpus: %v", err)
	}
	if docs[0].PublicationDate != "2025-07-10" || docs[1].PublicationDate != "2025-07-01" {
		t.Fatalf("expected newest first, got %s then %s", docs[0].PublicationDate, docs[1].PublicationDate)
	}
}
