// Package crawl plans and executes one incremental harvest run: window
// planning, fetching, classification, enrichment, deduplication and
// persistence, in that order. A run is all-or-nothing: any failure after
// planning discards the partial progress and leaves both the corpus and
// the watermark exactly as the last successful run wrote them.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/dedupe"
	"horse.fit/lexwatch/internal/enrich"
	"horse.fit/lexwatch/internal/eurlex"
	"horse.fit/lexwatch/internal/globaltime"
	"horse.fit/lexwatch/internal/matcher"
)

const (
	StatusSuccess  = "success"
	StatusUpToDate = "up_to_date"
	StatusError    = "error"
)

// Classification and enrichment are pure and total, so only these stages
// can fail a run.
const (
	stageFetching      = "fetching"
	stageDeduplicating = "deduplicating"
	stagePersisting    = "persisting"
)

// Gateway is the source-side collaborator: it owns pagination, markup
// parsing and politeness, and returns an empty slice (not an error) when
// no pages remain. It may return partial records together with a
// *eurlex.PageError when pagination stopped early.
type Gateway interface {
	Search(ctx context.Context, from, to time.Time, maxPages int) ([]eurlex.RawRecord, error)
}

// Result is the structured outcome of one run.
type Result struct {
	Status              string  `json:"status"`
	Message             string  `json:"message"`
	FromDate            string  `json:"from_date,omitempty"`
	ToDate              string  `json:"to_date,omitempty"`
	LastCheckedDate     string  `json:"last_checked_date,omitempty"`
	NewDocuments        int     `json:"new_documents"`
	TotalDocuments      int     `json:"total_documents"`
	RawDocumentsFetched int     `json:"raw_documents_fetched"`
	MatchedDocuments    int     `json:"matched_documents"`
	DurationSeconds     float64 `json:"duration_seconds"`
	Error               string  `json:"error,omitempty"`
}

type Runner struct {
	store      *corpus.Store
	gateway    Gateway
	matcher    *matcher.Matcher
	enricher   *enrich.Stage
	epochStart time.Time
	maxPages   int
	logger     zerolog.Logger
}

func NewRunner(store *corpus.Store, gateway Gateway, m *matcher.Matcher, enricher *enrich.Stage, epochStart time.Time, maxPages int, logger zerolog.Logger) *Runner {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Runner{
		store:      store,
		gateway:    gateway,
		matcher:    m,
		enricher:   enricher,
		epochStart: epochStart,
		maxPages:   maxPages,
		logger:     logger,
	}
}

// Run executes one harvest. Callers must not invoke Run concurrently
// against the same store; single-flight execution is their contract.
func (r *Runner) Run(ctx context.Context, overrides Overrides) Result {
	start := globaltime.Now()
	r.logger.Info().
		Bool("force_full_from_epoch", overrides.ForceFullFromEpoch).
		Bool("force_current_year", overrides.ForceCurrentYear).
		Msg("starting crawl run")

	state, err := r.store.LoadState()
	if err != nil {
		// Corrupt state is recoverable: plan as if no watermark existed.
		r.logger.Warn().Err(err).Msg("state unreadable, planning from epoch start")
		state = corpus.State{}
	}

	from, to := PlanWindow(state, overrides, r.epochStart, r.logger)

	if from.After(to) {
		return r.finishUpToDate(start, from, to)
	}

	r.logger.Info().
		Str("from", formatDate(from)).
		Str("to", formatDate(to)).
		Msg("fetching window")

	records, err := r.gateway.Search(ctx, from, to, r.maxPages)
	if err != nil {
		var pageErr *eurlex.PageError
		if errors.As(err, &pageErr) {
			// Pagination stopped early; the records fetched so far are
			// still a valid (smaller) batch.
			r.logger.Warn().Err(pageErr).Int("records", len(records)).Msg("pagination stopped early")
		} else {
			return r.fail(start, from, to, stageFetching, err)
		}
	}
	r.logger.Info().Int("raw_documents", len(records)).Msg("fetch complete")

	matched := r.matcher.FilterDocuments(records)
	r.logger.Info().
		Int("candidates", len(records)).
		Int("matched", len(matched)).
		Msg("keyword matching complete")

	enriched := r.enricher.Enrich(matched)

	existing, err := r.store.LoadCorpus()
	if err != nil {
		return r.fail(start, from, to, stageDeduplicating, err)
	}
	existing, removed := dedupe.Clean(existing)
	if removed > 0 {
		r.logger.Info().Int("removed", removed).Msg("cleaned duplicates from existing corpus")
	}

	uniqueNew, stats := dedupe.Merge(existing, enriched)
	if stats.Total() > 0 {
		r.logger.Info().
			Int("by_document_number", stats.ByDocumentNumber).
			Int("by_title", stats.ByTitle).
			Msg("dropped duplicates from new batch")
	}

	all := existing
	if len(uniqueNew) > 0 {
		all = append(existing, uniqueNew...)
		corpus.SortByPublicationDateDesc(all)
		if err := r.store.SaveCorpus(all); err != nil {
			return r.fail(start, from, to, stagePersisting, err)
		}
	}

	lastChecked := formatDate(to)
	now := globaltime.UTC()
	if err := r.store.SaveState(corpus.State{
		LastCheckedDate: &lastChecked,
		LastRun:         &now,
		TotalDocuments:  len(all),
	}); err != nil {
		return r.fail(start, from, to, stagePersisting, err)
	}

	duration := elapsedSeconds(start)
	r.logger.Info().
		Int("new_documents", len(uniqueNew)).
		Int("total_documents", len(all)).
		Float64("duration_seconds", duration).
		Msg("crawl run complete")

	return Result{
		Status:              StatusSuccess,
		Message:             fmt.Sprintf("added %d new documents", len(uniqueNew)),
		FromDate:            formatDate(from),
		ToDate:              formatDate(to),
		LastCheckedDate:     lastChecked,
		NewDocuments:        len(uniqueNew),
		TotalDocuments:      len(all),
		RawDocumentsFetched: len(records),
		MatchedDocuments:    len(matched),
		DurationSeconds:     duration,
	}
}

// finishUpToDate still refreshes the watermark: last_run moves forward and
// last_checked_date becomes the window's end, without touching the corpus
// or contacting the source.
func (r *Runner) finishUpToDate(start time.Time, from, to time.Time) Result {
	existing, err := r.store.LoadCorpus()
	if err != nil {
		return r.fail(start, from, to, stagePersisting, err)
	}

	lastChecked := formatDate(to)
	now := globaltime.UTC()
	if err := r.store.SaveState(corpus.State{
		LastCheckedDate: &lastChecked,
		LastRun:         &now,
		TotalDocuments:  len(existing),
	}); err != nil {
		return r.fail(start, from, to, stagePersisting, err)
	}

	r.logger.Info().Str("last_checked_date", lastChecked).Msg("already up to date")
	return Result{
		Status:          StatusUpToDate,
		Message:         "already up to date, no new dates to fetch",
		FromDate:        formatDate(from),
		ToDate:          formatDate(to),
		LastCheckedDate: lastChecked,
		TotalDocuments:  len(existing),
		DurationSeconds: elapsedSeconds(start),
	}
}

func (r *Runner) fail(start time.Time, from, to time.Time, stage string, err error) Result {
	r.logger.Error().Err(err).Str("stage", stage).Msg("crawl run failed")
	return Result{
		Status:          StatusError,
		Message:         fmt.Sprintf("crawl failed while %s", stage),
		FromDate:        formatDate(from),
		ToDate:          formatDate(to),
		Error:           err.Error(),
		DurationSeconds: elapsedSeconds(start),
	}
}

func formatDate(day time.Time) string {
	return day.Format("2006-01-02")
}

func elapsedSeconds(start time.Time) float64 {
	return math.Round(globaltime.Now().Sub(start).Seconds()*100) / 100
}
