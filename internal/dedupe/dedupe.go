// Package dedupe enforces document identity: at most one document per
// non-empty document number, and for documents without a number, at most
// one per non-empty title. The same rule backs two operations — merging a
// new batch against a baseline corpus, and a one-off self-clean of an
// already persisted corpus.
package dedupe

import "horse.fit/lexwatch/internal/corpus"

// MergeStats breaks duplicates down by the identity that caught them.
type MergeStats struct {
	ByDocumentNumber int `json:"by_document_number"`
	ByTitle          int `json:"by_title"`
}

func (s MergeStats) Total() int {
	return s.ByDocumentNumber + s.ByTitle
}

// Merge returns the candidates that are not already present in existing,
// in their input order. Surviving candidates join the seen-sets
// immediately, so a later duplicate inside the same batch is dropped too;
// the first occurrence wins.
func Merge(existing, candidates []corpus.Document) ([]corpus.Document, MergeStats) {
	seenNumbers := make(map[string]struct{}, len(existing))
	seenTitles := make(map[string]struct{}, len(existing))
	for _, doc := range existing {
		if doc.DocumentNumber != "" {
			seenNumbers[doc.DocumentNumber] = struct{}{}
		}
		if doc.Title != "" {
			seenTitles[doc.Title] = struct{}{}
		}
	}

	var stats MergeStats
	unique := make([]corpus.Document, 0, len(candidates))
	for _, doc := range candidates {
		if doc.DocumentNumber != "" {
			if _, dup := seenNumbers[doc.DocumentNumber]; dup {
				stats.ByDocumentNumber++
				continue
			}
		} else if doc.Title != "" {
			if _, dup := seenTitles[doc.Title]; dup {
				stats.ByTitle++
				continue
			}
		}

		unique = append(unique, doc)
		if doc.DocumentNumber != "" {
			seenNumbers[doc.DocumentNumber] = struct{}{}
		}
		if doc.Title != "" {
			seenTitles[doc.Title] = struct{}{}
		}
	}

	return unique, stats
}

// Clean removes duplicates from an already persisted corpus in a single
// left-to-right pass. The document number is the primary identity; the
// title is consulted only when the number is absent. Documents carrying
// neither identity are always kept.
func Clean(docs []corpus.Document) ([]corpus.Document, int) {
	seenNumbers := make(map[string]struct{}, len(docs))
	seenTitles := make(map[string]struct{}, len(docs))

	cleaned := make([]corpus.Document, 0, len(docs))
	removed := 0
	for _, doc := range docs {
		switch {
		case doc.DocumentNumber != "":
			if _, dup := seenNumbers[doc.DocumentNumber]; dup {
				removed++
				continue
			}
			seenNumbers[doc.DocumentNumber] = struct{}{}
		case doc.Title != "":
			if _, dup := seenTitles[doc.Title]; dup {
				removed++
				continue
			}
			seenTitles[doc.Title] = struct{}{}
		}
		cleaned = append(cleaned, doc)
	}

	return cleaned, removed
}
