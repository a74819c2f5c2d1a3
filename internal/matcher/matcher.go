// Package matcher classifies raw EUR-Lex records against the keyword
// taxonomy. Matching is pure: any well-formed record yields a result,
// missing fields are treated as empty strings, and nothing here touches
// the network or the store.
package matcher

import (
	"regexp"
	"strings"

	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/eurlex"
	"horse.fit/lexwatch/internal/keywords"
)

const (
	totalGroups    = 3
	maxSnippets    = 3
	snippetContext = 50
)

// compiledKeyword carries a keyword's raw form plus the artifacts used at
// match time: the normalized literal for substring checks and the
// word-boundary pattern for classification.
type compiledKeyword struct {
	raw        string
	normalized string
	wildcard   bool
	pattern    *regexp.Regexp
}

type compiledGroup struct {
	name     string
	keywords []compiledKeyword
}

// Matched pairs a surviving record with its classification detail.
type Matched struct {
	Record eurlex.RawRecord
	Detail corpus.MatchDetail
}

// Matcher holds the compiled taxonomy. Safe for concurrent use.
type Matcher struct {
	taxonomy keywords.Taxonomy
	measure  compiledGroup
	product  compiledGroup
	place    compiledGroup
}

func New(taxonomy keywords.Taxonomy) *Matcher {
	return &Matcher{
		taxonomy: taxonomy,
		measure:  compileGroup(taxonomy.Measure),
		product:  compileGroup(taxonomy.Product),
		place:    compileGroup(taxonomy.PlaceCompany),
	}
}

func compileGroup(group keywords.Group) compiledGroup {
	kws := group.Keywords()
	compiled := make([]compiledKeyword, 0, len(kws))
	for _, raw := range kws {
		normalized := normalizeText(raw)
		compiled = append(compiled, compiledKeyword{
			raw:        raw,
			normalized: normalized,
			wildcard:   strings.Contains(normalized, keywords.Wildcard),
			pattern:    buildPattern(normalized),
		})
	}
	return compiledGroup{name: group.Name(), keywords: compiled}
}

// buildPattern compiles a word-boundary pattern for one normalized
// keyword. A wildcard marker becomes \w*, covering every inflection that
// shares the stem. Plain keywords additionally tolerate a glued in/from/
// to/of prefix ("inMorocco"), which the source's markup sometimes
// produces when whitespace is lost.
func buildPattern(normalized string) *regexp.Regexp {
	if strings.Contains(normalized, keywords.Wildcard) {
		escaped := strings.ReplaceAll(regexp.QuoteMeta(normalized), `\*`, `\w*`)
		return regexp.MustCompile(`\b` + escaped + `\b`)
	}
	return regexp.MustCompile(`\b(?:in|from|to|of)?` + regexp.QuoteMeta(normalized) + `\b`)
}

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// searchableBlob joins the record fields that classification looks at.
// Missing fields contribute empty strings, keeping the blob's layout (and
// therefore snippet offsets) stable.
func searchableBlob(rec eurlex.RawRecord) string {
	return strings.Join([]string{rec.Title, rec.Text, rec.Subject, rec.Author, rec.TextExcerpt}, " ")
}

// IsMatch applies the central decision rule: the place/company group must
// match, and at least one of the measure or product groups must match as
// well. Two matching optional groups are fine; zero is a rejection even
// when the mandatory group matched.
func (m *Matcher) IsMatch(rec eurlex.RawRecord) (bool, corpus.MatchDetail) {
	blob := searchableBlob(rec)
	lowered := strings.ToLower(blob)

	measureMatches := m.measure.findMatches(lowered)
	productMatches := m.product.findMatches(lowered)
	placeMatches := m.place.findMatches(lowered)

	matched := len(placeMatches) > 0 && (len(measureMatches) > 0 || len(productMatches) > 0)

	groupsMatched := 0
	for _, n := range []int{len(measureMatches), len(productMatches), len(placeMatches)} {
		if n > 0 {
			groupsMatched++
		}
	}

	all := make([]compiledKeyword, 0, len(measureMatches)+len(productMatches)+len(placeMatches))
	all = append(all, measureMatches...)
	all = append(all, productMatches...)
	all = append(all, placeMatches...)

	detail := corpus.MatchDetail{
		MeasureKeywords:      rawKeywords(measureMatches),
		ProductKeywords:      rawKeywords(productMatches),
		PlaceCompanyKeywords: rawKeywords(placeMatches),
		GroupsMatched:        groupsMatched,
		TotalGroups:          totalGroups,
		MatchedTextSnippets:  extractSnippets(blob, lowered, all),
		MatchScore:           len(all),
	}

	return matched, detail
}

// FilterDocuments classifies each candidate and keeps the survivors with
// their detail attached, preserving input order.
func (m *Matcher) FilterDocuments(candidates []eurlex.RawRecord) []Matched {
	survivors := make([]Matched, 0, len(candidates))
	for _, rec := range candidates {
		if ok, detail := m.IsMatch(rec); ok {
			survivors = append(survivors, Matched{Record: rec, Detail: detail})
		}
	}
	return survivors
}

// ExtractEntities lists the companies and products a record mentions.
// Unlike classification this uses a plain substring test with no word
// boundaries, and looks only at title, text and subject. Country names in
// the place/company group are never reported as companies.
func (m *Matcher) ExtractEntities(rec eurlex.RawRecord) (companies, products []string) {
	lowered := strings.ToLower(strings.Join([]string{rec.Title, rec.Text, rec.Subject}, " "))

	companies = make([]string, 0, 4)
	for _, kw := range m.place.keywords {
		if m.taxonomy.IsCountryName(kw.raw) {
			continue
		}
		if strings.Contains(lowered, kw.normalized) {
			companies = append(companies, kw.raw)
		}
	}

	products = make([]string, 0, 4)
	for _, kw := range m.product.keywords {
		if strings.Contains(lowered, kw.normalized) {
			products = append(products, kw.raw)
		}
	}

	return companies, products
}

func (g compiledGroup) findMatches(lowered string) []compiledKeyword {
	matches := make([]compiledKeyword, 0, 2)
	for _, kw := range g.keywords {
		if kw.pattern.MatchString(lowered) {
			matches = append(matches, kw)
		}
	}
	return matches
}

func rawKeywords(matches []compiledKeyword) []string {
	raws := make([]string, 0, len(matches))
	for _, kw := range matches {
		raws = append(raws, kw.raw)
	}
	return raws
}

// extractSnippets cuts up to three windows of context around the first
// occurrence of each matched keyword. Offsets come from the lowercased
// blob; the slice is taken from the original so casing survives.
func extractSnippets(blob, lowered string, matches []compiledKeyword) []string {
	snippets := make([]string, 0, maxSnippets)
	for _, kw := range matches {
		if len(snippets) == maxSnippets {
			break
		}

		var start, end int
		if kw.wildcard {
			loc := kw.pattern.FindStringIndex(lowered)
			if loc == nil {
				continue
			}
			start, end = loc[0], loc[1]
		} else {
			idx := strings.Index(lowered, kw.normalized)
			if idx < 0 {
				continue
			}
			start, end = idx, idx+len(kw.normalized)
		}

		start -= snippetContext
		if start < 0 {
			start = 0
		}
		end += snippetContext
		if end > len(blob) {
			end = len(blob)
		}

		snippet := strings.TrimSpace(blob[start:end])
		if snippet != "" {
			snippets = append(snippets, "..."+snippet+"...")
		}
	}
	return snippets
}
