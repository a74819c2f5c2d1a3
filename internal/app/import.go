package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/lexwatch/internal/cli"
	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/dedupe"
	"horse.fit/lexwatch/internal/globaltime"
	recordschema "horse.fit/lexwatch/schema"
)

// runImport pushes a schema-validated batch of raw records through the
// same match → enrich → dedup → persist pipeline a crawl uses, without
// touching the watermark. Useful for manual backfills.
func runImport(args []string) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	file := fs.String("file", "", "Path to a JSON array of raw records (required)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if strings.TrimSpace(*file) == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		return 2
	}

	payload, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", *file, err)
		return 1
	}

	records, err := recordschema.ValidateRawRecords(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid batch: %v\n", err)
		return 2
	}

	p, err := buildPipeline(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	matched := p.matcher.FilterDocuments(records)
	enriched := p.enricher.Enrich(matched)

	existing, err := p.store.LoadCorpus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load corpus: %v\n", err)
		return 1
	}
	existing, cleaned := dedupe.Clean(existing)
	if cleaned > 0 {
		p.logger.Info().Int("removed", cleaned).Msg("cleaned duplicates from existing corpus")
	}

	uniqueNew, _ := dedupe.Merge(existing, enriched)

	all := existing
	if len(uniqueNew) > 0 {
		all = append(existing, uniqueNew...)
		corpus.SortByPublicationDateDesc(all)
		if err := p.store.SaveCorpus(all); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save corpus: %v\n", err)
			return 1
		}
	}

	state, err := p.store.LoadState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load state: %v\n", err)
		return 1
	}
	now := globaltime.UTC()
	if err := p.store.SaveState(corpus.State{
		LastCheckedDate: state.LastCheckedDate,
		LastRun:         &now,
		TotalDocuments:  len(all),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save state: %v\n", err)
		return 1
	}

	return printJSONOrFail(map[string]int{
		"records":         len(records),
		"matched":         len(matched),
		"new_documents":   len(uniqueNew),
		"total_documents": len(all),
	})
}

func printJSONOrFail(value any) int {
	if err := printJSON(value); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
		return 1
	}
	return 0
}
