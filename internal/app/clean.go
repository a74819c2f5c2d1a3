package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/lexwatch/internal/cli"
	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/dedupe"
	"horse.fit/lexwatch/internal/globaltime"
)

func runClean(args []string) int {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	dryRun := fs.Bool("dry-run", false, "Report duplicates without rewriting the corpus")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "clean does not accept positional arguments")
		return 2
	}

	p, err := buildPipeline(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	docs, err := p.store.LoadCorpus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load corpus: %v\n", err)
		return 1
	}

	cleaned, removed := dedupe.Clean(docs)
	if removed == 0 {
		fmt.Println("corpus already clean")
		return 0
	}

	if *dryRun {
		fmt.Printf("would remove %d duplicates (%d -> %d documents)\n", removed, len(docs), len(cleaned))
		return 0
	}

	if err := p.store.SaveCorpus(cleaned); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save corpus: %v\n", err)
		return 1
	}

	// Keep the watermark, refresh the document count.
	state, err := p.store.LoadState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load state: %v\n", err)
		return 1
	}
	now := globaltime.UTC()
	if err := p.store.SaveState(corpus.State{
		LastCheckedDate: state.LastCheckedDate,
		LastRun:         &now,
		TotalDocuments:  len(cleaned),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save state: %v\n", err)
		return 1
	}

	fmt.Printf("removed %d duplicates (%d -> %d documents)\n", removed, len(docs), len(cleaned))
	return 0
}
