package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/lexwatch/internal/cli"
	"horse.fit/lexwatch/internal/export"
)

func runExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	startDate := fs.String("start-date", "", "Keep documents published on or after this date (YYYY-MM-DD)")
	endDate := fs.String("end-date", "", "Keep documents published on or before this date (YYYY-MM-DD)")
	author := fs.String("author", "", "Author substring filter")
	company := fs.String("company", "", "Company substring filter")
	product := fs.String("product", "", "Product substring filter")
	search := fs.String("search", "", "Free-text search over title and text")
	output := fs.String("output", "", "Write CSV to this file instead of stdout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "export does not accept positional arguments")
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

	filtered := export.Apply(docs, export.Filter{
		StartDate: *startDate,
		EndDate:   *endDate,
		Author:    *author,
		Company:   *company,
		Product:   *product,
		Search:    *search,
	})

	content, err := export.CSV(filtered)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render CSV: %v\n", err)
		return 1
	}

	if *output == "" {
		fmt.Print(content)
		return 0
	}

	if err := os.WriteFile(*output, []byte(content), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *output, err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "Wrote %d documents to %s\n", len(filtered), *output)
	return 0
}
