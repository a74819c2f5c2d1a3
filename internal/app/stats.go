package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"horse.fit/lexwatch/internal/cli"
	"horse.fit/lexwatch/internal/stats"
)

const statsTableLimit = 10

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
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
	state, err := p.store.LoadState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load state: %v\n", err)
		return 1
	}

	summary := stats.Aggregate(docs, state)

	if outputFormat == outputFormatJSON {
		if err := printJSON(summary); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	overviewRows := [][]string{
		{"total_documents", strconv.Itoa(summary.TotalDocuments)},
		{"last_checked_date", stringOrDash(summary.LastCheckedDate)},
		{"earliest_publication", orDash(summary.DateRange.Earliest)},
		{"latest_publication", orDash(summary.DateRange.Latest)},
	}
	if summary.LastRun != nil {
		overviewRows = append(overviewRows, []string{"last_run", summary.LastRun.Format("2006-01-02 15:04:05")})
	}
	if err := writeTable([]string{"metric", "value"}, overviewRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render overview table: %v\n", err)
		return 1
	}

	for _, section := range []struct {
		title string
		table []stats.NameCount
	}{
		{"document types", summary.DocumentTypes},
		{"authors", summary.Authors},
		{"companies", summary.Companies},
		{"products", summary.Products},
	} {
		if len(section.table) == 0 {
			continue
		}
		fmt.Println()
		fmt.Printf("Top %s:\n", section.title)

		rows := make([][]string, 0, statsTableLimit)
		for i, entry := range section.table {
			if i == statsTableLimit {
				break
			}
			rows = append(rows, []string{entry.Name, strconv.Itoa(entry.Count)})
		}
		if err := writeTable([]string{"name", "count"}, rows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render %s table: %v\n", section.title, err)
			return 1
		}
	}

	return 0
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func stringOrDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}
