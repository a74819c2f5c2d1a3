package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/lexwatch/internal/keywords"
)

func runKeywords(args []string) int {
	fs := flag.NewFlagSet("keywords", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	taxonomy := keywords.Default()

	if outputFormat == outputFormatJSON {
		return printJSONOrFail(map[string]any{
			"measure":       taxonomy.Measure.Keywords(),
			"product":       taxonomy.Product.Keywords(),
			"place_company": taxonomy.PlaceCompany.Keywords(),
			"total":         taxonomy.TotalKeywords(),
		})
	}

	rows := make([][]string, 0, taxonomy.TotalKeywords())
	for _, group := range []keywords.Group{taxonomy.Measure, taxonomy.Product, taxonomy.PlaceCompany} {
		for _, kw := range group.Keywords() {
			rows = append(rows, []string{group.Name(), kw})
		}
	}
	if err := writeTable([]string{"group", "keyword"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	return 0
}
