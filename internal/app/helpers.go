package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"horse.fit/lexwatch/internal/cli"
	"horse.fit/lexwatch/internal/config"
	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/crawl"
	"horse.fit/lexwatch/internal/enrich"
	"horse.fit/lexwatch/internal/eurlex"
	"horse.fit/lexwatch/internal/keywords"
	"horse.fit/lexwatch/internal/logging"
	"horse.fit/lexwatch/internal/matcher"
)

const (
	outputFormatTable = "table"
	outputFormatJSON  = "json"
)

// pipeline bundles the constructed components a command needs. Everything
// hangs off the one Config; commands pick what they use.
type pipeline struct {
	cfg      *config.Config
	logger   zerolog.Logger
	store    *corpus.Store
	taxonomy keywords.Taxonomy
	matcher  *matcher.Matcher
	enricher *enrich.Stage
	gateway  *eurlex.Client
	runner   *crawl.Runner
}

func buildPipeline(envLoader *cli.EnvLoader) (*pipeline, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := corpus.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	taxonomy := keywords.Default()
	m := matcher.New(taxonomy)
	enricher := enrich.NewStage(m, cfg.BaseURL)
	gateway := eurlex.NewClient(cfg.BaseURL, cfg.RequestTimeout, cfg.PageDelay, logger)
	runner := crawl.NewRunner(store, gateway, m, enricher, cfg.EpochStartDate(), cfg.MaxPages, logger)

	return &pipeline{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		taxonomy: taxonomy,
		matcher:  m,
		enricher: enricher,
		gateway:  gateway,
		runner:   runner,
	}, nil
}

func parseOutputFormat(raw, defaultFormat string) (string, error) {
	format := strings.TrimSpace(strings.ToLower(raw))
	if format == "" {
		format = strings.TrimSpace(strings.ToLower(defaultFormat))
	}
	switch format {
	case outputFormatTable, outputFormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("--format must be table or json")
	}
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeTable(headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(writer, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(writer, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return writer.Flush()
}
