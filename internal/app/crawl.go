package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/lexwatch/internal/cli"
	"horse.fit/lexwatch/internal/crawl"
)

func runCrawl(args []string) int {
	fs := flag.NewFlagSet("crawl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Command timeout")
	forceEpoch := fs.Bool("force-full-from-epoch", false, "Rescan everything since the epoch start date")
	forceCurrentYear := fs.Bool("force-current-year", false, "Rescan from January 1 of the current year")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "crawl does not accept positional arguments")
		return 2
	}

	p, err := buildPipeline(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result := p.runner.Run(ctx, crawl.Overrides{
		ForceFullFromEpoch: *forceEpoch,
		ForceCurrentYear:   *forceCurrentYear,
	})

	if err := printJSON(result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
		return 1
	}
	if result.Status == crawl.StatusError {
		return 1
	}
	return 0
}
