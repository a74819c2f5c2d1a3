package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/lexwatch/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	probe := fs.Bool("probe", false, "Also probe the EUR-Lex search endpoint")
	timeout := fs.Duration("timeout", 30*time.Second, "Probe timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	p, err := buildPipeline(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	checks := map[string]string{}
	healthy := true

	docs, err := p.store.LoadCorpus()
	if err != nil {
		checks["corpus"] = fmt.Sprintf("error: %v", err)
		healthy = false
	} else {
		checks["corpus"] = fmt.Sprintf("ok (%d documents)", len(docs))
	}

	state, err := p.store.LoadState()
	switch {
	case err != nil:
		checks["state"] = fmt.Sprintf("error: %v", err)
		healthy = false
	case state.LastCheckedDate == nil:
		checks["state"] = "ok (no previous run)"
	default:
		checks["state"] = fmt.Sprintf("ok (last checked %s)", *state.LastCheckedDate)
	}

	if *probe {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		if err := p.gateway.Probe(ctx); err != nil {
			checks["gateway"] = fmt.Sprintf("error: %v", err)
			healthy = false
		} else {
			checks["gateway"] = "ok"
		}
	}

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if err := printJSON(map[string]any{
		"status":   status,
		"data_dir": p.cfg.DataDir,
		"checks":   checks,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		return 1
	}
	if !healthy {
		return 1
	}
	return 0
}
