package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"horse.fit/lexwatch/internal/cli"
	"horse.fit/lexwatch/internal/crawl"
	"horse.fit/lexwatch/internal/httpapi"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 8090, "HTTP port")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 120*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	schedule := fs.String("schedule", "", "Cron spec for scheduled crawl runs (empty disables scheduling)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port <= 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	p, err := buildPipeline(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	// One mutex serializes crawls across the API trigger and the
	// scheduler; the store must never see two runs at once.
	var crawlMu sync.Mutex

	if spec := *schedule; spec != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(spec, func() {
			if !crawlMu.TryLock() {
				p.logger.Warn().Msg("scheduled crawl skipped, previous run still in progress")
				return
			}
			defer crawlMu.Unlock()

			result := p.runner.Run(ctx, crawl.Overrides{})
			p.logger.Info().
				Str("status", result.Status).
				Int("new_documents", result.NewDocuments).
				Int("total_documents", result.TotalDocuments).
				Msg("scheduled crawl finished")
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --schedule: %v\n", err)
			return 2
		}
		scheduler.Start()
		defer scheduler.Stop()
		p.logger.Info().Str("schedule", spec).Msg("crawl scheduler started")
	}

	srv := httpapi.NewServer(p.store, p.runner, p.taxonomy, &crawlMu, p.logger, httpapi.Options{
		Host:            *host,
		Port:            *port,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
		ShutdownTimeout: *shutdownTimeout,
	})

	if err := srv.Start(ctx); err != nil {
		p.logger.Error().Err(err).Str("host", *host).Int("port", *port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}
