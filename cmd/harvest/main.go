// Package main provides a one-shot command that harvests vacancies for a
// keyword into the configured document store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maauso/hh-vacancies/internal/bootstrap"
	"github.com/maauso/hh-vacancies/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("harvest", flag.ContinueOnError)
	keyword := fs.String("keyword", "", "search text sent to the listing endpoint")
	out := fs.String("out", "", "write the document to this file instead of the configured store")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *out != "" {
		cfg.DataFile = *out
		cfg.S3Bucket = ""
	}
	cfg.HarvestSchedule = ""

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := deps.HarvestService.Harvest(ctx, *keyword)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "%d vacancies saved for %q\n", result.Records, result.Keyword)
	return err
}
