package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pevans/newsharvest/archive"
	"github.com/pevans/newsharvest/fetch"
	"github.com/pevans/newsharvest/orchestrator"
	"github.com/pevans/newsharvest/publication"
)

func handleScrape(args []string) {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file (default: ~/.newsharvest/config.yaml)")
	limit := fs.Int("limit", -1, "Candidate links visited per publication (default: 2)")
	output := fs.String("output", "", "Output JSON file")
	only := fs.String("only", "", "Comma-separated publication keys to scrape")
	archiveDSN := fs.String("archive", "", "Also save the run to this archive database")
	robots := fs.Bool("respect-robots", false, "Skip URLs disallowed by robots.txt")
	noDelay := fs.Bool("no-delay", false, "Do not pause between article fetches")
	fs.Parse(args)

	settings := loadSettings(*configPath)
	if *limit >= 0 {
		settings.Limit = *limit
	}
	if *output != "" {
		settings.Output = *output
	}
	if *only != "" {
		settings.Only = strings.Split(*only, ",")
	}
	if *archiveDSN != "" {
		settings.ArchiveDSN = *archiveDSN
	}
	if *robots {
		settings.RespectRobots = true
	}

	pubs, err := settings.SelectedPublications()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.Default()
	opts := settings.AdapterOptions(logger)
	if *noDelay {
		opts.Pauser = publication.PauseFunc(func(context.Context, time.Duration) error { return nil })
	}

	adapters, err := publication.NewAll(pubs, fetch.NewSession(settings.SessionOptions()), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scrapers := make([]orchestrator.Scraper, len(adapters))
	for i, a := range adapters {
		scrapers[i] = a
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := orchestrator.New(scrapers, logger).Run(ctx, settings.Limit)

	if err := archive.WriteJSON(settings.Output, report.Articles); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if settings.ArchiveDSN != "" {
		archiveRun(settings.ArchiveDSN, report, logger)
	}

	printSummary(report, settings.Output)
}

// archiveRun saves report to the archive at dsn. The output file is already
// written, so a failure here is logged and does not fail the run.
func archiveRun(dsn string, report *orchestrator.Report, logger *log.Logger) bool {
	if err := saveRun(dsn, report); err != nil {
		logger.Printf("ERROR: Failed to archive run %s: %v", report.RunID, err)
		return false
	}
	logger.Printf("INFO: Archived run %s to %s", report.RunID, dsn)
	return true
}

func saveRun(dsn string, report *orchestrator.Report) error {
	store, err := archive.NewStore(dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveRun(report)
}
