package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pevans/newsharvest/archive"
)

// errRunNeedsArchive is returned when --run is used against an output file,
// which carries no run IDs.
var errRunNeedsArchive = errors.New("--run requires an archive (use --archive or NEWSHARVEST_ARCHIVE_DSN)")

// savedArticles reads an output file, keeping articles from pub when set.
func savedArticles(path, pub, run string) ([]archive.StoredArticle, error) {
	if run != "" {
		return nil, errRunNeedsArchive
	}

	saved, err := archive.ReadJSON(path)
	if err != nil {
		return nil, err
	}

	var articles []archive.StoredArticle
	for _, a := range saved {
		if pub == "" || a.Publication == pub {
			articles = append(articles, archive.StoredArticle{Article: a})
		}
	}
	return articles, nil
}

// openArchive opens the configured archive or exits.
func openArchive(dsn string) *archive.Store {
	if dsn == "" {
		fmt.Fprintf(os.Stderr, "Error: no archive configured (use --archive or NEWSHARVEST_ARCHIVE_DSN)\n")
		os.Exit(1)
	}

	store, err := archive.NewStore(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open archive: %v\n", err)
		os.Exit(1)
	}
	return store
}

func handleRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file (default: ~/.newsharvest/config.yaml)")
	archiveDSN := fs.String("archive", "", "Archive database")
	limit := fs.Int("limit", 20, "Maximum number of runs")
	format := fs.String("format", "table", "Output format: table or json")
	fs.Parse(args)

	settings := loadSettings(*configPath)
	if *archiveDSN != "" {
		settings.ArchiveDSN = *archiveDSN
	}

	store := openArchive(settings.ArchiveDSN)
	defer store.Close()

	runs, err := store.ListRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(1)
	}

	if *format == "json" {
		printJSON(map[string]any{"runs": runs, "total": len(runs)})
		return
	}
	printRunsTable(runs)
}

func handleArticles(args []string) {
	fs := flag.NewFlagSet("articles", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file (default: ~/.newsharvest/config.yaml)")
	archiveDSN := fs.String("archive", "", "Archive database")
	file := fs.String("file", "", "Read a saved output file instead of the archive")
	pub := fs.String("publication", "", "Only articles from this publication name")
	run := fs.String("run", "", "Only articles from this run ID")
	limit := fs.Int("limit", 20, "Maximum number of articles")
	offset := fs.Int("offset", 0, "Number of articles to skip")
	format := fs.String("format", "table", "Output format: table or json")
	fs.Parse(args)

	settings := loadSettings(*configPath)
	if *archiveDSN != "" {
		settings.ArchiveDSN = *archiveDSN
	}

	var articles []archive.StoredArticle
	if *file != "" || settings.ArchiveDSN == "" {
		path := *file
		if path == "" {
			path = settings.Output
		}
		var err error
		articles, err = savedArticles(path, *pub, *run)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		articles = page(articles, *offset, *limit)
	} else {
		filter := archive.ArticleFilter{Limit: *limit, Offset: *offset}
		if *pub != "" {
			filter.Publication = pub
		}
		if *run != "" {
			id, err := uuid.Parse(*run)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid run ID: %v\n", err)
				os.Exit(1)
			}
			filter.RunID = &id
		}

		store := openArchive(settings.ArchiveDSN)
		defer store.Close()

		var err error
		articles, err = store.ListArticles(filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list articles: %v\n", err)
			os.Exit(1)
		}
	}

	if *format == "json" {
		printJSON(map[string]any{"articles": articles, "total": len(articles)})
		return
	}
	printArticlesTable(articles)
}

func handlePublications(args []string) {
	fs := flag.NewFlagSet("publications", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file (default: ~/.newsharvest/config.yaml)")
	format := fs.String("format", "table", "Output format: table or json")
	fs.Parse(args)

	settings := loadSettings(*configPath)
	pubs, err := settings.SelectedPublications()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *format == "json" {
		printJSON(map[string]any{"publications": pubs, "total": len(pubs)})
		return
	}

	fmt.Printf("%-6s %-22s %-10s %s\n", "KEY", "NAME", "CATEGORY", "LISTING")
	fmt.Println("----------------------------------------------------------------------------------------------------")
	for _, p := range pubs {
		listing := p.ListingURL()
		if p.ListConfig.FeedURL != "" {
			listing = p.ListConfig.FeedURL + " (feed)"
		}
		fmt.Printf("%-6s %-22s %-10s %s\n", p.Key, p.Name, p.Category, listing)
	}
}

// page returns items[offset:offset+limit], clamped. A limit of zero means
// no limit.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
