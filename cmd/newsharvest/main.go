package main

import (
	"fmt"
	"os"

	"github.com/pevans/newsharvest/config"
)

func main() {
	if len(os.Args) < 2 {
		handleScrape(nil)
		return
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "scrape":
		handleScrape(args)
	case "runs":
		handleRuns(args)
	case "articles":
		handleArticles(args)
	case "publications":
		handlePublications(args)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

// loadSettings loads settings or exits.
func loadSettings(path string) *config.Settings {
	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	return settings
}

func printUsage() {
	fmt.Println("newsharvest - News article harvester")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newsharvest [command] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scrape        Scrape all publications and write the articles (default)")
	fmt.Println("  runs          List archived runs")
	fmt.Println("  articles      List archived or saved articles")
	fmt.Println("  publications  List configured publications")
	fmt.Println("  help          Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  NEWSHARVEST_OUTPUT       Output file (default: scraped_articles.json)")
	fmt.Println("  NEWSHARVEST_ARCHIVE_DSN  Path to the run archive database (default: none)")
	fmt.Println("  NEWSHARVEST_API_ADDR     Listen address of newsharvest-api (default: localhost:8080)")
	fmt.Println()
	fmt.Println("Configuration is read from ~/.newsharvest/config.yaml unless --config is given.")
}
