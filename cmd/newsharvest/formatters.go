package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pevans/newsharvest/archive"
	"github.com/pevans/newsharvest/orchestrator"
)

// previewCount is the number of articles shown after a scrape.
const previewCount = 3

// printSummary prints per-site counts, the total and a short preview.
func printSummary(report *orchestrator.Report, output string) {
	fmt.Println()
	for _, site := range report.Sites {
		fmt.Printf("%-22s %d articles\n", site.Name, site.Count)
	}

	fmt.Printf("\nTotal articles scraped: %d\n", report.Total())
	fmt.Printf("Data saved to %s\n", output)

	for i, a := range report.Articles[:min(previewCount, len(report.Articles))] {
		fmt.Printf("\n%d. %s\n", i+1, a.Title)
		fmt.Printf("   Publication: %s\n", a.Publication)
		fmt.Printf("   Link: %s\n", a.Link)
	}
}

func printRunsTable(runs []archive.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs archived.")
		return
	}

	fmt.Printf("%-36s %-20s %-9s %s\n", "ID", "STARTED", "ARTICLES", "DURATION")
	fmt.Println("----------------------------------------------------------------------------------------------------")
	for _, r := range runs {
		fmt.Printf("%-36s %-20s %-9d %s\n",
			r.RunID.String(),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.ArticleCount,
			r.FinishedAt.Sub(r.StartedAt).Round(100 * time.Millisecond),
		)
	}
}

func printArticlesTable(articles []archive.StoredArticle) {
	if len(articles) == 0 {
		fmt.Println("No articles to display.")
		return
	}

	for _, a := range articles {
		title := a.Title
		if len([]rune(title)) > 70 {
			title = string([]rune(title)[:67]) + "..."
		}

		fmt.Printf("%s\n", title)
		fmt.Printf("   %s | %s | %s | %s\n", a.Publication, a.Category, a.PublishDate, a.Author)
		fmt.Printf("   URL: %s\n", a.Link)
		fmt.Println()
	}
}

// printJSON prints v as indented JSON
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}
