// Package orchestrator runs publication scrapers one after another and
// aggregates their articles.
package orchestrator

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/newsharvest/article"
	"github.com/pevans/newsharvest/metrics"
)

// DefaultLimit is the number of candidates visited per publication.
const DefaultLimit = 2

// Scraper produces the articles of one publication. Failures are absorbed
// by the scraper; it returns whatever it collected.
type Scraper interface {
	Key() string
	Name() string
	Scrape(ctx context.Context, limit int) []article.Article
}

// SiteResult summarizes one publication's part of a run.
type SiteResult struct {
	Key      string        `json:"key"`
	Name     string        `json:"name"`
	Count    int           `json:"count"`
	Duration time.Duration `json:"duration"`
}

// Report is the outcome of a run. Articles keeps the scraper order.
type Report struct {
	RunID      uuid.UUID         `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Articles   []article.Article `json:"articles"`
	Sites      []SiteResult      `json:"sites"`
}

// Total returns the number of articles collected.
func (r *Report) Total() int {
	return len(r.Articles)
}

// Orchestrator runs scrapers sequentially.
type Orchestrator struct {
	scrapers []Scraper
	logger   *log.Logger
	now      func() time.Time
}

// New creates an orchestrator. A nil logger uses log.Default().
func New(scrapers []Scraper, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		scrapers: scrapers,
		logger:   logger,
		now:      time.Now,
	}
}

// Run scrapes every publication in order with the given per-publication
// limit. It always returns a report; a cancelled context stops the run
// before the next publication.
func (o *Orchestrator) Run(ctx context.Context, limit int) *Report {
	report := &Report{
		RunID:     uuid.New(),
		StartedAt: o.now(),
		Articles:  []article.Article{},
		Sites:     []SiteResult{},
	}

	for _, s := range o.scrapers {
		if err := ctx.Err(); err != nil {
			o.logger.Printf("WARN: Run %s stopped before %s: %v", report.RunID, s.Name(), err)
			break
		}

		o.logger.Printf("INFO: Scraping %s...", s.Name())
		start := o.now()
		articles := s.Scrape(ctx, limit)
		elapsed := o.now().Sub(start)
		metrics.RecordScrape(s.Key(), elapsed)

		report.Articles = append(report.Articles, articles...)
		report.Sites = append(report.Sites, SiteResult{
			Key:      s.Key(),
			Name:     s.Name(),
			Count:    len(articles),
			Duration: elapsed,
		})
		o.logger.Printf("INFO: Found %d articles from %s", len(articles), s.Name())
	}

	report.FinishedAt = o.now()
	return report
}
