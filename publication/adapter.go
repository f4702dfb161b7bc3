// Package publication binds a publication's configuration to the fetch,
// listing and extraction steps and produces normalized articles.
package publication

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/pevans/newsharvest/article"
	"github.com/pevans/newsharvest/extract"
	"github.com/pevans/newsharvest/fetch"
	"github.com/pevans/newsharvest/listing"
	"github.com/pevans/newsharvest/metrics"
	"github.com/pevans/newsharvest/scraper"
)

// ErrArticleFetch marks an article page that could not be fetched. The
// candidate is skipped.
var ErrArticleFetch = errors.New("article fetch failed")

// Default politeness pause bounds.
const (
	DefaultDelayMin = 1 * time.Second
	DefaultDelayMax = 3 * time.Second
)

// State is the progress of one Scrape call.
type State int

const (
	Idle State = iota
	FetchingListing
	EmptyResult
	ExtractingArticles
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FetchingListing:
		return "fetching_listing"
	case EmptyResult:
		return "empty_result"
	case ExtractingArticles:
		return "extracting_articles"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Pauser blocks between article fetches.
type Pauser interface {
	Pause(ctx context.Context, d time.Duration) error
}

// PauseFunc adapts a function to Pauser.
type PauseFunc func(ctx context.Context, d time.Duration) error

func (f PauseFunc) Pause(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Options tunes an Adapter. Zero values select defaults.
type Options struct {
	// DelayMin and DelayMax bound the pause after each successful article.
	// When both are zero the defaults apply.
	DelayMin time.Duration
	DelayMax time.Duration
	Pauser   Pauser
	Synth    *article.Synth
	Logger   *log.Logger
}

// Adapter scrapes one publication.
type Adapter struct {
	pub       *scraper.Publication
	session   *fetch.Session
	scanner   *listing.Scanner
	extractor *extract.Extractor
	synth     *article.Synth
	pauser    Pauser
	logger    *log.Logger
	delayMin  time.Duration
	delayMax  time.Duration
	states    []State
}

// New creates an adapter for pub. The publication is validated first.
func New(pub *scraper.Publication, session *fetch.Session, opts Options) (*Adapter, error) {
	if err := pub.Validate(); err != nil {
		return nil, fmt.Errorf("invalid publication: %w", err)
	}

	if opts.DelayMin == 0 && opts.DelayMax == 0 {
		opts.DelayMin, opts.DelayMax = DefaultDelayMin, DefaultDelayMax
	}
	if opts.Pauser == nil {
		opts.Pauser = PauseFunc(Sleep)
	}
	if opts.Synth == nil {
		opts.Synth = article.NewSynth(nil)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Adapter{
		pub:       pub,
		session:   session,
		scanner:   listing.NewScanner(session),
		extractor: extract.New(pub.BaseURL, pub.ArticleConfig, opts.Synth),
		synth:     opts.Synth,
		pauser:    opts.Pauser,
		logger:    opts.Logger,
		delayMin:  opts.DelayMin,
		delayMax:  opts.DelayMax,
		states:    []State{Idle},
	}, nil
}

// Key returns the publication key.
func (a *Adapter) Key() string {
	return a.pub.Key
}

// Name returns the publication display name.
func (a *Adapter) Name() string {
	return a.pub.Name
}

// Publication returns the adapter's configuration.
func (a *Adapter) Publication() *scraper.Publication {
	return a.pub
}

// State returns the current state.
func (a *Adapter) State() State {
	return a.states[len(a.states)-1]
}

// States returns the states visited by the most recent Scrape, starting
// with Idle.
func (a *Adapter) States() []State {
	return slices.Clone(a.states)
}

func (a *Adapter) enter(s State) {
	a.states = append(a.states, s)
}

// Scrape visits at most limit candidate links and returns the articles that
// could be fetched. The limit bounds candidates, not successes. Failures
// are logged and never returned; a failed listing yields an empty slice.
func (a *Adapter) Scrape(ctx context.Context, limit int) []article.Article {
	articles := []article.Article{}
	a.states = []State{Idle}
	defer a.enter(Done)

	a.enter(FetchingListing)
	candidates, err := a.scanner.Scan(ctx, a.pub)
	if err != nil {
		a.logger.Printf("ERROR: Failed to scrape %s: %v", a.pub.Name, err)
		metrics.RecordListingFailure(a.pub.Key)
		a.enter(EmptyResult)
		return articles
	}

	a.enter(ExtractingArticles)
	visited := 0
	pending := false
	for link := range candidates {
		if visited >= limit {
			break
		}
		visited++

		if article.ContainsLink(articles, link) {
			metrics.RecordArticle(a.pub.Key, metrics.StatusDuplicate)
			continue
		}

		if pending {
			if err := a.pauser.Pause(ctx, a.synth.Delay(a.delayMin, a.delayMax)); err != nil {
				a.logger.Printf("WARN: Stopping %s early: %v", a.pub.Name, err)
				break
			}
			pending = false
		}
		if ctx.Err() != nil {
			a.logger.Printf("WARN: Stopping %s early: %v", a.pub.Name, ctx.Err())
			break
		}

		art, err := a.scrapeArticle(ctx, link)
		if err != nil {
			a.logger.Printf("WARN: Skipping %s article: %v", a.pub.Name, err)
			metrics.RecordArticle(a.pub.Key, metrics.StatusFailed)
			continue
		}

		articles = append(articles, art)
		metrics.RecordArticle(a.pub.Key, metrics.StatusOK)
		pending = true
	}

	return articles
}

// scrapeArticle fetches one article page and builds its record.
func (a *Adapter) scrapeArticle(ctx context.Context, link string) (article.Article, error) {
	doc, err := a.session.Document(ctx, link)
	if err != nil {
		return article.Article{}, fmt.Errorf("%w: %w", ErrArticleFetch, err)
	}

	fields := a.extractor.Extract(doc)

	return article.Article{
		Title:           fields.Title,
		Publication:     a.pub.Name,
		PublicationLogo: a.pub.Logo,
		PublishDate:     fields.Date,
		Category:        a.pub.Category,
		Excerpt:         fields.Excerpt,
		Image:           fields.Image,
		ReadTime:        a.synth.ReadTime(),
		Author:          fields.Author,
		Link:            link,
		Metrics:         a.synth.Metrics(a.pub.Metrics),
	}, nil
}
