package orchestrator

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/newsharvest/article"
	"github.com/pevans/newsharvest/fetch"
	"github.com/pevans/newsharvest/publication"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScraper struct {
	key      string
	articles []article.Article
	calls    *[]string
}

func (s *stubScraper) Key() string  { return s.key }
func (s *stubScraper) Name() string { return "Pub " + s.key }

func (s *stubScraper) Scrape(ctx context.Context, limit int) []article.Article {
	*s.calls = append(*s.calls, s.key)
	if len(s.articles) > limit {
		return s.articles[:limit]
	}
	return s.articles
}

func art(link string) article.Article {
	return article.Article{Title: link, Link: link}
}

func TestRun_SequentialAggregate(t *testing.T) {
	var calls []string
	var logs bytes.Buffer
	o := New([]Scraper{
		&stubScraper{key: "a", articles: []article.Article{art("a1"), art("a2"), art("a3")}, calls: &calls},
		&stubScraper{key: "b", articles: []article.Article{}, calls: &calls},
		&stubScraper{key: "c", articles: []article.Article{art("c1")}, calls: &calls},
	}, log.New(&logs, "", 0))

	report := o.Run(context.Background(), 2)

	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, 3, report.Total())
	assert.Equal(t, []string{"a1", "a2", "c1"}, []string{
		report.Articles[0].Link, report.Articles[1].Link, report.Articles[2].Link,
	})
	require.Len(t, report.Sites, 3)
	assert.Equal(t, 2, report.Sites[0].Count)
	assert.Equal(t, 0, report.Sites[1].Count)
	assert.Equal(t, 1, report.Sites[2].Count)
	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	assert.Contains(t, logs.String(), "INFO: Scraping Pub a...")
	assert.Contains(t, logs.String(), "INFO: Found 0 articles from Pub b")
}

func TestRun_NoScrapers(t *testing.T) {
	report := New(nil, log.New(&bytes.Buffer{}, "", 0)).Run(context.Background(), 2)

	require.NotNil(t, report.Articles)
	assert.Empty(t, report.Articles)
	assert.Empty(t, report.Sites)
}

func TestRun_CancelledStopsBeforeNext(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New([]Scraper{&stubScraper{key: "a", calls: &calls}}, log.New(&bytes.Buffer{}, "", 0))
	report := o.Run(ctx, 2)

	assert.Empty(t, calls)
	assert.Empty(t, report.Sites)
}

// TestRun_FailingPublicationDoesNotStopOthers runs real adapters against
// one broken and one working site
func TestRun_FailingPublicationDoesNotStopOthers(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/india-news":
			w.Write([]byte(`<a href="/india-news/story-1">one</a><a href="/india-news/story-2">two</a>`))
		default:
			w.Write([]byte(`<h1>Story</h1><span class="author-name">Reporter</span>`))
		}
	}))
	defer working.Close()

	pubs := publication.Builtin()
	pubs[0].BaseURL = broken.URL
	pubs[1].BaseURL = working.URL
	pubs = pubs[:2]

	logger := log.New(&bytes.Buffer{}, "", 0)
	adapters, err := publication.NewAll(pubs, fetch.NewSession(fetch.Options{Timeout: 5 * time.Second}), publication.Options{
		Pauser: publication.PauseFunc(func(context.Context, time.Duration) error { return nil }),
		Logger: logger,
	})
	require.NoError(t, err)

	scrapers := make([]Scraper, len(adapters))
	for i, a := range adapters {
		scrapers[i] = a
	}

	report := New(scrapers, logger).Run(context.Background(), 2)

	require.Len(t, report.Sites, 2)
	assert.Equal(t, 0, report.Sites[0].Count)
	assert.Equal(t, 2, report.Sites[1].Count)
	require.Len(t, report.Articles, 2)
	for _, a := range report.Articles {
		assert.Equal(t, "Hindustan Times", a.Publication)
		assert.Equal(t, "Reporter", a.Author)
		assert.True(t, a.Complete())
	}
}
