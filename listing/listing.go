// Package listing discovers candidate article URLs on a publication's
// listing page or feed.
package listing

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/url"

	"github.com/pevans/newsharvest/dom"
	"github.com/pevans/newsharvest/fetch"
	"github.com/pevans/newsharvest/scraper"
)

// ErrListingFetch marks a listing page or feed that could not be fetched or
// parsed. The publication contributes no articles.
var ErrListingFetch = errors.New("listing fetch failed")

// Links yields the href of every <a> matching match, in document order,
// resolved against baseURL. Duplicates are kept.
func Links(doc *dom.Document, baseURL string, match func(string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for a := range doc.All("a", dom.AttrMatches("href", match)) {
			if !yield(Resolve(baseURL, dom.Attr(a, "href"))) {
				return
			}
		}
	}
}

// Resolve makes href absolute against baseURL. Unparseable input is
// returned unchanged.
func Resolve(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Scanner fetches listings through a shared session.
type Scanner struct {
	session *fetch.Session
	feeds   *FeedReader
}

// NewScanner creates a scanner.
func NewScanner(session *fetch.Session) *Scanner {
	return &Scanner{
		session: session,
		feeds:   NewFeedReader(session),
	}
}

// Scan returns the candidate URLs of pub. On failure it returns an empty
// sequence together with an error wrapping ErrListingFetch; callers log
// the error and carry on with zero candidates.
func (s *Scanner) Scan(ctx context.Context, pub *scraper.Publication) (iter.Seq[string], error) {
	match, err := pub.ListConfig.Link.Matcher()
	if err != nil {
		return empty, fmt.Errorf("%w: %s: %w", ErrListingFetch, pub.Key, err)
	}

	if pub.ListConfig.FeedURL != "" {
		links, err := s.feeds.Links(ctx, pub.ListConfig.FeedURL, pub.BaseURL, match)
		if err != nil {
			return empty, fmt.Errorf("%w: %s: %w", ErrListingFetch, pub.Key, err)
		}
		return links, nil
	}

	doc, err := s.session.Document(ctx, pub.ListingURL())
	if err != nil {
		return empty, fmt.Errorf("%w: %s: %w", ErrListingFetch, pub.Key, err)
	}
	return Links(doc, pub.BaseURL, match), nil
}

func empty(func(string) bool) {}
