package listing

import (
	"bytes"
	"context"
	"fmt"
	"iter"

	"github.com/mmcdole/gofeed"
	"github.com/pevans/newsharvest/fetch"
)

// FeedReader reads candidate links from RSS or Atom feeds. gofeed detects
// the format, so both are handled the same way.
type FeedReader struct {
	session *fetch.Session
	parser  *gofeed.Parser
}

// NewFeedReader creates a feed reader that fetches through session.
func NewFeedReader(session *fetch.Session) *FeedReader {
	return &FeedReader{
		session: session,
		parser:  gofeed.NewParser(),
	}
}

// Links fetches feedURL and yields the item links accepted by match,
// resolved against baseURL, in feed order.
func (r *FeedReader) Links(ctx context.Context, feedURL, baseURL string, match func(string) bool) (iter.Seq[string], error) {
	body, err := r.session.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := r.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return FeedLinks(feed, baseURL, match), nil
}

// FeedLinks yields the links of feed items accepted by match.
func FeedLinks(feed *gofeed.Feed, baseURL string, match func(string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, item := range feed.Items {
			link := item.Link
			if link == "" && len(item.Links) > 0 {
				link = item.Links[0]
			}
			if link == "" || !match(link) {
				continue
			}
			if !yield(Resolve(baseURL, link)) {
				return
			}
		}
	}
}
