package publication

import (
	"fmt"

	"github.com/pevans/newsharvest/article"
	"github.com/pevans/newsharvest/fetch"
	"github.com/pevans/newsharvest/scraper"
)

// Keys of the built-in publications.
const (
	TimesOfIndia   = "toi"
	HindustanTimes = "ht"
	EconomicTimes  = "et"
)

// Builtin returns fresh copies of the built-in publications in run order.
func Builtin() []*scraper.Publication {
	return []*scraper.Publication{
		{
			Key:      TimesOfIndia,
			Name:     "The Times of India",
			Logo:     "https://static.toiimg.com/photo/47529300.cms",
			Category: "Business",
			BaseURL:  "https://timesofindia.indiatimes.com",
			ListConfig: scraper.ListConfig{
				Path: "/business/india-business",
				Link: scraper.LinkRule{Kind: scraper.LinkPattern, Value: `/articleshow/`},
			},
			ArticleConfig: scraper.ArticleConfig{
				TitleAttribute: "data-article-title",
				Author:         scraper.TextRule{Element: "a", ClassName: "auth_detail"},
				Date:           scraper.DateRule{TextRule: scraper.TextRule{Element: "span", ClassName: "date"}},
				Images:         scraper.DefaultImageRules("photo"),
				FallbackImage:  "https://static.toiimg.com/photo/{id}.cms",
				DefaultAuthor:  "TOI Correspondent",
			},
			Metrics: article.MetricRanges{
				Views:      article.Range{Min: 50, Max: 200},
				Shares:     article.Range{Min: 1, Max: 5},
				Engagement: article.Range{Min: 5, Max: 12},
			},
		},
		{
			Key:      HindustanTimes,
			Name:     "Hindustan Times",
			Logo:     "https://www.hindustantimes.com/ht-img/img/2023/09/15/1600x900/HT_1694767296495_1694767296731.jpg",
			Category: "News",
			BaseURL:  "https://www.hindustantimes.com",
			ListConfig: scraper.ListConfig{
				Path: "/india-news",
				Link: scraper.LinkRule{Kind: scraper.LinkPattern, Value: `/india-news/`},
			},
			ArticleConfig: scraper.ArticleConfig{
				Author:        scraper.TextRule{Element: "span", ClassName: "author-name"},
				Date:          scraper.DateRule{TextRule: scraper.TextRule{Element: "span", ClassName: "date-published"}},
				Images:        scraper.DefaultImageRules("ht-img"),
				FallbackImage: "https://www.hindustantimes.com/ht-img/img/2024/12/01/550x309/default_{id}.jpg",
				DefaultAuthor: "HT Correspondent",
			},
			Metrics: article.MetricRanges{
				Views:      article.Range{Min: 30, Max: 150},
				Shares:     article.Range{Min: 1, Max: 4},
				Engagement: article.Range{Min: 4, Max: 10},
			},
		},
		{
			Key:      EconomicTimes,
			Name:     "Economic Times",
			Logo:     "https://img.etimg.com/photo/msid-111111111,quality-100/et-logo.jpg",
			Category: "Markets",
			BaseURL:  "https://economictimes.indiatimes.com",
			ListConfig: scraper.ListConfig{
				Path: "/markets",
				Link: scraper.LinkRule{Kind: scraper.LinkPattern, Value: `/articleshow/`},
			},
			ArticleConfig: scraper.ArticleConfig{
				Author: scraper.TextRule{Element: "span", ClassName: "ag"},
				Date: scraper.DateRule{
					TextRule:  scraper.TextRule{Element: "time"},
					Attribute: "datetime",
					MaxLen:    10,
				},
				Images:        scraper.DefaultImageRules("etimg"),
				FallbackImage: "https://img.etimg.com/thumb/msid-{id},width-400,height-300,resizemode-4/{id}.jpg",
				DefaultAuthor: "ET Bureau",
			},
			Metrics: article.MetricRanges{
				Views:      article.Range{Min: 40, Max: 180},
				Shares:     article.Range{Min: 1, Max: 4},
				Engagement: article.Range{Min: 5, Max: 11},
			},
		},
	}
}

// Select returns the publications whose keys are in keys, in the order of
// pubs. An empty keys selects all. Unknown keys are an error.
func Select(pubs []*scraper.Publication, keys []string) ([]*scraper.Publication, error) {
	if len(keys) == 0 {
		return pubs, nil
	}

	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	var selected []*scraper.Publication
	for _, p := range pubs {
		if want[p.Key] {
			selected = append(selected, p)
			delete(want, p.Key)
		}
	}
	for k := range want {
		return nil, fmt.Errorf("unknown publication %q", k)
	}
	return selected, nil
}

// NewAll creates one adapter per publication sharing session and opts.
func NewAll(pubs []*scraper.Publication, session *fetch.Session, opts Options) ([]*Adapter, error) {
	adapters := make([]*Adapter, 0, len(pubs))
	for _, p := range pubs {
		a, err := New(p, session, opts)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}
