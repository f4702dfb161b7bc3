// Package extract reads article fields from a parsed page. Every field
// resolves to a value: when its selector finds nothing the field falls back
// to a fixed default, so a miss is never reported as an error.
package extract

import (
	"html"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pevans/newsharvest/article"
	"github.com/pevans/newsharvest/dom"
	"github.com/pevans/newsharvest/scraper"
)

const (
	// PlaceholderTitle is used when a page has no usable <h1>.
	PlaceholderTitle = "Article Title"
	// PlaceholderDate is used when no publish date can be read.
	PlaceholderDate = "2024-12-01"
	// ExcerptLength is the number of title runes kept in a fallback excerpt.
	ExcerptLength = 150
)

// BlockedImageMarkers reject an image URL when any appears in it, compared
// case-insensitively.
var BlockedImageMarkers = []string{"icon", "logo", "svg", "ad-free"}

var strict = bluemonday.StrictPolicy()

// Fields holds the values read from one article page.
type Fields struct {
	Title   string
	Excerpt string
	Image   string
	Author  string
	Date    string
}

// Extractor reads fields for one publication.
type Extractor struct {
	baseURL string
	config  scraper.ArticleConfig
	synth   *article.Synth
}

// New creates an extractor. baseURL resolves relative image paths; synth
// supplies fallback image ids and may be nil.
func New(baseURL string, config scraper.ArticleConfig, synth *article.Synth) *Extractor {
	if synth == nil {
		synth = article.NewSynth(nil)
	}
	return &Extractor{
		baseURL: baseURL,
		config:  config,
		synth:   synth,
	}
}

// Extract reads every field from doc.
func (e *Extractor) Extract(doc *dom.Document) Fields {
	title := Title(doc, e.config.TitleAttribute)
	return Fields{
		Title:   title,
		Excerpt: Excerpt(doc, title),
		Image:   e.Image(doc),
		Author:  Text(doc, e.config.Author, e.config.DefaultAuthor),
		Date:    Date(doc, e.config.Date),
	}
}

// Title returns the text of the first <h1> carrying attr, else of the
// first <h1>, else PlaceholderTitle.
func Title(doc *dom.Document, attr string) string {
	var h1 *goquery.Selection
	if attr != "" {
		h1 = doc.First("h1", dom.HasAttr(attr))
	}
	if h1 == nil {
		h1 = doc.First("h1")
	}

	title := dom.Text(h1)
	if title == "" {
		return PlaceholderTitle
	}
	return title
}

// Excerpt returns the meta description, else title truncated to
// ExcerptLength runes followed by "...".
func Excerpt(doc *dom.Document, title string) string {
	meta := doc.First("meta", dom.AttrEquals("name", "description"))
	if desc := clean(dom.Attr(meta, "content")); desc != "" {
		return desc
	}
	return truncate(title, ExcerptLength) + "..."
}

// Text returns the trimmed text of the first element matching rule, else
// def.
func Text(doc *dom.Document, rule scraper.TextRule, def string) string {
	if rule.Element == "" {
		return def
	}

	var preds []dom.Predicate
	if rule.ClassName != "" {
		preds = append(preds, dom.HasClass(rule.ClassName))
	}

	if v := clean(dom.Text(doc.First(rule.Element, preds...))); v != "" {
		return v
	}
	return def
}

// Date returns the publish date read by rule, else PlaceholderDate.
func Date(doc *dom.Document, rule scraper.DateRule) string {
	if rule.Element == "" {
		return PlaceholderDate
	}

	var preds []dom.Predicate
	if rule.ClassName != "" {
		preds = append(preds, dom.HasClass(rule.ClassName))
	}
	elem := doc.First(rule.Element, preds...)

	var v string
	if rule.Attribute != "" {
		v = strings.TrimSpace(dom.Attr(elem, rule.Attribute))
	} else {
		v = dom.Text(elem)
	}
	if rule.MaxLen > 0 {
		v = truncate(v, rule.MaxLen)
	}

	if v == "" {
		return PlaceholderDate
	}
	return v
}

// clean strips markup and collapses whitespace. The sanitizer escapes
// entities, so its output is unescaped back to plain text.
func clean(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(strict.Sanitize(s))), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// resolve makes ref absolute against base. A ref already starting with
// "http" is returned unchanged.
func resolve(base, ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
