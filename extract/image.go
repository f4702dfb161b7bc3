package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newsharvest/dom"
	"github.com/pevans/newsharvest/scraper"
)

// Image resolves the article image. The configured rules are tried in
// order and the first matching <img> wins; later rules never run. A
// missing, blocked or empty URL becomes the publication's synthetic
// fallback, so the result is never empty.
func (e *Extractor) Image(doc *dom.Document) string {
	img := MatchImage(doc, e.config.Images)
	if img == nil {
		return e.FallbackImage()
	}

	src := dom.Attr(img, "data-src")
	if src == "" {
		src = dom.Attr(img, "src")
	}
	if src == "" {
		return e.FallbackImage()
	}

	src = resolve(e.baseURL, src)
	if Blocked(src) {
		return e.FallbackImage()
	}
	return src
}

// FallbackImage fills the publication's fallback template.
func (e *Extractor) FallbackImage() string {
	return e.synth.FillTemplate(e.config.FallbackImage)
}

// MatchImage returns the <img> selected by the first rule that matches, or
// nil.
func MatchImage(doc *dom.Document, rules []scraper.ImageRule) *goquery.Selection {
	for _, rule := range rules {
		pred := rulePredicate(rule)
		if pred == nil {
			continue
		}
		if img := doc.First("img", pred); img != nil {
			return img
		}
	}
	return nil
}

func rulePredicate(rule scraper.ImageRule) dom.Predicate {
	switch rule.Kind {
	case scraper.AttributePresent:
		return dom.HasAttr(rule.Attribute)
	case scraper.AttributeContains:
		return dom.AttrContains(rule.Attribute, rule.Substring)
	case scraper.ClassContainer:
		if rule.ClassName != "" {
			return dom.Within(dom.HasClass(rule.ClassName))
		}
		return dom.Within(dom.IsElement(rule.Element))
	default:
		return nil
	}
}

// Blocked reports whether src contains any of BlockedImageMarkers.
func Blocked(src string) bool {
	lower := strings.ToLower(src)
	for _, marker := range BlockedImageMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
