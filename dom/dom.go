// Package dom wraps goquery documents with the lookups the extractors need:
// first element by tag and predicate, all such elements in document order,
// and a CSS select-one.
package dom

import (
	"bytes"
	"fmt"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Predicate filters elements.
type Predicate func(*goquery.Selection) bool

// Parse builds a Document from raw HTML bytes.
func Parse(data []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// All yields every tag element satisfying all preds, in document order.
func (d *Document) All(tag string, preds ...Predicate) iter.Seq[*goquery.Selection] {
	return func(yield func(*goquery.Selection) bool) {
		nodes := d.doc.Find(tag)
		for i := range nodes.Length() {
			s := nodes.Eq(i)
			if matches(s, preds) && !yield(s) {
				return
			}
		}
	}
}

// First returns the first tag element satisfying all preds, or nil.
func (d *Document) First(tag string, preds ...Predicate) *goquery.Selection {
	for s := range d.All(tag, preds...) {
		return s
	}
	return nil
}

// SelectOne returns the first element matching a CSS selector, or nil.
func (d *Document) SelectOne(selector string) *goquery.Selection {
	s := d.doc.Find(selector).First()
	if s.Length() == 0 {
		return nil
	}
	return s
}

func matches(s *goquery.Selection, preds []Predicate) bool {
	for _, p := range preds {
		if !p(s) {
			return false
		}
	}
	return true
}

// HasAttr matches elements carrying the attribute, whatever its value.
func HasAttr(name string) Predicate {
	return func(s *goquery.Selection) bool {
		_, ok := s.Attr(name)
		return ok
	}
}

// AttrContains matches elements whose attribute value contains sub.
func AttrContains(name, sub string) Predicate {
	return func(s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && v != "" && strings.Contains(v, sub)
	}
}

// AttrEquals matches elements whose attribute value equals value.
func AttrEquals(name, value string) Predicate {
	return func(s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && v == value
	}
}

// AttrMatches matches elements whose attribute satisfies fn.
func AttrMatches(name string, fn func(string) bool) Predicate {
	return func(s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && fn(v)
	}
}

// HasClass matches elements carrying the class token.
func HasClass(class string) Predicate {
	return func(s *goquery.Selection) bool {
		return s.HasClass(class)
	}
}

// Within matches elements with an ancestor satisfying pred.
func Within(pred Predicate) Predicate {
	return func(s *goquery.Selection) bool {
		parents := s.Parents()
		for i := range parents.Length() {
			if pred(parents.Eq(i)) {
				return true
			}
		}
		return false
	}
}

// IsElement matches elements with the given tag name.
func IsElement(name string) Predicate {
	return func(s *goquery.Selection) bool {
		return goquery.NodeName(s) == strings.ToLower(name)
	}
}

// Text returns the element text with whitespace runs collapsed to single
// spaces.
func Text(s *goquery.Selection) string {
	if s == nil {
		return ""
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}

// Attr returns an attribute value, or "" when s is nil or lacks it.
func Attr(s *goquery.Selection, name string) string {
	if s == nil {
		return ""
	}
	v, _ := s.Attr(name)
	return v
}
