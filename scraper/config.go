package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pevans/newsharvest/article"
)

// Validation errors for publication configuration.
var (
	ErrMissingKey           = errors.New("publication key is required")
	ErrMissingBaseURL       = errors.New("base_url is required")
	ErrMissingName          = errors.New("name is required")
	ErrMissingLogo          = errors.New("logo is required")
	ErrMissingCategory      = errors.New("category is required")
	ErrMissingFallbackImage = errors.New("article_config.fallback_image is required")
	ErrMissingDefaultAuthor = errors.New("article_config.default_author is required")
	ErrInvalidLinkRule      = errors.New("invalid link rule")
	ErrInvalidImageRule     = errors.New("invalid image rule")
)

// Publication binds one site's markup conventions to the article schema.
type Publication struct {
	Key           string               `json:"key" yaml:"key"`
	Name          string               `json:"name" yaml:"name"`
	Logo          string               `json:"logo" yaml:"logo"`
	Category      string               `json:"category" yaml:"category"`
	BaseURL       string               `json:"base_url" yaml:"base_url"`
	ListConfig    ListConfig           `json:"list_config" yaml:"list_config"`
	ArticleConfig ArticleConfig        `json:"article_config" yaml:"article_config"`
	Metrics       article.MetricRanges `json:"metrics" yaml:"metrics"`
}

// ListConfig defines how candidate article links are discovered.
type ListConfig struct {
	// Path is appended to the publication base URL to form the listing page.
	Path string `json:"path" yaml:"path"`
	// FeedURL, when set, is an RSS or Atom feed used instead of the listing
	// page.
	FeedURL string   `json:"feed_url,omitempty" yaml:"feed_url,omitempty"`
	Link    LinkRule `json:"link" yaml:"link"`
}

// ArticleConfig defines how fields are read from an article page.
type ArticleConfig struct {
	// TitleAttribute, when set, prefers an <h1> carrying this attribute.
	TitleAttribute string      `json:"title_attribute,omitempty" yaml:"title_attribute,omitempty"`
	Author         TextRule    `json:"author" yaml:"author"`
	Date           DateRule    `json:"date" yaml:"date"`
	Images         []ImageRule `json:"images" yaml:"images"`
	// FallbackImage is a URL template; each "{id}" becomes a random id.
	FallbackImage string `json:"fallback_image" yaml:"fallback_image"`
	DefaultAuthor string `json:"default_author" yaml:"default_author"`
}

// LinkKind selects how a LinkRule matches an href.
type LinkKind string

const (
	LinkContains LinkKind = "contains"
	LinkPattern  LinkKind = "pattern"
)

// LinkRule matches candidate article hrefs on a listing page.
type LinkRule struct {
	Kind  LinkKind `json:"kind" yaml:"kind"`
	Value string   `json:"value" yaml:"value"`
}

// Matcher compiles the rule into a predicate over raw href values.
func (r LinkRule) Matcher() (func(string) bool, error) {
	switch r.Kind {
	case LinkContains:
		if r.Value == "" {
			return nil, fmt.Errorf("%w: contains rule needs a value", ErrInvalidLinkRule)
		}
		return func(href string) bool { return strings.Contains(href, r.Value) }, nil
	case LinkPattern:
		re, err := regexp.Compile(r.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidLinkRule, err)
		}
		return re.MatchString, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidLinkRule, r.Kind)
	}
}

// ImageKind tags an ImageRule.
type ImageKind string

const (
	// AttributePresent matches an <img> carrying Attribute.
	AttributePresent ImageKind = "attribute_present"
	// AttributeContains matches an <img> whose Attribute contains Substring.
	AttributeContains ImageKind = "attribute_contains"
	// ClassContainer matches an <img> nested inside an element with class
	// ClassName, or inside an Element of that name when ClassName is empty.
	ClassContainer ImageKind = "class_container"
)

// ImageRule is one step of the image fallback chain.
type ImageRule struct {
	Kind      ImageKind `json:"kind" yaml:"kind"`
	Attribute string    `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Substring string    `json:"substring,omitempty" yaml:"substring,omitempty"`
	ClassName string    `json:"class_name,omitempty" yaml:"class_name,omitempty"`
	Element   string    `json:"element,omitempty" yaml:"element,omitempty"`
}

// Validate checks that the fields the rule kind needs are present.
func (r ImageRule) Validate() error {
	switch r.Kind {
	case AttributePresent:
		if r.Attribute == "" {
			return fmt.Errorf("%w: %s needs an attribute", ErrInvalidImageRule, r.Kind)
		}
	case AttributeContains:
		if r.Attribute == "" || r.Substring == "" {
			return fmt.Errorf("%w: %s needs an attribute and a substring", ErrInvalidImageRule, r.Kind)
		}
	case ClassContainer:
		if r.ClassName == "" && r.Element == "" {
			return fmt.Errorf("%w: %s needs a class name or an element", ErrInvalidImageRule, r.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidImageRule, r.Kind)
	}
	return nil
}

// TextRule selects the first Element carrying ClassName (any Element when
// ClassName is empty) and reads its text.
type TextRule struct {
	Element   string `json:"element" yaml:"element"`
	ClassName string `json:"class_name,omitempty" yaml:"class_name,omitempty"`
}

// DateRule is a TextRule that may read an attribute instead of the text and
// truncate the result.
type DateRule struct {
	TextRule  `yaml:",inline"`
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	MaxLen    int    `json:"max_len,omitempty" yaml:"max_len,omitempty"`
}

// DefaultImageRules returns the standard image chain with token as the
// site-specific src fragment.
func DefaultImageRules(token string) []ImageRule {
	return []ImageRule{
		{Kind: AttributePresent, Attribute: "data-src"},
		{Kind: AttributeContains, Attribute: "src", Substring: token},
		{Kind: AttributeContains, Attribute: "alt", Substring: "article"},
		{Kind: ClassContainer, ClassName: "article-image"},
		{Kind: ClassContainer, ClassName: "hero-image"},
		{Kind: ClassContainer, Element: "figure"},
		{Kind: AttributePresent, Attribute: "alt"},
	}
}

// Validate checks a publication definition. Every field that ends up
// verbatim in an Article must be set, so no article can come out empty.
func (p *Publication) Validate() error {
	if p.Key == "" {
		return ErrMissingKey
	}

	required := []struct {
		value string
		err   error
	}{
		{p.BaseURL, ErrMissingBaseURL},
		{p.Name, ErrMissingName},
		{p.Logo, ErrMissingLogo},
		{p.Category, ErrMissingCategory},
		{p.ArticleConfig.FallbackImage, ErrMissingFallbackImage},
		{p.ArticleConfig.DefaultAuthor, ErrMissingDefaultAuthor},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s: %w", p.Key, field.err)
		}
	}

	if _, err := p.ListConfig.Link.Matcher(); err != nil {
		return fmt.Errorf("%s: %w", p.Key, err)
	}
	for i, rule := range p.ArticleConfig.Images {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("%s: image rule %d: %w", p.Key, i, err)
		}
	}
	return nil
}

// ListingURL returns the absolute listing page URL.
func (p *Publication) ListingURL() string {
	return strings.TrimRight(p.BaseURL, "/") + "/" + strings.TrimLeft(p.ListConfig.Path, "/")
}
