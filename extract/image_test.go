package extract

import (
	"testing"

	"github.com/pevans/newsharvest/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestImage_DataSrcBeatsContainer verifies rule priority: a data-src image
// is chosen over a class-container image that appears earlier
func TestImage_DataSrcBeatsContainer(t *testing.T) {
	doc := parse(t, `
		<div class="article-image"><img src="https://cdn.example.com/hero.jpg"></div>
		<img data-src="https://cdn.example.com/lazy.jpg" src="placeholder.gif">`)

	assert.Equal(t, "https://cdn.example.com/lazy.jpg", fixedExtractor(testConfig()).Image(doc))
}

// TestImage_RuleOrder verifies each rule is reached only when earlier ones
// miss
func TestImage_RuleOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "site token",
			html: `<img src="https://a.example.com/x.jpg" alt="pic"><img src="https://cdn.example.com/photo/1.jpg">`,
			want: "https://cdn.example.com/photo/1.jpg",
		},
		{
			name: "alt mentions article",
			html: `<figure><img src="https://a.example.com/fig.jpg"></figure><img src="https://a.example.com/main.jpg" alt="main article image">`,
			want: "https://a.example.com/main.jpg",
		},
		{
			name: "article-image before hero-image",
			html: `<div class="hero-image"><img src="https://a.example.com/hero.jpg"></div><div class="article-image"><img src="https://a.example.com/art.jpg"></div>`,
			want: "https://a.example.com/art.jpg",
		},
		{
			name: "hero-image before figure",
			html: `<figure><img src="https://a.example.com/fig.jpg"></figure><section class="hero-image"><img src="https://a.example.com/hero.jpg"></section>`,
			want: "https://a.example.com/hero.jpg",
		},
		{
			name: "figure before bare alt",
			html: `<img src="https://a.example.com/alt.jpg" alt="x"><figure><img src="https://a.example.com/fig.jpg"></figure>`,
			want: "https://a.example.com/fig.jpg",
		},
		{
			name: "any alt",
			html: `<img src="https://a.example.com/noalt.jpg"><img src="https://a.example.com/alt.jpg" alt="">`,
			want: "https://a.example.com/alt.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixedExtractor(testConfig()).Image(parse(t, tt.html)))
		})
	}
}

// TestImage_PrefersDataSrcOverSrc verifies attribute preference on the
// matched element
func TestImage_PrefersDataSrcOverSrc(t *testing.T) {
	doc := parse(t, `<figure><img src="https://a.example.com/small.jpg" data-src="https://a.example.com/large.jpg"></figure>`)

	assert.Equal(t, "https://a.example.com/large.jpg", fixedExtractor(testConfig()).Image(doc))
}

// TestImage_RelativeResolved verifies relative paths become absolute
func TestImage_RelativeResolved(t *testing.T) {
	tests := map[string]string{
		"/img/2024/a.jpg":               "https://news.example.com/img/2024/a.jpg",
		"img/b.jpg":                     "https://news.example.com/img/b.jpg",
		"//cdn.example.org/c.jpg":       "https://cdn.example.org/c.jpg",
		"https://cdn.example.org/d.jpg": "https://cdn.example.org/d.jpg",
	}

	for src, want := range tests {
		doc := parse(t, `<img data-src="`+src+`">`)
		got := fixedExtractor(testConfig()).Image(doc)
		assert.Equal(t, want, got, "src %q", src)
	}
}

// TestImage_BlockedFallsBack verifies block-listed URLs are replaced by the
// synthetic fallback
func TestImage_BlockedFallsBack(t *testing.T) {
	srcs := []string{
		"https://cdn.example.com/site-logo.png",
		"https://cdn.example.com/LOGO/main.png",
		"/static/icons/share.png",
		"https://cdn.example.com/sprite.svg",
		"https://cdn.example.com/ad-free-banner.jpg",
	}

	for _, src := range srcs {
		doc := parse(t, `<img data-src="`+src+`"><figure><img src="https://cdn.example.com/good.jpg"></figure>`)
		got := fixedExtractor(testConfig()).Image(doc)
		assert.Equal(t, fallbackImage, got, "src %q", src)
	}
}

// TestImage_NoMatchFallsBack verifies a page without candidate images
// falls back
func TestImage_NoMatchFallsBack(t *testing.T) {
	doc := parse(t, `<img src="https://a.example.com/untagged.jpg"><p>text</p>`)

	assert.Equal(t, fallbackImage, fixedExtractor(testConfig()).Image(doc))
}

// TestImage_EmptyURLFallsBack verifies a matched element without a usable
// URL falls back
func TestImage_EmptyURLFallsBack(t *testing.T) {
	doc := parse(t, `<img data-src="" alt="article">`)

	assert.Equal(t, fallbackImage, fixedExtractor(testConfig()).Image(doc))
}

// TestImage_FallbackTemplatePerPublication verifies multi-id templates
func TestImage_FallbackTemplatePerPublication(t *testing.T) {
	config := testConfig()
	config.FallbackImage = "https://img.example.com/thumb/msid-{id},width-400/{id}.jpg"

	got := fixedExtractor(config).Image(parse(t, ``))

	assert.Equal(t, "https://img.example.com/thumb/msid-100007,width-400/100007.jpg", got)
}

// TestMatchImage_StopsAtFirstMatch verifies later rules are never
// evaluated once one matches
func TestMatchImage_StopsAtFirstMatch(t *testing.T) {
	doc := parse(t, `<img alt="a" src="/first.jpg"><img data-src="/second.jpg">`)
	rules := []scraper.ImageRule{
		{Kind: scraper.AttributePresent, Attribute: "alt"},
		{Kind: scraper.AttributePresent, Attribute: "data-src"},
	}

	img := MatchImage(doc, rules)
	require.NotNil(t, img)
	src, _ := img.Attr("src")
	assert.Equal(t, "/first.jpg", src)

	assert.Nil(t, MatchImage(doc, nil))
	assert.Nil(t, MatchImage(doc, []scraper.ImageRule{{Kind: "unknown"}}))
}

// TestBlocked verifies the block-list check
func TestBlocked(t *testing.T) {
	assert.True(t, Blocked("https://x/FavIcon.png"))
	assert.True(t, Blocked("https://x/a.SVG"))
	assert.False(t, Blocked("https://x/photo/1.jpg"))
}
