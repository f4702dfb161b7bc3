package article

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSynthBetween_Inclusive verifies both bounds are reachable
func TestSynthBetween_Inclusive(t *testing.T) {
	r := Range{Min: 3, Max: 8}

	low := NewSynth(&SeqRand{Ints: []int{0}})
	high := NewSynth(&SeqRand{Ints: []int{5}})

	assert.Equal(t, 3, low.Between(r))
	assert.Equal(t, 8, high.Between(r))
}

// TestSynthBetween_Degenerate verifies an empty range returns its minimum
func TestSynthBetween_Degenerate(t *testing.T) {
	s := NewSynth(&SeqRand{Ints: []int{7}})

	assert.Equal(t, 4, s.Between(Range{Min: 4, Max: 4}))
	assert.Equal(t, 4, s.Between(Range{Min: 4, Max: 2}))
}

// TestSynthReadTime verifies read time formatting
func TestSynthReadTime(t *testing.T) {
	s := NewSynth(&SeqRand{Ints: []int{2}})

	assert.Equal(t, "5 min read", s.ReadTime())
}

// TestSynthMetrics_Deterministic verifies exact metric strings for a fixed
// source
func TestSynthMetrics_Deterministic(t *testing.T) {
	// views, shares, shares tenth, engagement, engagement tenth
	s := NewSynth(&SeqRand{Ints: []int{10, 2, 7, 1, 3}})

	m := s.Metrics(MetricRanges{
		Views:      Range{Min: 50, Max: 200},
		Shares:     Range{Min: 1, Max: 5},
		Engagement: Range{Min: 5, Max: 12},
	})

	assert.Equal(t, "60K", m.Views)
	assert.Equal(t, "3.7K", m.Shares)
	assert.Equal(t, "6.3%", m.Engagement)
}

// TestSynthMetrics_Format verifies metric shape with a real source
func TestSynthMetrics_Format(t *testing.T) {
	s := NewSynth(nil)
	ranges := MetricRanges{
		Views:      Range{Min: 30, Max: 150},
		Shares:     Range{Min: 1, Max: 4},
		Engagement: Range{Min: 4, Max: 10},
	}

	for range 50 {
		m := s.Metrics(ranges)
		assert.Regexp(t, `^\d+K$`, m.Views)
		assert.Regexp(t, `^\d\.\dK$`, m.Shares)
		assert.Regexp(t, `^\d+\.\d%$`, m.Engagement)
	}
}

// TestSynthFillTemplate_IndependentIDs verifies each placeholder gets its
// own id
func TestSynthFillTemplate_IndependentIDs(t *testing.T) {
	s := NewSynth(&SeqRand{Ints: []int{1, 2}})

	got := s.FillTemplate("https://img.example.com/msid-{id}/{id}.jpg")

	assert.Equal(t, "https://img.example.com/msid-100001/100002.jpg", got)
}

// TestSynthFillTemplate_NoPlaceholder verifies templates without ids pass
// through
func TestSynthFillTemplate_NoPlaceholder(t *testing.T) {
	s := NewSynth(nil)

	assert.Equal(t, "https://example.com/default.jpg", s.FillTemplate("https://example.com/default.jpg"))
}

// TestSynthFillTemplate_IDRange verifies generated ids are six digits
func TestSynthFillTemplate_IDRange(t *testing.T) {
	s := NewSynth(nil)
	re := regexp.MustCompile(`^https://static\.example\.com/photo/(\d{6})\.cms$`)

	for range 50 {
		got := s.FillTemplate("https://static.example.com/photo/{id}.cms")
		require.Regexp(t, re, got)
	}
}

// TestSynthDelay verifies delay stays in the half-open range
func TestSynthDelay(t *testing.T) {
	s := NewSynth(&SeqRand{Floats: []float64{0, 0.5, 0.999}})

	assert.Equal(t, time.Second, s.Delay(time.Second, 3*time.Second))
	assert.Equal(t, 2*time.Second, s.Delay(time.Second, 3*time.Second))
	d := s.Delay(time.Second, 3*time.Second)
	assert.Less(t, d, 3*time.Second)
	assert.Equal(t, time.Second, s.Delay(time.Second, time.Second))
}

// TestArticleComplete verifies the completeness check
func TestArticleComplete(t *testing.T) {
	a := Article{
		Title:           "T",
		Publication:     "P",
		PublicationLogo: "https://example.com/logo.png",
		PublishDate:     "2024-12-01",
		Category:        "News",
		Excerpt:         "E",
		Image:           "https://example.com/i.jpg",
		ReadTime:        "3 min read",
		Author:          "A",
		Link:            "https://example.com/a",
		Metrics:         Metrics{Views: "1K", Shares: "1.0K", Engagement: "1.0%"},
	}
	assert.True(t, a.Complete())

	a.Metrics.Shares = ""
	assert.False(t, a.Complete())
}

// TestContainsLink verifies linear link lookup
func TestContainsLink(t *testing.T) {
	articles := []Article{{Link: "https://a"}, {Link: "https://b"}}

	assert.True(t, ContainsLink(articles, "https://b"))
	assert.False(t, ContainsLink(articles, "https://c"))
	assert.False(t, ContainsLink(nil, "https://a"))
}
