package article

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Rand is the randomness source used for synthetic values. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a Rand seeded from the current time.
func NewRand() Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1))
}

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// MetricRanges configures the synthetic metrics of one publication.
type MetricRanges struct {
	// Views is in thousands; Shares in whole thousands; Engagement in
	// whole percent. The decimal digit of shares and engagement is drawn
	// separately.
	Views      Range `json:"views" yaml:"views"`
	Shares     Range `json:"shares" yaml:"shares"`
	Engagement Range `json:"engagement" yaml:"engagement"`
}

// ImageIDRange bounds the numeric ids substituted into fallback image
// templates.
var ImageIDRange = Range{Min: 100000, Max: 999999}

// ReadTimeRange bounds the synthetic read time in minutes.
var ReadTimeRange = Range{Min: 3, Max: 8}

// Synth generates synthetic display values from an injected Rand.
type Synth struct {
	rnd Rand
}

// NewSynth creates a Synth. A nil rnd uses NewRand.
func NewSynth(rnd Rand) *Synth {
	if rnd == nil {
		rnd = NewRand()
	}
	return &Synth{rnd: rnd}
}

// Between returns a value in the inclusive range r. A degenerate range
// returns r.Min.
func (s *Synth) Between(r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + s.rnd.IntN(r.Max-r.Min+1)
}

// ReadTime returns a string like "5 min read".
func (s *Synth) ReadTime() string {
	return fmt.Sprintf("%d min read", s.Between(ReadTimeRange))
}

// Metrics returns views, shares and engagement strings within ranges.
func (s *Synth) Metrics(ranges MetricRanges) Metrics {
	digit := Range{Min: 0, Max: 9}

	views := s.Between(ranges.Views)
	shares := s.Between(ranges.Shares)
	sharesTenth := s.Between(digit)
	engagement := s.Between(ranges.Engagement)
	engagementTenth := s.Between(digit)

	return Metrics{
		Views:      fmt.Sprintf("%dK", views),
		Shares:     fmt.Sprintf("%d.%dK", shares, sharesTenth),
		Engagement: fmt.Sprintf("%d.%d%%", engagement, engagementTenth),
	}
}

// FillTemplate replaces each "{id}" in tmpl with an independent random id
// drawn from ImageIDRange.
func (s *Synth) FillTemplate(tmpl string) string {
	const placeholder = "{id}"

	var b strings.Builder
	rest := tmpl
	for {
		i := strings.Index(rest, placeholder)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		b.WriteString(strconv.Itoa(s.Between(ImageIDRange)))
		rest = rest[i+len(placeholder):]
	}
	return b.String()
}

// Delay returns a duration uniform over [lo, hi). If hi <= lo it returns
// lo.
func (s *Synth) Delay(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.rnd.Float64()*float64(hi-lo))
}

// SeqRand is a deterministic Rand. IntN returns the next value of Ints
// reduced modulo n, and Float64 the next value of Floats; both cycle.
type SeqRand struct {
	Ints   []int
	Floats []float64

	i, f int
}

func (r *SeqRand) IntN(n int) int {
	if len(r.Ints) == 0 {
		return 0
	}
	v := r.Ints[r.i%len(r.Ints)]
	r.i++
	return v % n
}

func (r *SeqRand) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	v := r.Floats[r.f%len(r.Floats)]
	r.f++
	return v
}
