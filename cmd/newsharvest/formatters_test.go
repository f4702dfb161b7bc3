package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/pevans/newsharvest/article"
	"github.com/pevans/newsharvest/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout returns what fn writes to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(r)
		done <- data
	}()

	fn()
	w.Close()
	return string(<-done)
}

func testArticles(n int) []article.Article {
	out := make([]article.Article, n)
	for i := range n {
		out[i] = article.Article{
			Title:       fmt.Sprintf("Story %d", i+1),
			Publication: "Hindustan Times",
			Link:        fmt.Sprintf("https://www.hindustantimes.com/india-news/story-%d.html", i+1),
		}
	}
	return out
}

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name       string
		report     *orchestrator.Report
		contains   []string
		absent     []string
		previewLen int
	}{
		{
			name: "preview capped at three",
			report: &orchestrator.Report{
				Articles: testArticles(4),
				Sites: []orchestrator.SiteResult{
					{Key: "toi", Name: "The Times of India", Count: 0},
					{Key: "ht", Name: "Hindustan Times", Count: 4},
				},
			},
			contains: []string{
				"The Times of India     0 articles\n",
				"Hindustan Times        4 articles\n",
				"Total articles scraped: 4\n",
				"Data saved to out.json\n",
				"1. Story 1\n",
				"   Publication: Hindustan Times\n",
				"   Link: https://www.hindustantimes.com/india-news/story-3.html\n",
			},
			absent:     []string{"4. Story 4"},
			previewLen: 3,
		},
		{
			name: "fewer than three",
			report: &orchestrator.Report{
				Articles: testArticles(1),
				Sites:    []orchestrator.SiteResult{{Key: "ht", Name: "Hindustan Times", Count: 1}},
			},
			contains:   []string{"Total articles scraped: 1\n", "1. Story 1\n"},
			absent:     []string{"2. "},
			previewLen: 1,
		},
		{
			name: "no articles",
			report: &orchestrator.Report{
				Sites: []orchestrator.SiteResult{{Key: "et", Name: "Economic Times", Count: 0}},
			},
			contains:   []string{"Economic Times         0 articles\n", "Total articles scraped: 0\n", "Data saved to out.json\n"},
			absent:     []string{"1. ", "Publication:"},
			previewLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t, func() { printSummary(tt.report, "out.json") })

			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, out, unwanted)
			}
			assert.Equal(t, tt.previewLen, strings.Count(out, "   Link: "))
		})
	}
}
