package publication

import (
	"testing"

	"github.com/pevans/newsharvest/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Valid(t *testing.T) {
	pubs := Builtin()
	require.Len(t, pubs, 3)

	for _, p := range pubs {
		assert.NoError(t, p.Validate(), p.Key)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Logo)
		assert.NotEmpty(t, p.Category)
		assert.NotEmpty(t, p.ArticleConfig.DefaultAuthor)
		assert.Contains(t, p.ArticleConfig.FallbackImage, "{id}")
	}

	assert.Equal(t, "https://timesofindia.indiatimes.com/business/india-business", pubs[0].ListingURL())
	assert.Equal(t, "https://www.hindustantimes.com/india-news", pubs[1].ListingURL())
	assert.Equal(t, "https://economictimes.indiatimes.com/markets", pubs[2].ListingURL())
}

// TestBuiltin_FreshCopies verifies callers can modify the result safely
func TestBuiltin_FreshCopies(t *testing.T) {
	Builtin()[0].BaseURL = "http://changed"

	assert.Equal(t, "https://timesofindia.indiatimes.com", Builtin()[0].BaseURL)
}

func TestSelect(t *testing.T) {
	pubs := Builtin()

	got, err := Select(pubs, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = Select(pubs, []string{EconomicTimes, TimesOfIndia})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, TimesOfIndia, got[0].Key)
	assert.Equal(t, EconomicTimes, got[1].Key)

	_, err = Select(pubs, []string{"nyt"})
	assert.Error(t, err)
}

func TestNewAll(t *testing.T) {
	adapters, err := NewAll(Builtin(), fetch.NewSession(fetch.Options{}), Options{})
	require.NoError(t, err)
	require.Len(t, adapters, 3)

	assert.Equal(t, "ht", adapters[1].Key())
	assert.Equal(t, "Hindustan Times", adapters[1].Name())
	assert.Equal(t, Idle, adapters[1].State())
}
