package archive

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pevans/newsharvest/article"
)

// DefaultOutput is the file written when no output path is configured.
const DefaultOutput = "scraped_articles.json"

// WriteJSON writes articles to path as an indented JSON array. HTML
// characters are not escaped; an empty collection is written as [].
func WriteJSON(path string, articles []article.Article) error {
	if articles == nil {
		articles = []article.Article{}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		f.Close()
		return fmt.Errorf("failed to write articles: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// ReadJSON reads an article collection written by WriteJSON.
func ReadJSON(path string) ([]article.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}

	var articles []article.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal articles: %w", err)
	}
	return articles, nil
}
