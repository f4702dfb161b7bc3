package article

// Article is a single normalized article record. Every field is populated;
// values that could not be extracted collapse to a deterministic fallback.
type Article struct {
	Title           string  `json:"title"`
	Publication     string  `json:"publication"`
	PublicationLogo string  `json:"publicationLogo"`
	PublishDate     string  `json:"publishDate"`
	Category        string  `json:"category"`
	Excerpt         string  `json:"excerpt"`
	Image           string  `json:"image"`
	ReadTime        string  `json:"readTime"`
	Author          string  `json:"author"`
	Link            string  `json:"link"`
	Metrics         Metrics `json:"metrics"`
}

// Metrics holds display strings for engagement figures. They are generated,
// not measured.
type Metrics struct {
	Views      string `json:"views"`
	Shares     string `json:"shares"`
	Engagement string `json:"engagement"`
}

// Complete reports whether every field of the article is non-empty.
func (a Article) Complete() bool {
	fields := []string{
		a.Title, a.Publication, a.PublicationLogo, a.PublishDate,
		a.Category, a.Excerpt, a.Image, a.ReadTime, a.Author, a.Link,
		a.Metrics.Views, a.Metrics.Shares, a.Metrics.Engagement,
	}
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}

// ContainsLink reports whether any article in articles has the given link.
func ContainsLink(articles []Article, link string) bool {
	for _, a := range articles {
		if a.Link == link {
			return true
		}
	}
	return false
}
