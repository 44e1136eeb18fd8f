package feed

import (
	"strings"

	"github.com/folio-dev/folio/internal/models"
)

// CategoryKeywords maps each article category to the words that select it.
var CategoryKeywords = map[string][]string{
	"software":  {"react", "javascript", "typescript", "next.js", "development"},
	"web3":      {"blockchain", "web3", "defi", "nft", "solidity", "cairo"},
	"arts":      {"music", "composition", "culture", "folkloric"},
	"education": {"tutorial", "guide", "learning", "community"},
}

// FilterByCategory keeps the articles whose title or description mentions a
// keyword of category. An empty category keeps everything; an unknown one
// keeps nothing.
func FilterByCategory(articles []models.Article, category string) []models.Article {
	if category == "" {
		return articles
	}

	keywords := CategoryKeywords[strings.ToLower(category)]
	filtered := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if matchesAny(strings.ToLower(a.Title+" "+a.Description), keywords) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func matchesAny(content string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
