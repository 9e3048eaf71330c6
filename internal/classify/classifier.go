package classify

import (
	"strings"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/feed"
)

const snippetLimit = 200

// categoryKeywords is evaluated in order; the first category with a matching
// keyword wins. Others carries no keywords and is the catch-all.
var categoryKeywords = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryAIML, []string{
		"artificial intelligence", "machine learning", "deep learning",
		"neural network", "openai", "anthropic", "chatgpt", "gpt", "llm",
		"generative ai", " ai ", " ai-", " ai,", " ai.",
	}},
	{domain.CategoryStartups, []string{
		"startup", "funding round", "seed round", "series a", "series b",
		"venture capital", "accelerator", "unicorn", "founder", "ipo",
	}},
	{domain.CategoryCybersecurity, []string{
		"cybersecurity", "security", "ransomware", "malware", "data breach",
		"vulnerability", "phishing", "exploit", "hacker", "zero-day",
	}},
	{domain.CategoryMobile, []string{
		"android", "iphone", "ios", "smartphone", "mobile", "app store",
		"play store", "tablet", "wearable",
	}},
	{domain.CategoryWeb3, []string{
		"blockchain", "crypto", "bitcoin", "ethereum", "web3", "nft",
		"defi", "token", "stablecoin",
	}},
}

// Classify maps title+body text to a fixed category. It never fails to
// match: text without a recognized keyword lands in Others.
func Classify(title, body string) domain.Category {
	// Pad so the word-ish "ai" variants can match at text boundaries.
	text := " " + strings.ToLower(title+" "+body) + " "

	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.category
			}
		}
	}

	return domain.CategoryOthers
}

// Snippet produces a short display excerpt: cleansed body text truncated to
// the snippet budget, with an ellipsis only when truncation occurred.
func Snippet(body string) string {
	text := feed.CleanText(body)

	runes := []rune(text)
	if len(runes) <= snippetLimit {
		return text
	}
	return strings.TrimSpace(string(runes[:snippetLimit])) + "..."
}
