package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

const (
	trendingSampleLimit = 200
	globalTopN          = 20
	globalMinMentions   = 3
	categoryTopN        = 10
	categoryMinMentions = 2
)

// techVocabulary is the curated fixed term list matched by substring against
// lowercased article text.
var techVocabulary = []string{
	"ai", "artificial intelligence", "machine learning", "deep learning",
	"chatgpt", "openai", "anthropic", "llm", "neural network",
	"google", "apple", "microsoft", "meta", "amazon", "nvidia", "tesla",
	"startup", "funding", "venture capital", "ipo", "acquisition", "layoffs",
	"crypto", "bitcoin", "ethereum", "blockchain", "web3", "nft", "defi",
	"cybersecurity", "ransomware", "data breach", "malware", "privacy",
	"android", "iphone", "ios", "smartphone", "app store",
	"cloud", "saas", "kubernetes", "open source", "api",
	"chip", "semiconductor", "quantum", "robotics", "5g",
	"vr", "ar", "metaverse", "gaming", "streaming",
	"ev", "battery", "space", "satellite", "climate tech",
	"regulation", "antitrust", "data",
}

// properNounExpr finds multi-word capitalized phrases treated as proper-noun
// topic candidates.
var properNounExpr = regexp.MustCompile(`\b[A-Z][A-Za-z0-9]*(?:\s+[A-Z][A-Za-z0-9]*)+\b`)

// TrenderDeps wires the trending aggregator.
type TrenderDeps struct {
	Articles ports.ArticleStore
	Trends   ports.TrendStore
	Logger   *slog.Logger
	Location *time.Location
	Now      func() time.Time
}

// Trender derives day-bucketed trending topics from recent articles.
type Trender struct {
	articles ports.ArticleStore
	trends   ports.TrendStore
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewTrender constructs the aggregator.
func NewTrender(deps TrenderDeps) *Trender {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Trender{
		articles: deps.Articles,
		trends:   deps.Trends,
		logger:   logger,
		loc:      loc,
		now:      now,
	}
}

// Run samples today's articles, counts keyword mentions globally and per
// category, and appends ranked topic rows. Records are append-only: repeated
// runs accumulate rows and readers reduce per day/topic.
func (t *Trender) Run(ctx context.Context) error {
	day := startOfDay(t.now().In(t.loc))

	articles, err := t.articles.FindArticles(ctx, ports.ArticleFilter{Since: day, Limit: trendingSampleLimit})
	if err != nil {
		return fmt.Errorf("find recent articles: %w", err)
	}

	global := map[string]int{}
	perCategory := map[domain.Category]map[string]int{}

	for _, article := range articles {
		for _, kw := range ExtractKeywords(article.Title + " " + article.Snippet) {
			global[kw]++
			if perCategory[article.Category] == nil {
				perCategory[article.Category] = map[string]int{}
			}
			perCategory[article.Category][kw]++
		}
	}

	persisted := 0
	for _, tc := range rankTopics(global, globalTopN) {
		if tc.count < globalMinMentions {
			continue
		}
		record := domain.TrendingTopic{
			Date:       day,
			Topic:      tc.topic,
			Mentions:   tc.count,
			GrowthRate: growthRate(tc.count),
		}
		if err := t.trends.CreateTrendingTopic(ctx, record); err != nil {
			t.logger.Warn("persist trending topic failed", "topic", tc.topic, "error", err)
			continue
		}
		persisted++
	}

	for category, counts := range perCategory {
		for _, tc := range rankTopics(counts, categoryTopN) {
			if tc.count < categoryMinMentions {
				continue
			}
			record := domain.TrendingTopic{
				Date:       day,
				Topic:      tc.topic,
				Mentions:   tc.count,
				Category:   string(category),
				GrowthRate: growthRate(tc.count),
			}
			if err := t.trends.CreateTrendingTopic(ctx, record); err != nil {
				t.logger.Warn("persist trending topic failed",
					"topic", tc.topic, "category", category, "error", err)
				continue
			}
			persisted++
		}
	}

	t.logger.Debug("trending run complete", "sampled", len(articles), "records", persisted)
	return nil
}

// ExtractKeywords derives an article's deduplicated keyword set: curated
// vocabulary matches plus lowercased multi-word capitalized phrases.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)

	// Short terms match against word tokens so "ai" counts next to
	// punctuation ("in AI, say") but stays out of "air".
	tokens := map[string]bool{}
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[w] = true
	}

	seen := map[string]bool{}
	var keywords []string

	for _, term := range techVocabulary {
		matched := tokens[term]
		if !matched && len(term) > 3 {
			matched = strings.Contains(lower, term)
		}
		if matched && !seen[term] {
			seen[term] = true
			keywords = append(keywords, term)
		}
	}

	for _, phrase := range properNounExpr.FindAllString(text, -1) {
		kw := strings.ToLower(strings.Join(strings.Fields(phrase), " "))
		if !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}

	return keywords
}

type topicCount struct {
	topic string
	count int
}

// rankTopics orders by count descending with the topic string breaking ties,
// then truncates to n.
func rankTopics(counts map[string]int, n int) []topicCount {
	ranked := make([]topicCount, 0, len(counts))
	for topic, count := range counts {
		ranked = append(ranked, topicCount{topic: topic, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].topic < ranked[j].topic
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// growthRate is a monotonic function of the current count only: there is no
// period-over-period comparison, so this is a coarse signal, kept
// non-negative and bounded at 100.
func growthRate(mentions int) float64 {
	return math.Min(float64(mentions)*10, 100)
}
