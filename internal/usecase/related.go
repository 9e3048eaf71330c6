package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

const (
	linkerWindow        = 7 * 24 * time.Hour
	linkerSampleLimit   = 100
	linkerMaxCandidates = 5
	linkerMinScore      = 0.3
)

// LinkerDeps wires the related-article linker.
type LinkerDeps struct {
	Articles ports.ArticleStore
	Trends   ports.TrendStore
	Text     ports.TextService
	Logger   *slog.Logger
	Now      func() time.Time
}

// Linker stores embeddings for recent articles and persists similarity edges
// between same-category articles.
type Linker struct {
	articles ports.ArticleStore
	trends   ports.TrendStore
	text     ports.TextService
	logger   *slog.Logger
	now      func() time.Time
}

// NewLinker constructs the linker.
func NewLinker(deps LinkerDeps) *Linker {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{
		articles: deps.Articles,
		trends:   deps.Trends,
		text:     deps.Text,
		logger:   logger,
		now:      now,
	}
}

// Run samples the last week of articles. Per article with content it stores
// an embedding (an empty vector means skip, not fail) and links up to five
// same-category candidates whose title overlap clears the score threshold.
//
// The stored embedding is not yet consumed by the similarity computation:
// ranking is title-word Jaccard overlap until cosine scoring is wired in.
func (l *Linker) Run(ctx context.Context) error {
	since := l.now().Add(-linkerWindow)

	articles, err := l.articles.FindArticles(ctx, ports.ArticleFilter{Since: since, Limit: linkerSampleLimit})
	if err != nil {
		return fmt.Errorf("find recent articles: %w", err)
	}

	byCategory := map[domain.Category][]domain.Article{}
	for _, article := range articles {
		byCategory[article.Category] = append(byCategory[article.Category], article)
	}

	linked := 0
	for _, article := range articles {
		if article.Content == "" {
			continue
		}

		vector, err := l.text.Embed(ctx, article.Title+"\n\n"+article.Content)
		if err != nil {
			l.logger.Warn("embedding request failed", "article", article.ID, "error", err)
			continue
		}
		if len(vector) == 0 {
			continue
		}

		encoded := encodeVector(vector)
		if err := l.articles.UpdateArticle(ctx, article.ID, domain.ArticleUpdate{Embedding: &encoded}); err != nil {
			l.logger.Warn("persist embedding failed", "article", article.ID, "error", err)
		}

		considered := 0
		for _, candidate := range byCategory[article.Category] {
			if candidate.ID == article.ID {
				continue
			}
			if considered >= linkerMaxCandidates {
				break
			}
			considered++

			score := TitleSimilarity(article.Title, candidate.Title)
			if score <= linkerMinScore {
				continue
			}

			edge := domain.RelatedArticle{
				ArticleID: article.ID,
				RelatedID: candidate.ID,
				Score:     score,
			}
			if err := l.trends.CreateRelatedArticle(ctx, edge); err != nil {
				l.logger.Warn("persist related edge failed",
					"article", article.ID, "related", candidate.ID, "error", err)
				continue
			}
			linked++
		}
	}

	l.logger.Debug("linker run complete", "sampled", len(articles), "edges", linked)
	return nil
}

// TitleSimilarity is the Jaccard index over the two titles' distinct
// lowercased word sets: identical titles score 1.0, disjoint ones 0.0.
func TitleSimilarity(a, b string) float64 {
	wordsA := titleWords(a)
	wordsB := titleWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	shared := 0
	for w := range wordsA {
		if wordsB[w] {
			shared++
		}
	}

	union := len(wordsA) + len(wordsB) - shared
	return float64(shared) / float64(union)
}

func titleWords(title string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}
	return words
}

func encodeVector(vector []float64) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
