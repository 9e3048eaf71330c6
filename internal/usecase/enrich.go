package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

const enrichSampleLimit = 100

// EnricherDeps wires the sentiment pass.
type EnricherDeps struct {
	Articles ports.ArticleStore
	Text     ports.TextService
	Logger   *slog.Logger
	Location *time.Location
	Now      func() time.Time
}

// Enricher applies sentiment scoring to unscored recent articles.
type Enricher struct {
	articles ports.ArticleStore
	text     ports.TextService
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewEnricher constructs the enrichment pass.
func NewEnricher(deps EnricherDeps) *Enricher {
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
	return &Enricher{
		articles: deps.Articles,
		text:     deps.Text,
		logger:   logger,
		loc:      loc,
		now:      now,
	}
}

// Run scores today's unscored articles that carry content. A failure on one
// article is logged and does not abort the pass; the article stays unscored
// and is picked up again next cycle.
func (e *Enricher) Run(ctx context.Context) error {
	since := startOfDay(e.now().In(e.loc))

	// Filtering on Unscored in the store keeps already-scored rows from
	// eating the sample limit on busy days.
	articles, err := e.articles.FindArticles(ctx, ports.ArticleFilter{
		Since:    since,
		Unscored: true,
		Limit:    enrichSampleLimit,
	})
	if err != nil {
		return fmt.Errorf("find recent articles: %w", err)
	}

	scored := 0
	for _, article := range articles {
		if article.Content == "" {
			continue
		}

		result, err := e.text.AnalyzeSentiment(ctx, article.Title+"\n\n"+article.Content)
		if err != nil {
			e.logger.Warn("sentiment analysis failed", "article", article.ID, "error", err)
			continue
		}

		label := result.Label
		score := result.Score
		upd := domain.ArticleUpdate{Sentiment: &label, SentimentScore: &score}
		if err := e.articles.UpdateArticle(ctx, article.ID, upd); err != nil {
			e.logger.Warn("sentiment update failed", "article", article.ID, "error", err)
			continue
		}
		scored++
	}

	e.logger.Debug("enrichment pass complete", "candidates", len(articles), "scored", scored)
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
