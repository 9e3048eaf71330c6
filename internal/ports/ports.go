package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
)

// ArticleFilter narrows FindArticles queries. Zero values mean "no
// constraint"; Limit <= 0 means unbounded. Limit applies after the other
// predicates, so Unscored selection is not starved by already-scored rows.
type ArticleFilter struct {
	Category domain.Category
	Title    string
	Search   string
	Since    time.Time
	Unscored bool
	Limit    int
}

// SourceStore manages feed source configuration rows.
type SourceStore interface {
	ListSources(ctx context.Context, activeOnly bool) ([]domain.Source, error)
	CreateSource(ctx context.Context, src domain.Source) (domain.Source, error)
	UpdateSourceLastFetch(ctx context.Context, id uuid.UUID, when time.Time) error
}

// ArticleStore persists ingested articles and their enrichment fields.
type ArticleStore interface {
	FindArticles(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error)
	UpdateArticle(ctx context.Context, id uuid.UUID, upd domain.ArticleUpdate) error
}

// TrendStore persists aggregation output (append-only).
type TrendStore interface {
	CreateTrendingTopic(ctx context.Context, topic domain.TrendingTopic) error
	CreateRelatedArticle(ctx context.Context, edge domain.RelatedArticle) error
}

// TextService is the external language-model collaborator.
// AnalyzeSentiment returns a neutral result rather than failing when the
// backing model is unavailable; Embed returns an empty vector to signal
// "skip this article, do not fail the run".
type TextService interface {
	AnalyzeSentiment(ctx context.Context, text string) (domain.Sentiment, error)
	Embed(ctx context.Context, text string) ([]float64, error)
}

// FeedSource retrieves and extracts one feed document. A non-success
// transport status is an explicit error; retry policy belongs to the
// scheduler's fixed-interval re-invocation.
type FeedSource interface {
	FetchFeed(ctx context.Context, url string) (domain.Feed, error)
}
