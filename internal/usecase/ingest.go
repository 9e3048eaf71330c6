package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Akthar-Farvees/TechPlusNew/internal/classify"
	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

// pubDateLayouts are tried in order when parsing item publish dates.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// IngestorDeps wires the driven adapters into the ingestion coordinator.
type IngestorDeps struct {
	Sources   ports.SourceStore
	Articles  ports.ArticleStore
	Feeds     ports.FeedSource
	Bootstrap []domain.Source
	Logger    *slog.Logger
	Now       func() time.Time
}

// Ingestor runs the per-source fetch, dedup, classify, persist loop.
type Ingestor struct {
	sources   ports.SourceStore
	articles  ports.ArticleStore
	feeds     ports.FeedSource
	bootstrap []domain.Source
	logger    *slog.Logger
	now       func() time.Time
}

// NewIngestor constructs the coordinator.
func NewIngestor(deps IngestorDeps) *Ingestor {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		sources:   deps.Sources,
		articles:  deps.Articles,
		feeds:     deps.Feeds,
		bootstrap: deps.Bootstrap,
		logger:    logger,
		now:       now,
	}
}

// Run seeds bootstrap sources, then ingests every active source. One
// source's fetch failure is logged and skipped; it never aborts the run.
// The return value is the count of newly created articles, for diagnostics.
func (i *Ingestor) Run(ctx context.Context) (int, error) {
	if err := i.seedSources(ctx); err != nil {
		return 0, fmt.Errorf("seed sources: %w", err)
	}

	sources, err := i.sources.ListSources(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("list sources: %w", err)
	}

	created := 0
	for _, src := range sources {
		n, err := i.ingestSource(ctx, src)
		if err != nil {
			i.logger.Warn("skipping source for this run", "source", src.Name, "error", err)
			continue
		}
		created += n
	}

	i.logger.Info("ingestion run complete", "sources", len(sources), "new_articles", created)
	return created, nil
}

// seedSources creates any bootstrap source whose name is absent. Re-running
// against existing sources of the same name is a no-op per source.
func (i *Ingestor) seedSources(ctx context.Context) error {
	if len(i.bootstrap) == 0 {
		return nil
	}

	existing, err := i.sources.ListSources(ctx, false)
	if err != nil {
		return fmt.Errorf("list existing: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, src := range existing {
		known[src.Name] = true
	}

	for _, src := range i.bootstrap {
		if known[src.Name] {
			continue
		}
		if _, err := i.sources.CreateSource(ctx, src); err != nil {
			return fmt.Errorf("create source %s: %w", src.Name, err)
		}
		i.logger.Info("seeded source", "source", src.Name, "feed", src.FeedURL)
	}

	return nil
}

func (i *Ingestor) ingestSource(ctx context.Context, src domain.Source) (int, error) {
	doc, err := i.feeds.FetchFeed(ctx, src.FeedURL)
	if err != nil {
		return 0, fmt.Errorf("fetch feed: %w", err)
	}

	created := 0
	for _, item := range doc.Items {
		// Best-effort pre-insert duplicate signal; the url unique
		// constraint remains the real dedup key.
		existing, err := i.articles.FindArticles(ctx, ports.ArticleFilter{Title: item.Title, Limit: 1})
		if err != nil {
			i.logger.Warn("duplicate check failed", "title", item.Title, "error", err)
			continue
		}
		if len(existing) > 0 {
			continue
		}

		now := i.now()
		article := domain.Article{
			Title:       item.Title,
			URL:         item.Link,
			Content:     item.Description,
			Snippet:     classify.Snippet(item.Description),
			SourceID:    src.ID,
			PublishedAt: parsePubDate(item.PubDate, now),
			FetchedAt:   now,
			Category:    classify.Classify(item.Title, item.Description),
		}

		if _, err := i.articles.CreateArticle(ctx, article); err != nil {
			i.logger.Warn("persist article failed", "title", item.Title, "error", err)
			continue
		}
		created++
	}

	// Last-fetch is stamped even when zero new articles were found.
	if err := i.sources.UpdateSourceLastFetch(ctx, src.ID, i.now()); err != nil {
		i.logger.Warn("update last fetch failed", "source", src.Name, "error", err)
	}

	i.logger.Debug("source ingested", "source", src.Name, "items", len(doc.Items), "created", created)
	return created, nil
}

func parsePubDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}
