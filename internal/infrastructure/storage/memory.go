package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

// MemoryStore is an in-process record store used by tests and DSN-less local
// runs. Articles are kept in insertion order so queries are deterministic.
type MemoryStore struct {
	mu       sync.RWMutex
	sources  []domain.Source
	articles []domain.Article
	topics   []domain.TrendingTopic
	edges    []domain.RelatedArticle
}

var (
	_ ports.SourceStore  = (*MemoryStore)(nil)
	_ ports.ArticleStore = (*MemoryStore)(nil)
	_ ports.TrendStore   = (*MemoryStore)(nil)
)

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ListSources returns sources in creation order.
func (s *MemoryStore) ListSources(_ context.Context, activeOnly bool) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Source, 0, len(s.sources))
	for _, src := range s.sources {
		if activeOnly && !src.Active {
			continue
		}
		out = append(out, src)
	}
	return out, nil
}

// CreateSource stores a new source, assigning identity and creation time.
func (s *MemoryStore) CreateSource(_ context.Context, src domain.Source) (domain.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}
	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now()
	}
	s.sources = append(s.sources, src)
	return src, nil
}

// UpdateSourceLastFetch records a successful fetch pass for the source.
func (s *MemoryStore) UpdateSourceLastFetch(_ context.Context, id uuid.UUID, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sources {
		if s.sources[i].ID == id {
			t := when
			s.sources[i].LastFetchedAt = &t
			return nil
		}
	}
	return fmt.Errorf("source %s not found", id)
}

// FindArticles applies the filter over insertion order. Since constrains the
// row creation time, matching the SQL store.
func (s *MemoryStore) FindArticles(_ context.Context, filter ports.ArticleFilter) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Article
	for _, a := range s.articles {
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Title != "" && a.Title != filter.Title {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(a.Title), needle) &&
				!strings.Contains(strings.ToLower(a.Content), needle) {
				continue
			}
		}
		if !filter.Since.IsZero() && a.CreatedAt.Before(filter.Since) {
			continue
		}
		if filter.Unscored && a.Sentiment != nil {
			continue
		}
		out = append(out, a)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// CreateArticle stores a new article. The canonical URL is the storage-layer
// dedup key: inserting an existing URL is rejected.
func (s *MemoryStore) CreateArticle(_ context.Context, article domain.Article) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.articles {
		if a.URL == article.URL {
			return domain.Article{}, fmt.Errorf("article url %s already exists", article.URL)
		}
	}

	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now
	s.articles = append(s.articles, article)
	return article, nil
}

// UpdateArticle applies the non-nil enrichment fields.
func (s *MemoryStore) UpdateArticle(_ context.Context, id uuid.UUID, upd domain.ArticleUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.articles {
		if s.articles[i].ID != id {
			continue
		}
		if upd.Sentiment != nil {
			v := *upd.Sentiment
			s.articles[i].Sentiment = &v
		}
		if upd.SentimentScore != nil {
			v := *upd.SentimentScore
			s.articles[i].SentimentScore = &v
		}
		if upd.Embedding != nil {
			s.articles[i].Embedding = *upd.Embedding
		}
		s.articles[i].UpdatedAt = time.Now()
		return nil
	}
	return fmt.Errorf("article %s not found", id)
}

// CreateTrendingTopic appends one aggregation row.
func (s *MemoryStore) CreateTrendingTopic(_ context.Context, topic domain.TrendingTopic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	s.topics = append(s.topics, topic)
	return nil
}

// CreateRelatedArticle appends one directed similarity edge.
func (s *MemoryStore) CreateRelatedArticle(_ context.Context, edge domain.RelatedArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edges = append(s.edges, edge)
	return nil
}

// TrendingTopics snapshots all aggregation rows (test inspection).
func (s *MemoryStore) TrendingTopics() []domain.TrendingTopic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TrendingTopic(nil), s.topics...)
}

// RelatedArticles snapshots all similarity edges (test inspection).
func (s *MemoryStore) RelatedArticles() []domain.RelatedArticle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.RelatedArticle(nil), s.edges...)
}
