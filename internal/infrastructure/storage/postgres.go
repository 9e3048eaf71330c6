package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

// PostgresStore is the production record store.
type PostgresStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var (
	_ ports.SourceStore  = (*PostgresStore)(nil)
	_ ports.ArticleStore = (*PostgresStore)(nil)
	_ ports.TrendStore   = (*PostgresStore)(nil)
)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sources (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		site_url TEXT NOT NULL DEFAULT '',
		feed_url TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		fetch_interval_sec INT NOT NULL DEFAULT 300,
		last_fetched_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL DEFAULT '',
		snippet TEXT NOT NULL DEFAULT '',
		source_id UUID,
		published_at TIMESTAMPTZ NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL,
		category TEXT NOT NULL DEFAULT 'Others',
		sentiment TEXT,
		sentiment_score DOUBLE PRECISION,
		embedding TEXT NOT NULL DEFAULT '',
		views BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trending_topics (
		id UUID PRIMARY KEY,
		date DATE NOT NULL,
		topic TEXT NOT NULL,
		mentions INT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		growth_rate DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS related_articles (
		article_id UUID NOT NULL,
		related_id UUID NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (article_id, related_id)
	)`,
}

// EnsureSchema creates the pipeline tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ListSources returns sources ordered by creation.
func (s *PostgresStore) ListSources(ctx context.Context, activeOnly bool) ([]domain.Source, error) {
	builder := s.sb.
		Select("id", "name", "site_url", "feed_url", "active", "fetch_interval_sec", "last_fetched_at", "created_at").
		From("sources").
		OrderBy("created_at ASC")
	if activeOnly {
		builder = builder.Where(sq.Eq{"active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sources query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var (
			src         domain.Source
			lastFetched sql.NullTime
		)
		if err := rows.Scan(&src.ID, &src.Name, &src.SiteURL, &src.FeedURL,
			&src.Active, &src.FetchIntervalSec, &lastFetched, &src.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		if lastFetched.Valid {
			t := lastFetched.Time
			src.LastFetchedAt = &t
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return sources, nil
}

// CreateSource inserts a new source row.
func (s *PostgresStore) CreateSource(ctx context.Context, src domain.Source) (domain.Source, error) {
	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}
	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now()
	}

	query, args, err := s.sb.
		Insert("sources").
		Columns("id", "name", "site_url", "feed_url", "active", "fetch_interval_sec", "created_at").
		Values(src.ID, src.Name, src.SiteURL, src.FeedURL, src.Active, src.FetchIntervalSec, src.CreatedAt).
		ToSql()
	if err != nil {
		return domain.Source{}, fmt.Errorf("build source insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Source{}, fmt.Errorf("insert source: %w", err)
	}
	return src, nil
}

// UpdateSourceLastFetch stamps the source's last successful fetch pass.
func (s *PostgresStore) UpdateSourceLastFetch(ctx context.Context, id uuid.UUID, when time.Time) error {
	query, args, err := s.sb.
		Update("sources").
		Set("last_fetched_at", when).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build last-fetch update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update last fetch: %w", err)
	}
	return nil
}

// FindArticles applies the filter; Since constrains row creation time.
func (s *PostgresStore) FindArticles(ctx context.Context, filter ports.ArticleFilter) ([]domain.Article, error) {
	builder := s.sb.
		Select("id", "title", "url", "content", "snippet", "source_id",
			"published_at", "fetched_at", "category", "sentiment",
			"sentiment_score", "embedding", "views", "created_at", "updated_at").
		From("articles").
		OrderBy("created_at ASC")

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": string(filter.Category)})
	}
	if filter.Title != "" {
		builder = builder.Where(sq.Eq{"title": filter.Title})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"content": pattern},
		})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.Since})
	}
	if filter.Unscored {
		builder = builder.Where(sq.Eq{"sentiment": nil})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build articles query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var (
			a         domain.Article
			sourceID  uuid.NullUUID
			sentiment sql.NullString
			score     sql.NullFloat64
			category  string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &a.Content, &a.Snippet,
			&sourceID, &a.PublishedAt, &a.FetchedAt, &category, &sentiment,
			&score, &a.Embedding, &a.Views, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Category = domain.Category(category)
		if sourceID.Valid {
			a.SourceID = sourceID.UUID
		}
		if sentiment.Valid {
			v := sentiment.String
			a.Sentiment = &v
		}
		if score.Valid {
			v := score.Float64
			a.SentimentScore = &v
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// CreateArticle inserts a new article row; the url unique constraint rejects
// storage-level duplicates.
func (s *PostgresStore) CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	var sourceID any
	if article.SourceID != uuid.Nil {
		sourceID = article.SourceID
	}

	query, args, err := s.sb.
		Insert("articles").
		Columns("id", "title", "url", "content", "snippet", "source_id",
			"published_at", "fetched_at", "category", "embedding", "views",
			"created_at", "updated_at").
		Values(article.ID, article.Title, article.URL, article.Content,
			article.Snippet, sourceID, article.PublishedAt, article.FetchedAt,
			string(article.Category), article.Embedding, article.Views,
			article.CreatedAt, article.UpdatedAt).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build article insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Article{}, fmt.Errorf("insert article: %w", err)
	}
	return article, nil
}

// UpdateArticle applies the non-nil enrichment fields.
func (s *PostgresStore) UpdateArticle(ctx context.Context, id uuid.UUID, upd domain.ArticleUpdate) error {
	builder := s.sb.Update("articles").Where(sq.Eq{"id": id})

	changed := false
	if upd.Sentiment != nil {
		builder = builder.Set("sentiment", *upd.Sentiment)
		changed = true
	}
	if upd.SentimentScore != nil {
		builder = builder.Set("sentiment_score", *upd.SentimentScore)
		changed = true
	}
	if upd.Embedding != nil {
		builder = builder.Set("embedding", *upd.Embedding)
		changed = true
	}
	if !changed {
		return nil
	}
	builder = builder.Set("updated_at", time.Now())

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build article update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// CreateTrendingTopic appends one aggregation row; repeated runs add rows
// rather than upserting.
func (s *PostgresStore) CreateTrendingTopic(ctx context.Context, topic domain.TrendingTopic) error {
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}

	query, args, err := s.sb.
		Insert("trending_topics").
		Columns("id", "date", "topic", "mentions", "category", "growth_rate").
		Values(topic.ID, topic.Date, topic.Topic, topic.Mentions, topic.Category, topic.GrowthRate).
		ToSql()
	if err != nil {
		return fmt.Errorf("build trending insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert trending topic: %w", err)
	}
	return nil
}

// CreateRelatedArticle inserts one directed edge; re-linking the same pair on
// a later run is not an error.
func (s *PostgresStore) CreateRelatedArticle(ctx context.Context, edge domain.RelatedArticle) error {
	query, args, err := s.sb.
		Insert("related_articles").
		Columns("article_id", "related_id", "score").
		Values(edge.ArticleID, edge.RelatedID, edge.Score).
		Suffix("ON CONFLICT (article_id, related_id) DO UPDATE SET score = EXCLUDED.score").
		ToSql()
	if err != nil {
		return fmt.Errorf("build edge insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert related edge: %w", err)
	}
	return nil
}
