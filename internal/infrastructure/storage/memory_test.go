package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

func mustCreate(t *testing.T, store *MemoryStore, article domain.Article) domain.Article {
	t.Helper()
	created, err := store.CreateArticle(context.Background(), article)
	require.NoError(t, err)
	return created
}

func TestCreateArticleRejectsDuplicateURL(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	mustCreate(t, store, domain.Article{Title: "one", URL: "https://example.com/x"})

	_, err := store.CreateArticle(context.Background(), domain.Article{Title: "two", URL: "https://example.com/x"})
	require.Error(t, err, "canonical URL is the storage-layer dedup key")
}

func TestFindArticlesFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryStore()
	mustCreate(t, store, domain.Article{
		Title: "AI wave", URL: "https://e.com/1",
		Content: "neural nets everywhere", Category: domain.CategoryAIML,
	})
	mustCreate(t, store, domain.Article{
		Title: "Crypto dip", URL: "https://e.com/2",
		Content: "bitcoin falls", Category: domain.CategoryWeb3,
	})
	mustCreate(t, store, domain.Article{
		Title: "AI wave two", URL: "https://e.com/3",
		Content: "more models", Category: domain.CategoryAIML,
	})

	byCategory, err := store.FindArticles(ctx, ports.ArticleFilter{Category: domain.CategoryAIML})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byTitle, err := store.FindArticles(ctx, ports.ArticleFilter{Title: "Crypto dip"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "https://e.com/2", byTitle[0].URL)

	bySearch, err := store.FindArticles(ctx, ports.ArticleFilter{Search: "bitcoin"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Crypto dip", bySearch[0].Title)

	limited, err := store.FindArticles(ctx, ports.ArticleFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	future, err := store.FindArticles(ctx, ports.ArticleFilter{Since: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestFindArticlesUnscoredAppliesBeforeLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryStore()
	label := "neutral"
	for i := 0; i < 3; i++ {
		mustCreate(t, store, domain.Article{
			Title:     fmt.Sprintf("scored %d", i),
			URL:       fmt.Sprintf("https://e.com/scored-%d", i),
			Sentiment: &label,
		})
	}
	unscored := mustCreate(t, store, domain.Article{Title: "fresh", URL: "https://e.com/fresh"})

	// The limit must count matching rows, not skipped scored ones.
	got, err := store.FindArticles(ctx, ports.ArticleFilter{Unscored: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, unscored.ID, got[0].ID)
}

func TestUpdateArticlePartialFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryStore()
	article := mustCreate(t, store, domain.Article{Title: "t", URL: "https://e.com/1"})

	label := "positive"
	score := 0.7
	require.NoError(t, store.UpdateArticle(ctx, article.ID, domain.ArticleUpdate{
		Sentiment:      &label,
		SentimentScore: &score,
	}))

	emb := "0.1,0.2"
	require.NoError(t, store.UpdateArticle(ctx, article.ID, domain.ArticleUpdate{Embedding: &emb}))

	got, err := store.FindArticles(ctx, ports.ArticleFilter{Title: "t"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Sentiment)
	assert.Equal(t, "positive", *got[0].Sentiment)
	require.NotNil(t, got[0].SentimentScore)
	assert.InDelta(t, 0.7, *got[0].SentimentScore, 1e-9)
	assert.Equal(t, "0.1,0.2", got[0].Embedding, "later partial updates keep earlier fields")
}

func TestSourceLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryStore()
	active, err := store.CreateSource(ctx, domain.Source{Name: "A", FeedURL: "https://a/feed", Active: true})
	require.NoError(t, err)
	_, err = store.CreateSource(ctx, domain.Source{Name: "B", FeedURL: "https://b/feed", Active: false})
	require.NoError(t, err)

	all, err := store.ListSources(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	activeOnly, err := store.ListSources(ctx, true)
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, "A", activeOnly[0].Name)

	when := time.Now()
	require.NoError(t, store.UpdateSourceLastFetch(ctx, active.ID, when))

	all, err = store.ListSources(ctx, false)
	require.NoError(t, err)
	for _, src := range all {
		if src.ID == active.ID {
			require.NotNil(t, src.LastFetchedAt)
			assert.True(t, src.LastFetchedAt.Equal(when))
		}
	}
}
