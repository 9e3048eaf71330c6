package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/infrastructure/storage"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

func TestTitleSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical titles", "OpenAI ships new model", "OpenAI ships new model", 1.0},
		{"case and punctuation ignored", "OpenAI ships, new model!", "openai SHIPS new model", 1.0},
		{"no shared words", "quantum computing advances", "bakery wins award", 0.0},
		{"partial overlap", "OpenAI launches new model", "OpenAI launches new product", 0.6},
		{"empty title", "", "anything", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TitleSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestLinkerPersistsEmbeddingsAndEdges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	a := seedArticle(t, store, domain.Article{
		Title:    "OpenAI launches new model",
		URL:      "https://example.com/a",
		Content:  "body a",
		Category: domain.CategoryAIML,
	})
	b := seedArticle(t, store, domain.Article{
		Title:    "OpenAI launches new product",
		URL:      "https://example.com/b",
		Content:  "body b",
		Category: domain.CategoryAIML,
	})
	// Same category but dissimilar title: below the 0.3 threshold.
	c := seedArticle(t, store, domain.Article{
		Title:    "Robotics lab tours the midwest",
		URL:      "https://example.com/c",
		Content:  "body c",
		Category: domain.CategoryAIML,
	})
	// Similar title but different category: never a candidate.
	seedArticle(t, store, domain.Article{
		Title:    "OpenAI launches new model",
		URL:      "https://example.com/d",
		Content:  "body d",
		Category: domain.CategoryOthers,
	})

	text := &stubTextService{vector: []float64{0.25, -0.5}}
	linker := NewLinker(LinkerDeps{Articles: store, Trends: store, Text: text})

	require.NoError(t, linker.Run(ctx))

	articles, err := store.FindArticles(ctx, ports.ArticleFilter{Category: domain.CategoryAIML})
	require.NoError(t, err)
	for _, art := range articles {
		assert.Equal(t, "0.25,-0.5", art.Embedding, "embedding stored for %s", art.Title)
	}

	edges := store.RelatedArticles()
	scores := map[[2]string]float64{}
	for _, e := range edges {
		scores[[2]string{e.ArticleID.String(), e.RelatedID.String()}] = e.Score
	}

	assert.InDelta(t, 0.6, scores[[2]string{a.ID.String(), b.ID.String()}], 1e-9)
	assert.InDelta(t, 0.6, scores[[2]string{b.ID.String(), a.ID.String()}], 1e-9,
		"edges are directed; the reverse relation is its own row")

	for key := range scores {
		assert.NotEqual(t, c.ID.String(), key[0], "dissimilar article must produce no outgoing edge")
		assert.NotEqual(t, c.ID.String(), key[1], "dissimilar article must receive no edge")
	}
}

func TestLinkerSkipsWithoutEmbedding(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	seedArticle(t, store, domain.Article{
		Title:    "OpenAI launches new model",
		URL:      "https://example.com/a",
		Content:  "body a",
		Category: domain.CategoryAIML,
	})
	seedArticle(t, store, domain.Article{
		Title:    "OpenAI launches new product",
		URL:      "https://example.com/b",
		Content:  "body b",
		Category: domain.CategoryAIML,
	})

	// Empty vector signals "skip, do not fail".
	text := &stubTextService{vector: nil}
	linker := NewLinker(LinkerDeps{Articles: store, Trends: store, Text: text})

	require.NoError(t, linker.Run(ctx))
	assert.Empty(t, store.RelatedArticles())
	assert.Equal(t, 2, text.embedCalls)
}

func TestLinkerIgnoresContentlessArticles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	seedArticle(t, store, domain.Article{
		Title:    "No body at all",
		URL:      "https://example.com/a",
		Category: domain.CategoryOthers,
	})

	text := &stubTextService{vector: []float64{1}}
	linker := NewLinker(LinkerDeps{Articles: store, Trends: store, Text: text})

	require.NoError(t, linker.Run(ctx))
	assert.Zero(t, text.embedCalls)
}
