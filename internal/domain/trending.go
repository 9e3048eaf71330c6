package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrendingTopic is one day-bucketed mention count for a topic. Aggregation is
// append-only per run: multiple rows may exist per topic per day and readers
// must reduce across them.
type TrendingTopic struct {
	ID         uuid.UUID
	Date       time.Time
	Topic      string
	Mentions   int
	Category   string
	GrowthRate float64
}

// RelatedArticle is a directed similarity edge. A reverse relation requires
// its own edge.
type RelatedArticle struct {
	ArticleID uuid.UUID
	RelatedID uuid.UUID
	Score     float64
}
