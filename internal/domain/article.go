package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the fixed classification enumeration for articles.
type Category string

const (
	CategoryAIML          Category = "AI/ML"
	CategoryStartups      Category = "Startups"
	CategoryCybersecurity Category = "Cybersecurity"
	CategoryMobile        Category = "Mobile"
	CategoryWeb3          Category = "Web3"
	CategoryOthers        Category = "Others"
)

// Categories lists every category in classifier match order; Others is the
// catch-all and must stay last.
var Categories = []Category{
	CategoryAIML,
	CategoryStartups,
	CategoryCybersecurity,
	CategoryMobile,
	CategoryWeb3,
	CategoryOthers,
}

// Article is one ingested content item with derived metadata.
// URL is the sole dedup key at the storage layer; Title equality is used as a
// pre-insert duplicate signal by the ingestion coordinator.
type Article struct {
	ID             uuid.UUID
	Title          string
	URL            string
	Content        string
	Snippet        string
	SourceID       uuid.UUID
	PublishedAt    time.Time
	FetchedAt      time.Time
	Category       Category
	Sentiment      *string
	SentimentScore *float64
	Embedding      string
	Views          int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ArticleUpdate carries the optional fields an enrichment stage may set.
// Nil pointers leave the stored value untouched.
type ArticleUpdate struct {
	Sentiment      *string
	SentimentScore *float64
	Embedding      *string
}

// RawFeedItem is the extractor's output unit. It is ephemeral: the ingestion
// coordinator consumes it immediately and it is never persisted.
type RawFeedItem struct {
	Title       string
	Link        string
	Description string
	PubDate     string
	GUID        string
}

// Feed is the extractor's view of one fetched feed document: a display title
// and the items in document order. Like RawFeedItem it is never persisted.
type Feed struct {
	Title string
	Items []RawFeedItem
}

// Sentiment is the result of a sentiment analysis call.
type Sentiment struct {
	Label      string
	Score      float64
	Confidence float64
}
