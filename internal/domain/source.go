package domain

import (
	"time"

	"github.com/google/uuid"
)

// Source is a configured origin of syndicated content. The pipeline only
// reads source configuration; the single field it mutates is LastFetchedAt.
type Source struct {
	ID               uuid.UUID
	Name             string
	SiteURL          string
	FeedURL          string
	Active           bool
	FetchIntervalSec int
	LastFetchedAt    *time.Time
	CreatedAt        time.Time
}
