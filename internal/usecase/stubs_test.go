package usecase

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
)

// stubFeedSource serves canned documents keyed by feed URL.
type stubFeedSource struct {
	docs  map[string]domain.Feed
	calls int
}

func (s *stubFeedSource) FetchFeed(_ context.Context, url string) (domain.Feed, error) {
	s.calls++
	doc, ok := s.docs[url]
	if !ok {
		return domain.Feed{}, errors.New("feed unreachable")
	}
	return doc, nil
}

// stubTextService returns fixed sentiment/embedding results.
type stubTextService struct {
	sentiment    domain.Sentiment
	sentimentErr error
	vector       []float64
	embedErr     error

	analyzeCalls int
	embedCalls   int
}

func (s *stubTextService) AnalyzeSentiment(_ context.Context, _ string) (domain.Sentiment, error) {
	s.analyzeCalls++
	if s.sentimentErr != nil {
		return domain.Sentiment{}, s.sentimentErr
	}
	return s.sentiment, nil
}

func (s *stubTextService) Embed(_ context.Context, _ string) ([]float64, error) {
	s.embedCalls++
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return s.vector, nil
}

// countingStage records how many times a scheduler stage ran; an optional
// gate blocks the run until released.
type countingStage struct {
	runs    atomic.Int64
	started chan struct{}
	release chan struct{}
}

func (c *countingStage) Run(_ context.Context) error {
	c.runs.Add(1)
	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.release != nil {
		<-c.release
	}
	return nil
}

// countingIngest adapts countingStage to the ingest signature.
type countingIngest struct {
	countingStage
}

func (c *countingIngest) Run(ctx context.Context) (int, error) {
	return 0, c.countingStage.Run(ctx)
}
