package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
)

// maxFeedBytes bounds how much of a feed document is read per fetch.
const maxFeedBytes = 4 << 20

// Fetcher retrieves a feed document over HTTP and hands the raw text to the
// extractor. A non-success status is a fetch failure; retrying is left to the
// scheduler's fixed-interval re-invocation.
type Fetcher struct {
	client    *http.Client
	extractor *Extractor
	logger    *slog.Logger
}

var _ ports.FeedSource = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; a nil client gets a 20s-timeout default.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, extractor: NewExtractor(), logger: logger}
}

// FetchFeed downloads the document at url and extracts its items.
func (f *Fetcher) FetchFeed(ctx context.Context, url string) (domain.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TechPlusNew/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Feed{}, fmt.Errorf("feed returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return domain.Feed{}, fmt.Errorf("read feed body: %w", err)
	}
	if len(raw) > maxFeedBytes {
		raw = raw[:maxFeedBytes]
		f.logger.Warn("feed exceeds size cap, ingesting truncated document",
			"url", url, "cap_bytes", maxFeedBytes)
	}

	return f.extractor.Extract(string(raw)), nil
}
