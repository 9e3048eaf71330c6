package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Akthar-Farvees/TechPlusNew/internal/config"
)

// Client talks to an OpenAI-compatible embeddings API.
//
// An unconfigured client (missing key or endpoint) returns an empty vector
// instead of an error: callers treat an empty vector as "skip this article",
// so a missing API key degrades the linker rather than failing the run.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.LLMConfig) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Embed requests an embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if c.apiKey == "" || c.endpoint == "" || text == "" {
		return nil, nil
	}

	payload := map[string]any{
		"model": c.model,
		"input": text,
	}

	var resp struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}

	if err := c.post(ctx, "/embeddings", payload, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, nil
	}
	return resp.Data[0].Embedding, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
