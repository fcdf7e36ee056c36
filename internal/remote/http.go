package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dcraven/sift/internal/domain"
)

const defaultTimeout = 10 * time.Second

// HTTPClient pushes feedback status to the remote system of record over its
// entity-status endpoint.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type statusPayload struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}

type viewedPayload struct {
	Viewed bool `json:"viewed"`
}

func (c *HTTPClient) SendStatus(ctx context.Context, entityType domain.EntityType, entityID string, liked, disliked bool) error {
	return c.post(ctx, entityType, entityID, statusPayload{Liked: liked, Disliked: disliked})
}

func (c *HTTPClient) SendViewed(ctx context.Context, entityType domain.EntityType, entityID string) error {
	return c.post(ctx, entityType, entityID, viewedPayload{Viewed: true})
}

func (c *HTTPClient) post(ctx context.Context, entityType domain.EntityType, entityID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal status payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/entity-status/%s/%s",
		c.baseURL, url.PathEscape(string(entityType)), url.PathEscape(entityID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status request returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
