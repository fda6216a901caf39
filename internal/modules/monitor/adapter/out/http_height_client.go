package out

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	fetchTimeout = 5 * time.Second
	fetchRetries = 2
	retryDelay   = 500 * time.Millisecond
)

// HTTPHeightClient fetches the desk controller's current height. The
// endpoint answers {"table_height": <centimeters>}; the value converts to
// millimeters here so everything downstream works in integers.
type HTTPHeightClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPHeightClient(baseURL string) *HTTPHeightClient {
	return &HTTPHeightClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: fetchTimeout},
	}
}

func (c *HTTPHeightClient) HeightMM(ctx context.Context) (int, error) {
	var lastErr error
	for attempt := 0; attempt <= fetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
		mm, err := c.fetch(ctx)
		if err == nil {
			return mm, nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("fetch height from %s: %w", c.baseURL, lastErr)
}

func (c *HTTPHeightClient) fetch(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var payload struct {
		TableHeight *float64 `json:"table_height"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode height payload: %w", err)
	}
	if payload.TableHeight == nil {
		return 0, fmt.Errorf("height payload missing table_height")
	}
	return int(math.Round(*payload.TableHeight * 10)), nil
}
