// Package classify calls the optional posting-risk classifier service. It is
// a soft enrichment source: every failure mode returns ok=false and the
// scoring path proceeds without it.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Assessment struct {
	Authenticity    float64 `json:"authenticity"`
	GhostLikelihood float64 `json:"ghost_likelihood"`
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *hostLimiter
	log     *zap.SugaredLogger
}

func NewClient(baseURL string, timeout time.Duration, ratePerSec float64, log *zap.SugaredLogger) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		limiter: newHostLimiter(ratePerSec, 2),
		log:     log,
	}
}

type assessRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Assess sends the posting's title and plain text for risk assessment.
// HTML input should go through HTMLToText first. Unavailability is a miss,
// never an error the caller must handle.
func (c *Client) Assess(ctx context.Context, title, text string) (Assessment, bool) {
	if c == nil || c.baseURL == "" {
		return Assessment{}, false
	}
	if err := c.limiter.waitURL(ctx, c.baseURL); err != nil {
		return Assessment{}, false
	}

	body, err := json.Marshal(assessRequest{Title: title, Text: text})
	if err != nil {
		return Assessment{}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Assessment{}, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debugw("classifier unreachable", "error", err)
		return Assessment{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debugw("classifier non-200", "status", resp.StatusCode)
		return Assessment{}, false
	}

	var a Assessment
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		c.log.Debugw("classifier bad response", "error", fmt.Errorf("decode assessment: %w", err))
		return Assessment{}, false
	}
	return a, true
}
