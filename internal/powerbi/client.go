package powerbi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fabmon/params"
	"github.com/cenkalti/backoff/v5"
)

// RawEvent is an upstream activity event before normalization. Field
// names vary by operation class; nothing outside the normalizer should
// ever look inside one.
type RawEvent = map[string]any

type activityPage struct {
	Events          []RawEvent `json:"activityEventEntities"`
	ContinuationURI string     `json:"continuationUri"`
}

// Client fetches activity events from the admin API. The API accepts
// at most one UTC day per request and pages results through a
// continuation URI.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int // per-request retry budget for 429 responses
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = params.ActivityBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: params.UpstreamRequestTimeout},
		maxRetries: params.RateLimitMaxRetries,
	}
}

// FetchDay returns every event of one UTC calendar day (YYYY-MM-DD),
// following continuation pages until the upstream omits the reference.
func (c *Client) FetchDay(ctx context.Context, token string, day string) ([]RawEvent, error) {
	query := url.Values{}
	query.Set("startDateTime", fmt.Sprintf("'%sT00:00:00.000Z'", day))
	query.Set("endDateTime", fmt.Sprintf("'%sT23:59:59.999Z'", day))
	next := fmt.Sprintf("%s/v1.0/myorg/admin/activityevents?%s", c.baseURL, query.Encode())

	var events []RawEvent
	for next != "" {
		page, err := c.fetchPage(ctx, token, next)
		if err != nil {
			return nil, err
		}
		events = append(events, page.Events...)
		next = page.ContinuationURI
	}
	return events, nil
}

// fetchPage retrieves one page, absorbing 429 responses by waiting the
// announced Retry-After before reissuing the same request. Retrying is
// a property of the single request; the pagination loop above never
// sees a 429.
func (c *Client) fetchPage(ctx context.Context, token string, pageURL string) (*activityPage, error) {
	rateLimited := 0
	operation := func() (*activityPage, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err // transient transport error, retry
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			rateLimited++
			if rateLimited > c.maxRetries {
				return nil, backoff.Permanent(&RateLimitError{Attempts: c.maxRetries})
			}
			return nil, backoff.RetryAfter(retryAfterSeconds(resp))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, backoff.Permanent(&UpstreamError{Status: resp.StatusCode, Body: string(body)})
		}

		var page activityPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decode activity page: %w", err))
		}
		return &page, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
	)
}

func retryAfterSeconds(resp *http.Response) int {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return secs
		}
	}
	return int(params.RateLimitDefaultWait / time.Second)
}
